package models

// Subject represents an academic subject.
type Subject struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
	Code string `db:"code" json:"code"`
}

func (s Subject) EntityID() int64 { return s.ID }

func (s Subject) WithEntityID(id int64) Subject {
	s.ID = id
	return s
}

package models

// Teacher represents an instructor record.
type Teacher struct {
	ID            int64  `db:"id" json:"id"`
	UserID        int64  `db:"user_id" json:"user_id"`
	Name          string `db:"name" json:"name"`
	Department    string `db:"department" json:"department"`
	Phone         string `db:"phone" json:"phone"`
	Qualification string `db:"qualification" json:"qualification"`
	JoiningDate   string `db:"joining_date" json:"joining_date"`
}

func (t Teacher) EntityID() int64 { return t.ID }

func (t Teacher) WithEntityID(id int64) Teacher {
	t.ID = id
	return t
}

package models

// Student represents a learner registered in the institution.
type Student struct {
	ID              int64  `db:"id" json:"id"`
	UserID          int64  `db:"user_id" json:"user_id"`
	ParentID        *int64 `db:"parent_id" json:"parent_id,omitempty"`
	Name            string `db:"name" json:"name"`
	ClassID         int64  `db:"class_id" json:"class_id"`
	Section         string `db:"section" json:"section"`
	RollNumber      string `db:"roll_number" json:"roll_number"`
	DOB             string `db:"dob" json:"dob"`
	Gender          string `db:"gender" json:"gender"`
	GuardianName    string `db:"guardian_name" json:"guardian_name"`
	GuardianContact string `db:"guardian_contact" json:"guardian_contact"`
	Address         string `db:"address" json:"address"`
	AdmissionDate   string `db:"admission_date" json:"admission_date"`
}

func (s Student) EntityID() int64 { return s.ID }

func (s Student) WithEntityID(id int64) Student {
	s.ID = id
	return s
}

// HasParent reports whether the student is linked to the given parent profile.
func (s Student) HasParent(parentID int64) bool {
	return s.ParentID != nil && *s.ParentID == parentID
}

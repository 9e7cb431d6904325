package models

import "fmt"

// Class represents a grade level and section, e.g. "10" / "A".
type Class struct {
	ID      int64  `db:"id" json:"id"`
	Name    string `db:"name" json:"name"`
	Section string `db:"section" json:"section"`
}

func (c Class) EntityID() int64 { return c.ID }

func (c Class) WithEntityID(id int64) Class {
	c.ID = id
	return c
}

// Label renders the class as "name-section".
func (c Class) Label() string {
	return fmt.Sprintf("%s-%s", c.Name, c.Section)
}

// ClassSubjectAssignment maps a subject onto a class curriculum.
type ClassSubjectAssignment struct {
	ID        int64 `db:"id" json:"id"`
	ClassID   int64 `db:"class_id" json:"class_id"`
	SubjectID int64 `db:"subject_id" json:"subject_id"`
}

func (a ClassSubjectAssignment) EntityID() int64 { return a.ID }

func (a ClassSubjectAssignment) WithEntityID(id int64) ClassSubjectAssignment {
	a.ID = id
	return a
}

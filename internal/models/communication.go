package models

// Communication is a student-to-teacher message with at most one reply.
type Communication struct {
	ID              int64   `db:"id" json:"id"`
	StudentID       int64   `db:"student_id" json:"student_id"`
	TeacherID       int64   `db:"teacher_id" json:"teacher_id"`
	Subject         string  `db:"subject" json:"subject"`
	Message         string  `db:"message" json:"message"`
	Date            string  `db:"date" json:"date"`
	IsReadByTeacher bool    `db:"is_read_by_teacher" json:"is_read_by_teacher"`
	Reply           *string `db:"reply" json:"reply,omitempty"`
	ReplyDate       *string `db:"reply_date" json:"reply_date,omitempty"`
}

func (c Communication) EntityID() int64 { return c.ID }

func (c Communication) WithEntityID(id int64) Communication {
	c.ID = id
	return c
}

// Replied reports whether a reply has already been recorded.
func (c Communication) Replied() bool {
	return c.Reply != nil && *c.Reply != ""
}

package models

// Mark is an exam score for a student in one subject.
type Mark struct {
	ID        int64   `db:"id" json:"id"`
	StudentID int64   `db:"student_id" json:"student_id"`
	SubjectID int64   `db:"subject_id" json:"subject_id"`
	TeacherID int64   `db:"teacher_id" json:"teacher_id"`
	ExamName  string  `db:"exam_name" json:"exam_name"`
	Marks     float64 `db:"marks" json:"marks"`
	Total     float64 `db:"total" json:"total"`
	Grade     string  `db:"grade" json:"grade"`
}

func (m Mark) EntityID() int64 { return m.ID }

func (m Mark) WithEntityID(id int64) Mark {
	m.ID = id
	return m
}

// Promotion status values.
type PromotionStatus string

const (
	PromotionPassed PromotionStatus = "Passed"
	PromotionFailed PromotionStatus = "Failed"
)

// Promotion is a historical, append-only record of a class transition.
type Promotion struct {
	ID           int64           `db:"id" json:"id"`
	StudentID    int64           `db:"student_id" json:"student_id"`
	FromClass    string          `db:"from_class" json:"from_class"`
	ToClass      string          `db:"to_class" json:"to_class"`
	AcademicYear string          `db:"academic_year" json:"academic_year"`
	Status       PromotionStatus `db:"status" json:"status"`
	Marks        string          `db:"marks" json:"marks"`
	Grade        string          `db:"grade" json:"grade"`
}

func (p Promotion) EntityID() int64 { return p.ID }

func (p Promotion) WithEntityID(id int64) Promotion {
	p.ID = id
	return p
}

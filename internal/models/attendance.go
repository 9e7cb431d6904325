package models

// AttendanceStatus represents the status for attendance records.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "Present"
	AttendanceAbsent  AttendanceStatus = "Absent"
	AttendanceLate    AttendanceStatus = "Late"
)

// Valid returns true when the status is a supported value.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceLate:
		return true
	default:
		return false
	}
}

// CountsAsPresent reports whether the status contributes to attendance percentage.
func (s AttendanceStatus) CountsAsPresent() bool {
	return s == AttendancePresent || s == AttendanceLate
}

// Attendance is a single daily attendance row taken by a teacher.
type Attendance struct {
	ID        int64            `db:"id" json:"id"`
	StudentID int64            `db:"student_id" json:"student_id"`
	TeacherID int64            `db:"teacher_id" json:"teacher_id"`
	Date      string           `db:"date" json:"date"`
	Status    AttendanceStatus `db:"status" json:"status"`
}

func (a Attendance) EntityID() int64 { return a.ID }

func (a Attendance) WithEntityID(id int64) Attendance {
	a.ID = id
	return a
}

package models

import "time"

// Weekday is a school day of the timetable.
type Weekday string

const (
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
)

// Valid returns true for Monday through Friday.
func (d Weekday) Valid() bool {
	switch d {
	case Monday, Tuesday, Wednesday, Thursday, Friday:
		return true
	default:
		return false
	}
}

// WeekdayOf maps a date onto the timetable; weekends report false.
func WeekdayOf(t time.Time) (Weekday, bool) {
	d := Weekday(t.Weekday().String())
	return d, d.Valid()
}

// TimetableEntry binds a teacher, subject and class to a day and time slot.
// It is the only source of which teacher teaches which students.
type TimetableEntry struct {
	ID        int64   `db:"id" json:"id"`
	TeacherID int64   `db:"teacher_id" json:"teacher_id"`
	SubjectID int64   `db:"subject_id" json:"subject_id"`
	ClassID   int64   `db:"class_id" json:"class_id"`
	Day       Weekday `db:"day" json:"day"`
	TimeSlot  string  `db:"time_slot" json:"time_slot"`
	Room      string  `db:"room" json:"room"`
}

func (t TimetableEntry) EntityID() int64 { return t.ID }

func (t TimetableEntry) WithEntityID(id int64) TimetableEntry {
	t.ID = id
	return t
}

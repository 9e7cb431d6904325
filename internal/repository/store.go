package repository

import (
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-dashboard-api/internal/models"
)

// Store groups the entity collections. It is passed explicitly to services;
// there is no package-level state.
type Store struct {
	Users          Collection[models.User]
	Parents        Collection[models.Parent]
	Students       Collection[models.Student]
	Teachers       Collection[models.Teacher]
	Classes        Collection[models.Class]
	Subjects       Collection[models.Subject]
	Assignments    Collection[models.ClassSubjectAssignment]
	Attendance     Collection[models.Attendance]
	Marks          Collection[models.Mark]
	Timetable      Collection[models.TimetableEntry]
	Announcements  Collection[models.Announcement]
	Fees           Collection[models.Fee]
	LeaveRequests  Collection[models.LeaveRequest]
	Promotions     Collection[models.Promotion]
	Communications Collection[models.Communication]
}

// NewMemoryStore builds a store backed by process memory.
func NewMemoryStore() *Store {
	return &Store{
		Users:          NewMemoryCollection[models.User](),
		Parents:        NewMemoryCollection[models.Parent](),
		Students:       NewMemoryCollection[models.Student](),
		Teachers:       NewMemoryCollection[models.Teacher](),
		Classes:        NewMemoryCollection[models.Class](),
		Subjects:       NewMemoryCollection[models.Subject](),
		Assignments:    NewMemoryCollection[models.ClassSubjectAssignment](),
		Attendance:     NewMemoryCollection[models.Attendance](),
		Marks:          NewMemoryCollection[models.Mark](),
		Timetable:      NewMemoryCollection[models.TimetableEntry](),
		Announcements:  NewMemoryCollection[models.Announcement](),
		Fees:           NewMemoryCollection[models.Fee](),
		LeaveRequests:  NewMemoryCollection[models.LeaveRequest](),
		Promotions:     NewMemoryCollection[models.Promotion](),
		Communications: NewMemoryCollection[models.Communication](),
	}
}

// NewSQLStore builds a store backed by the PostgreSQL schema in pkg/database.
// obs may be nil.
func NewSQLStore(db *sqlx.DB, obs QueryObserver) *Store {
	return &Store{
		Users:          NewSQLCollection[models.User](db, "users", "name", "email", "role").WithObserver(obs),
		Parents:        NewSQLCollection[models.Parent](db, "parents", "user_id", "name").WithObserver(obs),
		Students:       NewSQLCollection[models.Student](db, "students", "user_id", "parent_id", "name", "class_id", "section", "roll_number", "dob", "gender", "guardian_name", "guardian_contact", "address", "admission_date").WithObserver(obs),
		Teachers:       NewSQLCollection[models.Teacher](db, "teachers", "user_id", "name", "department", "phone", "qualification", "joining_date").WithObserver(obs),
		Classes:        NewSQLCollection[models.Class](db, "classes", "name", "section").WithObserver(obs),
		Subjects:       NewSQLCollection[models.Subject](db, "subjects", "name", "code").WithObserver(obs),
		Assignments:    NewSQLCollection[models.ClassSubjectAssignment](db, "class_subject_assignments", "class_id", "subject_id").WithObserver(obs),
		Attendance:     NewSQLCollection[models.Attendance](db, "attendance", "student_id", "teacher_id", "date", "status").WithObserver(obs),
		Marks:          NewSQLCollection[models.Mark](db, "marks", "student_id", "subject_id", "teacher_id", "exam_name", "marks", "total", "grade").WithObserver(obs),
		Timetable:      NewSQLCollection[models.TimetableEntry](db, "timetable_entries", "teacher_id", "subject_id", "class_id", "day", "time_slot", "room").WithObserver(obs),
		Announcements:  NewSQLCollection[models.Announcement](db, "announcements", "title", "message", "date", "role_visibility").WithObserver(obs),
		Fees:           NewSQLCollection[models.Fee](db, "fees", "student_id", "amount", "due_date", "status", "payment_date").WithObserver(obs),
		LeaveRequests:  NewSQLCollection[models.LeaveRequest](db, "leave_requests", "student_id", "teacher_id", "from_date", "to_date", "reason", "status").WithObserver(obs),
		Promotions:     NewSQLCollection[models.Promotion](db, "promotions", "student_id", "from_class", "to_class", "academic_year", "status", "marks", "grade").WithObserver(obs),
		Communications: NewSQLCollection[models.Communication](db, "communications", "student_id", "teacher_id", "subject", "message", "date", "is_read_by_teacher", "reply", "reply_date").WithObserver(obs),
	}
}

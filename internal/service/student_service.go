package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-dashboard-api/internal/models"
	"github.com/noah-isme/sma-dashboard-api/internal/repository"
)

// CreateStudentRequest enrols a student. Without UserID a Student account is
// registered from Email.
type CreateStudentRequest struct {
	UserID          int64  `json:"user_id"`
	Email           string `json:"email" validate:"omitempty,email"`
	ParentID        *int64 `json:"parent_id"`
	Name            string `json:"name" validate:"required"`
	ClassID         int64  `json:"class_id" validate:"required"`
	Section         string `json:"section"`
	RollNumber      string `json:"roll_number" validate:"required"`
	DOB             string `json:"dob" validate:"omitempty,datetime=2006-01-02"`
	Gender          string `json:"gender" validate:"omitempty,oneof=Male Female Other"`
	GuardianName    string `json:"guardian_name"`
	GuardianContact string `json:"guardian_contact"`
	Address         string `json:"address"`
	AdmissionDate   string `json:"admission_date" validate:"omitempty,datetime=2006-01-02"`
}

// UpdateStudentRequest is a partial update.
type UpdateStudentRequest struct {
	ParentID        *int64  `json:"parent_id"`
	Name            *string `json:"name" validate:"omitempty,min=1"`
	ClassID         *int64  `json:"class_id" validate:"omitempty,min=1"`
	Section         *string `json:"section"`
	RollNumber      *string `json:"roll_number" validate:"omitempty,min=1"`
	DOB             *string `json:"dob" validate:"omitempty,datetime=2006-01-02"`
	Gender          *string `json:"gender" validate:"omitempty,oneof=Male Female Other"`
	GuardianName    *string `json:"guardian_name"`
	GuardianContact *string `json:"guardian_contact"`
	Address         *string `json:"address"`
	AdmissionDate   *string `json:"admission_date" validate:"omitempty,datetime=2006-01-02"`
}

// StudentService manages the student roster.
type StudentService struct {
	deps  Deps
	users *UserService
}

// NewStudentService constructs a StudentService.
func NewStudentService(deps Deps, users *UserService) *StudentService {
	deps = deps.withDefaults()
	if users == nil {
		users = NewUserService(deps)
	}
	return &StudentService{deps: deps, users: users}
}

// List returns the students visible to the actor: everyone for the
// principal, the teacher's classes for a teacher, and only the bound student
// for students and parents.
func (s *StudentService) List(ctx context.Context, actor models.Actor) ([]models.Student, error) {
	students, err := listAll(ctx, s.deps.Store.Students, "students")
	if err != nil {
		return nil, err
	}
	switch actor.Role {
	case models.RolePrincipal:
		return students, nil
	case models.RoleTeacher:
		entries, err := listAll(ctx, s.deps.Store.Timetable, "timetable")
		if err != nil {
			return nil, err
		}
		return StudentsForTeacher(entries, students, actor.TeacherID), nil
	}
	own, ok := actor.OwnStudentID()
	if !ok {
		return []models.Student{}, nil
	}
	return repository.Filter(students, func(st models.Student) bool { return st.ID == own }), nil
}

// Get returns one student the actor may see.
func (s *StudentService) Get(ctx context.Context, actor models.Actor, id int64) (models.Student, error) {
	if err := s.deps.Auth.ReadStudent(ctx, actor, id); err != nil {
		return models.Student{}, err
	}
	return getOne(ctx, s.deps.Store.Students, id, "student")
}

// ForTeacher lists the students of a teacher's classes.
func (s *StudentService) ForTeacher(ctx context.Context, actor models.Actor, teacherID int64) ([]models.Student, error) {
	if err := s.deps.Auth.ReadTeacher(actor, teacherID); err != nil {
		return nil, err
	}
	students, err := listAll(ctx, s.deps.Store.Students, "students")
	if err != nil {
		return nil, err
	}
	entries, err := listAll(ctx, s.deps.Store.Timetable, "timetable")
	if err != nil {
		return nil, err
	}
	return StudentsForTeacher(entries, students, teacherID), nil
}

// FullData joins each visible student with their marks and attendance.
func (s *StudentService) FullData(ctx context.Context, actor models.Actor) ([]models.StudentRecord, error) {
	if err := s.deps.Auth.RequireRole(actor, models.RolePrincipal, models.RoleTeacher); err != nil {
		return nil, err
	}
	students, err := s.List(ctx, actor)
	if err != nil {
		return nil, err
	}
	marks, err := listAll(ctx, s.deps.Store.Marks, "marks")
	if err != nil {
		return nil, err
	}
	attendance, err := listAll(ctx, s.deps.Store.Attendance, "attendance")
	if err != nil {
		return nil, err
	}
	records := make([]models.StudentRecord, 0, len(students))
	for _, st := range students {
		records = append(records, models.StudentRecord{
			Student:    st,
			Marks:      MarksForStudent(marks, st.ID),
			Attendance: AttendanceForStudent(attendance, st.ID),
		})
	}
	return records, nil
}

// Create enrols a student. Principal only.
func (s *StudentService) Create(ctx context.Context, actor models.Actor, req CreateStudentRequest) (models.Student, error) {
	if err := s.deps.Auth.RequirePrincipal(actor); err != nil {
		return models.Student{}, err
	}
	if err := s.deps.validate(req, "invalid student payload"); err != nil {
		return models.Student{}, err
	}
	if req.UserID == 0 && req.Email == "" {
		return models.Student{}, invalid("either user_id or email is required")
	}

	student := models.Student{
		UserID:          req.UserID,
		ParentID:        req.ParentID,
		Name:            req.Name,
		ClassID:         req.ClassID,
		Section:         req.Section,
		RollNumber:      req.RollNumber,
		DOB:             req.DOB,
		Gender:          req.Gender,
		GuardianName:    req.GuardianName,
		GuardianContact: req.GuardianContact,
		Address:         req.Address,
		AdmissionDate:   req.AdmissionDate,
	}
	if student.AdmissionDate == "" {
		student.AdmissionDate = s.deps.today()
	}
	if err := s.checkIntegrity(ctx, &student); err != nil {
		return models.Student{}, err
	}

	registered := false
	if student.UserID == 0 {
		user, err := s.users.create(ctx, CreateUserRequest{Name: req.Name, Email: req.Email, Role: models.RoleStudent})
		if err != nil {
			return models.Student{}, err
		}
		student.UserID = user.ID
		registered = true
	} else if err := s.checkUser(ctx, student.UserID); err != nil {
		return models.Student{}, err
	}

	created, err := insertOne(ctx, s.deps.Store.Students, student, "student")
	if err != nil {
		if registered {
			s.users.discard(ctx, student.UserID)
		}
		return models.Student{}, err
	}
	s.deps.invalidatePerformance(ctx)
	s.deps.Logger.Info("student created", zap.Int64("student_id", created.ID), zap.Int64("class_id", created.ClassID))
	return created, nil
}

// Update merges the supplied fields. Principal only.
func (s *StudentService) Update(ctx context.Context, actor models.Actor, id int64, req UpdateStudentRequest) (models.Student, error) {
	if err := s.deps.Auth.RequirePrincipal(actor); err != nil {
		return models.Student{}, err
	}
	if err := s.deps.validate(req, "invalid student payload"); err != nil {
		return models.Student{}, err
	}
	student, err := getOne(ctx, s.deps.Store.Students, id, "student")
	if err != nil {
		return models.Student{}, err
	}
	if req.ParentID != nil {
		student.ParentID = req.ParentID
		if *req.ParentID == 0 {
			student.ParentID = nil
		}
	}
	setIf(&student.Name, req.Name)
	setIf(&student.ClassID, req.ClassID)
	setIf(&student.Section, req.Section)
	setIf(&student.RollNumber, req.RollNumber)
	setIf(&student.DOB, req.DOB)
	setIf(&student.Gender, req.Gender)
	setIf(&student.GuardianName, req.GuardianName)
	setIf(&student.GuardianContact, req.GuardianContact)
	setIf(&student.Address, req.Address)
	setIf(&student.AdmissionDate, req.AdmissionDate)
	if req.ClassID != nil && req.Section == nil {
		student.Section = ""
	}

	if err := s.checkIntegrity(ctx, &student); err != nil {
		return models.Student{}, err
	}
	if err := updateOne(ctx, s.deps.Store.Students, student, "student"); err != nil {
		return models.Student{}, err
	}
	s.deps.invalidatePerformance(ctx)
	s.deps.Logger.Info("student updated", zap.Int64("student_id", id))
	return student, nil
}

// Delete removes a student with every record that belongs to them. Unknown
// ids are ignored. Principal only.
//
// The cascade is best-effort: each step is a separate store call, so a
// failure part way leaves the records removed so far deleted. Retrying the
// delete finishes the job.
func (s *StudentService) Delete(ctx context.Context, actor models.Actor, id int64) error {
	if err := s.deps.Auth.RequirePrincipal(actor); err != nil {
		return err
	}
	student, err := getOne(ctx, s.deps.Store.Students, id, "student")
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return err
	}

	store := s.deps.Store
	owned := func(studentID int64) bool { return studentID == id }
	steps := []func() (int, error){
		func() (int, error) {
			return deleteWhere(ctx, store.Marks, "marks", func(m models.Mark) bool { return owned(m.StudentID) })
		},
		func() (int, error) {
			return deleteWhere(ctx, store.Attendance, "attendance", func(a models.Attendance) bool { return owned(a.StudentID) })
		},
		func() (int, error) {
			return deleteWhere(ctx, store.Fees, "fees", func(f models.Fee) bool { return owned(f.StudentID) })
		},
		func() (int, error) {
			return deleteWhere(ctx, store.LeaveRequests, "leave requests", func(l models.LeaveRequest) bool { return owned(l.StudentID) })
		},
		func() (int, error) {
			return deleteWhere(ctx, store.Communications, "communications", func(c models.Communication) bool { return owned(c.StudentID) })
		},
		func() (int, error) {
			return deleteWhere(ctx, store.Promotions, "promotions", func(p models.Promotion) bool { return owned(p.StudentID) })
		},
	}
	removed := 0
	for _, step := range steps {
		n, err := step()
		if err != nil {
			return err
		}
		removed += n
	}

	if err := deleteOne(ctx, store.Students, id, "student"); err != nil {
		return err
	}
	if err := deleteOne(ctx, store.Users, student.UserID, "user"); err != nil {
		return err
	}
	s.deps.invalidatePerformance(ctx)
	s.deps.Logger.Info("student deleted", zap.Int64("student_id", id), zap.Int("dependents_removed", removed))
	return nil
}

// checkIntegrity enforces the class reference, per-class roll number
// uniqueness and the one-student-per-parent link.
func (s *StudentService) checkIntegrity(ctx context.Context, student *models.Student) error {
	class, err := getOne(ctx, s.deps.Store.Classes, student.ClassID, "class")
	if err != nil {
		if isNotFound(err) {
			return invalid("class does not exist")
		}
		return err
	}
	if student.Section == "" {
		student.Section = class.Section
	}

	students, err := listAll(ctx, s.deps.Store.Students, "students")
	if err != nil {
		return err
	}
	if anyMatch(students, func(other models.Student) bool {
		return other.ID != student.ID && other.ClassID == student.ClassID && other.RollNumber == student.RollNumber
	}) {
		return conflict("roll number already used in this class")
	}

	if student.ParentID != nil {
		ok, err := exists(ctx, s.deps.Store.Parents, *student.ParentID, "parent")
		if err != nil {
			return err
		}
		if !ok {
			return invalid("parent does not exist")
		}
		if anyMatch(students, func(other models.Student) bool {
			return other.ID != student.ID && other.HasParent(*student.ParentID)
		}) {
			return conflict("parent is already linked to another student")
		}
	}
	return nil
}

func (s *StudentService) checkUser(ctx context.Context, userID int64) error {
	user, err := getOne(ctx, s.deps.Store.Users, userID, "user")
	if err != nil {
		if isNotFound(err) {
			return invalid("user does not exist")
		}
		return err
	}
	if user.Role != models.RoleStudent {
		return invalid("user is not a student account")
	}
	return nil
}

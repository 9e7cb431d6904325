package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-dashboard-api/internal/models"
)

// CreateTeacherRequest hires a teacher. Without UserID a Teacher account is
// registered from Email.
type CreateTeacherRequest struct {
	UserID        int64  `json:"user_id"`
	Email         string `json:"email" validate:"omitempty,email"`
	Name          string `json:"name" validate:"required"`
	Department    string `json:"department"`
	Phone         string `json:"phone"`
	Qualification string `json:"qualification"`
	JoiningDate   string `json:"joining_date" validate:"omitempty,datetime=2006-01-02"`
}

// UpdateTeacherRequest is a partial update.
type UpdateTeacherRequest struct {
	Name          *string `json:"name" validate:"omitempty,min=1"`
	Department    *string `json:"department"`
	Phone         *string `json:"phone"`
	Qualification *string `json:"qualification"`
	JoiningDate   *string `json:"joining_date" validate:"omitempty,datetime=2006-01-02"`
}

// TeacherService manages teaching staff.
type TeacherService struct {
	deps  Deps
	users *UserService
}

// NewTeacherService constructs a TeacherService.
func NewTeacherService(deps Deps, users *UserService) *TeacherService {
	deps = deps.withDefaults()
	if users == nil {
		users = NewUserService(deps)
	}
	return &TeacherService{deps: deps, users: users}
}

// List returns the staff directory, readable by every role.
func (s *TeacherService) List(ctx context.Context) ([]models.Teacher, error) {
	return listAll(ctx, s.deps.Store.Teachers, "teachers")
}

// Get returns one teacher.
func (s *TeacherService) Get(ctx context.Context, id int64) (models.Teacher, error) {
	return getOne(ctx, s.deps.Store.Teachers, id, "teacher")
}

// Subjects returns the subjects a teacher has on the timetable.
func (s *TeacherService) Subjects(ctx context.Context, actor models.Actor, teacherID int64) ([]models.Subject, error) {
	if err := s.deps.Auth.ReadTeacher(actor, teacherID); err != nil {
		return nil, err
	}
	entries, err := listAll(ctx, s.deps.Store.Timetable, "timetable")
	if err != nil {
		return nil, err
	}
	subjects, err := listAll(ctx, s.deps.Store.Subjects, "subjects")
	if err != nil {
		return nil, err
	}
	index := byID(subjects)
	out := make([]models.Subject, 0)
	for _, id := range TeacherSubjects(entries, teacherID) {
		if subject, ok := index[id]; ok {
			out = append(out, subject)
		}
	}
	return out, nil
}

// Create hires a teacher. Principal only.
func (s *TeacherService) Create(ctx context.Context, actor models.Actor, req CreateTeacherRequest) (models.Teacher, error) {
	if err := s.deps.Auth.RequirePrincipal(actor); err != nil {
		return models.Teacher{}, err
	}
	if err := s.deps.validate(req, "invalid teacher payload"); err != nil {
		return models.Teacher{}, err
	}
	if req.UserID == 0 && req.Email == "" {
		return models.Teacher{}, invalid("either user_id or email is required")
	}

	teacher := models.Teacher{
		UserID:        req.UserID,
		Name:          req.Name,
		Department:    req.Department,
		Phone:         req.Phone,
		Qualification: req.Qualification,
		JoiningDate:   req.JoiningDate,
	}
	if teacher.JoiningDate == "" {
		teacher.JoiningDate = s.deps.today()
	}

	registered := false
	if teacher.UserID == 0 {
		user, err := s.users.create(ctx, CreateUserRequest{Name: req.Name, Email: req.Email, Role: models.RoleTeacher})
		if err != nil {
			return models.Teacher{}, err
		}
		teacher.UserID = user.ID
		registered = true
	} else {
		user, err := getOne(ctx, s.deps.Store.Users, teacher.UserID, "user")
		if err != nil {
			if isNotFound(err) {
				return models.Teacher{}, invalid("user does not exist")
			}
			return models.Teacher{}, err
		}
		if user.Role != models.RoleTeacher {
			return models.Teacher{}, invalid("user is not a teacher account")
		}
	}

	created, err := insertOne(ctx, s.deps.Store.Teachers, teacher, "teacher")
	if err != nil {
		if registered {
			s.users.discard(ctx, teacher.UserID)
		}
		return models.Teacher{}, err
	}
	s.deps.Logger.Info("teacher created", zap.Int64("teacher_id", created.ID))
	return created, nil
}

// Update merges the supplied fields. Principal only.
func (s *TeacherService) Update(ctx context.Context, actor models.Actor, id int64, req UpdateTeacherRequest) (models.Teacher, error) {
	if err := s.deps.Auth.RequirePrincipal(actor); err != nil {
		return models.Teacher{}, err
	}
	if err := s.deps.validate(req, "invalid teacher payload"); err != nil {
		return models.Teacher{}, err
	}
	teacher, err := getOne(ctx, s.deps.Store.Teachers, id, "teacher")
	if err != nil {
		return models.Teacher{}, err
	}
	setIf(&teacher.Name, req.Name)
	setIf(&teacher.Department, req.Department)
	setIf(&teacher.Phone, req.Phone)
	setIf(&teacher.Qualification, req.Qualification)
	setIf(&teacher.JoiningDate, req.JoiningDate)
	if err := updateOne(ctx, s.deps.Store.Teachers, teacher, "teacher"); err != nil {
		return models.Teacher{}, err
	}
	return teacher, nil
}

// Delete removes a teacher and their account. A teacher still on the
// timetable cannot be removed. Unknown ids are ignored. Principal only.
func (s *TeacherService) Delete(ctx context.Context, actor models.Actor, id int64) error {
	if err := s.deps.Auth.RequirePrincipal(actor); err != nil {
		return err
	}
	teacher, err := getOne(ctx, s.deps.Store.Teachers, id, "teacher")
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return err
	}
	entries, err := listAll(ctx, s.deps.Store.Timetable, "timetable")
	if err != nil {
		return err
	}
	if len(TimetableForTeacher(entries, id)) > 0 {
		return conflict("teacher still has timetable entries")
	}
	if err := deleteOne(ctx, s.deps.Store.Teachers, id, "teacher"); err != nil {
		return err
	}
	if err := deleteOne(ctx, s.deps.Store.Users, teacher.UserID, "user"); err != nil {
		return err
	}
	s.deps.Logger.Info("teacher deleted", zap.Int64("teacher_id", id))
	return nil
}

package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-dashboard-api/internal/models"
)

// CreateSubjectRequest defines a subject.
type CreateSubjectRequest struct {
	Name string `json:"name" validate:"required"`
	Code string `json:"code" validate:"required,alphanum"`
}

// UpdateSubjectRequest is a partial update.
type UpdateSubjectRequest struct {
	Name *string `json:"name" validate:"omitempty,min=1"`
	Code *string `json:"code" validate:"omitempty,alphanum"`
}

// SubjectService manages the subject catalogue.
type SubjectService struct {
	deps Deps
}

// NewSubjectService constructs a SubjectService.
func NewSubjectService(deps Deps) *SubjectService {
	return &SubjectService{deps: deps.withDefaults()}
}

// List returns every subject.
func (s *SubjectService) List(ctx context.Context) ([]models.Subject, error) {
	return listAll(ctx, s.deps.Store.Subjects, "subjects")
}

// Get returns one subject.
func (s *SubjectService) Get(ctx context.Context, id int64) (models.Subject, error) {
	return getOne(ctx, s.deps.Store.Subjects, id, "subject")
}

// Create adds a subject with a unique code. Principal only.
func (s *SubjectService) Create(ctx context.Context, actor models.Actor, req CreateSubjectRequest) (models.Subject, error) {
	if err := s.deps.Auth.RequirePrincipal(actor); err != nil {
		return models.Subject{}, err
	}
	if err := s.deps.validate(req, "invalid subject payload"); err != nil {
		return models.Subject{}, err
	}
	subject := models.Subject{Name: req.Name, Code: strings.ToUpper(req.Code)}
	if err := s.checkCode(ctx, subject); err != nil {
		return models.Subject{}, err
	}
	created, err := insertOne(ctx, s.deps.Store.Subjects, subject, "subject")
	if err != nil {
		return models.Subject{}, err
	}
	s.deps.invalidatePerformance(ctx)
	s.deps.Logger.Info("subject created", zap.Int64("subject_id", created.ID), zap.String("code", created.Code))
	return created, nil
}

// Update merges the supplied fields. Principal only.
func (s *SubjectService) Update(ctx context.Context, actor models.Actor, id int64, req UpdateSubjectRequest) (models.Subject, error) {
	if err := s.deps.Auth.RequirePrincipal(actor); err != nil {
		return models.Subject{}, err
	}
	if err := s.deps.validate(req, "invalid subject payload"); err != nil {
		return models.Subject{}, err
	}
	subject, err := getOne(ctx, s.deps.Store.Subjects, id, "subject")
	if err != nil {
		return models.Subject{}, err
	}
	setIf(&subject.Name, req.Name)
	if req.Code != nil {
		subject.Code = strings.ToUpper(*req.Code)
	}
	if err := s.checkCode(ctx, subject); err != nil {
		return models.Subject{}, err
	}
	if err := updateOne(ctx, s.deps.Store.Subjects, subject, "subject"); err != nil {
		return models.Subject{}, err
	}
	s.deps.invalidatePerformance(ctx)
	return subject, nil
}

// Delete removes a subject that no class, timetable entry or mark refers to.
// Unknown ids are ignored. Principal only.
func (s *SubjectService) Delete(ctx context.Context, actor models.Actor, id int64) error {
	if err := s.deps.Auth.RequirePrincipal(actor); err != nil {
		return err
	}
	assignments, err := listAll(ctx, s.deps.Store.Assignments, "class subject assignments")
	if err != nil {
		return err
	}
	if anyMatch(assignments, func(a models.ClassSubjectAssignment) bool { return a.SubjectID == id }) {
		return conflict("subject is still assigned to a class")
	}
	entries, err := listAll(ctx, s.deps.Store.Timetable, "timetable")
	if err != nil {
		return err
	}
	if anyMatch(entries, func(e models.TimetableEntry) bool { return e.SubjectID == id }) {
		return conflict("subject still has timetable entries")
	}
	marks, err := listAll(ctx, s.deps.Store.Marks, "marks")
	if err != nil {
		return err
	}
	if anyMatch(marks, func(m models.Mark) bool { return m.SubjectID == id }) {
		return conflict("subject still has marks")
	}
	if err := deleteOne(ctx, s.deps.Store.Subjects, id, "subject"); err != nil {
		return err
	}
	s.deps.invalidatePerformance(ctx)
	s.deps.Logger.Info("subject deleted", zap.Int64("subject_id", id))
	return nil
}

func (s *SubjectService) checkCode(ctx context.Context, subject models.Subject) error {
	subjects, err := listAll(ctx, s.deps.Store.Subjects, "subjects")
	if err != nil {
		return err
	}
	if anyMatch(subjects, func(other models.Subject) bool {
		return other.ID != subject.ID && strings.EqualFold(other.Code, subject.Code)
	}) {
		return conflict("subject code " + subject.Code + " already exists")
	}
	return nil
}

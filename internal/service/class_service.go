package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-dashboard-api/internal/models"
)

// CreateClassRequest captures creation payload.
type CreateClassRequest struct {
	Name    string `json:"name" validate:"required"`
	Section string `json:"section" validate:"required"`
}

// UpdateClassRequest is a partial update.
type UpdateClassRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=1"`
	Section *string `json:"section" validate:"omitempty,min=1"`
}

// AssignSubjectRequest links a subject to a class.
type AssignSubjectRequest struct {
	SubjectID int64 `json:"subject_id" validate:"required"`
}

// ClassDetail bundles a class with its subjects and roster size.
type ClassDetail struct {
	models.Class
	Label        string           `json:"label"`
	StudentCount int              `json:"student_count"`
	Subjects     []models.Subject `json:"subjects"`
}

// ClassService coordinates class operations and class-subject assignments.
type ClassService struct {
	deps Deps
}

// NewClassService constructs ClassService.
func NewClassService(deps Deps) *ClassService {
	return &ClassService{deps: deps.withDefaults()}
}

// List returns every class.
func (s *ClassService) List(ctx context.Context) ([]models.Class, error) {
	return listAll(ctx, s.deps.Store.Classes, "classes")
}

// Get returns a class with its assigned subjects.
func (s *ClassService) Get(ctx context.Context, id int64) (*ClassDetail, error) {
	class, err := getOne(ctx, s.deps.Store.Classes, id, "class")
	if err != nil {
		return nil, err
	}
	students, err := listAll(ctx, s.deps.Store.Students, "students")
	if err != nil {
		return nil, err
	}
	subjects, err := s.assignedSubjects(ctx, id)
	if err != nil {
		return nil, err
	}
	count := 0
	for _, st := range students {
		if st.ClassID == id {
			count++
		}
	}
	return &ClassDetail{Class: class, Label: class.Label(), StudentCount: count, Subjects: subjects}, nil
}

// Create adds a new class. Principal only.
func (s *ClassService) Create(ctx context.Context, actor models.Actor, req CreateClassRequest) (models.Class, error) {
	if err := s.deps.Auth.RequirePrincipal(actor); err != nil {
		return models.Class{}, err
	}
	if err := s.deps.validate(req, "invalid class payload"); err != nil {
		return models.Class{}, err
	}
	class := models.Class{Name: strings.TrimSpace(req.Name), Section: strings.TrimSpace(req.Section)}
	if err := s.checkUnique(ctx, class); err != nil {
		return models.Class{}, err
	}
	created, err := insertOne(ctx, s.deps.Store.Classes, class, "class")
	if err != nil {
		return models.Class{}, err
	}
	s.deps.Logger.Info("class created", zap.Int64("class_id", created.ID), zap.String("label", created.Label()))
	return created, nil
}

// Update modifies a class record. Principal only.
func (s *ClassService) Update(ctx context.Context, actor models.Actor, id int64, req UpdateClassRequest) (models.Class, error) {
	if err := s.deps.Auth.RequirePrincipal(actor); err != nil {
		return models.Class{}, err
	}
	if err := s.deps.validate(req, "invalid class payload"); err != nil {
		return models.Class{}, err
	}
	class, err := getOne(ctx, s.deps.Store.Classes, id, "class")
	if err != nil {
		return models.Class{}, err
	}
	setIf(&class.Name, req.Name)
	setIf(&class.Section, req.Section)
	if err := s.checkUnique(ctx, class); err != nil {
		return models.Class{}, err
	}
	if err := updateOne(ctx, s.deps.Store.Classes, class, "class"); err != nil {
		return models.Class{}, err
	}
	return class, nil
}

// Delete removes a class and its subject assignments. Classes that still
// have students or timetable entries are kept. Principal only.
func (s *ClassService) Delete(ctx context.Context, actor models.Actor, id int64) error {
	if err := s.deps.Auth.RequirePrincipal(actor); err != nil {
		return err
	}
	students, err := listAll(ctx, s.deps.Store.Students, "students")
	if err != nil {
		return err
	}
	if anyMatch(students, func(st models.Student) bool { return st.ClassID == id }) {
		return conflict("class still has students")
	}
	entries, err := listAll(ctx, s.deps.Store.Timetable, "timetable")
	if err != nil {
		return err
	}
	if len(TimetableForClass(entries, id)) > 0 {
		return conflict("class still has timetable entries")
	}
	if _, err := deleteWhere(ctx, s.deps.Store.Assignments, "class subject assignments", func(a models.ClassSubjectAssignment) bool {
		return a.ClassID == id
	}); err != nil {
		return err
	}
	if err := deleteOne(ctx, s.deps.Store.Classes, id, "class"); err != nil {
		return err
	}
	s.deps.Logger.Info("class deleted", zap.Int64("class_id", id))
	return nil
}

// Assignments lists the subject assignments of a class.
func (s *ClassService) Assignments(ctx context.Context, classID int64) ([]models.ClassSubjectAssignment, error) {
	all, err := listAll(ctx, s.deps.Store.Assignments, "class subject assignments")
	if err != nil {
		return nil, err
	}
	return ClassSubjectAssignments(all, classID), nil
}

// AddAssignment links a subject to a class once. Principal only.
func (s *ClassService) AddAssignment(ctx context.Context, actor models.Actor, classID int64, req AssignSubjectRequest) (models.ClassSubjectAssignment, error) {
	if err := s.deps.Auth.RequirePrincipal(actor); err != nil {
		return models.ClassSubjectAssignment{}, err
	}
	if err := s.deps.validate(req, "invalid assignment payload"); err != nil {
		return models.ClassSubjectAssignment{}, err
	}
	if _, err := getOne(ctx, s.deps.Store.Classes, classID, "class"); err != nil {
		return models.ClassSubjectAssignment{}, err
	}
	if ok, err := exists(ctx, s.deps.Store.Subjects, req.SubjectID, "subject"); err != nil {
		return models.ClassSubjectAssignment{}, err
	} else if !ok {
		return models.ClassSubjectAssignment{}, invalid("subject does not exist")
	}
	current, err := s.Assignments(ctx, classID)
	if err != nil {
		return models.ClassSubjectAssignment{}, err
	}
	if anyMatch(current, func(a models.ClassSubjectAssignment) bool { return a.SubjectID == req.SubjectID }) {
		return models.ClassSubjectAssignment{}, conflict("subject already assigned to class")
	}
	created, err := insertOne(ctx, s.deps.Store.Assignments, models.ClassSubjectAssignment{ClassID: classID, SubjectID: req.SubjectID}, "class subject assignment")
	if err != nil {
		return models.ClassSubjectAssignment{}, err
	}
	s.deps.Logger.Info("subject assigned", zap.Int64("class_id", classID), zap.Int64("subject_id", req.SubjectID))
	return created, nil
}

// DeleteAssignment unlinks a subject; unknown ids are ignored. Principal only.
func (s *ClassService) DeleteAssignment(ctx context.Context, actor models.Actor, id int64) error {
	if err := s.deps.Auth.RequirePrincipal(actor); err != nil {
		return err
	}
	return deleteOne(ctx, s.deps.Store.Assignments, id, "class subject assignment")
}

func (s *ClassService) assignedSubjects(ctx context.Context, classID int64) ([]models.Subject, error) {
	assignments, err := s.Assignments(ctx, classID)
	if err != nil {
		return nil, err
	}
	subjects, err := listAll(ctx, s.deps.Store.Subjects, "subjects")
	if err != nil {
		return nil, err
	}
	index := byID(subjects)
	out := make([]models.Subject, 0, len(assignments))
	for _, a := range assignments {
		if subject, ok := index[a.SubjectID]; ok {
			out = append(out, subject)
		}
	}
	return out, nil
}

func (s *ClassService) checkUnique(ctx context.Context, class models.Class) error {
	classes, err := listAll(ctx, s.deps.Store.Classes, "classes")
	if err != nil {
		return err
	}
	if anyMatch(classes, func(other models.Class) bool {
		return other.ID != class.ID && strings.EqualFold(other.Name, class.Name) && strings.EqualFold(other.Section, class.Section)
	}) {
		return conflict("class " + class.Label() + " already exists")
	}
	return nil
}

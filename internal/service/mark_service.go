package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-dashboard-api/internal/models"
)

// RecordMarkRequest enters an exam result. Marks above Total are accepted.
type RecordMarkRequest struct {
	StudentID int64   `json:"student_id" validate:"required"`
	SubjectID int64   `json:"subject_id" validate:"required"`
	TeacherID int64   `json:"teacher_id"`
	ExamName  string  `json:"exam_name" validate:"required"`
	Marks     float64 `json:"marks" validate:"gte=0"`
	Total     float64 `json:"total" validate:"gte=0"`
	Grade     string  `json:"grade"`
}

// UpdateMarkRequest is a partial update.
type UpdateMarkRequest struct {
	Marks    *float64 `json:"marks" validate:"omitempty,gte=0"`
	Total    *float64 `json:"total" validate:"omitempty,gte=0"`
	Grade    *string  `json:"grade"`
	ExamName *string  `json:"exam_name" validate:"omitempty,min=1"`
}

// MarkService records and reads exam marks.
type MarkService struct {
	deps Deps
}

// NewMarkService constructs a MarkService.
func NewMarkService(deps Deps) *MarkService {
	return &MarkService{deps: deps.withDefaults()}
}

// ForStudent returns a student's marks.
func (s *MarkService) ForStudent(ctx context.Context, actor models.Actor, studentID int64) ([]models.Mark, error) {
	if err := s.deps.Auth.ReadStudent(ctx, actor, studentID); err != nil {
		return nil, err
	}
	marks, err := listAll(ctx, s.deps.Store.Marks, "marks")
	if err != nil {
		return nil, err
	}
	return MarksForStudent(marks, studentID), nil
}

// ForTeacher returns the marks a teacher entered.
func (s *MarkService) ForTeacher(ctx context.Context, actor models.Actor, teacherID int64) ([]models.Mark, error) {
	if err := s.deps.Auth.ReadTeacher(actor, teacherID); err != nil {
		return nil, err
	}
	marks, err := listAll(ctx, s.deps.Store.Marks, "marks")
	if err != nil {
		return nil, err
	}
	return MarksForTeacher(marks, teacherID), nil
}

// Record stores a new mark.
func (s *MarkService) Record(ctx context.Context, actor models.Actor, req RecordMarkRequest) (models.Mark, error) {
	if err := s.deps.validate(req, "invalid mark payload"); err != nil {
		return models.Mark{}, err
	}
	if err := s.deps.Auth.WriteStudentRecord(ctx, actor, req.StudentID); err != nil {
		return models.Mark{}, err
	}
	if ok, err := exists(ctx, s.deps.Store.Subjects, req.SubjectID, "subject"); err != nil {
		return models.Mark{}, err
	} else if !ok {
		return models.Mark{}, invalid("subject does not exist")
	}
	teacherID, err := resolveRecordingTeacher(ctx, s.deps, actor, req.TeacherID)
	if err != nil {
		return models.Mark{}, err
	}
	created, err := insertOne(ctx, s.deps.Store.Marks, models.Mark{
		StudentID: req.StudentID,
		SubjectID: req.SubjectID,
		TeacherID: teacherID,
		ExamName:  req.ExamName,
		Marks:     req.Marks,
		Total:     req.Total,
		Grade:     req.Grade,
	}, "mark")
	if err != nil {
		return models.Mark{}, err
	}
	s.deps.invalidatePerformance(ctx)
	s.deps.Logger.Info("mark recorded", zap.Int64("mark_id", created.ID), zap.Int64("student_id", created.StudentID))
	return created, nil
}

// Update merges the supplied fields.
func (s *MarkService) Update(ctx context.Context, actor models.Actor, id int64, req UpdateMarkRequest) (models.Mark, error) {
	if err := s.deps.validate(req, "invalid mark payload"); err != nil {
		return models.Mark{}, err
	}
	mark, err := getOne(ctx, s.deps.Store.Marks, id, "mark")
	if err != nil {
		return models.Mark{}, err
	}
	if err := s.deps.Auth.WriteStudentRecord(ctx, actor, mark.StudentID); err != nil {
		return models.Mark{}, err
	}
	setIf(&mark.Marks, req.Marks)
	setIf(&mark.Total, req.Total)
	setIf(&mark.Grade, req.Grade)
	setIf(&mark.ExamName, req.ExamName)
	if err := updateOne(ctx, s.deps.Store.Marks, mark, "mark"); err != nil {
		return models.Mark{}, err
	}
	s.deps.invalidatePerformance(ctx)
	return mark, nil
}

// Delete removes a mark; unknown ids are ignored.
func (s *MarkService) Delete(ctx context.Context, actor models.Actor, id int64) error {
	mark, err := getOne(ctx, s.deps.Store.Marks, id, "mark")
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return err
	}
	if err := s.deps.Auth.WriteStudentRecord(ctx, actor, mark.StudentID); err != nil {
		return err
	}
	if err := deleteOne(ctx, s.deps.Store.Marks, id, "mark"); err != nil {
		return err
	}
	s.deps.invalidatePerformance(ctx)
	return nil
}

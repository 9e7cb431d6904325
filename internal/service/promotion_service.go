package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-dashboard-api/internal/models"
)

// CreatePromotionRequest appends a promotion record.
type CreatePromotionRequest struct {
	StudentID    int64                  `json:"student_id" validate:"required"`
	FromClass    string                 `json:"from_class" validate:"required"`
	ToClass      string                 `json:"to_class" validate:"required"`
	AcademicYear string                 `json:"academic_year" validate:"required"`
	Status       models.PromotionStatus `json:"status" validate:"required,oneof=Passed Failed"`
	Marks        string                 `json:"marks"`
	Grade        string                 `json:"grade"`
}

// PromotionService keeps the append-only promotion history.
type PromotionService struct {
	deps Deps
}

// NewPromotionService constructs a PromotionService.
func NewPromotionService(deps Deps) *PromotionService {
	return &PromotionService{deps: deps.withDefaults()}
}

// List returns the full history. Principal only.
func (s *PromotionService) List(ctx context.Context, actor models.Actor) ([]models.Promotion, error) {
	if err := s.deps.Auth.RequirePrincipal(actor); err != nil {
		return nil, err
	}
	return listAll(ctx, s.deps.Store.Promotions, "promotions")
}

// ForStudent returns the promotions of one student.
func (s *PromotionService) ForStudent(ctx context.Context, actor models.Actor, studentID int64) ([]models.Promotion, error) {
	if err := s.deps.Auth.ReadStudent(ctx, actor, studentID); err != nil {
		return nil, err
	}
	promotions, err := listAll(ctx, s.deps.Store.Promotions, "promotions")
	if err != nil {
		return nil, err
	}
	return PromotionsForStudent(promotions, studentID), nil
}

// Create appends a record. Principal only.
func (s *PromotionService) Create(ctx context.Context, actor models.Actor, req CreatePromotionRequest) (models.Promotion, error) {
	if err := s.deps.Auth.RequirePrincipal(actor); err != nil {
		return models.Promotion{}, err
	}
	if err := s.deps.validate(req, "invalid promotion payload"); err != nil {
		return models.Promotion{}, err
	}
	if ok, err := exists(ctx, s.deps.Store.Students, req.StudentID, "student"); err != nil {
		return models.Promotion{}, err
	} else if !ok {
		return models.Promotion{}, invalid("student does not exist")
	}
	created, err := insertOne(ctx, s.deps.Store.Promotions, models.Promotion{
		StudentID:    req.StudentID,
		FromClass:    req.FromClass,
		ToClass:      req.ToClass,
		AcademicYear: req.AcademicYear,
		Status:       req.Status,
		Marks:        req.Marks,
		Grade:        req.Grade,
	}, "promotion")
	if err != nil {
		return models.Promotion{}, err
	}
	s.deps.Logger.Info("promotion recorded", zap.Int64("promotion_id", created.ID), zap.Int64("student_id", created.StudentID))
	return created, nil
}

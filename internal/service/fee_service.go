package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-dashboard-api/internal/models"
)

// CreateFeeRequest raises a new fee against a student.
type CreateFeeRequest struct {
	StudentID int64   `json:"student_id" validate:"required"`
	Amount    float64 `json:"amount" validate:"gt=0"`
	DueDate   string  `json:"due_date" validate:"required,datetime=2006-01-02"`
}

// UpdateFeeRequest is a partial update of an outstanding fee.
type UpdateFeeRequest struct {
	Amount  *float64 `json:"amount" validate:"omitempty,gt=0"`
	DueDate *string  `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
}

// FeeService tracks fees and payments.
type FeeService struct {
	deps Deps
}

// NewFeeService constructs a FeeService.
func NewFeeService(deps Deps) *FeeService {
	return &FeeService{deps: deps.withDefaults()}
}

// List returns every fee. Principal only.
func (s *FeeService) List(ctx context.Context, actor models.Actor) ([]models.Fee, error) {
	if err := s.deps.Auth.RequirePrincipal(actor); err != nil {
		return nil, err
	}
	return listAll(ctx, s.deps.Store.Fees, "fees")
}

// ForStudent returns a student's fees.
func (s *FeeService) ForStudent(ctx context.Context, actor models.Actor, studentID int64) ([]models.Fee, error) {
	if err := s.deps.Auth.ReadStudent(ctx, actor, studentID); err != nil {
		return nil, err
	}
	fees, err := listAll(ctx, s.deps.Store.Fees, "fees")
	if err != nil {
		return nil, err
	}
	return FeesForStudent(fees, studentID), nil
}

// Create raises an unpaid fee. Principal only.
func (s *FeeService) Create(ctx context.Context, actor models.Actor, req CreateFeeRequest) (models.Fee, error) {
	if err := s.deps.Auth.RequirePrincipal(actor); err != nil {
		return models.Fee{}, err
	}
	if err := s.deps.validate(req, "invalid fee payload"); err != nil {
		return models.Fee{}, err
	}
	if ok, err := exists(ctx, s.deps.Store.Students, req.StudentID, "student"); err != nil {
		return models.Fee{}, err
	} else if !ok {
		return models.Fee{}, invalid("student does not exist")
	}
	created, err := insertOne(ctx, s.deps.Store.Fees, models.Fee{
		StudentID: req.StudentID,
		Amount:    req.Amount,
		DueDate:   req.DueDate,
		Status:    models.FeeUnpaid,
	}, "fee")
	if err != nil {
		return models.Fee{}, err
	}
	s.deps.Logger.Info("fee created", zap.Int64("fee_id", created.ID), zap.Int64("student_id", created.StudentID), zap.Float64("amount", created.Amount))
	return created, nil
}

// Update changes the amount or due date. Principal only.
func (s *FeeService) Update(ctx context.Context, actor models.Actor, id int64, req UpdateFeeRequest) (models.Fee, error) {
	if err := s.deps.Auth.RequirePrincipal(actor); err != nil {
		return models.Fee{}, err
	}
	if err := s.deps.validate(req, "invalid fee payload"); err != nil {
		return models.Fee{}, err
	}
	fee, err := getOne(ctx, s.deps.Store.Fees, id, "fee")
	if err != nil {
		return models.Fee{}, err
	}
	setIf(&fee.Amount, req.Amount)
	setIf(&fee.DueDate, req.DueDate)
	if err := updateOne(ctx, s.deps.Store.Fees, fee, "fee"); err != nil {
		return models.Fee{}, err
	}
	return fee, nil
}

// Pay settles a fee on behalf of the student. Paying twice returns the fee
// as it was settled the first time.
func (s *FeeService) Pay(ctx context.Context, actor models.Actor, id int64) (models.Fee, error) {
	fee, err := getOne(ctx, s.deps.Store.Fees, id, "fee")
	if err != nil {
		return models.Fee{}, err
	}
	if err := s.deps.Auth.ActForStudent(actor, fee.StudentID); err != nil {
		return models.Fee{}, err
	}
	if fee.Status == models.FeePaid {
		return fee, nil
	}
	paidOn := s.deps.today()
	fee.Status = models.FeePaid
	fee.PaymentDate = &paidOn
	if err := updateOne(ctx, s.deps.Store.Fees, fee, "fee"); err != nil {
		return models.Fee{}, err
	}
	s.deps.Logger.Info("fee paid", zap.Int64("fee_id", fee.ID), zap.Int64("student_id", fee.StudentID), zap.String("payment_date", paidOn))
	return fee, nil
}

// Delete removes a fee; unknown ids are ignored. Principal only.
func (s *FeeService) Delete(ctx context.Context, actor models.Actor, id int64) error {
	if err := s.deps.Auth.RequirePrincipal(actor); err != nil {
		return err
	}
	return deleteOne(ctx, s.deps.Store.Fees, id, "fee")
}

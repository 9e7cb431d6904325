package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-dashboard-api/internal/models"
)

// CreateLeaveRequest files a leave application for a student.
type CreateLeaveRequest struct {
	StudentID int64  `json:"student_id" validate:"required"`
	FromDate  string `json:"from_date" validate:"required,datetime=2006-01-02"`
	ToDate    string `json:"to_date" validate:"required,datetime=2006-01-02"`
	Reason    string `json:"reason" validate:"required"`
}

// DecideLeaveRequest approves or rejects a pending request.
type DecideLeaveRequest struct {
	Status models.LeaveStatus `json:"status" validate:"required,oneof=Approved Rejected"`
}

// LeaveService handles leave applications and their approval.
type LeaveService struct {
	deps Deps
}

// NewLeaveService constructs a LeaveService.
func NewLeaveService(deps Deps) *LeaveService {
	return &LeaveService{deps: deps.withDefaults()}
}

// ForStudent returns a student's leave history.
func (s *LeaveService) ForStudent(ctx context.Context, actor models.Actor, studentID int64) ([]models.LeaveRequest, error) {
	if err := s.deps.Auth.ReadStudent(ctx, actor, studentID); err != nil {
		return nil, err
	}
	requests, err := listAll(ctx, s.deps.Store.LeaveRequests, "leave requests")
	if err != nil {
		return nil, err
	}
	return LeaveRequestsForStudent(requests, studentID), nil
}

// ForTeacher returns the requests filed by students the teacher teaches.
func (s *LeaveService) ForTeacher(ctx context.Context, actor models.Actor, teacherID int64) ([]models.LeaveRequest, error) {
	if err := s.deps.Auth.ReadTeacher(actor, teacherID); err != nil {
		return nil, err
	}
	requests, err := listAll(ctx, s.deps.Store.LeaveRequests, "leave requests")
	if err != nil {
		return nil, err
	}
	entries, err := listAll(ctx, s.deps.Store.Timetable, "timetable")
	if err != nil {
		return nil, err
	}
	students, err := listAll(ctx, s.deps.Store.Students, "students")
	if err != nil {
		return nil, err
	}
	return LeaveRequestsForTeacher(requests, entries, students, teacherID), nil
}

// Create files a pending request routed to the first teacher on the
// student's class timetable.
func (s *LeaveService) Create(ctx context.Context, actor models.Actor, req CreateLeaveRequest) (models.LeaveRequest, error) {
	if err := s.deps.Auth.RequireRole(actor, models.RoleStudent, models.RoleParent, models.RolePrincipal); err != nil {
		return models.LeaveRequest{}, err
	}
	if err := s.deps.validate(req, "invalid leave request payload"); err != nil {
		return models.LeaveRequest{}, err
	}
	if err := s.deps.Auth.ActForStudent(actor, req.StudentID); err != nil {
		return models.LeaveRequest{}, err
	}
	// Dates share the ISO layout so lexical order is chronological.
	if req.ToDate < req.FromDate {
		return models.LeaveRequest{}, invalid("to_date must not be before from_date")
	}

	student, err := getOne(ctx, s.deps.Store.Students, req.StudentID, "student")
	if err != nil {
		if isNotFound(err) {
			return models.LeaveRequest{}, invalid("student does not exist")
		}
		return models.LeaveRequest{}, err
	}
	entries, err := listAll(ctx, s.deps.Store.Timetable, "timetable")
	if err != nil {
		return models.LeaveRequest{}, err
	}
	classEntries := TimetableForClass(entries, student.ClassID)
	if len(classEntries) == 0 {
		return models.LeaveRequest{}, invalid("no teacher is assigned to the student's class")
	}

	created, err := insertOne(ctx, s.deps.Store.LeaveRequests, models.LeaveRequest{
		StudentID: student.ID,
		TeacherID: classEntries[0].TeacherID,
		FromDate:  req.FromDate,
		ToDate:    req.ToDate,
		Reason:    req.Reason,
		Status:    models.LeavePending,
	}, "leave request")
	if err != nil {
		return models.LeaveRequest{}, err
	}
	s.deps.Logger.Info("leave requested",
		zap.Int64("leave_id", created.ID),
		zap.Int64("student_id", created.StudentID),
		zap.Int64("teacher_id", created.TeacherID),
	)
	return created, nil
}

// UpdateStatus records the approval decision.
func (s *LeaveService) UpdateStatus(ctx context.Context, actor models.Actor, id int64, req DecideLeaveRequest) (models.LeaveRequest, error) {
	if err := s.deps.validate(req, "invalid leave status"); err != nil {
		return models.LeaveRequest{}, err
	}
	request, err := getOne(ctx, s.deps.Store.LeaveRequests, id, "leave request")
	if err != nil {
		return models.LeaveRequest{}, err
	}
	if err := s.deps.Auth.WriteStudentRecord(ctx, actor, request.StudentID); err != nil {
		return models.LeaveRequest{}, err
	}
	request.Status = req.Status
	if err := updateOne(ctx, s.deps.Store.LeaveRequests, request, "leave request"); err != nil {
		return models.LeaveRequest{}, err
	}
	s.deps.Logger.Info("leave decided", zap.Int64("leave_id", id), zap.String("status", string(request.Status)))
	return request, nil
}

// Delete removes a request; unknown ids are ignored. Principal only.
func (s *LeaveService) Delete(ctx context.Context, actor models.Actor, id int64) error {
	if err := s.deps.Auth.RequirePrincipal(actor); err != nil {
		return err
	}
	return deleteOne(ctx, s.deps.Store.LeaveRequests, id, "leave request")
}

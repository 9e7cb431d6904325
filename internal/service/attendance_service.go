package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-dashboard-api/internal/models"
)

// RecordAttendanceRequest marks a student for a day. Teachers always record
// under their own id; the principal must name the teacher.
type RecordAttendanceRequest struct {
	StudentID int64                   `json:"student_id" validate:"required"`
	TeacherID int64                   `json:"teacher_id"`
	Date      string                  `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Status    models.AttendanceStatus `json:"status" validate:"required,oneof=Present Absent Late"`
}

// UpdateAttendanceRequest changes the recorded status.
type UpdateAttendanceRequest struct {
	Status models.AttendanceStatus `json:"status" validate:"required,oneof=Present Absent Late"`
}

// AttendanceService records and reads daily attendance.
type AttendanceService struct {
	deps Deps
}

// NewAttendanceService constructs an AttendanceService.
func NewAttendanceService(deps Deps) *AttendanceService {
	return &AttendanceService{deps: deps.withDefaults()}
}

// ForStudent returns a student's attendance history.
func (s *AttendanceService) ForStudent(ctx context.Context, actor models.Actor, studentID int64) ([]models.Attendance, error) {
	if err := s.deps.Auth.ReadStudent(ctx, actor, studentID); err != nil {
		return nil, err
	}
	records, err := listAll(ctx, s.deps.Store.Attendance, "attendance")
	if err != nil {
		return nil, err
	}
	return AttendanceForStudent(records, studentID), nil
}

// ForTeacher returns the records a teacher has taken.
func (s *AttendanceService) ForTeacher(ctx context.Context, actor models.Actor, teacherID int64) ([]models.Attendance, error) {
	if err := s.deps.Auth.ReadTeacher(actor, teacherID); err != nil {
		return nil, err
	}
	records, err := listAll(ctx, s.deps.Store.Attendance, "attendance")
	if err != nil {
		return nil, err
	}
	return AttendanceForTeacher(records, teacherID), nil
}

// Record stores a new attendance row.
func (s *AttendanceService) Record(ctx context.Context, actor models.Actor, req RecordAttendanceRequest) (models.Attendance, error) {
	if err := s.deps.validate(req, "invalid attendance payload"); err != nil {
		return models.Attendance{}, err
	}
	if err := s.deps.Auth.WriteStudentRecord(ctx, actor, req.StudentID); err != nil {
		return models.Attendance{}, err
	}
	teacherID, err := resolveRecordingTeacher(ctx, s.deps, actor, req.TeacherID)
	if err != nil {
		return models.Attendance{}, err
	}
	record := models.Attendance{
		StudentID: req.StudentID,
		TeacherID: teacherID,
		Date:      req.Date,
		Status:    req.Status,
	}
	if record.Date == "" {
		record.Date = s.deps.today()
	}
	created, err := insertOne(ctx, s.deps.Store.Attendance, record, "attendance")
	if err != nil {
		return models.Attendance{}, err
	}
	s.deps.invalidatePerformance(ctx)
	s.deps.Logger.Info("attendance recorded", zap.Int64("attendance_id", created.ID), zap.Int64("student_id", created.StudentID))
	return created, nil
}

// UpdateStatus changes the status of an existing row.
func (s *AttendanceService) UpdateStatus(ctx context.Context, actor models.Actor, id int64, req UpdateAttendanceRequest) (models.Attendance, error) {
	if err := s.deps.validate(req, "invalid attendance payload"); err != nil {
		return models.Attendance{}, err
	}
	record, err := getOne(ctx, s.deps.Store.Attendance, id, "attendance")
	if err != nil {
		return models.Attendance{}, err
	}
	if err := s.deps.Auth.WriteStudentRecord(ctx, actor, record.StudentID); err != nil {
		return models.Attendance{}, err
	}
	record.Status = req.Status
	if err := updateOne(ctx, s.deps.Store.Attendance, record, "attendance"); err != nil {
		return models.Attendance{}, err
	}
	s.deps.invalidatePerformance(ctx)
	return record, nil
}

// Delete removes a row; unknown ids are ignored.
func (s *AttendanceService) Delete(ctx context.Context, actor models.Actor, id int64) error {
	record, err := getOne(ctx, s.deps.Store.Attendance, id, "attendance")
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return err
	}
	if err := s.deps.Auth.WriteStudentRecord(ctx, actor, record.StudentID); err != nil {
		return err
	}
	if err := deleteOne(ctx, s.deps.Store.Attendance, id, "attendance"); err != nil {
		return err
	}
	s.deps.invalidatePerformance(ctx)
	return nil
}

// resolveRecordingTeacher forces a teacher's own id and checks the one the
// principal supplies.
func resolveRecordingTeacher(ctx context.Context, deps Deps, actor models.Actor, requested int64) (int64, error) {
	if actor.IsTeacher() {
		return actor.TeacherID, nil
	}
	if requested == 0 {
		return 0, invalid("teacher_id is required")
	}
	ok, err := exists(ctx, deps.Store.Teachers, requested, "teacher")
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, invalid("teacher does not exist")
	}
	return requested, nil
}

package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-dashboard-api/internal/models"
)

// CreateCommunicationRequest is a message from a student to a teacher.
type CreateCommunicationRequest struct {
	StudentID int64  `json:"student_id" validate:"required"`
	TeacherID int64  `json:"teacher_id" validate:"required"`
	Subject   string `json:"subject" validate:"required"`
	Message   string `json:"message" validate:"required"`
}

// UpdateCommunicationRequest marks a message read and optionally replies.
type UpdateCommunicationRequest struct {
	IsReadByTeacher *bool   `json:"is_read_by_teacher"`
	Reply           *string `json:"reply" validate:"omitempty,min=1"`
}

// CommunicationService carries student to teacher messages.
type CommunicationService struct {
	deps Deps
}

// NewCommunicationService constructs a CommunicationService.
func NewCommunicationService(deps Deps) *CommunicationService {
	return &CommunicationService{deps: deps.withDefaults()}
}

// ForStudent returns a student's messages, newest first.
func (s *CommunicationService) ForStudent(ctx context.Context, actor models.Actor, studentID int64) ([]models.Communication, error) {
	if err := s.deps.Auth.ReadStudent(ctx, actor, studentID); err != nil {
		return nil, err
	}
	comms, err := listAll(ctx, s.deps.Store.Communications, "communications")
	if err != nil {
		return nil, err
	}
	return CommunicationsForStudent(comms, studentID), nil
}

// ForTeacher returns a teacher's inbox, newest first.
func (s *CommunicationService) ForTeacher(ctx context.Context, actor models.Actor, teacherID int64) ([]models.Communication, error) {
	if err := s.deps.Auth.ReadTeacher(actor, teacherID); err != nil {
		return nil, err
	}
	comms, err := listAll(ctx, s.deps.Store.Communications, "communications")
	if err != nil {
		return nil, err
	}
	return CommunicationsForTeacher(comms, teacherID), nil
}

// Create sends a new unread message dated today. Students only, for themselves.
func (s *CommunicationService) Create(ctx context.Context, actor models.Actor, req CreateCommunicationRequest) (models.Communication, error) {
	if err := s.deps.Auth.RequireRole(actor, models.RoleStudent); err != nil {
		return models.Communication{}, err
	}
	if err := s.deps.validate(req, "invalid communication payload"); err != nil {
		return models.Communication{}, err
	}
	if err := s.deps.Auth.ActForStudent(actor, req.StudentID); err != nil {
		return models.Communication{}, err
	}
	if ok, err := exists(ctx, s.deps.Store.Teachers, req.TeacherID, "teacher"); err != nil {
		return models.Communication{}, err
	} else if !ok {
		return models.Communication{}, invalid("teacher does not exist")
	}
	created, err := insertOne(ctx, s.deps.Store.Communications, models.Communication{
		StudentID:       req.StudentID,
		TeacherID:       req.TeacherID,
		Subject:         req.Subject,
		Message:         req.Message,
		Date:            s.deps.today(),
		IsReadByTeacher: false,
	}, "communication")
	if err != nil {
		return models.Communication{}, err
	}
	s.deps.Logger.Info("communication sent", zap.Int64("communication_id", created.ID), zap.Int64("teacher_id", created.TeacherID))
	return created, nil
}

// Update lets the addressed teacher, or the principal, mark a message read
// and reply once. Students may write to any teacher, so the addressee is
// admitted even without a timetable link to the student.
func (s *CommunicationService) Update(ctx context.Context, actor models.Actor, id int64, req UpdateCommunicationRequest) (models.Communication, error) {
	if err := s.deps.validate(req, "invalid communication payload"); err != nil {
		return models.Communication{}, err
	}
	comm, err := getOne(ctx, s.deps.Store.Communications, id, "communication")
	if err != nil {
		return models.Communication{}, err
	}
	if err := s.deps.Auth.RequireRole(actor, models.RolePrincipal, models.RoleTeacher); err != nil {
		return models.Communication{}, err
	}
	if actor.IsTeacher() && actor.TeacherID != comm.TeacherID {
		return models.Communication{}, forbidden("message is addressed to another teacher")
	}

	setIf(&comm.IsReadByTeacher, req.IsReadByTeacher)
	if req.Reply != nil {
		if comm.Replied() {
			return models.Communication{}, conflict("communication already has a reply")
		}
		reply := strings.TrimSpace(*req.Reply)
		if reply == "" {
			return models.Communication{}, invalid("reply must not be blank")
		}
		repliedOn := s.deps.today()
		comm.Reply = &reply
		comm.ReplyDate = &repliedOn
		comm.IsReadByTeacher = true
	}
	if err := updateOne(ctx, s.deps.Store.Communications, comm, "communication"); err != nil {
		return models.Communication{}, err
	}
	return comm, nil
}

// Delete removes a message; unknown ids are ignored. Principal only.
func (s *CommunicationService) Delete(ctx context.Context, actor models.Actor, id int64) error {
	if err := s.deps.Auth.RequirePrincipal(actor); err != nil {
		return err
	}
	return deleteOne(ctx, s.deps.Store.Communications, id, "communication")
}

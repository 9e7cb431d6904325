package service

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-dashboard-api/internal/models"
	"github.com/noah-isme/sma-dashboard-api/internal/repository"
)

// CreateAnnouncementRequest publishes a notice. Date defaults to today.
type CreateAnnouncementRequest struct {
	Title          string                      `json:"title" validate:"required"`
	Message        string                      `json:"message" validate:"required"`
	Date           string                      `json:"date" validate:"omitempty,datetime=2006-01-02"`
	RoleVisibility models.AnnouncementAudience `json:"role_visibility" validate:"required,oneof=All Teachers Students Parents"`
}

// UpdateAnnouncementRequest is a partial update.
type UpdateAnnouncementRequest struct {
	Title          *string                      `json:"title" validate:"omitempty,min=1"`
	Message        *string                      `json:"message" validate:"omitempty,min=1"`
	Date           *string                      `json:"date" validate:"omitempty,datetime=2006-01-02"`
	RoleVisibility *models.AnnouncementAudience `json:"role_visibility" validate:"omitempty,oneof=All Teachers Students Parents"`
}

// AnnouncementService publishes notices filtered by audience.
type AnnouncementService struct {
	deps Deps
}

// NewAnnouncementService constructs an AnnouncementService.
func NewAnnouncementService(deps Deps) *AnnouncementService {
	return &AnnouncementService{deps: deps.withDefaults()}
}

// List returns the announcements visible to the actor, newest first.
func (s *AnnouncementService) List(ctx context.Context, actor models.Actor) ([]models.Announcement, error) {
	all, err := listAll(ctx, s.deps.Store.Announcements, "announcements")
	if err != nil {
		return nil, err
	}
	visible := repository.Filter(all, func(a models.Announcement) bool { return a.VisibleTo(actor.Role) })
	sort.SliceStable(visible, func(i, j int) bool { return visible[i].Date > visible[j].Date })
	return visible, nil
}

// Create publishes an announcement. Principal only.
func (s *AnnouncementService) Create(ctx context.Context, actor models.Actor, req CreateAnnouncementRequest) (models.Announcement, error) {
	if err := s.deps.Auth.RequirePrincipal(actor); err != nil {
		return models.Announcement{}, err
	}
	if err := s.deps.validate(req, "invalid announcement payload"); err != nil {
		return models.Announcement{}, err
	}
	announcement := models.Announcement{
		Title:          req.Title,
		Message:        req.Message,
		Date:           req.Date,
		RoleVisibility: req.RoleVisibility,
	}
	if announcement.Date == "" {
		announcement.Date = s.deps.today()
	}
	created, err := insertOne(ctx, s.deps.Store.Announcements, announcement, "announcement")
	if err != nil {
		return models.Announcement{}, err
	}
	s.deps.Logger.Info("announcement created", zap.Int64("announcement_id", created.ID), zap.String("audience", string(created.RoleVisibility)))
	return created, nil
}

// Update merges the supplied fields. Principal only.
func (s *AnnouncementService) Update(ctx context.Context, actor models.Actor, id int64, req UpdateAnnouncementRequest) (models.Announcement, error) {
	if err := s.deps.Auth.RequirePrincipal(actor); err != nil {
		return models.Announcement{}, err
	}
	if err := s.deps.validate(req, "invalid announcement payload"); err != nil {
		return models.Announcement{}, err
	}
	announcement, err := getOne(ctx, s.deps.Store.Announcements, id, "announcement")
	if err != nil {
		return models.Announcement{}, err
	}
	setIf(&announcement.Title, req.Title)
	setIf(&announcement.Message, req.Message)
	setIf(&announcement.Date, req.Date)
	setIf(&announcement.RoleVisibility, req.RoleVisibility)
	if err := updateOne(ctx, s.deps.Store.Announcements, announcement, "announcement"); err != nil {
		return models.Announcement{}, err
	}
	return announcement, nil
}

// Delete removes an announcement; unknown ids are ignored. Principal only.
func (s *AnnouncementService) Delete(ctx context.Context, actor models.Actor, id int64) error {
	if err := s.deps.Auth.RequirePrincipal(actor); err != nil {
		return err
	}
	if err := deleteOne(ctx, s.deps.Store.Announcements, id, "announcement"); err != nil {
		return err
	}
	s.deps.Logger.Info("announcement deleted", zap.Int64("announcement_id", id))
	return nil
}

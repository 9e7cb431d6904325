package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-dashboard-api/internal/dto"
	"github.com/noah-isme/sma-dashboard-api/internal/models"
	appErrors "github.com/noah-isme/sma-dashboard-api/pkg/errors"
	"github.com/noah-isme/sma-dashboard-api/pkg/response"
)

type dashboardService interface {
	Principal(ctx context.Context, actor models.Actor) (*dto.PrincipalDashboardResponse, error)
	Teacher(ctx context.Context, actor models.Actor, teacherID int64) (*dto.TeacherDashboardResponse, error)
	Student(ctx context.Context, actor models.Actor, studentID int64) (*dto.StudentDashboardResponse, error)
}

// DashboardHandler wires dashboard service to HTTP endpoints.
type DashboardHandler struct {
	service dashboardService
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service dashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Me godoc
// @Summary Dashboard of the signed-in caller
// @Description Principals get the school summary, teachers their own day, students and parents the bound student's summary
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /dashboard [get]
func (h *DashboardHandler) Me(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	switch actor.Role {
	case models.RolePrincipal:
		h.render(c, func(ctx context.Context) (interface{}, error) { return h.service.Principal(ctx, actor) })
	case models.RoleTeacher:
		h.render(c, func(ctx context.Context) (interface{}, error) { return h.service.Teacher(ctx, actor, actor.TeacherID) })
	default:
		studentID, ok := actor.OwnStudentID()
		if !ok {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "no student is linked to this account"))
			return
		}
		h.render(c, func(ctx context.Context) (interface{}, error) { return h.service.Student(ctx, actor, studentID) })
	}
}

// Principal godoc
// @Summary School-wide dashboard
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /dashboard/principal [get]
func (h *DashboardHandler) Principal(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	h.render(c, func(ctx context.Context) (interface{}, error) { return h.service.Principal(ctx, actor) })
}

// Teacher godoc
// @Summary Teacher dashboard
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Param id path int true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Router /dashboard/teachers/{id} [get]
func (h *DashboardHandler) Teacher(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	h.render(c, func(ctx context.Context) (interface{}, error) { return h.service.Teacher(ctx, actor, id) })
}

// Student godoc
// @Summary Student dashboard
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /dashboard/students/{id} [get]
func (h *DashboardHandler) Student(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	h.render(c, func(ctx context.Context) (interface{}, error) { return h.service.Student(ctx, actor, id) })
}

func (h *DashboardHandler) render(c *gin.Context, load func(ctx context.Context) (interface{}, error)) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	summary, err := load(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, summary)
}

package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-dashboard-api/internal/middleware"
	"github.com/noah-isme/sma-dashboard-api/internal/models"
	"github.com/noah-isme/sma-dashboard-api/pkg/response"
)

type performanceService interface {
	School(ctx context.Context, actor models.Actor) (models.SchoolPerformance, bool, error)
	Student(ctx context.Context, actor models.Actor, studentID int64) (models.StudentPerformance, error)
}

// PerformanceHandler exposes aggregated academic performance.
type PerformanceHandler struct {
	service performanceService
}

// NewPerformanceHandler constructs the handler.
func NewPerformanceHandler(service performanceService) *PerformanceHandler {
	return &PerformanceHandler{service: service}
}

// School godoc
// @Summary School performance
// @Description Average mark, subject averages and the top five students
// @Tags Performance
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /performance/school [get]
func (h *PerformanceHandler) School(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	summary, cacheHit, err := h.service.School(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.OK(c, summary, middleware.ExtractMeta(c))
}

// Student godoc
// @Summary Performance report of a student
// @Tags Performance
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /performance/students/{id} [get]
func (h *PerformanceHandler) Student(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	report, err := h.service.Student(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, report, middleware.ExtractMeta(c))
}

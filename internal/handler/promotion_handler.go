package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-dashboard-api/internal/service"
	"github.com/noah-isme/sma-dashboard-api/pkg/response"
)

// PromotionHandler exposes the promotion ledger.
type PromotionHandler struct {
	promotions *service.PromotionService
}

// NewPromotionHandler constructs PromotionHandler.
func NewPromotionHandler(promotions *service.PromotionService) *PromotionHandler {
	return &PromotionHandler{promotions: promotions}
}

// List godoc
// @Summary List promotions
// @Tags Promotions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /promotions [get]
func (h *PromotionHandler) List(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	promotions, err := h.promotions.List(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, promotions)
}

// ForStudent godoc
// @Summary Promotions of a student
// @Tags Promotions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/promotions [get]
func (h *PromotionHandler) ForStudent(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	promotions, err := h.promotions.ForStudent(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, promotions)
}

// Create godoc
// @Summary Record a promotion decision
// @Tags Promotions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.CreatePromotionRequest true "Promotion"
// @Success 201 {object} response.Envelope
// @Router /promotions [post]
func (h *PromotionHandler) Create(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req service.CreatePromotionRequest
	if !bindJSON(c, &req, "invalid promotion payload") {
		return
	}
	promotion, err := h.promotions.Create(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, promotion)
}

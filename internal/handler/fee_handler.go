package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-dashboard-api/internal/service"
	"github.com/noah-isme/sma-dashboard-api/pkg/response"
)

// FeeHandler exposes fee endpoints.
type FeeHandler struct {
	fees *service.FeeService
}

// NewFeeHandler constructs FeeHandler.
func NewFeeHandler(fees *service.FeeService) *FeeHandler {
	return &FeeHandler{fees: fees}
}

// List godoc
// @Summary List every fee
// @Tags Fees
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /fees [get]
func (h *FeeHandler) List(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	fees, err := h.fees.List(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, fees)
}

// ForStudent godoc
// @Summary Fees of a student
// @Tags Fees
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/fees [get]
func (h *FeeHandler) ForStudent(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	fees, err := h.fees.ForStudent(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, fees)
}

// Create godoc
// @Summary Raise a fee
// @Tags Fees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.CreateFeeRequest true "Fee"
// @Success 201 {object} response.Envelope
// @Router /fees [post]
func (h *FeeHandler) Create(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req service.CreateFeeRequest
	if !bindJSON(c, &req, "invalid fee payload") {
		return
	}
	fee, err := h.fees.Create(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, fee)
}

// Update godoc
// @Summary Update a fee
// @Tags Fees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Fee ID"
// @Param payload body service.UpdateFeeRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Router /fees/{id} [put]
func (h *FeeHandler) Update(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req service.UpdateFeeRequest
	if !bindJSON(c, &req, "invalid fee payload") {
		return
	}
	fee, err := h.fees.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, fee)
}

// Pay godoc
// @Summary Pay a fee
// @Description Marks the fee as paid today; paying a settled fee returns it unchanged
// @Tags Fees
// @Produce json
// @Security BearerAuth
// @Param id path int true "Fee ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /fees/{id}/pay [post]
func (h *FeeHandler) Pay(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	fee, err := h.fees.Pay(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, fee)
}

// Delete godoc
// @Summary Delete a fee
// @Tags Fees
// @Security BearerAuth
// @Param id path int true "Fee ID"
// @Success 204
// @Router /fees/{id} [delete]
func (h *FeeHandler) Delete(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.fees.Delete(c.Request.Context(), actor, id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-dashboard-api/internal/service"
	"github.com/noah-isme/sma-dashboard-api/pkg/response"
)

// LeaveHandler exposes leave request endpoints.
type LeaveHandler struct {
	leave *service.LeaveService
}

// NewLeaveHandler constructs LeaveHandler.
func NewLeaveHandler(leave *service.LeaveService) *LeaveHandler {
	return &LeaveHandler{leave: leave}
}

// ForStudent godoc
// @Summary Leave requests of a student
// @Tags Leave
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/leave-requests [get]
func (h *LeaveHandler) ForStudent(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	requests, err := h.leave.ForStudent(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, requests)
}

// ForTeacher godoc
// @Summary Leave requests routed to a teacher
// @Tags Leave
// @Produce json
// @Security BearerAuth
// @Param id path int true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Router /teachers/{id}/leave-requests [get]
func (h *LeaveHandler) ForTeacher(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	requests, err := h.leave.ForTeacher(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, requests)
}

// Create godoc
// @Summary Apply for leave
// @Tags Leave
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.CreateLeaveRequest true "Leave request"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /leave-requests [post]
func (h *LeaveHandler) Create(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req service.CreateLeaveRequest
	if !bindJSON(c, &req, "invalid leave payload") {
		return
	}
	request, err := h.leave.Create(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, request)
}

// Decide godoc
// @Summary Approve or reject a leave request
// @Tags Leave
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Leave request ID"
// @Param payload body service.DecideLeaveRequest true "Decision"
// @Success 200 {object} response.Envelope
// @Router /leave-requests/{id}/status [put]
func (h *LeaveHandler) Decide(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req service.DecideLeaveRequest
	if !bindJSON(c, &req, "invalid leave decision") {
		return
	}
	request, err := h.leave.UpdateStatus(c.Request.Context(), actor, id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, request)
}

func (h *LeaveHandler) Delete(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.leave.Delete(c.Request.Context(), actor, id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

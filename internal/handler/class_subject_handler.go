package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-dashboard-api/internal/service"
	"github.com/noah-isme/sma-dashboard-api/pkg/response"
)

// ClassSubjectHandler manages which subjects a class takes.
type ClassSubjectHandler struct {
	classes *service.ClassService
}

// NewClassSubjectHandler constructs the handler.
func NewClassSubjectHandler(classes *service.ClassService) *ClassSubjectHandler {
	return &ClassSubjectHandler{classes: classes}
}

// List godoc
// @Summary List subject assignments of a class
// @Tags Classes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Class ID"
// @Success 200 {object} response.Envelope
// @Router /classes/{id}/subjects [get]
func (h *ClassSubjectHandler) List(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	assignments, err := h.classes.Assignments(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, assignments)
}

// Assign godoc
// @Summary Assign subject to class
// @Tags Classes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Class ID"
// @Param payload body service.AssignSubjectRequest true "Subject"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /classes/{id}/subjects [post]
func (h *ClassSubjectHandler) Assign(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req service.AssignSubjectRequest
	if !bindJSON(c, &req, "invalid assignment payload") {
		return
	}
	assignment, err := h.classes.AddAssignment(c.Request.Context(), actor, id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, assignment)
}

// Unassign godoc
// @Summary Remove a subject assignment
// @Tags Classes
// @Security BearerAuth
// @Param assignmentId path int true "Assignment ID"
// @Success 204
// @Router /class-subjects/{assignmentId} [delete]
func (h *ClassSubjectHandler) Unassign(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "assignmentId")
	if !ok {
		return
	}
	if err := h.classes.DeleteAssignment(c.Request.Context(), actor, id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

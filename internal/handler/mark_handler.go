package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-dashboard-api/internal/service"
	"github.com/noah-isme/sma-dashboard-api/pkg/response"
)

// MarkHandler exposes exam mark endpoints.
type MarkHandler struct {
	marks *service.MarkService
}

// NewMarkHandler constructs MarkHandler.
func NewMarkHandler(marks *service.MarkService) *MarkHandler {
	return &MarkHandler{marks: marks}
}

// ForStudent godoc
// @Summary Marks of a student
// @Tags Marks
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/marks [get]
func (h *MarkHandler) ForStudent(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	marks, err := h.marks.ForStudent(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, marks)
}

// ForTeacher godoc
// @Summary Marks of a teacher's students
// @Tags Marks
// @Produce json
// @Security BearerAuth
// @Param id path int true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Router /teachers/{id}/marks [get]
func (h *MarkHandler) ForTeacher(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	marks, err := h.marks.ForTeacher(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, marks)
}

// Record godoc
// @Summary Record a mark
// @Tags Marks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.RecordMarkRequest true "Mark"
// @Success 201 {object} response.Envelope
// @Router /marks [post]
func (h *MarkHandler) Record(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req service.RecordMarkRequest
	if !bindJSON(c, &req, "invalid mark payload") {
		return
	}
	mark, err := h.marks.Record(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, mark)
}

// Update godoc
// @Summary Update a mark
// @Tags Marks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Mark ID"
// @Param payload body service.UpdateMarkRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Router /marks/{id} [put]
func (h *MarkHandler) Update(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req service.UpdateMarkRequest
	if !bindJSON(c, &req, "invalid mark payload") {
		return
	}
	mark, err := h.marks.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, mark)
}

// Delete removes a mark.
// @Summary Delete a mark
// @Tags Marks
// @Security BearerAuth
// @Param id path int true "Mark ID"
// @Success 204
// @Router /marks/{id} [delete]
func (h *MarkHandler) Delete(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.marks.Delete(c.Request.Context(), actor, id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

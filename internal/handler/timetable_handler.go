package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-dashboard-api/internal/service"
	"github.com/noah-isme/sma-dashboard-api/pkg/response"
)

// TimetableHandler exposes weekly timetable endpoints.
type TimetableHandler struct {
	timetable *service.TimetableService
}

// NewTimetableHandler constructs TimetableHandler.
func NewTimetableHandler(timetable *service.TimetableService) *TimetableHandler {
	return &TimetableHandler{timetable: timetable}
}

// List godoc
// @Summary List timetable entries visible to the caller
// @Tags Timetable
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /timetable [get]
func (h *TimetableHandler) List(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	entries, err := h.timetable.List(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, entries)
}

// ForClass godoc
// @Summary Timetable of a class
// @Tags Timetable
// @Produce json
// @Security BearerAuth
// @Param id path int true "Class ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /classes/{id}/timetable [get]
func (h *TimetableHandler) ForClass(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	entries, err := h.timetable.ForClass(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, entries)
}

// ForTeacher godoc
// @Summary Timetable of a teacher
// @Tags Timetable
// @Produce json
// @Security BearerAuth
// @Param id path int true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Router /teachers/{id}/timetable [get]
func (h *TimetableHandler) ForTeacher(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	entries, err := h.timetable.ForTeacher(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, entries)
}

// Create godoc
// @Summary Add timetable entry
// @Tags Timetable
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.TimetableEntryRequest true "Entry"
// @Success 201 {object} response.Envelope
// @Router /timetable [post]
func (h *TimetableHandler) Create(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req service.TimetableEntryRequest
	if !bindJSON(c, &req, "invalid timetable payload") {
		return
	}
	entry, err := h.timetable.Create(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, entry)
}

// Update godoc
// @Summary Update timetable entry
// @Tags Timetable
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Entry ID"
// @Param payload body service.UpdateTimetableEntryRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Router /timetable/{id} [put]
func (h *TimetableHandler) Update(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req service.UpdateTimetableEntryRequest
	if !bindJSON(c, &req, "invalid timetable payload") {
		return
	}
	entry, err := h.timetable.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, entry)
}

// Delete godoc
// @Summary Delete timetable entry
// @Tags Timetable
// @Security BearerAuth
// @Param id path int true "Entry ID"
// @Success 204
// @Router /timetable/{id} [delete]
func (h *TimetableHandler) Delete(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.timetable.Delete(c.Request.Context(), actor, id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

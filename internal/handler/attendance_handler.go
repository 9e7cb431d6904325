package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-dashboard-api/internal/service"
	"github.com/noah-isme/sma-dashboard-api/pkg/response"
)

// AttendanceHandler exposes daily attendance endpoints.
type AttendanceHandler struct {
	attendance *service.AttendanceService
}

// NewAttendanceHandler constructs AttendanceHandler.
func NewAttendanceHandler(attendance *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendance: attendance}
}

// ForStudent godoc
// @Summary Attendance of a student
// @Tags Attendance
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /students/{id}/attendance [get]
func (h *AttendanceHandler) ForStudent(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	records, err := h.attendance.ForStudent(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, records)
}

// ForTeacher godoc
// @Summary Attendance of a teacher's students
// @Tags Attendance
// @Produce json
// @Security BearerAuth
// @Param id path int true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Router /teachers/{id}/attendance [get]
func (h *AttendanceHandler) ForTeacher(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	records, err := h.attendance.ForTeacher(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, records)
}

// Record godoc
// @Summary Record attendance
// @Description Teachers record for their own students; the teacher id is taken from the caller
// @Tags Attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.RecordAttendanceRequest true "Attendance"
// @Success 201 {object} response.Envelope
// @Router /attendance [post]
func (h *AttendanceHandler) Record(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req service.RecordAttendanceRequest
	if !bindJSON(c, &req, "invalid attendance payload") {
		return
	}
	record, err := h.attendance.Record(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, record)
}

// UpdateStatus godoc
// @Summary Change an attendance status
// @Tags Attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Attendance ID"
// @Param payload body service.UpdateAttendanceRequest true "Status"
// @Success 200 {object} response.Envelope
// @Router /attendance/{id} [put]
func (h *AttendanceHandler) UpdateStatus(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req service.UpdateAttendanceRequest
	if !bindJSON(c, &req, "invalid attendance payload") {
		return
	}
	record, err := h.attendance.UpdateStatus(c.Request.Context(), actor, id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, record)
}

// Delete godoc
// @Summary Delete attendance record
// @Tags Attendance
// @Security BearerAuth
// @Param id path int true "Attendance ID"
// @Success 204
// @Router /attendance/{id} [delete]
func (h *AttendanceHandler) Delete(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.attendance.Delete(c.Request.Context(), actor, id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

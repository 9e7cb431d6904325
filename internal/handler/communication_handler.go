package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-dashboard-api/internal/service"
	"github.com/noah-isme/sma-dashboard-api/pkg/response"
)

// CommunicationHandler exposes student-teacher messaging.
type CommunicationHandler struct {
	messages *service.CommunicationService
}

// NewCommunicationHandler constructs CommunicationHandler.
func NewCommunicationHandler(messages *service.CommunicationService) *CommunicationHandler {
	return &CommunicationHandler{messages: messages}
}

// ForStudent godoc
// @Summary Messages sent by a student
// @Tags Communications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/communications [get]
func (h *CommunicationHandler) ForStudent(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	messages, err := h.messages.ForStudent(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, messages)
}

// ForTeacher godoc
// @Summary Inbox of a teacher
// @Tags Communications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Router /teachers/{id}/communications [get]
func (h *CommunicationHandler) ForTeacher(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	messages, err := h.messages.ForTeacher(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, messages)
}

// Create godoc
// @Summary Send a message to a teacher
// @Tags Communications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.CreateCommunicationRequest true "Message"
// @Success 201 {object} response.Envelope
// @Router /communications [post]
func (h *CommunicationHandler) Create(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req service.CreateCommunicationRequest
	if !bindJSON(c, &req, "invalid message payload") {
		return
	}
	message, err := h.messages.Create(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, message)
}

// Update godoc
// @Summary Mark read or reply
// @Description The addressed teacher may mark a message read and reply once
// @Tags Communications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Message ID"
// @Param payload body service.UpdateCommunicationRequest true "Changes"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /communications/{id} [put]
func (h *CommunicationHandler) Update(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req service.UpdateCommunicationRequest
	if !bindJSON(c, &req, "invalid message payload") {
		return
	}
	message, err := h.messages.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, message)
}

func (h *CommunicationHandler) Delete(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.messages.Delete(c.Request.Context(), actor, id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

package handler

import (
	"errors"
	"net/http"

	"event-checkin/internal/model"
	"event-checkin/internal/service"
	apperrors "event-checkin/pkg/app_errors"
	"event-checkin/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CheckInHandler struct {
	service service.CheckInService
}

func NewCheckInHandler(service service.CheckInService) *CheckInHandler {
	return &CheckInHandler{service: service}
}

func (h *CheckInHandler) RegisterRoutes(r gin.IRouter, volunteerGate gin.HandlerFunc) {
	r.POST("/checkin", volunteerGate, h.CheckIn)
}

func (h *CheckInHandler) CheckIn(c *gin.Context) {
	var req model.CheckInRequest
	if err := BindJson(c, &req, "Ticket code is required"); err != nil {
		return
	}

	ticket, err := h.service.CheckIn(c.Request.Context(), req.TicketCode)
	if err != nil {
		h.handleError(c, err, "CheckIn")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"ticket":  ticket,
		"message": "Guest checked in successfully",
	})
}

func (h *CheckInHandler) handleError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case errors.Is(err, apperrors.ErrInvalidInput):
		log.Warn("Invalid input")
		respondError(c, http.StatusBadRequest, "Ticket code is required")
	case errors.Is(err, apperrors.ErrTicketNotFound):
		log.Warn("Ticket not found")
		respondError(c, http.StatusNotFound, "Invalid ticket code")
	default:
		log.Error("Unexpected error")
		respondError(c, http.StatusInternalServerError, "Internal server error")
	}
}

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

type TicketHandler struct {
	registration service.RegistrationService
	admin        service.AdminService
}

func NewTicketHandler(registration service.RegistrationService, admin service.AdminService) *TicketHandler {
	return &TicketHandler{registration: registration, admin: admin}
}

// RegisterRoutes 報名為公開端點；列出全部票券只給管理員
func (h *TicketHandler) RegisterRoutes(r gin.IRouter, adminGate gin.HandlerFunc) {
	r.POST("/tickets", h.Register)
	r.GET("/tickets", adminGate, h.List)
}

func (h *TicketHandler) Register(c *gin.Context) {
	var req model.RegisterTicketRequest
	if err := BindJson(c, &req, "All fields are required"); err != nil {
		return
	}

	ticket, created, err := h.registration.Register(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err, "Register")
		return
	}

	message := "Ticket already exists for this user"
	if created {
		message = "Ticket created successfully"
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"ticket":  ticket,
		"message": message,
	})
}

func (h *TicketHandler) List(c *gin.Context) {
	tickets, err := h.admin.ListAll(c.Request.Context())
	if err != nil {
		h.handleError(c, err, "List")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"tickets": tickets,
	})
}

func (h *TicketHandler) handleError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case errors.Is(err, apperrors.ErrInvalidInput):
		log.Warn("Invalid input")
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, apperrors.ErrRegistrationBusy):
		log.Warn("Registration busy")
		respondError(c, http.StatusServiceUnavailable, "Registration in progress, please retry")
	case errors.Is(err, apperrors.ErrTicketCodeExhausted):
		log.Error("Ticket code exhausted")
		respondError(c, http.StatusInternalServerError, "Could not allocate a ticket code")
	default:
		log.Error("Unexpected error")
		respondError(c, http.StatusInternalServerError, "Internal server error")
	}
}

package handler

import (
	"errors"
	"net/http"

	"event-checkin/internal/model"
	"event-checkin/internal/service"
	apperrors "event-checkin/pkg/app_errors"
	"event-checkin/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AdminHandler struct {
	service service.AdminService
}

func NewAdminHandler(service service.AdminService) *AdminHandler {
	return &AdminHandler{service: service}
}

func (h *AdminHandler) RegisterRoutes(r gin.IRouter, adminGate gin.HandlerFunc) {
	router := r.Group("/admin", adminGate)
	{
		router.PUT("", h.UpdatePresence)
		router.DELETE("", h.Delete)
		router.GET("/tickets", h.List)
		router.GET("/stats", h.Stats)
	}
}

func (h *AdminHandler) UpdatePresence(c *gin.Context) {
	var req model.UpdatePresenceRequest
	if err := BindJson(c, &req, "Ticket ID and present status are required"); err != nil {
		return
	}
	ticketID, err := uuid.Parse(req.TicketID)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid ticket id")
		return
	}

	if err := h.service.SetPresence(c.Request.Context(), ticketID, *req.IsPresent); err != nil {
		h.handleError(c, err, "UpdatePresence")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Attendance updated successfully",
	})
}

func (h *AdminHandler) Delete(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		respondError(c, http.StatusBadRequest, "Ticket ID is required")
		return
	}
	ticketID, err := uuid.Parse(id)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid ticket id")
		return
	}

	deleted, err := h.service.Remove(c.Request.Context(), ticketID)
	if err != nil {
		h.handleError(c, err, "Delete")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"ticket":  deleted,
		"message": "Ticket deleted successfully",
	})
}

func (h *AdminHandler) List(c *gin.Context) {
	var query model.ListTicketsQuery
	if err := BindQuery(c, &query); err != nil {
		return
	}

	tickets, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		h.handleError(c, err, "List")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"tickets": tickets,
	})
}

func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		h.handleError(c, err, "Stats")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats":   stats,
	})
}

func (h *AdminHandler) handleError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case errors.Is(err, apperrors.ErrTicketNotFound):
		log.Warn("Ticket not found")
		respondError(c, http.StatusNotFound, "Ticket not found or not updated")
	case errors.Is(err, apperrors.ErrInvalidInput):
		log.Warn("Invalid input")
		respondError(c, http.StatusBadRequest, err.Error())
	default:
		log.Error("Unexpected error")
		respondError(c, http.StatusInternalServerError, "Internal server error")
	}
}

package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harborbank/banking/shared/middleware"
	"github.com/harborbank/banking/shared/models"
)

// NotificationProcessor defines the operations exposed over HTTP.
type NotificationProcessor interface {
	Process(ctx context.Context, payload map[string]any) *models.Notification
	ListByAccount(ctx context.Context, accountNumber string) ([]models.Notification, error)
}

type NotificationHandler struct {
	notifications NotificationProcessor
}

func NewNotificationHandler(notifications NotificationProcessor) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

type SendResponse struct {
	Status  string `json:"status"`
	ID      string `json:"id"`
	Message string `json:"message"`
}

type ListNotificationsResponse struct {
	Notifications []models.Notification `json:"notifications"`
}

// Send accepts the free-form payload other services post after a successful
// transaction.
func (h *NotificationHandler) Send(c *gin.Context) {
	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(payload) == 0 {
		middleware.RespondWithError(c, http.StatusBadRequest, "Empty notification payload")
		return
	}

	n := h.notifications.Process(c.Request.Context(), payload)
	c.JSON(http.StatusOK, SendResponse{Status: "SENT", ID: n.ID, Message: n.Message})
}

func (h *NotificationHandler) ListByAccount(c *gin.Context) {
	accountNumber := c.Param("accountNumber")

	notifications, err := h.notifications.ListByAccount(c.Request.Context(), accountNumber)
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to list notifications")
		return
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}
	c.JSON(http.StatusOK, ListNotificationsResponse{Notifications: notifications})
}

// Ping is the liveness probe other services use before enabling delivery.
func (h *NotificationHandler) Ping(c *gin.Context) {
	c.String(http.StatusOK, "notification-service:ok")
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vhvplatform/go-property-automation/internal/domain"
	"github.com/vhvplatform/go-property-automation/internal/middleware"
	"github.com/vhvplatform/go-property-automation/internal/repository"
	"github.com/vhvplatform/go-property-automation/internal/shared/errors"
	"github.com/vhvplatform/go-property-automation/internal/shared/logger"
	"go.mongodb.org/mongo-driver/mongo"
)

// NotificationHandler handles notification read requests
type NotificationHandler struct {
	repo *repository.NotificationRepository
	log  *logger.Logger
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(repo *repository.NotificationRepository, log *logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		repo: repo,
		log:  log,
	}
}

// GetNotifications retrieves notifications for the organization
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	orgID := middleware.GetOrgID(c)

	var req domain.GetNotificationsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, errors.NewValidationError("Invalid query", err))
		return
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	notifications, total, err := h.repo.FindByOrgID(c.Request.Context(), orgID, req.UserID, req.Type, page, pageSize)
	if err != nil {
		h.log.Error("Failed to get notifications", "error", err, "org_id", orgID)
		c.JSON(http.StatusInternalServerError, errors.NewInternalError("Failed to get notifications", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":      notifications,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// MarkNotificationRead marks a notification as read
func (h *NotificationHandler) MarkNotificationRead(c *gin.Context) {
	orgID := middleware.GetOrgID(c)
	id := c.Param("id")

	if err := h.repo.MarkRead(c.Request.Context(), id, orgID); err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, errors.NewNotFoundError("Notification not found", err))
			return
		}
		h.log.Error("Failed to mark notification read", "error", err, "id", id)
		c.JSON(http.StatusInternalServerError, errors.NewInternalError("Failed to update notification", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vhvplatform/go-property-automation/internal/domain"
	"github.com/vhvplatform/go-property-automation/internal/middleware"
	"github.com/vhvplatform/go-property-automation/internal/repository"
	"github.com/vhvplatform/go-property-automation/internal/shared/errors"
	"github.com/vhvplatform/go-property-automation/internal/shared/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ReminderHandler handles reminder CRUD requests
type ReminderHandler struct {
	repo *repository.ReminderRepository
	log  *logger.Logger
}

// NewReminderHandler creates a new reminder handler
func NewReminderHandler(repo *repository.ReminderRepository, log *logger.Logger) *ReminderHandler {
	return &ReminderHandler{
		repo: repo,
		log:  log,
	}
}

var validFrequencies = map[domain.Frequency]bool{
	domain.FrequencyOnce:    true,
	domain.FrequencyDaily:   true,
	domain.FrequencyWeekly:  true,
	domain.FrequencyMonthly: true,
	domain.FrequencyYearly:  true,
}

var validReminderTypes = map[domain.ReminderType]bool{
	domain.ReminderTypeRentDue:        true,
	domain.ReminderTypeLeaseExpiry:    true,
	domain.ReminderTypeMaintenanceDue: true,
	domain.ReminderTypeInspectionDue:  true,
	domain.ReminderTypePaymentOverdue: true,
	domain.ReminderTypeCustom:         true,
}

// CreateReminder creates a new reminder
func (h *ReminderHandler) CreateReminder(c *gin.Context) {
	orgID := middleware.GetOrgID(c)

	var req domain.CreateReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errors.NewValidationError("Invalid request", err))
		return
	}

	if !validReminderTypes[req.Type] {
		c.JSON(http.StatusBadRequest, errors.NewValidationError("Invalid reminder type", nil))
		return
	}
	if !validFrequencies[req.Frequency] {
		c.JSON(http.StatusBadRequest, errors.NewValidationError("Invalid frequency", nil))
		return
	}

	reminder := &domain.Reminder{
		OrgID:         orgID,
		Type:          req.Type,
		Title:         req.Title,
		Message:       req.Message,
		Frequency:     req.Frequency,
		TriggerDate:   req.TriggerDate,
		NextRunDate:   req.TriggerDate,
		Status:        domain.ReminderStatusActive,
		MaxExecutions: req.MaxExecutions,
		Recipients:    req.Recipients,
		Channels:      req.Channels,
	}

	if req.PropertyID != "" {
		propertyID, err := primitive.ObjectIDFromHex(req.PropertyID)
		if err != nil {
			c.JSON(http.StatusBadRequest, errors.NewValidationError("Invalid property_id", err))
			return
		}
		reminder.PropertyID = &propertyID
	}
	if req.LeaseholderID != "" {
		leaseholderID, err := primitive.ObjectIDFromHex(req.LeaseholderID)
		if err != nil {
			c.JSON(http.StatusBadRequest, errors.NewValidationError("Invalid leaseholder_id", err))
			return
		}
		reminder.LeaseholderID = &leaseholderID
	}

	if err := h.repo.Create(c.Request.Context(), reminder); err != nil {
		h.log.Error("Failed to create reminder", "error", err, "org_id", orgID)
		c.JSON(http.StatusInternalServerError, errors.NewInternalError("Failed to create reminder", err))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Reminder created successfully",
		"data":    reminder,
	})
}

// GetReminders retrieves reminders for the organization
func (h *ReminderHandler) GetReminders(c *gin.Context) {
	orgID := middleware.GetOrgID(c)

	var req domain.GetRemindersRequest
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

	reminders, total, err := h.repo.FindByOrgID(c.Request.Context(), orgID, req.Status, req.Type, page, pageSize)
	if err != nil {
		h.log.Error("Failed to get reminders", "error", err, "org_id", orgID)
		c.JSON(http.StatusInternalServerError, errors.NewInternalError("Failed to get reminders", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":      reminders,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetReminder retrieves a single reminder by ID
func (h *ReminderHandler) GetReminder(c *gin.Context) {
	orgID := middleware.GetOrgID(c)
	id := c.Param("id")

	reminder, err := h.repo.FindByID(c.Request.Context(), id, orgID)
	if err != nil {
		c.JSON(http.StatusNotFound, errors.NewNotFoundError("Reminder not found", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": reminder})
}

// UpdateReminderStatus applies a manual status transition (pause/resume/cancel)
func (h *ReminderHandler) UpdateReminderStatus(c *gin.Context) {
	orgID := middleware.GetOrgID(c)
	id := c.Param("id")

	var req domain.UpdateReminderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errors.NewValidationError("Invalid request", err))
		return
	}

	switch req.Status {
	case domain.ReminderStatusActive, domain.ReminderStatusPaused, domain.ReminderStatusCancelled:
	default:
		// completed is reserved for the processor
		c.JSON(http.StatusBadRequest, errors.NewValidationError("Invalid status transition", nil))
		return
	}

	if err := h.repo.UpdateStatus(c.Request.Context(), id, orgID, req.Status); err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, errors.NewNotFoundError("Reminder not found", err))
			return
		}
		h.log.Error("Failed to update reminder status", "error", err, "id", id)
		c.JSON(http.StatusInternalServerError, errors.NewInternalError("Failed to update reminder", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Reminder updated successfully"})
}

// DeleteReminder deletes a reminder
func (h *ReminderHandler) DeleteReminder(c *gin.Context) {
	orgID := middleware.GetOrgID(c)
	id := c.Param("id")

	if err := h.repo.Delete(c.Request.Context(), id, orgID); err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, errors.NewNotFoundError("Reminder not found", err))
			return
		}
		h.log.Error("Failed to delete reminder", "error", err, "id", id)
		c.JSON(http.StatusInternalServerError, errors.NewInternalError("Failed to delete reminder", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Reminder deleted successfully"})
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vhvplatform/go-property-automation/internal/middleware"
	"github.com/vhvplatform/go-property-automation/internal/repository"
	"github.com/vhvplatform/go-property-automation/internal/shared/errors"
	"github.com/vhvplatform/go-property-automation/internal/shared/logger"
)

// PropertyHandler exposes the occupancy figures the automation tick maintains
type PropertyHandler struct {
	repo *repository.PropertyRepository
	log  *logger.Logger
}

// NewPropertyHandler creates a new property handler
func NewPropertyHandler(repo *repository.PropertyRepository, log *logger.Logger) *PropertyHandler {
	return &PropertyHandler{
		repo: repo,
		log:  log,
	}
}

// GetPropertyOccupancy retrieves a property's current occupancy rate
func (h *PropertyHandler) GetPropertyOccupancy(c *gin.Context) {
	orgID := middleware.GetOrgID(c)
	id := c.Param("id")

	property, err := h.repo.FindByID(c.Request.Context(), id, orgID)
	if err != nil {
		c.JSON(http.StatusNotFound, errors.NewNotFoundError("Property not found", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"property_id":     property.ID.Hex(),
		"number_of_units": property.NumberOfUnits,
		"occupancy_rate":  property.OccupancyRate,
	})
}

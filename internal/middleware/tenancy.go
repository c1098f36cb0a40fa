package middleware

import (
	"context"
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// OrgIDKey is the context key for storing the organization ID
	OrgIDKey ContextKey = "org_id"

	// OrgIDHeader is the HTTP header name for the organization ID
	OrgIDHeader = "X-Org-ID"

	// orgIDPattern defines allowed characters for organization IDs
	orgIDPattern = `^[a-zA-Z0-9_-]+$`
)

var orgIDRegex = regexp.MustCompile(orgIDPattern)

// TenancyMiddleware extracts the X-Org-ID header and validates org isolation.
// This middleware must be applied to all org-aware routes.
// Returns 400 Bad Request if the X-Org-ID header is missing.
func TenancyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		orgID := c.GetHeader(OrgIDHeader)

		if orgID == "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Missing organization identifier",
				"message": "X-Org-ID header is required for all organization operations",
				"code":    "ORG_ID_REQUIRED",
			})
			c.Abort()
			return
		}

		if len(orgID) < 3 || len(orgID) > 128 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid organization identifier",
				"message": "X-Org-ID must be between 3 and 128 characters",
				"code":    "INVALID_ORG_ID",
			})
			c.Abort()
			return
		}

		if !orgIDRegex.MatchString(orgID) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid organization identifier format",
				"message": "X-Org-ID must contain only alphanumeric characters, hyphens, and underscores",
				"code":    "INVALID_ORG_ID_FORMAT",
			})
			c.Abort()
			return
		}

		// Store org ID in Gin context
		c.Set(string(OrgIDKey), orgID)

		// Also store in request context for use in non-Gin code
		ctx := context.WithValue(c.Request.Context(), OrgIDKey, orgID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetOrgID retrieves the organization ID from Gin context.
// Returns empty string if the org ID is not found.
func GetOrgID(c *gin.Context) string {
	if orgID, exists := c.Get(string(OrgIDKey)); exists {
		if id, ok := orgID.(string); ok {
			return id
		}
	}
	return ""
}

// GetOrgIDFromContext retrieves the organization ID from a standard context.
// Useful for non-Gin code (database queries, background jobs, etc.)
func GetOrgIDFromContext(ctx context.Context) string {
	if orgID := ctx.Value(OrgIDKey); orgID != nil {
		if id, ok := orgID.(string); ok {
			return id
		}
	}
	return ""
}

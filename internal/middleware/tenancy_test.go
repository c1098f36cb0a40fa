package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(TenancyMiddleware())
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"org_id": GetOrgID(c)})
	})
	return router
}

func TestTenancyMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		orgID      string
		wantStatus int
	}{
		{name: "valid org id", orgID: "org-123", wantStatus: http.StatusOK},
		{name: "missing org id", orgID: "", wantStatus: http.StatusBadRequest},
		{name: "too short", orgID: "ab", wantStatus: http.StatusBadRequest},
		{name: "illegal characters", orgID: "org/123", wantStatus: http.StatusBadRequest},
		{name: "underscores and hyphens allowed", orgID: "org_tenant-42", wantStatus: http.StatusOK},
	}

	router := setupRouter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			if tt.orgID != "" {
				req.Header.Set(OrgIDHeader, tt.orgID)
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestGetOrgIDFromContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(TenancyMiddleware())

	var fromRequestCtx string
	router.GET("/ping", func(c *gin.Context) {
		fromRequestCtx = GetOrgIDFromContext(c.Request.Context())
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(OrgIDHeader, "org-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "org-123", fromRequestCtx)
}

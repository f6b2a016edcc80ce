package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	region     string
	specBucket string
}

// NewHealthHandler creates a new health handler. specBucket may be empty
// when the bucket name is derived per account at runtime.
func NewHealthHandler(region, specBucket string) *HealthHandler {
	return &HealthHandler{region: region, specBucket: specBucket}
}

// Check handles the health check endpoint
func (h *HealthHandler) Check(c *gin.Context) {
	body := gin.H{
		"status":    "healthy",
		"timestamp": time.Now(),
		"service":   "gatewayserver",
		"region":    h.region,
	}
	if h.specBucket != "" {
		body["spec_bucket"] = h.specBucket
	}
	c.JSON(http.StatusOK, body)
}

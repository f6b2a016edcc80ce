package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/imyashkale/gatewayserver/internal/apierrors"
	"github.com/imyashkale/gatewayserver/internal/logger"
)

// respondError maps a domain error to its HTTP status and writes the
// standard error envelope
func respondError(c *gin.Context, err error) {
	status := apierrors.Status(err)

	if status >= 500 {
		logger.WithFields(map[string]interface{}{
			"path":  c.Request.URL.Path,
			"error": err.Error(),
		}).Error("Request failed")
	}

	c.JSON(status, gin.H{
		"error":   errorLabel(status),
		"message": err.Error(),
	})
}

func errorLabel(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "conflict"
	default:
		return "internal_error"
	}
}

// parseMaxResults reads the optional max_results query parameter. Returns
// nil when absent; a non-integer value is a validation error.
func parseMaxResults(c *gin.Context) (*int32, error) {
	raw := c.Query("max_results")
	if raw == "" {
		return nil, nil
	}

	value, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return nil, apierrors.NewValidation("max_results must be an integer, got '%s'", raw)
	}

	v := int32(value)
	return &v, nil
}

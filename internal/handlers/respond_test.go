package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/imyashkale/gatewayserver/internal/apierrors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// TestRespondError_StatusMapping tests domain error to HTTP status mapping
func TestRespondError_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantLabel  string
	}{
		{
			name:       "Validation error",
			err:        apierrors.NewValidation("bad input"),
			wantStatus: http.StatusBadRequest,
			wantLabel:  "bad_request",
		},
		{
			name:       "Not found",
			err:        apierrors.NewNotFound("gateway", "GW1"),
			wantStatus: http.StatusNotFound,
			wantLabel:  "not_found",
		},
		{
			name:       "Duplicate",
			err:        apierrors.NewDuplicate("target", "weather", "use a unique name"),
			wantStatus: http.StatusConflict,
			wantLabel:  "conflict",
		},
		{
			name:       "Auth failure",
			err:        &apierrors.AuthError{Message: "token endpoint returned status 401"},
			wantStatus: http.StatusUnauthorized,
			wantLabel:  "unauthorized",
		},
		{
			name:       "Upstream failure",
			err:        apierrors.NewUpstream("create gateway", http.ErrHandlerTimeout),
			wantStatus: http.StatusInternalServerError,
			wantLabel:  "internal_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)

			respondError(c, tt.err)

			if w.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, w.Code)
			}

			var body map[string]interface{}
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("Response body is not JSON: %v", err)
			}
			if body["error"] != tt.wantLabel {
				t.Errorf("Expected error label %s, got %v", tt.wantLabel, body["error"])
			}
		})
	}
}

// TestParseMaxResults tests query parameter parsing
func TestParseMaxResults(t *testing.T) {
	t.Run("Absent returns nil", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/gateways", nil)

		v, err := parseMaxResults(c)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if v != nil {
			t.Errorf("Expected nil for absent parameter, got %d", *v)
		}
	})

	t.Run("Valid integer", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/gateways?max_results=25", nil)

		v, err := parseMaxResults(c)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if v == nil || *v != 25 {
			t.Errorf("Expected 25, got %v", v)
		}
	})

	t.Run("Non-integer rejected", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/gateways?max_results=lots", nil)

		if _, err := parseMaxResults(c); err == nil {
			t.Fatal("Expected error for non-integer max_results, got nil")
		}
	})
}

// TestHealthHandler tests the health endpoint response
func TestHealthHandler(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	NewHealthHandler("us-east-1", "spec-bucket").Check(c)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Response body is not JSON: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("Expected healthy status, got %v", body["status"])
	}
	if body["region"] != "us-east-1" {
		t.Errorf("Expected region us-east-1, got %v", body["region"])
	}
}

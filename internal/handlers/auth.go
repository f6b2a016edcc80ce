package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/imyashkale/gatewayserver/internal/apierrors"
	"github.com/imyashkale/gatewayserver/internal/config"
	"github.com/imyashkale/gatewayserver/internal/logger"
	"github.com/imyashkale/gatewayserver/internal/models"
	"github.com/imyashkale/gatewayserver/internal/services"
)

// AuthHandler handles identity infrastructure setup and token issuance
type AuthHandler struct {
	identity *services.IdentityService
	cfg      *config.Config
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(identity *services.IdentityService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{identity: identity, cfg: cfg}
}

// Setup provisions (or resolves) the Cognito user pool, resource server,
// and M2M client. The client secret appears in the response body only; it
// is never logged.
func (h *AuthHandler) Setup(c *gin.Context) {
	setup, err := h.identity.SetupAuth(
		c.Request.Context(),
		h.cfg.UserPoolName,
		h.cfg.ResourceServerID,
		h.cfg.ResourceServerName,
		h.cfg.ClientName,
	)
	if err != nil {
		respondError(c, err)
		return
	}

	logger.WithFields(map[string]interface{}{
		"user_pool_id": setup.UserPoolID,
		"client_id":    setup.ClientID,
	}).Info("Auth setup completed")

	c.JSON(http.StatusOK, gin.H{
		"status":             "success",
		"message":            "Auth infrastructure ready",
		"user_pool_id":       setup.UserPoolID,
		"client_id":          setup.ClientID,
		"client_secret":      setup.ClientSecret,
		"resource_server_id": setup.ResourceServerID,
		"discovery_url":      setup.DiscoveryURL,
		"scopes": []string{
			setup.ResourceServerID + "/read",
			setup.ResourceServerID + "/write",
		},
	})
}

// Token performs the client_credentials grant and returns the access token
func (h *AuthHandler) Token(c *gin.Context) {
	var req models.TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apierrors.NewValidation("invalid request body: %v", err))
		return
	}

	token, err := h.identity.IssueToken(c.Request.Context(), req.UserPoolID, req.ClientID, req.ClientSecret, req.Scope)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, token)
}

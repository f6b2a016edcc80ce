package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/imyashkale/gatewayserver/internal/apierrors"
	"github.com/imyashkale/gatewayserver/internal/config"
	"github.com/imyashkale/gatewayserver/internal/models"
	"github.com/imyashkale/gatewayserver/internal/services"
)

// GatewayHandler handles gateway lifecycle requests
type GatewayHandler struct {
	gateways     *services.GatewayService
	orchestrator *services.Orchestrator
	cfg          *config.Config
}

// NewGatewayHandler creates a new gateway handler
func NewGatewayHandler(gateways *services.GatewayService, orchestrator *services.Orchestrator, cfg *config.Config) *GatewayHandler {
	return &GatewayHandler{
		gateways:     gateways,
		orchestrator: orchestrator,
		cfg:          cfg,
	}
}

// Create handles creating a JWT-authenticated gateway. The execution role
// is provisioned (or resolved) as part of the same request.
func (h *GatewayHandler) Create(c *gin.Context) {
	var req models.CreateGatewayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apierrors.NewValidation("invalid request body: %v", err))
		return
	}

	gateway, err := h.orchestrator.ProvisionGateway(c.Request.Context(), h.cfg.GatewayRoleName, services.CreateGatewayParams{
		Name:          req.GatewayName,
		Authenticated: true,
		JWTConfig: &models.JWTAuthorizerConfig{
			AllowedClients: []string{req.AuthConfig.ClientID},
			DiscoveryURL:   req.AuthConfig.DiscoveryURL,
		},
		Description: req.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gateway.ToResponse("Gateway created successfully"))
}

// CreateNoAuth handles creating an unauthenticated gateway
func (h *GatewayHandler) CreateNoAuth(c *gin.Context) {
	var req models.CreateGatewayNoAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apierrors.NewValidation("invalid request body: %v", err))
		return
	}

	gateway, err := h.orchestrator.ProvisionGateway(c.Request.Context(), h.cfg.GatewayRoleName, services.CreateGatewayParams{
		Name:          req.GatewayName,
		Authenticated: false,
		Description:   req.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gateway.ToResponse("Gateway created successfully"))
}

// Get handles retrieving a gateway by ID
func (h *GatewayHandler) Get(c *gin.Context) {
	gatewayID := c.Param("gateway_id")

	gateway, err := h.gateways.Get(c.Request.Context(), gatewayID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gateway.ToResponse("Gateway retrieved successfully"))
}

// List handles listing gateways with optional pagination
func (h *GatewayHandler) List(c *gin.Context) {
	maxResults, err := parseMaxResults(c)
	if err != nil {
		respondError(c, err)
		return
	}

	summaries, nextToken, err := h.gateways.List(c.Request.Context(), maxResults, c.Query("next_token"))
	if err != nil {
		respondError(c, err)
		return
	}

	entries := make([]models.GatewaySummaryResponse, 0, len(summaries))
	for i := range summaries {
		entries = append(entries, summaries[i].ToResponse())
	}

	c.JSON(http.StatusOK, models.GatewayListResponse{
		Gateways:  entries,
		Total:     len(entries),
		NextToken: nextToken,
	})
}

// Update handles replacing a gateway's mutable configuration
func (h *GatewayHandler) Update(c *gin.Context) {
	gatewayID := c.Param("gateway_id")

	var req models.UpdateGatewayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apierrors.NewValidation("invalid request body: %v", err))
		return
	}

	gateway, err := h.gateways.Update(c.Request.Context(), gatewayID, services.UpdateGatewayParams{
		Name:           req.Name,
		ProtocolType:   req.ProtocolType,
		AuthorizerType: req.AuthorizerType,
		RoleARN:        req.RoleARN,
		Description:    req.Description,
		JWTConfig:      req.AuthorizerConfiguration,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gateway.ToResponse("Gateway updated successfully"))
}

// Delete handles initiating a gateway deletion
func (h *GatewayHandler) Delete(c *gin.Context) {
	gatewayID := c.Param("gateway_id")

	if err := h.gateways.Delete(c.Request.Context(), gatewayID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.DeleteGatewayResponse{
		Status:    "success",
		Message:   "Gateway deletion initiated",
		GatewayID: gatewayID,
	})
}

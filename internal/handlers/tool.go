package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/imyashkale/gatewayserver/internal/apierrors"
	"github.com/imyashkale/gatewayserver/internal/models"
	"github.com/imyashkale/gatewayserver/internal/services"
)

// ToolHandler handles tool (gateway target) lifecycle requests
type ToolHandler struct {
	orchestrator *services.Orchestrator
	targets      *services.TargetService
}

// NewToolHandler creates a new tool handler
func NewToolHandler(orchestrator *services.Orchestrator, targets *services.TargetService) *ToolHandler {
	return &ToolHandler{
		orchestrator: orchestrator,
		targets:      targets,
	}
}

// CreateFromFile handles registering a tool from an uploaded OpenAPI spec
// file. Multipart form fields: gateway_id, tool_name, description (optional),
// auth (optional JSON object), file (.json).
func (h *ToolHandler) CreateFromFile(c *gin.Context) {
	gatewayID := c.PostForm("gateway_id")
	toolName := c.PostForm("tool_name")
	if gatewayID == "" || toolName == "" {
		respondError(c, apierrors.NewValidation("gateway_id and tool_name form fields are required"))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, apierrors.NewValidation("an OpenAPI spec file is required: %v", err))
		return
	}

	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".json") {
		respondError(c, apierrors.NewValidation("spec file must be a .json file, got '%s'", fileHeader.Filename))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, apierrors.NewValidation("cannot read uploaded file: %v", err))
		return
	}
	defer file.Close()

	var spec map[string]interface{}
	if err := json.NewDecoder(file).Decode(&spec); err != nil {
		respondError(c, apierrors.NewValidation("uploaded file is not valid JSON: %v", err))
		return
	}

	auth, err := parseAuthForm(c.PostForm("auth"))
	if err != nil {
		respondError(c, err)
		return
	}

	target, err := h.orchestrator.RegisterTool(c.Request.Context(), services.RegisterToolParams{
		GatewayID:   gatewayID,
		ToolName:    toolName,
		Spec:        spec,
		Auth:        auth,
		Description: c.PostForm("description"),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, target.ToResponse(gatewayID, "Tool registered successfully"))
}

// CreateFromURL handles registering a tool from an OpenAPI spec URL
func (h *ToolHandler) CreateFromURL(c *gin.Context) {
	var req models.CreateToolFromURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apierrors.NewValidation("invalid request body: %v", err))
		return
	}

	target, err := h.orchestrator.RegisterToolFromURL(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, target.ToResponse(req.GatewayID, "Tool registered successfully"))
}

// CreateFromAPIInfo handles registering a tool from manual API information.
// An OpenAPI document is synthesized from the supplied method, URL, and
// schema fragments.
func (h *ToolHandler) CreateFromAPIInfo(c *gin.Context) {
	var req models.CreateToolFromAPIInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apierrors.NewValidation("invalid request body: %v", err))
		return
	}

	target, err := h.orchestrator.RegisterToolFromAPIInfo(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, target.ToResponse(req.GatewayID, "Tool registered successfully"))
}

// CreateFromSpec handles registering a tool from an inline OpenAPI spec
func (h *ToolHandler) CreateFromSpec(c *gin.Context) {
	var req models.CreateToolFromSpecRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apierrors.NewValidation("invalid request body: %v", err))
		return
	}

	target, err := h.orchestrator.RegisterTool(c.Request.Context(), services.RegisterToolParams{
		GatewayID:   req.GatewayID,
		ToolName:    req.ToolName,
		Spec:        req.OpenAPISpec,
		Auth:        req.Auth,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, target.ToResponse(req.GatewayID, "Tool registered successfully"))
}

// Get handles retrieving a tool by target ID
func (h *ToolHandler) Get(c *gin.Context) {
	gatewayID := c.Param("gateway_id")
	targetID := c.Param("target_id")

	target, err := h.targets.Get(c.Request.Context(), gatewayID, targetID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, target.ToResponse(gatewayID, "Tool retrieved successfully"))
}

// List handles listing a gateway's tools with optional pagination
func (h *ToolHandler) List(c *gin.Context) {
	gatewayID := c.Param("gateway_id")

	maxResults, err := parseMaxResults(c)
	if err != nil {
		respondError(c, err)
		return
	}

	summaries, nextToken, err := h.targets.List(c.Request.Context(), gatewayID, maxResults, c.Query("next_token"))
	if err != nil {
		respondError(c, err)
		return
	}

	entries := make([]models.ToolSummaryResponse, 0, len(summaries))
	for i := range summaries {
		entries = append(entries, summaries[i].ToResponse())
	}

	c.JSON(http.StatusOK, models.ToolListResponse{
		Tools:     entries,
		Total:     len(entries),
		NextToken: nextToken,
	})
}

// Update handles modifying a tool with merge semantics: omitted target or
// credential configuration is carried over from the existing target
func (h *ToolHandler) Update(c *gin.Context) {
	gatewayID := c.Param("gateway_id")
	targetID := c.Param("target_id")

	var req models.UpdateToolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apierrors.NewValidation("invalid request body: %v", err))
		return
	}

	target, err := h.targets.Update(c.Request.Context(), gatewayID, targetID, services.UpdateTargetParams{
		Name:                req.Name,
		Description:         req.Description,
		TargetConfiguration: req.TargetConfiguration,
		CredentialConfigs:   req.CredentialProviderConfigurations,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, target.ToResponse(gatewayID, "Tool updated successfully"))
}

// Delete handles initiating a tool deletion
func (h *ToolHandler) Delete(c *gin.Context) {
	gatewayID := c.Param("gateway_id")
	targetID := c.Param("target_id")

	target, err := h.targets.Delete(c.Request.Context(), gatewayID, targetID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.DeleteToolResponse{
		Status:       "success",
		Message:      "Tool deletion initiated",
		TargetID:     targetID,
		GatewayID:    gatewayID,
		TargetStatus: target.Status,
	})
}

// parseAuthForm decodes the optional auth form field (a JSON object) into
// the auth model
func parseAuthForm(raw string) (*models.Auth, error) {
	if raw == "" {
		return nil, nil
	}

	var auth models.Auth
	if err := json.Unmarshal([]byte(raw), &auth); err != nil {
		return nil, apierrors.NewValidation("auth field is not valid JSON: %v", err)
	}
	return &auth, nil
}

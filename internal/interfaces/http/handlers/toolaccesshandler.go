package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	accessapp "luminara/internal/application/access"
	"luminara/internal/domain/access"
	"luminara/internal/shared/errors"
	"luminara/internal/shared/i18n"
	"luminara/internal/shared/logger"
	"luminara/internal/shared/utils"
)

// ToolAccessHandler exposes the access-control engine over HTTP.
type ToolAccessHandler struct {
	accessService *accessapp.ToolAccessService
	statsService  *accessapp.UsageStatsService
	logger        logger.Interface
}

func NewToolAccessHandler(
	accessService *accessapp.ToolAccessService,
	statsService *accessapp.UsageStatsService,
	logger logger.Interface,
) *ToolAccessHandler {
	return &ToolAccessHandler{
		accessService: accessService,
		statsService:  statsService,
		logger:        logger,
	}
}

// ToolAccessRequest is the unified access endpoint request. Action selects
// the operation: check (default), available, or info.
type ToolAccessRequest struct {
	Action string         `json:"action"`
	Tool   string         `json:"tool"`
	Params map[string]any `json:"params"`
}

// CheckResponse decorates the engine's result with a localized prompt the
// client can show verbatim.
type CheckResponse struct {
	*access.CheckResult
	Prompt string `json:"prompt,omitempty"`
}

// Access is the unified POST endpoint for access operations.
func (h *ToolAccessHandler) Access(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	var req ToolAccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	switch req.Action {
	case "", "check":
		h.check(c, userID, req)
	case "available":
		h.available(c, userID)
	case "info":
		h.info(c, req.Tool)
	default:
		utils.ErrorResponse(c, http.StatusBadRequest, "unknown action: "+req.Action)
	}
}

// Check answers whether the user may invoke a tool right now.
func (h *ToolAccessHandler) Check(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	var req ToolAccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	h.check(c, userID, req)
}

func (h *ToolAccessHandler) check(c *gin.Context, userID uint, req ToolAccessRequest) {
	if req.Tool == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "tool name is required")
		return
	}

	result, err := h.accessService.CheckToolAccess(c.Request.Context(), accessapp.CheckQuery{
		UserID:   userID,
		ToolName: req.Tool,
		Params:   req.Params,
	})
	if err != nil {
		h.respondCheckError(c, err)
		return
	}

	utils.OKResponse(c, CheckResponse{
		CheckResult: result,
		Prompt:      h.localizedPrompt(c, result),
	})
}

// ListTools lists every registered tool with accessibility for the caller.
func (h *ToolAccessHandler) ListTools(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	h.available(c, userID)
}

func (h *ToolAccessHandler) available(c *gin.Context, userID uint) {
	tools, err := h.accessService.GetAvailableTools(c.Request.Context(), userID)
	if err != nil {
		h.respondCheckError(c, err)
		return
	}

	utils.OKResponse(c, gin.H{"tools": tools})
}

func (h *ToolAccessHandler) info(c *gin.Context, tool string) {
	if tool == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "tool name is required")
		return
	}

	toolInfo := h.accessService.GetToolInfo(tool)
	if toolInfo == nil {
		utils.ErrorResponse(c, http.StatusNotFound, "unknown tool: "+tool)
		return
	}

	utils.OKResponse(c, toolInfo)
}

// GetUsageStats returns the caller's quota consumption dashboard.
func (h *ToolAccessHandler) GetUsageStats(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	stats, err := h.statsService.GetUsageStats(c.Request.Context(), userID)
	if err != nil {
		h.respondCheckError(c, err)
		return
	}

	utils.OKResponse(c, stats)
}

// respondCheckError distinguishes transient infrastructure failures (503,
// caller should retry) from everything else.
func (h *ToolAccessHandler) respondCheckError(c *gin.Context, err error) {
	if errors.IsUnavailableError(err) {
		locale := h.requestLocale(c)
		utils.ErrorResponse(c, http.StatusServiceUnavailable, i18n.Localize(locale, i18n.KeyTemporaryError))
		return
	}
	utils.ErrorResponseWithError(c, err)
}

// localizedPrompt builds a user-facing denial prompt in the request locale.
// Allowed results carry no prompt.
func (h *ToolAccessHandler) localizedPrompt(c *gin.Context, result *access.CheckResult) string {
	if result.Allowed {
		return ""
	}

	locale := h.requestLocale(c)

	if result.UpgradeRequired != "" {
		return fmt.Sprintf(i18n.Localize(locale, i18n.KeyUpgradeRequired), result.UpgradeRequired.DisplayName())
	}
	if result.ResetsAt != nil {
		return i18n.Localize(locale, i18n.KeyQuotaExhausted) + " " +
			fmt.Sprintf(i18n.Localize(locale, i18n.KeyTryAgainAfter), result.ResetsAt.Format(time.RFC3339))
	}
	return i18n.Localize(locale, i18n.KeyQuotaExhausted)
}

// requestLocale prefers the stored user preference and falls back to the
// Accept-Language header.
func (h *ToolAccessHandler) requestLocale(c *gin.Context) string {
	if locale := c.GetString("user_locale"); locale != "" {
		return locale
	}
	return i18n.MatchLocale(c.GetHeader("Accept-Language"))
}

package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	accessapp "luminara/internal/application/access"
	"luminara/internal/shared/errors"
	"luminara/internal/shared/logger"
	"luminara/internal/shared/utils"
)

// ToolGateMiddleware runs the access check in front of tool invocation
// routes. Policy denials answer 403 with the full check result; lookup
// failures answer 503, never a silent allow.
type ToolGateMiddleware struct {
	accessService *accessapp.ToolAccessService
	logger        logger.Interface
}

func NewToolGateMiddleware(accessService *accessapp.ToolAccessService, logger logger.Interface) *ToolGateMiddleware {
	return &ToolGateMiddleware{
		accessService: accessService,
		logger:        logger,
	}
}

// toolGateRequest is the minimal body shape the gate needs; handlers bind
// the full request themselves afterwards.
type toolGateRequest struct {
	Tool   string         `json:"tool"`
	Params map[string]any `json:"params"`
}

// RequireToolAccess gates a route on the "tool" field of its JSON body.
// Requests without a tool field pass through untouched.
func (m *ToolGateMiddleware) RequireToolAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("user_id")
		if userID == 0 {
			utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
			c.Abort()
			return
		}

		var req toolGateRequest
		if err := c.ShouldBindBodyWithJSON(&req); err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
			c.Abort()
			return
		}
		if req.Tool == "" {
			c.Next()
			return
		}

		result, err := m.accessService.CheckToolAccess(c.Request.Context(), accessapp.CheckQuery{
			UserID:   userID,
			ToolName: req.Tool,
			Params:   req.Params,
		})
		if err != nil {
			if errors.IsUnavailableError(err) {
				utils.ErrorResponse(c, http.StatusServiceUnavailable, "access check temporarily unavailable, try again")
			} else {
				utils.ErrorResponseWithError(c, err)
			}
			c.Abort()
			return
		}

		if !result.Allowed {
			m.logger.Infow("tool invocation denied",
				"user_id", userID, "tool", req.Tool, "reason", result.Reason)
			c.AbortWithStatusJSON(http.StatusForbidden, utils.APIResponse{
				Success: false,
				Error: &utils.ErrorInfo{
					Type:    "forbidden",
					Message: result.Reason,
				},
				Data: result,
			})
			return
		}

		c.Next()
	}
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	exportapp "luminara/internal/application/export"
	"luminara/internal/shared/logger"
	"luminara/internal/shared/utils"
)

type ExportHandler struct {
	exportUseCase *exportapp.ExportConversationUseCase
	logger        logger.Interface
}

func NewExportHandler(exportUseCase *exportapp.ExportConversationUseCase, logger logger.Interface) *ExportHandler {
	return &ExportHandler{
		exportUseCase: exportUseCase,
		logger:        logger,
	}
}

// Export renders a conversation as a downloadable document. The format query
// parameter selects markdown (default) or html.
func (h *ExportHandler) Export(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	result, err := h.exportUseCase.Execute(c.Request.Context(), exportapp.ExportConversationQuery{
		UserID:          userID,
		ConversationSID: c.Param("sid"),
		Format:          c.Query("format"),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	if result.Denied != nil {
		c.JSON(http.StatusForbidden, utils.APIResponse{
			Success: false,
			Error: &utils.ErrorInfo{
				Type:    "forbidden",
				Message: result.Denied.Reason,
			},
			Data: result.Denied,
		})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	c.Data(http.StatusOK, result.ContentType, []byte(result.Content))
}

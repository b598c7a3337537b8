package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	chatapp "luminara/internal/application/chat"
	"luminara/internal/domain/chat"
	"luminara/internal/shared/logger"
	"luminara/internal/shared/utils"
)

type ChatHandler struct {
	startUseCase  *chatapp.StartConversationUseCase
	appendUseCase *chatapp.AppendMessageUseCase
	queryService  *chatapp.ChatQueryService
	logger        logger.Interface
}

func NewChatHandler(
	startUseCase *chatapp.StartConversationUseCase,
	appendUseCase *chatapp.AppendMessageUseCase,
	queryService *chatapp.ChatQueryService,
	logger logger.Interface,
) *ChatHandler {
	return &ChatHandler{
		startUseCase:  startUseCase,
		appendUseCase: appendUseCase,
		queryService:  queryService,
		logger:        logger,
	}
}

type StartConversationRequest struct {
	Title string `json:"title"`
}

type AppendMessageRequest struct {
	Role     string         `json:"role" binding:"required"`
	Content  string         `json:"content" binding:"required"`
	Tool     string         `json:"tool"`
	ToolType string         `json:"tool_type"`
	Params   map[string]any `json:"params"`
}

type ConversationResponse struct {
	SID          string    `json:"sid"`
	Title        string    `json:"title"`
	MessageCount int       `json:"message_count"`
	Archived     bool      `json:"archived"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type MessageResponse struct {
	SID       string          `json:"sid"`
	Role      string          `json:"role"`
	Content   string          `json:"content"`
	ToolUsage *chat.ToolUsage `json:"tool_usage,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

func toConversationResponse(conversation *chat.Conversation) ConversationResponse {
	return ConversationResponse{
		SID:          conversation.SID(),
		Title:        conversation.Title(),
		MessageCount: conversation.MessageCount(),
		Archived:     conversation.Archived(),
		CreatedAt:    conversation.CreatedAt(),
		UpdatedAt:    conversation.UpdatedAt(),
	}
}

func toMessageResponse(message *chat.Message) MessageResponse {
	return MessageResponse{
		SID:       message.SID(),
		Role:      string(message.Role()),
		Content:   message.Content(),
		ToolUsage: message.ToolUsage(),
		CreatedAt: message.CreatedAt(),
	}
}

func (h *ChatHandler) StartConversation(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	var req StartConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	conversation, err := h.startUseCase.Execute(c.Request.Context(), chatapp.StartConversationCommand{
		UserID: userID,
		Title:  req.Title,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, toConversationResponse(conversation))
}

func (h *ChatHandler) ListConversations(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	conversations, err := h.queryService.ListConversations(c.Request.Context(), userID, limit, offset)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	responses := make([]ConversationResponse, 0, len(conversations))
	for _, conversation := range conversations {
		responses = append(responses, toConversationResponse(conversation))
	}
	utils.OKResponse(c, gin.H{"conversations": responses})
}

func (h *ChatHandler) ListMessages(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	messages, err := h.queryService.ListMessages(c.Request.Context(), userID, c.Param("sid"), limit, offset)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	responses := make([]MessageResponse, 0, len(messages))
	for _, message := range messages {
		responses = append(responses, toMessageResponse(message))
	}
	utils.OKResponse(c, gin.H{"messages": responses})
}

// AppendMessage adds a message. A tool invocation that the access engine
// refuses answers 403 with the full check result so clients can render the
// upgrade prompt.
func (h *ChatHandler) AppendMessage(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	var req AppendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	message, denied, err := h.appendUseCase.Execute(c.Request.Context(), chatapp.AppendMessageCommand{
		UserID:          userID,
		ConversationSID: c.Param("sid"),
		Role:            chat.MessageRole(req.Role),
		Content:         req.Content,
		ToolName:        req.Tool,
		ToolType:        req.ToolType,
		ToolParams:      req.Params,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	if denied != nil {
		c.JSON(http.StatusForbidden, utils.APIResponse{
			Success: false,
			Error: &utils.ErrorInfo{
				Type:    "forbidden",
				Message: denied.Reason,
			},
			Data: denied,
		})
		return
	}

	utils.CreatedResponse(c, toMessageResponse(message))
}

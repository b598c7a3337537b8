package chat

import (
	"context"
	"fmt"

	accessapp "luminara/internal/application/access"
	"luminara/internal/domain/access"
	"luminara/internal/domain/chat"
	"luminara/internal/domain/subscription"
	"luminara/internal/shared/errors"
	"luminara/internal/shared/logger"
)

// AppendMessageCommand appends one message to a conversation. ToolName and
// ToolType are set when the message is the result of a tool invocation;
// tagging it makes the invocation count against future quota checks.
type AppendMessageCommand struct {
	UserID          uint
	ConversationSID string
	Role            chat.MessageRole
	Content         string
	ToolName        string
	ToolType        string
	ToolParams      map[string]any
}

type AppendMessageUseCase struct {
	conversationRepo chat.ConversationRepository
	messageRepo      chat.MessageRepository
	accessService    *accessapp.ToolAccessService
	resolver         accessapp.TierResolver
	logger           logger.Interface
}

func NewAppendMessageUseCase(
	conversationRepo chat.ConversationRepository,
	messageRepo chat.MessageRepository,
	accessService *accessapp.ToolAccessService,
	resolver accessapp.TierResolver,
	logger logger.Interface,
) *AppendMessageUseCase {
	return &AppendMessageUseCase{
		conversationRepo: conversationRepo,
		messageRepo:      messageRepo,
		accessService:    accessService,
		resolver:         resolver,
		logger:           logger,
	}
}

// Execute appends the message. Tool messages pass through the full access
// check first; a denial is returned alongside a nil message so callers can
// surface the upgrade prompt.
func (uc *AppendMessageUseCase) Execute(ctx context.Context, cmd AppendMessageCommand) (*chat.Message, *access.CheckResult, error) {
	conversation, err := uc.conversationRepo.GetBySID(ctx, cmd.ConversationSID)
	if err != nil {
		return nil, nil, errors.NewInternalError("failed to load conversation", err.Error())
	}
	if conversation == nil {
		return nil, nil, errors.NewNotFoundError("conversation not found: " + cmd.ConversationSID)
	}
	if conversation.UserID() != cmd.UserID {
		return nil, nil, errors.NewForbiddenError("conversation belongs to another user")
	}
	if conversation.Archived() {
		return nil, nil, errors.NewConflictError("conversation is archived")
	}

	tier, err := uc.resolver.Resolve(ctx, cmd.UserID)
	if err != nil {
		return nil, nil, err
	}

	limits := subscription.LimitsFor(tier)
	if limits.MaxConversationLength != subscription.Unlimited &&
		conversation.MessageCount() >= limits.MaxConversationLength {
		return nil, nil, errors.NewForbiddenError(
			fmt.Sprintf("conversation length limit of %d messages reached, start a new conversation",
				limits.MaxConversationLength))
	}

	var toolUsage *chat.ToolUsage
	if cmd.ToolName != "" {
		result, err := uc.accessService.CheckToolAccess(ctx, accessapp.CheckQuery{
			UserID:   cmd.UserID,
			ToolName: cmd.ToolName,
			Params:   cmd.ToolParams,
		})
		if err != nil {
			return nil, nil, err
		}
		if !result.Allowed {
			return nil, result, nil
		}
		toolUsage = &chat.ToolUsage{ToolName: cmd.ToolName, ToolType: cmd.ToolType}
	}

	message, err := chat.NewMessage(conversation.ID(), cmd.UserID, cmd.Role, cmd.Content, toolUsage)
	if err != nil {
		return nil, nil, err
	}

	if err := uc.messageRepo.Create(ctx, message); err != nil {
		return nil, nil, errors.NewInternalError("failed to persist message", err.Error())
	}

	conversation.RecordMessage()
	if err := uc.conversationRepo.Update(ctx, conversation); err != nil {
		// the message is committed; the counter catches up on the next write
		uc.logger.Warnw("failed to bump conversation message count",
			"conversation_id", conversation.ID(), "error", err)
	}

	return message, nil, nil
}

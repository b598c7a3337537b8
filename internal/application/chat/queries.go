package chat

import (
	"context"

	"luminara/internal/domain/chat"
	"luminara/internal/shared/errors"
	"luminara/internal/shared/logger"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ChatQueryService answers read-only conversation queries.
type ChatQueryService struct {
	conversationRepo chat.ConversationRepository
	messageRepo      chat.MessageRepository
	logger           logger.Interface
}

func NewChatQueryService(
	conversationRepo chat.ConversationRepository,
	messageRepo chat.MessageRepository,
	logger logger.Interface,
) *ChatQueryService {
	return &ChatQueryService{
		conversationRepo: conversationRepo,
		messageRepo:      messageRepo,
		logger:           logger,
	}
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// ListConversations returns the user's conversations, newest first.
func (s *ChatQueryService) ListConversations(ctx context.Context, userID uint, limit, offset int) ([]*chat.Conversation, error) {
	limit, offset = clampPage(limit, offset)
	conversations, err := s.conversationRepo.ListByUserID(ctx, userID, limit, offset)
	if err != nil {
		s.logger.Errorw("failed to list conversations", "user_id", userID, "error", err)
		return nil, errors.NewInternalError("failed to list conversations", err.Error())
	}
	return conversations, nil
}

// ListMessages returns a conversation's messages in chronological order,
// after checking ownership.
func (s *ChatQueryService) ListMessages(ctx context.Context, userID uint, conversationSID string, limit, offset int) ([]*chat.Message, error) {
	conversation, err := s.conversationRepo.GetBySID(ctx, conversationSID)
	if err != nil {
		s.logger.Errorw("failed to load conversation", "sid", conversationSID, "error", err)
		return nil, errors.NewInternalError("failed to load conversation", err.Error())
	}
	if conversation == nil {
		return nil, errors.NewNotFoundError("conversation not found: " + conversationSID)
	}
	if conversation.UserID() != userID {
		return nil, errors.NewForbiddenError("conversation belongs to another user")
	}

	limit, offset = clampPage(limit, offset)
	messages, err := s.messageRepo.ListByConversationID(ctx, conversation.ID(), limit, offset)
	if err != nil {
		s.logger.Errorw("failed to list messages", "sid", conversationSID, "error", err)
		return nil, errors.NewInternalError("failed to list messages", err.Error())
	}
	return messages, nil
}

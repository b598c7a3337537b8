package chat

import (
	"context"
	"time"
)

// ConversationRepository persists conversations.
type ConversationRepository interface {
	Create(ctx context.Context, conversation *Conversation) error
	Update(ctx context.Context, conversation *Conversation) error
	GetBySID(ctx context.Context, sid string) (*Conversation, error)
	ListByUserID(ctx context.Context, userID uint, limit, offset int) ([]*Conversation, error)
}

// MessageRepository persists messages.
type MessageRepository interface {
	Create(ctx context.Context, message *Message) error
	ListByConversationID(ctx context.Context, conversationID uint, limit, offset int) ([]*Message, error)
}

// UsageEventRepository aggregates persisted tool usage from message history.
// Windows are half-open [start, end). Counts reflect committed history only;
// concurrent in-flight invocations are not observed, so quota enforcement is
// eventually consistent by design.
type UsageEventRepository interface {
	// CountByTool counts messages tagged with the given tool name.
	CountByTool(ctx context.Context, userID uint, toolName string, start, end time.Time) (int, error)
	// CountByType counts messages tagged with the given tool type.
	CountByType(ctx context.Context, userID uint, toolType string, start, end time.Time) (int, error)
	// CountAllTools counts every tool-tagged message regardless of which
	// tool produced it.
	CountAllTools(ctx context.Context, userID uint, start, end time.Time) (int, error)
	// CountConversations counts conversations started by the user in the window.
	CountConversations(ctx context.Context, userID uint, start, end time.Time) (int, error)
}

package chat

import (
	"time"

	"luminara/internal/shared/errors"
	"luminara/internal/shared/id"
)

// MessageRole discriminates who authored a message.
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// Valid reports whether the role is a known value.
func (r MessageRole) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// ToolUsage tags a message with the tool invocation it represents. Usage
// aggregation counts messages by these tags, so a message written without a
// tag never counts against any quota.
type ToolUsage struct {
	ToolName string `json:"tool_name"`
	ToolType string `json:"tool_type"`
}

// Message is one chat message within a conversation.
type Message struct {
	id             uint
	sid            string
	conversationID uint
	userID         uint
	role           MessageRole
	content        string
	toolUsage      *ToolUsage
	createdAt      time.Time
}

// NewMessage creates a message. toolUsage is nil for plain chat messages.
func NewMessage(conversationID, userID uint, role MessageRole, content string, toolUsage *ToolUsage) (*Message, error) {
	if conversationID == 0 {
		return nil, errors.NewValidationError("conversation id is required")
	}
	if !role.Valid() {
		return nil, errors.NewValidationError("invalid message role")
	}
	if content == "" {
		return nil, errors.NewValidationError("message content is required")
	}
	if toolUsage != nil && toolUsage.ToolName == "" {
		return nil, errors.NewValidationError("tool usage requires a tool name")
	}

	sid, err := id.GenerateWithPrefix(id.PrefixMessage, id.DefaultLength)
	if err != nil {
		return nil, errors.NewInternalError("failed to generate message id", err.Error())
	}

	return &Message{
		sid:            sid,
		conversationID: conversationID,
		userID:         userID,
		role:           role,
		content:        content,
		toolUsage:      toolUsage,
		createdAt:      time.Now().UTC(),
	}, nil
}

// ReconstructMessage rebuilds a message from persistence.
func ReconstructMessage(
	mid uint,
	sid string,
	conversationID uint,
	userID uint,
	role MessageRole,
	content string,
	toolUsage *ToolUsage,
	createdAt time.Time,
) *Message {
	return &Message{
		id:             mid,
		sid:            sid,
		conversationID: conversationID,
		userID:         userID,
		role:           role,
		content:        content,
		toolUsage:      toolUsage,
		createdAt:      createdAt,
	}
}

func (m *Message) ID() uint              { return m.id }
func (m *Message) SID() string           { return m.sid }
func (m *Message) ConversationID() uint  { return m.conversationID }
func (m *Message) UserID() uint          { return m.userID }
func (m *Message) Role() MessageRole     { return m.role }
func (m *Message) Content() string       { return m.content }
func (m *Message) ToolUsage() *ToolUsage { return m.toolUsage }
func (m *Message) CreatedAt() time.Time  { return m.createdAt }

// SetID assigns the database-generated identifier after insert.
func (m *Message) SetID(mid uint) {
	m.id = mid
}

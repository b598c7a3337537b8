// Package chat holds the conversation and message aggregates. Messages carry
// tool-usage metadata; the persisted message history doubles as the usage
// event log that quota checks aggregate over.
package chat

import (
	"time"

	"luminara/internal/shared/errors"
	"luminara/internal/shared/id"
)

// Conversation is one chat thread owned by a user.
type Conversation struct {
	id           uint
	sid          string
	userID       uint
	title        string
	messageCount int
	archived     bool
	createdAt    time.Time
	updatedAt    time.Time
}

// NewConversation creates a conversation for a user.
func NewConversation(userID uint, title string) (*Conversation, error) {
	if userID == 0 {
		return nil, errors.NewValidationError("user id is required")
	}
	if title == "" {
		title = "New conversation"
	}

	sid, err := id.GenerateWithPrefix(id.PrefixConversation, id.DefaultLength)
	if err != nil {
		return nil, errors.NewInternalError("failed to generate conversation id", err.Error())
	}

	now := time.Now().UTC()
	return &Conversation{
		sid:       sid,
		userID:    userID,
		title:     title,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructConversation rebuilds a conversation from persistence.
func ReconstructConversation(
	cid uint,
	sid string,
	userID uint,
	title string,
	messageCount int,
	archived bool,
	createdAt, updatedAt time.Time,
) *Conversation {
	return &Conversation{
		id:           cid,
		sid:          sid,
		userID:       userID,
		title:        title,
		messageCount: messageCount,
		archived:     archived,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func (c *Conversation) ID() uint             { return c.id }
func (c *Conversation) SID() string          { return c.sid }
func (c *Conversation) UserID() uint         { return c.userID }
func (c *Conversation) Title() string        { return c.title }
func (c *Conversation) MessageCount() int    { return c.messageCount }
func (c *Conversation) Archived() bool       { return c.archived }
func (c *Conversation) CreatedAt() time.Time { return c.createdAt }
func (c *Conversation) UpdatedAt() time.Time { return c.updatedAt }

// SetID assigns the database-generated identifier after insert.
func (c *Conversation) SetID(cid uint) {
	c.id = cid
}

// Rename changes the conversation title.
func (c *Conversation) Rename(title string) error {
	if title == "" {
		return errors.NewValidationError("title is required")
	}
	c.title = title
	c.updatedAt = time.Now().UTC()
	return nil
}

// Archive marks the conversation archived. Archived conversations accept no
// new messages.
func (c *Conversation) Archive() {
	c.archived = true
	c.updatedAt = time.Now().UTC()
}

// RecordMessage bumps the message counter after a message is appended.
func (c *Conversation) RecordMessage() {
	c.messageCount++
	c.updatedAt = time.Now().UTC()
}

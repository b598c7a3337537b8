package models

import (
	"time"

	"gorm.io/datatypes"
)

// MessageModel is the persistence model for chat messages. Metadata carries
// the tool-usage tags that quota aggregation queries with JSON path
// expressions, so tagged messages are the system's usage event log.
type MessageModel struct {
	ID             uint   `gorm:"primarykey"`
	SID            string `gorm:"column:sid;uniqueIndex;not null;size:50;comment:Stripe-style ID: msg_xxx"`
	ConversationID uint   `gorm:"not null;index:idx_conversation_message"`
	UserID         uint   `gorm:"not null;index:idx_user_message,priority:1"`
	Role           string `gorm:"not null;size:20"`
	Content        string `gorm:"type:text;not null"`
	Metadata       datatypes.JSON
	// CreatedAt participates in the user index: usage counts scan by user
	// and time window.
	CreatedAt time.Time `gorm:"index:idx_user_message,priority:2"`
}

func (MessageModel) TableName() string {
	return "messages"
}

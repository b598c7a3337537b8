package models

import (
	"time"

	"gorm.io/gorm"
)

// ConversationModel is the persistence model for conversations.
type ConversationModel struct {
	ID           uint   `gorm:"primarykey"`
	SID          string `gorm:"column:sid;uniqueIndex;not null;size:50;comment:Stripe-style ID: conv_xxx"`
	UserID       uint   `gorm:"not null;index:idx_user_conversation,priority:1"`
	Title        string `gorm:"not null;size:255"`
	MessageCount int    `gorm:"not null;default:0"`
	Archived     bool   `gorm:"not null;default:false"`
	// CreatedAt participates in the user index: conversation quota counts
	// scan by user and creation window.
	CreatedAt time.Time `gorm:"index:idx_user_conversation,priority:2"`
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (ConversationModel) TableName() string {
	return "conversations"
}

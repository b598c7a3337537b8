package models

import (
	"time"

	"gorm.io/gorm"
)

// SubscriptionModel is the persistence model for subscriptions.
type SubscriptionModel struct {
	ID                 uint      `gorm:"primarykey"`
	SID                string    `gorm:"column:sid;uniqueIndex;not null;size:50;comment:Stripe-style ID: sub_xxx"`
	UserID             uint      `gorm:"not null;index:idx_user_subscription"`
	Plan               string    `gorm:"not null;size:20;index:idx_plan"`
	Status             string    `gorm:"not null;size:20;index:idx_status"`
	CurrentPeriodStart time.Time `gorm:"not null"`
	CurrentPeriodEnd   time.Time `gorm:"not null"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
	DeletedAt          gorm.DeletedAt `gorm:"index"`
}

func (SubscriptionModel) TableName() string {
	return "subscriptions"
}

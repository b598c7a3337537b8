// Package models holds the database persistence models. They are the
// anti-corruption layer between domain entities and gorm.
package models

import (
	"time"

	"gorm.io/gorm"
)

// UserModel is the persistence model for users.
type UserModel struct {
	ID           uint   `gorm:"primarykey"`
	SID          string `gorm:"column:sid;uniqueIndex;not null;size:50;comment:Stripe-style ID: usr_xxx"`
	Email        string `gorm:"uniqueIndex;not null;size:255"`
	Name         string `gorm:"not null;size:100"`
	PasswordHash string `gorm:"not null;size:255"`
	Locale       string `gorm:"not null;size:10;default:en"`
	Status       string `gorm:"not null;size:20;index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (UserModel) TableName() string {
	return "users"
}

// Package user holds the user aggregate.
package user

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
)

// Status is the user account status.
type Status string

const (
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
)

// User represents the user aggregate root.
type User struct {
	id           uint
	sid          string
	email        string
	name         string
	passwordHash string
	locale       string
	status       Status
	createdAt    time.Time
	updatedAt    time.Time
}

// NewUser creates a new active user. passwordHash must already be hashed by
// the caller; the domain never sees plaintext passwords.
func NewUser(sid, email, name, passwordHash string) (*User, error) {
	if sid == "" {
		return nil, fmt.Errorf("user SID is required")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("invalid email address: %s", email)
	}
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if passwordHash == "" {
		return nil, fmt.Errorf("password hash is required")
	}

	now := time.Now().UTC()
	return &User{
		sid:          sid,
		email:        email,
		name:         name,
		passwordHash: passwordHash,
		locale:       "en",
		status:       StatusActive,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// ReconstructUser reconstructs a user from persistence.
func ReconstructUser(
	id uint,
	sid string,
	email string,
	name string,
	passwordHash string,
	locale string,
	status Status,
	createdAt, updatedAt time.Time,
) (*User, error) {
	if id == 0 {
		return nil, fmt.Errorf("user ID cannot be zero")
	}
	if locale == "" {
		locale = "en"
	}
	return &User{
		id:           id,
		sid:          sid,
		email:        email,
		name:         name,
		passwordHash: passwordHash,
		locale:       locale,
		status:       status,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}, nil
}

func (u *User) ID() uint             { return u.id }
func (u *User) SID() string          { return u.sid }
func (u *User) Email() string        { return u.email }
func (u *User) Name() string         { return u.name }
func (u *User) PasswordHash() string { return u.passwordHash }
func (u *User) Locale() string       { return u.locale }
func (u *User) Status() Status       { return u.status }
func (u *User) CreatedAt() time.Time { return u.createdAt }
func (u *User) UpdatedAt() time.Time { return u.updatedAt }

// SetID assigns the persistence-generated ID once.
func (u *User) SetID(id uint) error {
	if u.id != 0 {
		return fmt.Errorf("user ID already set")
	}
	if id == 0 {
		return fmt.Errorf("user ID cannot be zero")
	}
	u.id = id
	return nil
}

// IsActive reports whether the account may sign in.
func (u *User) IsActive() bool {
	return u.status == StatusActive
}

// SetLocale updates the preferred locale for localized denial messages.
func (u *User) SetLocale(locale string) {
	if locale == "" {
		return
	}
	u.locale = locale
	u.updatedAt = time.Now().UTC()
}

// Suspend blocks the account from signing in.
func (u *User) Suspend() {
	u.status = StatusSuspended
	u.updatedAt = time.Now().UTC()
}

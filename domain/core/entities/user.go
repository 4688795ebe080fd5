package entities

import (
	"strings"
	"time"

	"techknowledgepills/domain/events"
	pkgerrors "techknowledgepills/pkg/errors"
)

// User is an account holder
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	LastLogin    *time.Time

	events []events.DomainEvent
}

// NormalizeEmail lowercases and trims an address so lookups are case-insensitive
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NewUser creates a user and records a UserRegistered event
func NewUser(id, email, passwordHash string, now time.Time) (*User, error) {
	email = NormalizeEmail(email)
	if id == "" {
		return nil, pkgerrors.NewValidationError("user id is required")
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, pkgerrors.NewValidationError("a valid email is required")
	}
	if passwordHash == "" {
		return nil, pkgerrors.NewValidationError("password hash is required")
	}

	u := &User{
		ID:           id,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now.UTC(),
	}
	u.addEvent(events.NewUserRegistered(id, email, u.CreatedAt))
	return u, nil
}

// RecordLogin stamps the last successful login
func (u *User) RecordLogin(at time.Time) {
	t := at.UTC()
	u.LastLogin = &t
}

// GetUncommittedEvents returns events raised since the last commit
func (u *User) GetUncommittedEvents() []events.DomainEvent {
	return u.events
}

// MarkEventsAsCommitted clears pending events
func (u *User) MarkEventsAsCommitted() {
	u.events = nil
}

func (u *User) addEvent(e events.DomainEvent) {
	u.events = append(u.events, e)
}

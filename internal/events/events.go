// Package events publishes domain events about users and class submissions.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	Source  = "booking-service"
	Version = "1.0"
)

type EventType string

const (
	UserRegistered  EventType = "user.registered"
	UserRoleChanged EventType = "user.role_changed"
	ClassSubmitted  EventType = "class.submitted"
)

// Event is the envelope written to the broker as JSON.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

type UserRegisteredData struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

type UserRoleChangedData struct {
	UserID       string `json:"user_id"`
	Role         string `json:"role"`
	MatchedCount int64  `json:"matched_count"`
}

type ClassSubmittedData struct {
	SubmissionID string `json:"submission_id"`
	Status       string `json:"status"`
}

func NewEvent(t EventType, data interface{}) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      t,
		Source:    Source,
		Version:   Version,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// EventPublisher delivers events; callers treat failures as non-fatal.
type EventPublisher interface {
	Publish(ctx context.Context, event *Event) error
	Close() error
}

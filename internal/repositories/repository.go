package repositories

import (
	"context"
	"errors"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrDuplicateKey = errors.New("duplicate key")
	ErrInvalidID    = errors.New("invalid document identifier")
)

// Repository groups every collection the service reads or writes.
type Repository interface {
	User() UserRepository
	Class() ClassRepository
	Instructor() InstructorRepository
	Review() ReviewRepository
	ClassSubmission() ClassSubmissionRepository

	// EnsureIndexes creates the unique email index used as the registration backstop
	EnsureIndexes(ctx context.Context) error

	// Health check
	Ping(ctx context.Context) error

	// Close releases the underlying connection
	Close(ctx context.Context) error
}

// InsertResult mirrors the document store's insertOne acknowledgement.
type InsertResult struct {
	Acknowledged bool   `json:"acknowledged"`
	InsertedID   string `json:"insertedId"`
}

// UpdateResult mirrors the document store's updateOne acknowledgement.
// A filter that matched nothing is still a successful update.
type UpdateResult struct {
	Acknowledged  bool    `json:"acknowledged"`
	MatchedCount  int64   `json:"matchedCount"`
	ModifiedCount int64   `json:"modifiedCount"`
	UpsertedCount int64   `json:"upsertedCount"`
	UpsertedID    *string `json:"upsertedId"`
}

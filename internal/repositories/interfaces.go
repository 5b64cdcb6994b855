package repositories

import (
	"context"

	"github.com/powerplay-sports/booking-service/internal/models"
)

// ClassRepository lists classes by popularity. limit <= 0 means no limit.
type ClassRepository interface {
	ListByStudentsDesc(ctx context.Context, limit int) ([]*models.Class, error)
}

type InstructorRepository interface {
	ListByStudentsDesc(ctx context.Context, limit int) ([]*models.Instructor, error)
}

type ReviewRepository interface {
	List(ctx context.Context) ([]*models.Review, error)
}

// ClassSubmissionRepository stores classes awaiting approval.
type ClassSubmissionRepository interface {
	Create(ctx context.Context, submission *models.ClassSubmission) (*InsertResult, error)
}

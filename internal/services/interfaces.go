package services

import (
	"context"
	"io"

	"github.com/powerplay-sports/booking-service/internal/models"
	"github.com/powerplay-sports/booking-service/internal/repositories"
)

// RegisterResult is either an insertion or the "already exists" outcome.
type RegisterResult struct {
	AlreadyExists bool
	Insert        *repositories.InsertResult
}

type UserService interface {
	// Register stores a new account with the student role. An existing
	// email is reported through RegisterResult, not as an error.
	Register(ctx context.Context, user *models.User) (*RegisterResult, error)

	// ResolveRole never fails for an unknown email; it returns the default role.
	ResolveRole(ctx context.Context, email string) (models.Role, error)
	IsAdmin(ctx context.Context, email string) (bool, error)
	ListUsers(ctx context.Context) ([]*models.User, error)

	// Promote sets the role of the user with the given record ID. A
	// non-matching ID is not an error.
	Promote(ctx context.Context, id string, role models.Role) (*repositories.UpdateResult, error)

	// ExportUsers writes the roster as an xlsx workbook.
	ExportUsers(ctx context.Context, w io.Writer) error
}

type CatalogService interface {
	// PopularClasses and Instructors rank by students, highest first.
	// limit <= 0 returns every record.
	PopularClasses(ctx context.Context, limit int) ([]*models.Class, error)
	Instructors(ctx context.Context, limit int) ([]*models.Instructor, error)
	Reviews(ctx context.Context) ([]*models.Review, error)

	// SubmitClass stores the class as pending, whatever status was sent.
	SubmitClass(ctx context.Context, submission *models.ClassSubmission) (*repositories.InsertResult, error)
}

// ServiceManager owns service construction and lifecycle
type ServiceManager interface {
	User() UserService
	Catalog() CatalogService

	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

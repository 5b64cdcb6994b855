package repositories

import (
	"context"

	"github.com/powerplay-sports/booking-service/internal/models"
)

// UserRepository is the users collection.
type UserRepository interface {
	// GetByEmail returns ErrNotFound when no record matches
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Create returns ErrDuplicateKey when the unique email index rejects the insert
	Create(ctx context.Context, user *models.User) (*InsertResult, error)
	List(ctx context.Context) ([]*models.User, error)

	// UpdateRole returns ErrInvalidID for identifiers the store cannot parse
	UpdateRole(ctx context.Context, id string, role models.Role) (*UpdateResult, error)
}

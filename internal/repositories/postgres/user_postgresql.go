package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/powerplay-sports/booking-service/internal/models"
	"github.com/powerplay-sports/booking-service/internal/repositories"
)

type UserPostgreSQL struct {
	db *gorm.DB
}

func NewUserPostgreSQL(db *gorm.DB) *UserPostgreSQL {
	return &UserPostgreSQL{db: db}
}

func (r *UserPostgreSQL) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var rec userRecord
	if err := r.db.WithContext(ctx).Where("email = ?", email).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return rec.toModel(), nil
}

func (r *UserPostgreSQL) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&userRecord{}).Where("email = ?", email).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return count > 0, nil
}

func (r *UserPostgreSQL) Create(ctx context.Context, user *models.User) (*repositories.InsertResult, error) {
	rec := userRecord{
		ID:      uuid.NewString(),
		Email:   user.Email,
		Role:    string(user.Role),
		Profile: datatypes.JSONMap(user.Profile.Without(models.FieldID, models.FieldEmail, models.FieldRole)),
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isDuplicate(err) {
			return nil, repositories.ErrDuplicateKey
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	user.ID = rec.ID
	return &repositories.InsertResult{Acknowledged: true, InsertedID: rec.ID}, nil
}

func (r *UserPostgreSQL) List(ctx context.Context) ([]*models.User, error) {
	var recs []userRecord
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	users := make([]*models.User, 0, len(recs))
	for i := range recs {
		users = append(users, recs[i].toModel())
	}
	return users, nil
}

// UpdateRole reports matched/modified counts the way a document update does:
// an unknown id matches nothing, an unchanged role matches without modifying.
func (r *UserPostgreSQL) UpdateRole(ctx context.Context, id string, role models.Role) (*repositories.UpdateResult, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, repositories.ErrInvalidID
	}

	res := &repositories.UpdateResult{Acknowledged: true}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec userRecord
		if err := tx.Select("id", "role").Where("id = ?", id).Take(&rec).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		res.MatchedCount = 1
		if rec.Role == string(role) {
			return nil
		}

		update := tx.Model(&userRecord{}).Where("id = ?", id).Update("role", string(role))
		if update.Error != nil {
			return update.Error
		}
		res.ModifiedCount = update.RowsAffected
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update user role: %w", err)
	}
	return res, nil
}

func (rec *userRecord) toModel() *models.User {
	return &models.User{
		ID:      rec.ID,
		Email:   rec.Email,
		Role:    models.Role(rec.Role),
		Profile: models.Document(rec.Profile).Clone(),
	}
}

package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/powerplay-sports/booking-service/internal/models"
	"github.com/powerplay-sports/booking-service/internal/repositories"
)

type ClassPostgreSQL struct {
	db *gorm.DB
}

func NewClassPostgreSQL(db *gorm.DB) *ClassPostgreSQL {
	return &ClassPostgreSQL{db: db}
}

func (r *ClassPostgreSQL) ListByStudentsDesc(ctx context.Context, limit int) ([]*models.Class, error) {
	var recs []classRecord
	if err := rankedQuery(r.db.WithContext(ctx), limit).Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("failed to list classes: %w", err)
	}
	classes := make([]*models.Class, 0, len(recs))
	for _, rec := range recs {
		classes = append(classes, &models.Class{
			ID:         rec.ID,
			Students:   rec.Students,
			Attributes: models.WithStudents(models.Document(rec.Attributes), rec.Students),
		})
	}
	return classes, nil
}

type InstructorPostgreSQL struct {
	db *gorm.DB
}

func NewInstructorPostgreSQL(db *gorm.DB) *InstructorPostgreSQL {
	return &InstructorPostgreSQL{db: db}
}

func (r *InstructorPostgreSQL) ListByStudentsDesc(ctx context.Context, limit int) ([]*models.Instructor, error) {
	var recs []instructorRecord
	if err := rankedQuery(r.db.WithContext(ctx), limit).Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("failed to list instructors: %w", err)
	}
	instructors := make([]*models.Instructor, 0, len(recs))
	for _, rec := range recs {
		instructors = append(instructors, &models.Instructor{
			ID:         rec.ID,
			Students:   rec.Students,
			Attributes: models.WithStudents(models.Document(rec.Attributes), rec.Students),
		})
	}
	return instructors, nil
}

type ReviewPostgreSQL struct {
	db *gorm.DB
}

func NewReviewPostgreSQL(db *gorm.DB) *ReviewPostgreSQL {
	return &ReviewPostgreSQL{db: db}
}

func (r *ReviewPostgreSQL) List(ctx context.Context) ([]*models.Review, error) {
	var recs []reviewRecord
	if err := r.db.WithContext(ctx).Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	reviews := make([]*models.Review, 0, len(recs))
	for _, rec := range recs {
		reviews = append(reviews, &models.Review{
			ID:         rec.ID,
			Attributes: models.Document(rec.Attributes).Clone(),
		})
	}
	return reviews, nil
}

type ClassSubmissionPostgreSQL struct {
	db *gorm.DB
}

func NewClassSubmissionPostgreSQL(db *gorm.DB) *ClassSubmissionPostgreSQL {
	return &ClassSubmissionPostgreSQL{db: db}
}

func (r *ClassSubmissionPostgreSQL) Create(ctx context.Context, submission *models.ClassSubmission) (*repositories.InsertResult, error) {
	rec := classSubmissionRecord{
		ID:         uuid.NewString(),
		Students:   submission.Students,
		Status:     string(submission.Status),
		Attributes: datatypes.JSONMap(submission.Attributes.Without(models.FieldID, models.FieldStudents, models.FieldStatus)),
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return nil, fmt.Errorf("failed to create class submission: %w", err)
	}
	submission.ID = rec.ID
	return &repositories.InsertResult{Acknowledged: true, InsertedID: rec.ID}, nil
}

func rankedQuery(db *gorm.DB, limit int) *gorm.DB {
	query := db.Order("students DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	return query
}

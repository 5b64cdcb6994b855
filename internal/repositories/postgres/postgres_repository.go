package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/powerplay-sports/booking-service/internal/repositories"
)

var _ repositories.Repository = (*PostgreSQLRepository)(nil)

// PostgreSQLRepository stores every collection as a table with a JSONB
// column for the fields the service does not interpret.
type PostgreSQLRepository struct {
	db *gorm.DB

	user            repositories.UserRepository
	class           repositories.ClassRepository
	instructor      repositories.InstructorRepository
	review          repositories.ReviewRepository
	classSubmission repositories.ClassSubmissionRepository
}

// NewPostgreSQLRepository creates a repository with all sub-repositories.
// The *gorm.DB should be opened with TranslateError so duplicate keys are
// reported as gorm.ErrDuplicatedKey.
func NewPostgreSQLRepository(db *gorm.DB) *PostgreSQLRepository {
	return &PostgreSQLRepository{
		db:              db,
		user:            NewUserPostgreSQL(db),
		class:           NewClassPostgreSQL(db),
		instructor:      NewInstructorPostgreSQL(db),
		review:          NewReviewPostgreSQL(db),
		classSubmission: NewClassSubmissionPostgreSQL(db),
	}
}

func (r *PostgreSQLRepository) User() repositories.UserRepository             { return r.user }
func (r *PostgreSQLRepository) Class() repositories.ClassRepository           { return r.class }
func (r *PostgreSQLRepository) Instructor() repositories.InstructorRepository { return r.instructor }
func (r *PostgreSQLRepository) Review() repositories.ReviewRepository         { return r.review }
func (r *PostgreSQLRepository) ClassSubmission() repositories.ClassSubmissionRepository {
	return r.classSubmission
}

// EnsureIndexes migrates the tables, including the unique index on users.email.
func (r *PostgreSQLRepository) EnsureIndexes(ctx context.Context) error {
	err := r.db.WithContext(ctx).AutoMigrate(
		&userRecord{},
		&classRecord{},
		&instructorRecord{},
		&reviewRecord{},
		&classSubmissionRecord{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// Ping checks the health of the database connection
func (r *PostgreSQLRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	return nil
}

// Close closes the database connection
func (r *PostgreSQLRepository) Close(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	return nil
}

// ===== TABLE MODELS =====

type userRecord struct {
	ID        string            `gorm:"primaryKey;size:36"`
	Email     string            `gorm:"uniqueIndex;not null;size:255"`
	Role      string            `gorm:"size:32"`
	Profile   datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (userRecord) TableName() string { return "users" }

type classRecord struct {
	ID         string            `gorm:"primaryKey;size:36"`
	Students   int64             `gorm:"not null;default:0;index"`
	Attributes datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt  time.Time
}

func (classRecord) TableName() string { return "classes" }

type instructorRecord struct {
	ID         string            `gorm:"primaryKey;size:36"`
	Students   int64             `gorm:"not null;default:0;index"`
	Attributes datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt  time.Time
}

func (instructorRecord) TableName() string { return "instructors" }

type reviewRecord struct {
	ID         string            `gorm:"primaryKey;size:36"`
	Attributes datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt  time.Time
}

func (reviewRecord) TableName() string { return "reviews" }

type classSubmissionRecord struct {
	ID         string            `gorm:"primaryKey;size:36"`
	Students   int64             `gorm:"not null;default:0"`
	Status     string            `gorm:"size:32;not null;index"`
	Attributes datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt  time.Time
}

func (classSubmissionRecord) TableName() string { return "class_submissions" }

func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

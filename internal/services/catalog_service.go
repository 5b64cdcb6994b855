package services

import (
	"context"
	"log/slog"

	"github.com/powerplay-sports/booking-service/internal/events"
	"github.com/powerplay-sports/booking-service/internal/models"
	"github.com/powerplay-sports/booking-service/internal/repositories"
	"github.com/powerplay-sports/booking-service/internal/utils"
)

type catalogService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    *slog.Logger
}

func NewCatalogService(repo repositories.Repository, publisher events.EventPublisher, logger *slog.Logger) CatalogService {
	return &catalogService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *catalogService) log(ctx context.Context) *slog.Logger {
	return utils.FromContext(ctx, s.logger)
}

func (s *catalogService) PopularClasses(ctx context.Context, limit int) ([]*models.Class, error) {
	classes, err := s.repo.Class().ListByStudentsDesc(ctx, max(limit, 0))
	if err != nil {
		return nil, storeFailure(ctx, s.logger, "list popular classes", err)
	}
	return classes, nil
}

func (s *catalogService) Instructors(ctx context.Context, limit int) ([]*models.Instructor, error) {
	instructors, err := s.repo.Instructor().ListByStudentsDesc(ctx, max(limit, 0))
	if err != nil {
		return nil, storeFailure(ctx, s.logger, "list instructors", err)
	}
	return instructors, nil
}

func (s *catalogService) Reviews(ctx context.Context) ([]*models.Review, error) {
	reviews, err := s.repo.Review().List(ctx)
	if err != nil {
		return nil, storeFailure(ctx, s.logger, "list reviews", err)
	}
	return reviews, nil
}

func (s *catalogService) SubmitClass(ctx context.Context, submission *models.ClassSubmission) (*repositories.InsertResult, error) {
	submission.Status = models.StatusPending
	delete(submission.Attributes, models.FieldStatus)

	res, err := s.repo.ClassSubmission().Create(ctx, submission)
	if err != nil {
		return nil, storeFailure(ctx, s.logger, "submit class", err)
	}

	s.log(ctx).InfoContext(ctx, "Class submitted for review", "submission_id", res.InsertedID)
	if s.publisher != nil {
		event := events.NewEvent(events.ClassSubmitted, events.ClassSubmittedData{
			SubmissionID: res.InsertedID,
			Status:       string(submission.Status),
		})
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.log(ctx).WarnContext(ctx, "Failed to publish event", "type", event.Type, "error", err)
		}
	}
	return res, nil
}

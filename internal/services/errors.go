package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/powerplay-sports/booking-service/internal/utils"
	"github.com/powerplay-sports/booking-service/internal/validator"
)

// Authentication and admin failures are answered by the gates in handlers
// and never come from a service.
var (
	ErrValidationFailed = validator.ErrValidationFailed
	ErrStoreFailure     = errors.New("store operation failed")
)

type (
	ValidationError  = validator.ValidationError
	ValidationErrors = validator.ValidationErrors
)

// storeFailure logs the underlying error and returns one that is safe to
// show to clients.
func storeFailure(ctx context.Context, logger *slog.Logger, op string, err error) error {
	utils.FromContext(ctx, logger).ErrorContext(ctx, "Store operation failed", "operation", op, "error", err)
	return fmt.Errorf("%w: %s", ErrStoreFailure, op)
}

package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/powerplay-sports/booking-service/internal/cache"
	"github.com/powerplay-sports/booking-service/internal/events"
	"github.com/powerplay-sports/booking-service/internal/models"
	"github.com/powerplay-sports/booking-service/internal/repositories"
	"github.com/powerplay-sports/booking-service/internal/utils"
	"github.com/powerplay-sports/booking-service/internal/validator"
)

const exportSheet = "Users"

type userService struct {
	repo      repositories.Repository
	roles     *cache.RoleCache
	publisher events.EventPublisher
	validator *validator.Validator
	logger    *slog.Logger
}

func NewUserService(
	repo repositories.Repository,
	roles *cache.RoleCache,
	publisher events.EventPublisher,
	validator *validator.Validator,
	logger *slog.Logger,
) UserService {
	if roles == nil {
		roles = cache.NewRoleCache(nil, 0)
	}
	return &userService{
		repo:      repo,
		roles:     roles,
		publisher: publisher,
		validator: validator,
		logger:    logger,
	}
}

// log prefers the request-scoped logger carried by ctx.
func (s *userService) log(ctx context.Context) *slog.Logger {
	return utils.FromContext(ctx, s.logger)
}

func (s *userService) Register(ctx context.Context, user *models.User) (*RegisterResult, error) {
	req := validator.RegisterRequest{Email: user.Email}
	if err := s.validator.ValidateRegistration(&req); err != nil {
		return nil, err
	}
	user.Email = req.Email

	exists, err := s.repo.User().ExistsByEmail(ctx, user.Email)
	if err != nil {
		return nil, storeFailure(ctx, s.logger, "check existing user", err)
	}
	if exists {
		return &RegisterResult{AlreadyExists: true}, nil
	}

	// callers never choose their own role
	user.Role = models.DefaultRole

	res, err := s.repo.User().Create(ctx, user)
	if errors.Is(err, repositories.ErrDuplicateKey) {
		// lost a race with a concurrent registration
		return &RegisterResult{AlreadyExists: true}, nil
	}
	if err != nil {
		return nil, storeFailure(ctx, s.logger, "create user", err)
	}

	s.log(ctx).InfoContext(ctx, "User registered", "user_id", res.InsertedID)
	s.publish(ctx, events.NewEvent(events.UserRegistered, events.UserRegisteredData{
		UserID: res.InsertedID,
		Email:  user.Email,
	}))

	return &RegisterResult{Insert: res}, nil
}

func (s *userService) ResolveRole(ctx context.Context, email string) (models.Role, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return models.DefaultRole, nil
	}

	role, err := s.roles.Get(ctx, email)
	if err == nil {
		return role, nil
	}
	if !errors.Is(err, cache.ErrCacheNotFound) && !errors.Is(err, cache.ErrCacheNotAvailable) {
		s.log(ctx).WarnContext(ctx, "Role cache lookup failed", "error", err)
	}

	gen, genErr := s.roles.Generation(ctx)
	if genErr != nil {
		s.log(ctx).WarnContext(ctx, "Role cache generation unavailable", "error", genErr)
	}

	user, err := s.repo.User().GetByEmail(ctx, email)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		role = models.DefaultRole
	case err != nil:
		return "", storeFailure(ctx, s.logger, "resolve role", err)
	default:
		role = s.normalizeRole(ctx, user)
	}

	if genErr != nil {
		return role, nil
	}
	err = s.roles.Set(ctx, email, role, gen)
	switch {
	case errors.Is(err, cache.ErrStaleGeneration):
		s.log(ctx).DebugContext(ctx, "Role changed during lookup, not caching")
	case err != nil:
		s.log(ctx).WarnContext(ctx, "Role cache write failed", "error", err)
	}
	return role, nil
}

// normalizeRole maps a missing or unrecognized stored role to the default.
func (s *userService) normalizeRole(ctx context.Context, user *models.User) models.Role {
	if user.Role == "" {
		return models.DefaultRole
	}
	role, err := models.ParseRole(string(user.Role))
	if err != nil {
		s.log(ctx).WarnContext(ctx, "Unknown stored role, treating as default",
			"user_id", user.ID,
			"stored_role", string(user.Role))
		return models.DefaultRole
	}
	return role
}

func (s *userService) IsAdmin(ctx context.Context, email string) (bool, error) {
	role, err := s.ResolveRole(ctx, email)
	if err != nil {
		return false, err
	}
	return role == models.RoleAdmin, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]*models.User, error) {
	users, err := s.repo.User().List(ctx)
	if err != nil {
		return nil, storeFailure(ctx, s.logger, "list users", err)
	}
	return users, nil
}

func (s *userService) Promote(ctx context.Context, id string, role models.Role) (*repositories.UpdateResult, error) {
	if err := s.validator.ValidatePromotion(&validator.PromotionRequest{ID: id, Role: role}); err != nil {
		return nil, err
	}

	res, err := s.repo.User().UpdateRole(ctx, id, role)
	if errors.Is(err, repositories.ErrInvalidID) {
		return nil, ValidationErrors{{
			Field:   "id",
			Message: "is not a valid identifier",
			Value:   id,
			Rule:    "id",
		}}
	}
	if err != nil {
		return nil, storeFailure(ctx, s.logger, "update role", err)
	}

	s.roles.InvalidateAll(ctx)

	s.log(ctx).InfoContext(ctx, "User role updated",
		"user_id", id,
		"role", role.String(),
		"matched", res.MatchedCount,
		"modified", res.ModifiedCount)
	s.publish(ctx, events.NewEvent(events.UserRoleChanged, events.UserRoleChangedData{
		UserID:       id,
		Role:         role.String(),
		MatchedCount: res.MatchedCount,
	}))

	return res, nil
}

func (s *userService) ExportUsers(ctx context.Context, w io.Writer) error {
	users, err := s.ListUsers(ctx)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.log(ctx).WarnContext(ctx, "Failed to close workbook", "error", err)
		}
	}()

	if err := f.SetSheetName(f.GetSheetName(0), exportSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	profileKeys := collectProfileKeys(users)
	header := []interface{}{models.FieldID, models.FieldEmail, models.FieldRole}
	for _, k := range profileKeys {
		header = append(header, k)
	}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := boldHeader(f, len(header)); err != nil {
		s.log(ctx).WarnContext(ctx, "Failed to style export header", "error", err)
	}

	for i, u := range users {
		row := []interface{}{u.ID, u.Email, s.normalizeRole(ctx, u).String()}
		for _, k := range profileKeys {
			if v, ok := u.Profile[k]; ok && v != nil {
				row = append(row, fmt.Sprint(v))
			} else {
				row = append(row, "")
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// boldHeader styles row 1 across columns A..cols.
func boldHeader(f *excelize.File, cols int) error {
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(cols, 1)
	if err != nil {
		return fmt.Errorf("header range: %w", err)
	}
	if err := f.SetCellStyle(exportSheet, "A1", last, style); err != nil {
		return fmt.Errorf("apply header style: %w", err)
	}
	return nil
}

func collectProfileKeys(users []*models.User) []string {
	seen := make(map[string]struct{})
	for _, u := range users {
		for k := range u.Profile {
			seen[k] = struct{}{}
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// publish is best-effort; a broker failure never fails the request.
func (s *userService) publish(ctx context.Context, event *events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log(ctx).WarnContext(ctx, "Failed to publish event", "type", event.Type, "error", err)
	}
}

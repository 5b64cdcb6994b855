package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/powerplay-sports/booking-service/internal/cache"
	"github.com/powerplay-sports/booking-service/internal/events"
	"github.com/powerplay-sports/booking-service/internal/models"
	"github.com/powerplay-sports/booking-service/internal/repositories"
	"github.com/powerplay-sports/booking-service/internal/repositories/memory"
	"github.com/powerplay-sports/booking-service/internal/validator"
)

// errBoom carries a message that must never reach a client.
var errBoom = errors.New("connection reset by peer at 10.0.0.7:27017")

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newRoleCache(t *testing.T) (*cache.RoleCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.NewRoleCache(client, time.Minute), mr
}

type userFixture struct {
	repo      *memory.Repository
	publisher *events.MockEventPublisher
	mr        *miniredis.Miniredis
	svc       UserService
}

func newUserFixture(t *testing.T) *userFixture {
	t.Helper()
	repo := memory.NewRepository()
	roles, mr := newRoleCache(t)
	pub := events.NewMockEventPublisher(testLogger())
	return &userFixture{
		repo:      repo,
		publisher: pub,
		mr:        mr,
		svc:       NewUserService(repo, roles, pub, validator.New(), testLogger()),
	}
}

// faultyRepository fails every call with err.
type faultyRepository struct {
	err error
}

func (f faultyRepository) User() repositories.UserRepository             { return faultyUsers(f) }
func (f faultyRepository) Class() repositories.ClassRepository           { return faultyClasses(f) }
func (f faultyRepository) Instructor() repositories.InstructorRepository { return faultyInstructors(f) }
func (f faultyRepository) Review() repositories.ReviewRepository         { return faultyReviews(f) }
func (f faultyRepository) ClassSubmission() repositories.ClassSubmissionRepository {
	return faultySubmissions(f)
}
func (f faultyRepository) EnsureIndexes(ctx context.Context) error { return f.err }
func (f faultyRepository) Ping(ctx context.Context) error          { return f.err }
func (f faultyRepository) Close(ctx context.Context) error         { return nil }

type faultyUsers struct{ err error }

func (f faultyUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, f.err
}
func (f faultyUsers) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return false, f.err
}
func (f faultyUsers) Create(ctx context.Context, user *models.User) (*repositories.InsertResult, error) {
	return nil, f.err
}
func (f faultyUsers) List(ctx context.Context) ([]*models.User, error) { return nil, f.err }
func (f faultyUsers) UpdateRole(ctx context.Context, id string, role models.Role) (*repositories.UpdateResult, error) {
	return nil, f.err
}

type faultyClasses struct{ err error }

func (f faultyClasses) ListByStudentsDesc(ctx context.Context, limit int) ([]*models.Class, error) {
	return nil, f.err
}

type faultyInstructors struct{ err error }

func (f faultyInstructors) ListByStudentsDesc(ctx context.Context, limit int) ([]*models.Instructor, error) {
	return nil, f.err
}

type faultyReviews struct{ err error }

func (f faultyReviews) List(ctx context.Context) ([]*models.Review, error) { return nil, f.err }

type faultySubmissions struct{ err error }

func (f faultySubmissions) Create(ctx context.Context, s *models.ClassSubmission) (*repositories.InsertResult, error) {
	return nil, f.err
}

// racingUsers reports no existing user but then loses the insert to a
// concurrent registration.
type racingUsers struct {
	repositories.UserRepository
}

func (racingUsers) ExistsByEmail(ctx context.Context, email string) (bool, error) { return false, nil }
func (racingUsers) Create(ctx context.Context, user *models.User) (*repositories.InsertResult, error) {
	return nil, repositories.ErrDuplicateKey
}

// invalidIDUsers rejects every identifier the way the document store does
// for malformed ObjectIDs.
type invalidIDUsers struct {
	repositories.UserRepository
}

func (invalidIDUsers) UpdateRole(ctx context.Context, id string, role models.Role) (*repositories.UpdateResult, error) {
	return nil, repositories.ErrInvalidID
}

// repoWithUsers swaps the user repository of an otherwise working store.
type repoWithUsers struct {
	repositories.Repository
	users repositories.UserRepository
}

func (r repoWithUsers) User() repositories.UserRepository { return r.users }

// afterLookupUsers runs hook once, right after the first GetByEmail has read
// the store.
type afterLookupUsers struct {
	repositories.UserRepository
	hook func()
}

func (u *afterLookupUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := u.UserRepository.GetByEmail(ctx, email)
	if u.hook != nil {
		hook := u.hook
		u.hook = nil
		hook()
	}
	return user, err
}

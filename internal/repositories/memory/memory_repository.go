// Package memory is a process-local store used by the "memory" driver and by tests.
package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/powerplay-sports/booking-service/internal/models"
	"github.com/powerplay-sports/booking-service/internal/repositories"
)

var errClosed = errors.New("memory repository closed")

var _ repositories.Repository = (*Repository)(nil)

type Repository struct {
	mu          sync.RWMutex
	users       []*models.User
	classes     []*models.Class
	instructors []*models.Instructor
	reviews     []*models.Review
	submissions []*models.ClassSubmission
	closed      bool
}

func NewRepository() *Repository {
	return &Repository{}
}

func (r *Repository) User() repositories.UserRepository                       { return userStore{r} }
func (r *Repository) Class() repositories.ClassRepository                     { return classStore{r} }
func (r *Repository) Instructor() repositories.InstructorRepository           { return instructorStore{r} }
func (r *Repository) Review() repositories.ReviewRepository                   { return reviewStore{r} }
func (r *Repository) ClassSubmission() repositories.ClassSubmissionRepository { return submissionStore{r} }

// EnsureIndexes is a no-op; Create enforces email uniqueness directly.
func (r *Repository) EnsureIndexes(ctx context.Context) error { return nil }

func (r *Repository) Ping(ctx context.Context) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return errClosed
	}
	return ctx.Err()
}

func (r *Repository) Close(ctx context.Context) error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	return nil
}

// SeedClasses appends classes, assigning IDs where missing. Students becomes
// the stored count unless Attributes already carry one.
func (r *Repository) SeedClasses(classes ...*models.Class) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range classes {
		cp := *c
		if cp.ID == "" {
			cp.ID = newID()
		}
		cp.Attributes = storedCount(cp.Attributes, cp.Students)
		r.classes = append(r.classes, &cp)
	}
}

func (r *Repository) SeedInstructors(instructors ...*models.Instructor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, i := range instructors {
		cp := *i
		if cp.ID == "" {
			cp.ID = newID()
		}
		cp.Attributes = storedCount(cp.Attributes, cp.Students)
		r.instructors = append(r.instructors, &cp)
	}
}

func (r *Repository) SeedReviews(reviews ...*models.Review) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rv := range reviews {
		cp := *rv
		if cp.ID == "" {
			cp.ID = newID()
		}
		r.reviews = append(r.reviews, &cp)
	}
}

// SeedUsers stores users as given, role included, bypassing uniqueness checks.
func (r *Repository) SeedUsers(users ...*models.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range users {
		cp := *u
		if cp.ID == "" {
			cp.ID = newID()
		}
		r.users = append(r.users, &cp)
	}
}

// Submissions returns a snapshot of stored class submissions.
func (r *Repository) Submissions() []models.ClassSubmission {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.ClassSubmission, 0, len(r.submissions))
	for _, s := range r.submissions {
		out = append(out, *s)
	}
	return out
}

func newID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

type userStore struct{ r *Repository }

func (s userStore) find(email string) *models.User {
	for _, u := range s.r.users {
		if u.Email == email {
			return u
		}
	}
	return nil
}

func (s userStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	s.r.mu.RLock()
	defer s.r.mu.RUnlock()
	u := s.find(email)
	if u == nil {
		return nil, repositories.ErrNotFound
	}
	cp := *u
	cp.Profile = u.Profile.Clone()
	return &cp, nil
}

func (s userStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	s.r.mu.RLock()
	defer s.r.mu.RUnlock()
	return s.find(email) != nil, nil
}

func (s userStore) Create(ctx context.Context, user *models.User) (*repositories.InsertResult, error) {
	s.r.mu.Lock()
	defer s.r.mu.Unlock()
	if s.find(user.Email) != nil {
		return nil, repositories.ErrDuplicateKey
	}
	cp := *user
	cp.ID = newID()
	cp.Profile = user.Profile.Clone()
	s.r.users = append(s.r.users, &cp)
	user.ID = cp.ID
	return &repositories.InsertResult{Acknowledged: true, InsertedID: cp.ID}, nil
}

func (s userStore) List(ctx context.Context) ([]*models.User, error) {
	s.r.mu.RLock()
	defer s.r.mu.RUnlock()
	out := make([]*models.User, 0, len(s.r.users))
	for _, u := range s.r.users {
		cp := *u
		cp.Profile = u.Profile.Clone()
		out = append(out, &cp)
	}
	return out, nil
}

func (s userStore) UpdateRole(ctx context.Context, id string, role models.Role) (*repositories.UpdateResult, error) {
	if strings.TrimSpace(id) == "" {
		return nil, repositories.ErrInvalidID
	}
	s.r.mu.Lock()
	defer s.r.mu.Unlock()
	res := &repositories.UpdateResult{Acknowledged: true}
	for _, u := range s.r.users {
		if u.ID != id {
			continue
		}
		res.MatchedCount = 1
		if u.Role != role {
			u.Role = role
			res.ModifiedCount = 1
		}
		break
	}
	return res, nil
}

type classStore struct{ r *Repository }

func (s classStore) ListByStudentsDesc(ctx context.Context, limit int) ([]*models.Class, error) {
	s.r.mu.RLock()
	out := make([]*models.Class, 0, len(s.r.classes))
	for _, c := range s.r.classes {
		cp := *c
		out = append(out, &cp)
	}
	s.r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].Students > out[j].Students })
	return truncate(out, limit), nil
}

type instructorStore struct{ r *Repository }

func (s instructorStore) ListByStudentsDesc(ctx context.Context, limit int) ([]*models.Instructor, error) {
	s.r.mu.RLock()
	out := make([]*models.Instructor, 0, len(s.r.instructors))
	for _, i := range s.r.instructors {
		cp := *i
		out = append(out, &cp)
	}
	s.r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].Students > out[j].Students })
	return truncate(out, limit), nil
}

type reviewStore struct{ r *Repository }

func (s reviewStore) List(ctx context.Context) ([]*models.Review, error) {
	s.r.mu.RLock()
	defer s.r.mu.RUnlock()
	out := make([]*models.Review, 0, len(s.r.reviews))
	for _, rv := range s.r.reviews {
		cp := *rv
		out = append(out, &cp)
	}
	return out, nil
}

type submissionStore struct{ r *Repository }

func (s submissionStore) Create(ctx context.Context, submission *models.ClassSubmission) (*repositories.InsertResult, error) {
	s.r.mu.Lock()
	defer s.r.mu.Unlock()
	cp := *submission
	cp.ID = newID()
	cp.Attributes = submission.Attributes.Clone()
	s.r.submissions = append(s.r.submissions, &cp)
	submission.ID = cp.ID
	return &repositories.InsertResult{Acknowledged: true, InsertedID: cp.ID}, nil
}

func truncate[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}

func storedCount(attrs models.Document, students int64) models.Document {
	if _, ok := attrs[models.FieldStudents]; ok {
		return attrs.Clone()
	}
	return models.WithStudents(attrs, students)
}

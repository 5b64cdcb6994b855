package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/powerplay-sports/booking-service/internal/events"
	"github.com/powerplay-sports/booking-service/internal/models"
	"github.com/powerplay-sports/booking-service/internal/repositories/memory"
)

func seededCatalog(t *testing.T) (*memory.Repository, *events.MockEventPublisher, CatalogService) {
	t.Helper()
	repo := memory.NewRepository()
	for _, n := range []int64{12, 40, 3, 40, 27, 8, 19} {
		repo.SeedClasses(&models.Class{Students: n, Attributes: models.Document{"name": "class"}})
		repo.SeedInstructors(&models.Instructor{Students: n * 2})
	}
	repo.SeedReviews(
		&models.Review{Attributes: models.Document{"rating": 5}},
		&models.Review{Attributes: models.Document{"rating": 2}},
	)
	pub := events.NewMockEventPublisher(testLogger())
	return repo, pub, NewCatalogService(repo, pub, testLogger())
}

func TestCatalogService_PopularClasses(t *testing.T) {
	_, _, svc := seededCatalog(t)

	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{name: "all", limit: 0, want: 7},
		{name: "negative means all", limit: -3, want: 7},
		{name: "top six", limit: 6, want: 6},
		{name: "limit beyond size", limit: 50, want: 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classes, err := svc.PopularClasses(context.Background(), tt.limit)
			if err != nil {
				t.Fatalf("PopularClasses() error = %v", err)
			}
			if len(classes) != tt.want {
				t.Fatalf("got %d classes, want %d", len(classes), tt.want)
			}
			for i := 1; i < len(classes); i++ {
				if classes[i].Students > classes[i-1].Students {
					t.Fatalf("not ranked at %d: %d after %d", i, classes[i].Students, classes[i-1].Students)
				}
			}
			if classes[0].Students != 40 {
				t.Errorf("top class has %d students, want 40", classes[0].Students)
			}
		})
	}
}

func TestCatalogService_Instructors(t *testing.T) {
	_, _, svc := seededCatalog(t)

	instructors, err := svc.Instructors(context.Background(), 3)
	if err != nil {
		t.Fatalf("Instructors() error = %v", err)
	}
	got := []int64{instructors[0].Students, instructors[1].Students, instructors[2].Students}
	want := []int64{80, 80, 54}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ranked students = %v, want %v", got, want)
		}
	}
}

func TestCatalogService_Reviews(t *testing.T) {
	_, _, svc := seededCatalog(t)

	reviews, err := svc.Reviews(context.Background())
	if err != nil {
		t.Fatalf("Reviews() error = %v", err)
	}
	if len(reviews) != 2 {
		t.Fatalf("got %d reviews, want 2", len(reviews))
	}
	// insertion order, no sorting
	if reviews[0].Attributes["rating"] != 5 {
		t.Errorf("first review = %v", reviews[0].Attributes)
	}
}

func TestCatalogService_SubmitClass(t *testing.T) {
	repo, pub, svc := seededCatalog(t)

	sub := &models.ClassSubmission{
		Status:     "approved",
		Attributes: models.Document{"name": "Yoga", "status": "approved", "price": 20},
	}
	res, err := svc.SubmitClass(context.Background(), sub)
	if err != nil {
		t.Fatalf("SubmitClass() error = %v", err)
	}
	if !res.Acknowledged || res.InsertedID == "" {
		t.Errorf("SubmitClass() = %+v", res)
	}

	stored := repo.Submissions()
	if len(stored) != 1 {
		t.Fatalf("stored %d submissions, want 1", len(stored))
	}
	if stored[0].Status != models.StatusPending {
		t.Errorf("status = %q, want pending", stored[0].Status)
	}
	if _, ok := stored[0].Attributes["status"]; ok {
		t.Error("caller status leaked into attributes")
	}
	if stored[0].Attributes["name"] != "Yoga" {
		t.Errorf("attributes = %v", stored[0].Attributes)
	}

	published := pub.GetPublishedEvents()
	if len(published) != 1 || published[0].Type != events.ClassSubmitted {
		t.Errorf("events = %+v, want one class.submitted", published)
	}
}

func TestCatalogService_StoreFailureIsOpaque(t *testing.T) {
	svc := NewCatalogService(faultyRepository{err: errBoom}, nil, testLogger())
	ctx := context.Background()

	calls := map[string]func() error{
		"PopularClasses": func() error { _, err := svc.PopularClasses(ctx, 0); return err },
		"Instructors":    func() error { _, err := svc.Instructors(ctx, 0); return err },
		"Reviews":        func() error { _, err := svc.Reviews(ctx); return err },
		"SubmitClass": func() error {
			_, err := svc.SubmitClass(ctx, &models.ClassSubmission{Attributes: models.Document{}})
			return err
		},
	}
	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			err := call()
			if !errors.Is(err, ErrStoreFailure) {
				t.Fatalf("error = %v, want ErrStoreFailure", err)
			}
			if strings.Contains(err.Error(), "connection reset") {
				t.Errorf("error %q leaks the store message", err)
			}
		})
	}
}

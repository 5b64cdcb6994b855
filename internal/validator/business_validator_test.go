package validator

import (
	"errors"
	"testing"

	"github.com/powerplay-sports/booking-service/internal/models"
)

func TestValidateRegistration(t *testing.T) {
	v := New()

	tests := []struct {
		name      string
		email     string
		wantEmail string
		wantRule  string
	}{
		{name: "valid", email: "a@b.com", wantEmail: "a@b.com"},
		{name: "trimmed", email: "  a@b.com\t", wantEmail: "a@b.com"},
		{name: "missing", email: "", wantRule: "required"},
		{name: "blank", email: "   ", wantRule: "required"},
		{name: "not an address", email: "nobody", wantRule: "email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &RegisterRequest{Email: tt.email}
			err := v.ValidateRegistration(req)

			if tt.wantRule == "" {
				if err != nil {
					t.Fatalf("ValidateRegistration() error = %v", err)
				}
				if req.Email != tt.wantEmail {
					t.Errorf("Email = %q, want %q", req.Email, tt.wantEmail)
				}
				return
			}

			var verrs ValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("error = %v, want ValidationErrors", err)
			}
			if len(verrs) != 1 || verrs[0].Field != "email" || verrs[0].Rule != tt.wantRule {
				t.Errorf("errors = %+v, want email/%s", verrs, tt.wantRule)
			}
		})
	}
}

func TestValidatePromotion(t *testing.T) {
	v := New()

	tests := []struct {
		role    models.Role
		wantErr bool
	}{
		{role: models.RoleAdmin},
		{role: models.RoleInstructor},
		{role: models.RoleStudent, wantErr: true},
		{role: "superuser", wantErr: true},
		{role: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			err := v.ValidatePromotion(&PromotionRequest{ID: "abc", Role: tt.role})
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePromotion(%q) error = %v, wantErr %v", tt.role, err, tt.wantErr)
			}
		})
	}

	if err := v.ValidatePromotion(&PromotionRequest{Role: models.RoleAdmin}); err == nil {
		t.Error("ValidatePromotion() with empty id should fail")
	}
}

func TestValidate_ListQuery(t *testing.T) {
	v := New()
	if err := v.Validate(&ListQuery{Limit: 6}); err != nil {
		t.Errorf("Validate(limit=6) error = %v", err)
	}
	if err := v.Validate(&ListQuery{Limit: -1}); err == nil {
		t.Error("Validate(limit=-1) should fail")
	}
}

func TestValidationErrors_IsValidationFailed(t *testing.T) {
	err := New().ValidatePromotion(&PromotionRequest{ID: "abc", Role: models.RoleStudent})
	if !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("errors.Is(%v, ErrValidationFailed) = false", err)
	}
	if errors.Is(errors.New("other"), ErrValidationFailed) {
		t.Error("unrelated error matched ErrValidationFailed")
	}
}

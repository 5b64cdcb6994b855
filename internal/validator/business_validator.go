package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/powerplay-sports/booking-service/internal/models"
)

// ValidationError represents a single field failure
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule,omitempty"`
}

// ErrValidationFailed matches every ValidationErrors value under errors.Is.
var ErrValidationFailed = errors.New("validation failed")

type ValidationErrors []ValidationError

func (ve ValidationErrors) Unwrap() error { return ErrValidationFailed }

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	if len(ve) == 1 {
		return fmt.Sprintf("validation failed: %s %s", ve[0].Field, ve[0].Message)
	}
	return fmt.Sprintf("validation failed: %d field errors", len(ve))
}

// Validator wraps go-playground/validator with the service's custom rules
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	validate := validator.New(validator.WithRequiredStructEnabled())

	// report json names instead of Go field names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	v := &Validator{validate: validate}
	v.registerBusinessRules()
	return v
}

// Validate returns nil when s passes every rule.
func (v *Validator) Validate(s interface{}) error {
	if err := v.validate.Struct(s); err != nil {
		return toValidationErrors(err)
	}
	return nil
}

// ValidateRegistration normalizes the email before validating it.
func (v *Validator) ValidateRegistration(req *RegisterRequest) error {
	req.Email = strings.TrimSpace(req.Email)
	return v.Validate(req)
}

// ValidatePromotion only admits roles a user can be promoted to.
func (v *Validator) ValidatePromotion(req *PromotionRequest) error {
	return v.Validate(req)
}

func (v *Validator) registerBusinessRules() {
	v.validate.RegisterValidation("promotion_role", func(fl validator.FieldLevel) bool {
		role := models.Role(fl.Field().String())
		return role == models.RoleAdmin || role == models.RoleInstructor
	})
}

func toValidationErrors(err error) ValidationErrors {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return ValidationErrors{{Field: "request", Message: err.Error(), Rule: "invalid"}}
	}

	out := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, ValidationError{
			Field:   fe.Field(),
			Message: getErrorMessage(fe),
			Value:   fe.Value(),
			Rule:    fe.Tag(),
		})
	}
	return out
}

func getErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s", err.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", err.Param())
	case "promotion_role":
		return "must be admin or instructor"
	default:
		return fmt.Sprintf("validation failed for rule '%s'", err.Tag())
	}
}

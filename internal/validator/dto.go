package validator

import "github.com/powerplay-sports/booking-service/internal/models"

// RegisterRequest carries the fields registration checks; the rest of the
// body is stored as the user's profile.
type RegisterRequest struct {
	Email string `json:"email" validate:"required,email,max=254"`
}

type PromotionRequest struct {
	ID   string      `json:"id" validate:"required"`
	Role models.Role `json:"role" validate:"required,promotion_role"`
}

// ListQuery is the optional ?limit= on ranked listings.
type ListQuery struct {
	Limit int `form:"limit" json:"limit" validate:"min=0,max=1000"`
}

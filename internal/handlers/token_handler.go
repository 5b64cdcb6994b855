package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/powerplay-sports/booking-service/internal/auth"
	"github.com/powerplay-sports/booking-service/internal/utils"
)

type TokenHandler struct {
	BaseHandler
	tokens TokenService
}

func NewTokenHandler(tokens TokenService, logger utils.Logger) *TokenHandler {
	return &TokenHandler{
		BaseHandler: NewBaseHandler(logger),
		tokens:      tokens,
	}
}

// IssueToken signs whatever JSON object the client sends
// @Router /jwt [post]
func (h *TokenHandler) IssueToken(c *gin.Context) {
	var claims auth.Claims
	if err := c.ShouldBindJSON(&claims); err != nil {
		h.badRequest(c, err)
		return
	}
	if claims == nil {
		claims = auth.Claims{}
	}

	token, err := h.tokens.Issue(claims)
	if err != nil {
		h.LogError(c, err, "Failed to issue token")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

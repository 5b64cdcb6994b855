package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/powerplay-sports/booking-service/internal/auth"
	"github.com/powerplay-sports/booking-service/internal/models"
	"github.com/powerplay-sports/booking-service/internal/utils"
)

const claimsKey = "claims"

// TokenService issues and verifies bearer tokens.
type TokenService interface {
	Issue(claims auth.Claims) (string, error)
	Verify(token string) (auth.Claims, error)
}

// RoleResolver looks up the current role of an email.
type RoleResolver interface {
	ResolveRole(ctx context.Context, email string) (models.Role, error)
}

// AuthMiddleware holds the authentication and admin gates
type AuthMiddleware struct {
	tokens TokenService
	roles  RoleResolver
	logger utils.Logger
}

func NewAuthMiddleware(tokens TokenService, roles RoleResolver, logger utils.Logger) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, roles: roles, logger: logger}
}

func gateFailure(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error":   true,
		"message": message,
	})
}

// Authenticate requires a valid bearer token and stores its claims.
// No header is 401; a missing or invalid token is 403.
func (am *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			gateFailure(c, http.StatusUnauthorized, "unauthorized access")
			return
		}

		token := bearerToken(header)
		if token == "" {
			gateFailure(c, http.StatusForbidden, "forbidden access")
			return
		}

		claims, err := am.tokens.Verify(token)
		if err != nil {
			utils.GetLogger(c, am.logger).Debug("Token rejected", "error", err)
			gateFailure(c, http.StatusForbidden, "forbidden access")
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireAdmin must run after Authenticate.
func (am *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := GetClaimsFromContext(c)
		if !ok {
			gateFailure(c, http.StatusUnauthorized, "unauthorized access")
			return
		}

		role, err := am.roles.ResolveRole(c.Request.Context(), claims.Email())
		if err != nil {
			utils.GetLogger(c, am.logger).Error("Role resolution failed", "error", err)
			gateFailure(c, http.StatusInternalServerError, "internal server error")
			return
		}
		if role != models.RoleAdmin {
			gateFailure(c, http.StatusForbidden, "forbidden access")
			return
		}

		c.Next()
	}
}

// bearerToken returns the credential after the scheme, or "" when absent.
func bearerToken(header string) string {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}

func GetClaimsFromContext(c *gin.Context) (auth.Claims, bool) {
	v, exists := c.Get(claimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := v.(auth.Claims)
	return claims, ok
}

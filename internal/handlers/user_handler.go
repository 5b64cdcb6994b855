package handlers

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/powerplay-sports/booking-service/internal/models"
	"github.com/powerplay-sports/booking-service/internal/services"
	"github.com/powerplay-sports/booking-service/internal/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type UserHandler struct {
	BaseHandler
	userService services.UserService
}

func NewUserHandler(userService services.UserService, logger utils.Logger) *UserHandler {
	return &UserHandler{
		BaseHandler: NewBaseHandler(logger),
		userService: userService,
	}
}

// Register creates an account on first sign-in
// @Router /users [post]
func (h *UserHandler) Register(c *gin.Context) {
	var user models.User
	if err := c.ShouldBindJSON(&user); err != nil {
		h.badRequest(c, err)
		return
	}

	h.LogRequest(c, "Registering user")

	res, err := h.userService.Register(c.Request.Context(), &user)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	if res.AlreadyExists {
		c.JSON(http.StatusOK, gin.H{"message": "user already exists"})
		return
	}
	c.JSON(http.StatusOK, res.Insert)
}

// GetRole answers the role of ?email=, student when unknown
// @Router /userAuthorization [get]
func (h *UserHandler) GetRole(c *gin.Context) {
	role, err := h.userService.ResolveRole(c.Request.Context(), c.Query("email"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"role": role})
}

// @Router /allUsers [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	h.LogRequest(c, "Listing users")

	users, err := h.userService.ListUsers(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	if users == nil {
		users = []*models.User{}
	}
	c.JSON(http.StatusOK, users)
}

// MakeAdmin and MakeInstructor return the raw update result; an unknown
// id yields matchedCount 0 with status 200.
// @Router /allUsers/admin/{id} [patch]
func (h *UserHandler) MakeAdmin(c *gin.Context) {
	h.promote(c, models.RoleAdmin)
}

// @Router /allUsers/instructor/{id} [patch]
func (h *UserHandler) MakeInstructor(c *gin.Context) {
	h.promote(c, models.RoleInstructor)
}

func (h *UserHandler) promote(c *gin.Context, role models.Role) {
	id := c.Param("id")
	h.LogRequest(c, "Updating user role", "user_id", id, "role", role.String())

	res, err := h.userService.Promote(c.Request.Context(), id, role)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// CheckAdmin reports whether the token holder is the admin named in the path
// @Router /users/admin/{email} [get]
func (h *UserHandler) CheckAdmin(c *gin.Context) {
	email := c.Param("email")

	claims, ok := GetClaimsFromContext(c)
	if !ok || claims.Email() != email {
		c.JSON(http.StatusOK, gin.H{"admin": false})
		return
	}

	isAdmin, err := h.userService.IsAdmin(c.Request.Context(), email)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"admin": isAdmin})
}

// ExportUsers downloads the roster as a spreadsheet
// @Router /allUsers/export [get]
func (h *UserHandler) ExportUsers(c *gin.Context) {
	h.LogRequest(c, "Exporting users")

	var buf bytes.Buffer
	if err := h.userService.ExportUsers(c.Request.Context(), &buf); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="users.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

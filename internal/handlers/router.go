package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/powerplay-sports/booking-service/internal/services"
	"github.com/powerplay-sports/booking-service/internal/utils"
	"github.com/powerplay-sports/booking-service/internal/validator"
)

const serviceName = "booking-service"

type HandlerManager struct {
	services       services.ServiceManager
	userHandler    *UserHandler
	classHandler   *ClassHandler
	tokenHandler   *TokenHandler
	authMiddleware *AuthMiddleware
	logger         utils.Logger
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	tokens TokenService,
	validator *validator.Validator,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		services:       serviceManager,
		userHandler:    NewUserHandler(serviceManager.User(), logger),
		classHandler:   NewClassHandler(serviceManager.Catalog(), validator, logger),
		tokenHandler:   NewTokenHandler(tokens, logger),
		authMiddleware: NewAuthMiddleware(tokens, serviceManager.User(), logger),
		logger:         logger,
	}
}

// SetupRoutes registers every route at the paths the booking client calls
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	authenticated := hm.authMiddleware.Authenticate()
	adminOnly := hm.authMiddleware.RequireAdmin()

	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "powerPlay server is running")
	})

	// Token issuance
	router.POST("/jwt", hm.tokenHandler.IssueToken)

	// Users
	router.POST("/users", hm.userHandler.Register)
	router.GET("/userAuthorization", hm.userHandler.GetRole)
	router.GET("/users/admin/:email", authenticated, hm.userHandler.CheckAdmin)

	allUsers := router.Group("/allUsers")
	{
		allUsers.GET("", hm.userHandler.ListUsers)

		// Role management and export - Admins only
		allUsers.PATCH("/admin/:id", authenticated, adminOnly, hm.userHandler.MakeAdmin)
		allUsers.PATCH("/instructor/:id", authenticated, adminOnly, hm.userHandler.MakeInstructor)
		allUsers.GET("/export", authenticated, adminOnly, hm.userHandler.ExportUsers)
	}

	// Catalog
	router.POST("/addClass", hm.classHandler.AddClass)
	router.GET("/popularClasses", hm.classHandler.PopularClasses)
	router.GET("/instructors", hm.classHandler.Instructors)
	router.GET("/reviews", hm.classHandler.Reviews)

	router.GET("/health", hm.health)
}

func (hm *HandlerManager) health(c *gin.Context) {
	if err := hm.services.HealthCheck(c.Request.Context()); err != nil {
		utils.GetLogger(c, hm.logger).Error("Health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "unhealthy",
			"service": serviceName,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": serviceName,
	})
}

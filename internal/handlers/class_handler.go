package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/powerplay-sports/booking-service/internal/models"
	"github.com/powerplay-sports/booking-service/internal/services"
	"github.com/powerplay-sports/booking-service/internal/utils"
	"github.com/powerplay-sports/booking-service/internal/validator"
)

type ClassHandler struct {
	BaseHandler
	catalogService services.CatalogService
	validator      *validator.Validator
}

func NewClassHandler(catalogService services.CatalogService, validator *validator.Validator, logger utils.Logger) *ClassHandler {
	return &ClassHandler{
		BaseHandler:    NewBaseHandler(logger),
		catalogService: catalogService,
		validator:      validator,
	}
}

// AddClass stores a class proposal as pending
// @Router /addClass [post]
func (h *ClassHandler) AddClass(c *gin.Context) {
	var submission models.ClassSubmission
	if err := c.ShouldBindJSON(&submission); err != nil {
		h.badRequest(c, err)
		return
	}

	h.LogRequest(c, "Submitting class")

	res, err := h.catalogService.SubmitClass(c.Request.Context(), &submission)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Router /popularClasses [get]
func (h *ClassHandler) PopularClasses(c *gin.Context) {
	limit, ok := h.parseLimit(c)
	if !ok {
		return
	}
	classes, err := h.catalogService.PopularClasses(c.Request.Context(), limit)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	if classes == nil {
		classes = []*models.Class{}
	}
	c.JSON(http.StatusOK, classes)
}

// @Router /instructors [get]
func (h *ClassHandler) Instructors(c *gin.Context) {
	limit, ok := h.parseLimit(c)
	if !ok {
		return
	}
	instructors, err := h.catalogService.Instructors(c.Request.Context(), limit)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	if instructors == nil {
		instructors = []*models.Instructor{}
	}
	c.JSON(http.StatusOK, instructors)
}

// @Router /reviews [get]
func (h *ClassHandler) Reviews(c *gin.Context) {
	reviews, err := h.catalogService.Reviews(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	if reviews == nil {
		reviews = []*models.Review{}
	}
	c.JSON(http.StatusOK, reviews)
}

// parseLimit reads the optional ?limit=; it writes a 400 and returns false
// when the value is not acceptable.
func (h *ClassHandler) parseLimit(c *gin.Context) (int, bool) {
	var q validator.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.badRequest(c, err)
		return 0, false
	}
	if err := h.validator.Validate(&q); err != nil {
		h.handleServiceError(c, err)
		return 0, false
	}
	return q.Limit, true
}

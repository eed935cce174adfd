package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/omegaopinmthechat/highwaydelite/internal/model"
	"github.com/omegaopinmthechat/highwaydelite/internal/service"
	apperrors "github.com/omegaopinmthechat/highwaydelite/pkg/app_errors"
	"github.com/omegaopinmthechat/highwaydelite/pkg/logger"
	"go.uber.org/zap"
)

type ExperienceHandler struct {
	service service.ExperienceService
}

func NewExperienceHandler(service service.ExperienceService) *ExperienceHandler {
	return &ExperienceHandler{service: service}
}

// RegisterRoutes wires the catalog routes. adminGuard protects the write
// paths; pass gin middleware (e.g. the JWT guard) or nothing for open access.
func (h *ExperienceHandler) RegisterRoutes(r *gin.Engine, adminGuard ...gin.HandlerFunc) {
	router := r.Group("/api/v1")
	{
		router.GET("experiences", h.List)
		router.GET("experiences/search", h.Search)
		router.GET("experiences/:uuid", h.GetByExperienceID)
		router.GET("experiences/:uuid/availability", h.GetAvailability)
	}

	admin := r.Group("/api/v1", adminGuard...)
	{
		admin.POST("experiences", h.Create)
		admin.PUT("experiences/:uuid", h.UpdateByExperienceID)
		admin.POST("experiences/bulk", h.BulkReplace)
	}
}

// UpdateExperienceRequest mirrors UpdateExperienceParams for JSON binding.
type UpdateExperienceRequest struct {
	Title       *string                `json:"title"`
	Location    *string                `json:"location"`
	Description *string                `json:"description"`
	ImageURL    *string                `json:"image_url"`
	Details     *string                `json:"details"`
	Price       *float64               `json:"price"`
	BasePrice   *float64               `json:"base_price"`
	TaxRate     *float64               `json:"tax_rate"`
	Dates       *[]string              `json:"dates"`
	Times       *[]model.TimeSlotInput `json:"times"`
}

type searchQuery struct {
	Q string `form:"q" binding:"required"`
}

func (h *ExperienceHandler) List(c *gin.Context) {
	experiences, err := h.service.List(c)
	if err != nil {
		h.handleError(c, err, "List")
		return
	}
	c.JSON(http.StatusOK, experiences)
}

func (h *ExperienceHandler) Search(c *gin.Context) {
	var query searchQuery
	if err := BindQuery(c, &query); err != nil {
		return
	}
	experiences, err := h.service.Search(c, query.Q)
	if err != nil {
		h.handleError(c, err, "Search")
		return
	}
	c.JSON(http.StatusOK, experiences)
}

func (h *ExperienceHandler) GetByExperienceID(c *gin.Context) {
	experienceID, err := uuid.Parse(c.Param("uuid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid experience uuid"})
		return
	}
	exp, err := h.service.GetByExperienceID(c, experienceID)
	if err != nil {
		h.handleError(c, err, "GetByExperienceID")
		return
	}
	c.JSON(http.StatusOK, exp)
}

func (h *ExperienceHandler) GetAvailability(c *gin.Context) {
	experienceID, err := uuid.Parse(c.Param("uuid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid experience uuid"})
		return
	}
	availability, err := h.service.GetAvailability(c, experienceID)
	if err != nil {
		h.handleError(c, err, "GetAvailability")
		return
	}
	c.JSON(http.StatusOK, gin.H{"availability": availability})
}

func (h *ExperienceHandler) Create(c *gin.Context) {
	var req model.CreateExperienceRequest
	if err := BindJson(c, &req); err != nil {
		return
	}
	created, err := h.service.Create(c, &req)
	if err != nil {
		h.handleError(c, err, "Create")
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *ExperienceHandler) UpdateByExperienceID(c *gin.Context) {
	experienceID, err := uuid.Parse(c.Param("uuid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid experience uuid"})
		return
	}
	var req UpdateExperienceRequest
	if err := BindJson(c, &req); err != nil {
		return
	}
	params := model.UpdateExperienceParams{
		Title:       req.Title,
		Location:    req.Location,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Details:     req.Details,
		Price:       req.Price,
		BasePrice:   req.BasePrice,
		TaxRate:     req.TaxRate,
		Dates:       req.Dates,
		Times:       req.Times,
	}
	updated, err := h.service.UpdateByExperienceID(c, experienceID, params)
	if err != nil {
		h.handleError(c, err, "UpdateByExperienceID")
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *ExperienceHandler) BulkReplace(c *gin.Context) {
	// the upload must be a JSON array; anything else is a validation error
	var reqs []model.CreateExperienceRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Request body must be an array of experiences"})
		return
	}
	experiences, err := h.service.BulkReplace(c, reqs)
	if err != nil {
		h.handleError(c, err, "BulkReplace")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Experiences uploaded successfully",
		"count":   len(experiences),
		"data":    experiences,
	})
}

func (h *ExperienceHandler) handleError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case errors.Is(err, apperrors.ErrExperienceNotFound):
		log.Warn("Experience not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "Experience not found"})
	case errors.Is(err, apperrors.ErrInvalidInput):
		log.Warn("Invalid input")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
	default:
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/walkin-queue/internal/httpresp"
	"github.com/BruksfildServices01/walkin-queue/internal/models"
	"github.com/BruksfildServices01/walkin-queue/internal/suggest"
)

type ServiceHandler struct {
	db      *gorm.DB
	suggest *suggest.Client
}

func NewServiceHandler(db *gorm.DB, sg *suggest.Client) *ServiceHandler {
	return &ServiceHandler{db: db, suggest: sg}
}

// --------- Requests ---------

type CreateServiceRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	DurationMin int     `json:"duration_min" binding:"required,min=1"`
	Price       float64 `json:"price" binding:"required,min=0"`
}

type UpdateServiceRequest struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	DurationMin *int     `json:"duration_min,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Active      *bool    `json:"active,omitempty"`
}

type DescribeServiceRequest struct {
	Name        string `json:"name" binding:"required"`
	DurationMin int    `json:"duration_min"`
}

// --------- Handlers ---------

func (h *ServiceHandler) List(c *gin.Context) {
	activeStr := strings.TrimSpace(c.Query("active"))
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.Model(&models.Service{})

	if activeStr == "true" {
		q = q.Where("active = ?", true)
	} else if activeStr == "false" {
		q = q.Where("active = ?", false)
	}

	if query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var services []models.Service
	if err := q.
		Order("id ASC").
		Find(&services).Error; err != nil {

		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_list_services"})
		return
	}

	httpresp.List(c, services)
}

// ListPublic is the catalog shown to customers picking a service to
// queue for. Only active services are visible.
func (h *ServiceHandler) ListPublic(c *gin.Context) {
	var services []models.Service
	if err := h.db.
		Where("active = ?", true).
		Order("id ASC").
		Find(&services).Error; err != nil {

		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_list_services"})
		return
	}

	httpresp.List(c, services)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	service := models.Service{
		Name:        req.Name,
		Description: req.Description,
		DurationMin: req.DurationMin,
		Price:       req.Price,
		Active:      true,
	}

	if err := h.db.Create(&service).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_create_service"})
		return
	}

	c.JSON(http.StatusCreated, service)
}

func (h *ServiceHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var service models.Service
	if err := h.db.
		Where("id = ?", id).
		First(&service).Error; err != nil {

		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "service_not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_get_service"})
		return
	}

	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	if req.Name != nil {
		service.Name = *req.Name
	}
	if req.Description != nil {
		service.Description = *req.Description
	}
	if req.DurationMin != nil {
		service.DurationMin = *req.DurationMin
	}
	if req.Price != nil {
		service.Price = *req.Price
	}
	if req.Active != nil {
		service.Active = *req.Active
	}

	// Entries already in the queue keep the name and duration copied at
	// join time; edits here only affect future joins.
	if err := h.db.Save(&service).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_update_service"})
		return
	}

	c.JSON(http.StatusOK, service)
}

// Describe drafts a service description via the text-generation
// service; it always answers, falling back to fixed text on failure.
func (h *ServiceHandler) Describe(c *gin.Context) {
	var req DescribeServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	prompt := fmt.Sprintf(
		"Write a one-sentence, friendly description for a barbershop service named %q",
		req.Name,
	)
	if req.DurationMin > 0 {
		prompt += fmt.Sprintf(" that takes about %d minutes", req.DurationMin)
	}

	text := h.suggest.Suggest(c.Request.Context(), prompt)

	c.JSON(http.StatusOK, gin.H{"description": text})
}

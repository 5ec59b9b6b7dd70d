package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/walkin-queue/internal/middleware"
	"github.com/BruksfildServices01/walkin-queue/internal/models"
)

type MeHandler struct {
	db *gorm.DB
}

func NewMeHandler(db *gorm.DB) *MeHandler {
	return &MeHandler{db: db}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	userIDVal, exists := c.Get(middleware.ContextUserID)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user_not_in_context"})
		return
	}

	userID, ok := userIDVal.(uint)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_user_id_type"})
		return
	}

	var account models.Account
	if err := h.db.First(&account, userID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "account_not_found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"account": gin.H{
			"id":    account.ID,
			"name":  account.Name,
			"email": account.Email,
			"phone": account.Phone,
			"role":  account.Role,
		},
	})
}

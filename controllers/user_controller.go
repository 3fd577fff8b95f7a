package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/harborchat/chat_backend/chat"
	"github.com/harborchat/chat_backend/models"
	"gorm.io/gorm"
)

type UserController struct {
	db *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{db: db}
}

// GetProfile godoc
// @Summary Get a user profile
// @Description Returns the user's profile with derived badges and trust score
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} map[string]interface{} "User profile"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "User not found"
// @Router /api/users/{id} [get]
func (uc *UserController) GetProfile(c *gin.Context) {
	userID := c.Param("id")

	var user models.User
	if err := uc.db.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	badges := chat.BadgesFor(chat.Participant{
		ID:           user.ID,
		Name:         user.DisplayName,
		TrustScore:   user.TrustScore,
		MessageCount: user.MessageCount,
		ProfileAge:   user.CreatedAt,
	}, time.Now())

	c.JSON(http.StatusOK, gin.H{
		"user":   user,
		"badges": badges,
	})
}

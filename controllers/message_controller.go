package controllers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/harborchat/chat_backend/chat"
	"github.com/harborchat/chat_backend/models"
	"gorm.io/gorm"
)

type MessageController struct {
	db   *gorm.DB
	core *chat.Core
}

func NewMessageController(db *gorm.DB, core *chat.Core) *MessageController {
	return &MessageController{db: db, core: core}
}

type CreateMessageInput struct {
	Content string `json:"content" binding:"required" example:"Hello, everyone!"`
	RoomID  string `json:"room_id" binding:"required"`
	Type    string `json:"type" example:"text"`
}

// GetMessages godoc
// @Summary Get messages for a room
// @Description Returns messages for a specific chat room, oldest first
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param room_id query string true "Room ID"
// @Param limit query int false "Maximum number of messages"
// @Success 200 {object} map[string]interface{} "List of messages"
// @Failure 400 {object} map[string]string "Invalid room ID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 500 {object} map[string]string "Server error"
// @Router /api/messages [get]
func (mc *MessageController) GetMessages(c *gin.Context) {
	userID := c.MustGet("userID").(string)
	roomID := c.Query("room_id")
	if roomID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "room_id is required"})
		return
	}

	// Check if user is a member of the room
	var member models.RoomMember
	if err := mc.db.Where("room_id = ? AND user_id = ?", roomID, userID).First(&member).Error; err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have access to this room"})
		return
	}

	query := mc.db.Where("room_id = ?", roomID).
		Order("created_at ASC").
		Preload("User")
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 {
		query = query.Limit(limit)
	}

	var messages []models.Message
	if err := query.Find(&messages).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// CreateMessage godoc
// @Summary Create a new message
// @Description Sends a message through the real-time core: it is persisted, buffered, broadcast to the room and unread counts are recomputed
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param message body CreateMessageInput true "Message Creation"
// @Success 202 {object} map[string]string "Message accepted"
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Router /api/messages [post]
func (mc *MessageController) CreateMessage(c *gin.Context) {
	userID := c.MustGet("userID").(string)

	var input CreateMessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Check if user is a member of the room
	var member models.RoomMember
	if err := mc.db.Where("room_id = ? AND user_id = ?", input.RoomID, userID).First(&member).Error; err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have access to this room"})
		return
	}

	// One send path: the core persists, buffers, fans out and bumps
	// the author's stats exactly as a websocket send would. The send is
	// not tied to the request context: once accepted it must not be
	// cancelled by the client hanging up mid-write.
	mc.core.SendMessage(context.Background(), input.RoomID, userID, "", input.Content, input.Type)

	c.JSON(http.StatusAccepted, gin.H{"message": "Message sent"})
}

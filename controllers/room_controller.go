package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/harborchat/chat_backend/chat"
	"github.com/harborchat/chat_backend/models"
	"gorm.io/gorm"
)

type RoomController struct {
	db   *gorm.DB
	core *chat.Core
}

func NewRoomController(db *gorm.DB, core *chat.Core) *RoomController {
	return &RoomController{db: db, core: core}
}

type CreateRoomInput struct {
	Name            string `json:"name" binding:"required" example:"general"`
	MaxParticipants int    `json:"max_participants" example:"10"`
}

type UpdateRoomInput struct {
	Name            string `json:"name" example:"general"`
	MaxParticipants int    `json:"max_participants" example:"20"`
}

// GetRooms godoc
// @Summary Get recent rooms for the authenticated user
// @Description Returns the rooms the user is an active member of, with unread counts
// @Tags rooms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "List of rooms"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Server error"
// @Router /api/rooms [get]
func (rc *RoomController) GetRooms(c *gin.Context) {
	userID := c.MustGet("userID").(string)

	var members []models.RoomMember
	if err := rc.db.Where("user_id = ? AND is_active = ?", userID, true).Find(&members).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch room member data"})
		return
	}

	roomIDs := make([]string, 0, len(members))
	lastSeenMap := make(map[string]models.RoomMember)
	for _, m := range members {
		roomIDs = append(roomIDs, m.RoomID)
		lastSeenMap[m.RoomID] = m
	}

	var rooms []models.Room
	if err := rc.db.Where("id IN ?", roomIDs).Find(&rooms).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch rooms"})
		return
	}

	// Build the response with lastSeen and unreadCount
	response := []gin.H{}
	for _, room := range rooms {
		lastSeen := lastSeenMap[room.ID].LastSeen

		var unreadCount int64
		rc.db.Model(&models.Message{}).
			Where("room_id = ? AND created_at > ? AND user_id <> ?", room.ID, lastSeen, userID).
			Count(&unreadCount)

		response = append(response, gin.H{
			"room":        room,
			"lastSeen":    lastSeen,
			"unreadCount": unreadCount,
		})
	}

	c.JSON(http.StatusOK, gin.H{"rooms": response})
}

// CreateRoom godoc
// @Summary Create a new chat room
// @Description Creates a room. A name already carried by a room with spare capacity is rejected; overflow rooms reusing a full room's name are allowed.
// @Tags rooms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param room body CreateRoomInput true "Room Creation"
// @Success 201 {object} map[string]interface{} "Room created successfully"
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Room name already in use"
// @Failure 500 {object} map[string]string "Server error"
// @Router /api/rooms [post]
func (rc *RoomController) CreateRoom(c *gin.Context) {
	userID := c.MustGet("userID").(string)

	var input CreateRoomInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.MaxParticipants <= 0 {
		input.MaxParticipants = 10
	}

	if rc.core.NameHasVacancy(input.Name) {
		c.JSON(http.StatusConflict, gin.H{"error": "A room with this name already exists"})
		return
	}

	room := models.Room{
		ID:              uuid.NewString(),
		Name:            input.Name,
		MaxParticipants: input.MaxParticipants,
		CreatedBy:       userID,
	}

	if err := rc.db.Create(&room).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create room"})
		return
	}

	// Add creator to room
	member := models.RoomMember{
		RoomID:   room.ID,
		UserID:   userID,
		IsActive: true,
	}
	if err := rc.db.Create(&member).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add user to room"})
		return
	}

	// Make the room joinable without waiting for a client-driven refresh
	rc.core.RefreshRooms(c.Request.Context())

	c.JSON(http.StatusCreated, gin.H{
		"message": "Room created successfully",
		"room":    room,
	})
}

// GetRoom godoc
// @Summary Get details of a specific room
// @Description Returns details of a specific chat room
// @Tags rooms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Room ID"
// @Success 200 {object} map[string]interface{} "Room details"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Room not found"
// @Router /api/rooms/{id} [get]
func (rc *RoomController) GetRoom(c *gin.Context) {
	userID := c.MustGet("userID").(string)
	roomID := c.Param("id")

	var member models.RoomMember
	if err := rc.db.Where("room_id = ? AND user_id = ?", roomID, userID).First(&member).Error; err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have access to this room"})
		return
	}

	var room models.Room
	if err := rc.db.Preload("Users").First(&room, "id = ?", roomID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
		return
	}

	var unreadCount int64
	rc.db.Model(&models.Message{}).
		Where("room_id = ? AND created_at > ? AND user_id <> ?", roomID, member.LastSeen, userID).
		Count(&unreadCount)

	c.JSON(http.StatusOK, gin.H{
		"room":        room,
		"lastSeen":    member.LastSeen,
		"unreadCount": unreadCount,
	})
}

// UpdateRoom godoc
// @Summary Update a room's details
// @Description Updates a room's name and/or capacity
// @Tags rooms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Room ID"
// @Param room body UpdateRoomInput true "Room Update"
// @Success 200 {object} map[string]string "Room updated successfully"
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 500 {object} map[string]string "Server error"
// @Router /api/rooms/{id} [put]
func (rc *RoomController) UpdateRoom(c *gin.Context) {
	userID := c.MustGet("userID").(string)
	roomID := c.Param("id")

	var member models.RoomMember
	if err := rc.db.Where("room_id = ? AND user_id = ?", roomID, userID).First(&member).Error; err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have access to this room"})
		return
	}

	var input UpdateRoomInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if input.Name != "" {
		updates["name"] = input.Name
	}
	if input.MaxParticipants > 0 {
		updates["max_participants"] = input.MaxParticipants
	}
	if len(updates) > 0 {
		if err := rc.db.Model(&models.Room{}).Where("id = ?", roomID).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update room"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Room updated successfully"})
}

// DeleteRoom godoc
// @Summary Delete a room
// @Description Deletes a room and all its messages. Only allowed for the sole active member.
// @Tags rooms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Room ID"
// @Success 200 {object} map[string]string "Room deleted successfully"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Room not found"
// @Failure 500 {object} map[string]string "Server error"
// @Router /api/rooms/{id} [delete]
func (rc *RoomController) DeleteRoom(c *gin.Context) {
	userID := c.MustGet("userID").(string)
	roomID := c.Param("id")

	var room models.Room
	if err := rc.db.First(&room, "id = ?", roomID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
		return
	}

	// Deletion requires being the only active member left
	var activeIDs []string
	if err := rc.db.Model(&models.RoomMember{}).
		Where("room_id = ? AND is_active = ?", roomID, true).
		Pluck("user_id", &activeIDs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check room members"})
		return
	}
	if len(activeIDs) != 1 || activeIDs[0] != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the sole active member can delete the room"})
		return
	}

	if err := rc.db.Where("room_id = ?", roomID).Delete(&models.RoomMember{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete room members"})
		return
	}

	if err := rc.db.Where("room_id = ?", roomID).Delete(&models.Message{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete room messages"})
		return
	}

	if err := rc.db.Delete(&room).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete room"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Room deleted successfully"})
}

// GetUnreadCount godoc
// @Summary Get unread message count for a room
// @Description Returns the number of unread messages in a room, excluding the caller's own
// @Tags rooms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Room ID"
// @Success 200 {object} map[string]int64 "Unread message count"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 500 {object} map[string]string "Server error"
// @Router /api/rooms/{id}/unread [get]
func (rc *RoomController) GetUnreadCount(c *gin.Context) {
	userID := c.MustGet("userID").(string)
	roomID := c.Param("id")

	var member models.RoomMember
	if err := rc.db.Where("room_id = ? AND user_id = ?", roomID, userID).First(&member).Error; err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have access to this room"})
		return
	}

	var unreadCount int64
	if err := rc.db.Model(&models.Message{}).
		Where("room_id = ? AND created_at > ? AND user_id <> ?", roomID, member.LastSeen, userID).
		Count(&unreadCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count unread messages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread_count": unreadCount})
}

package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/bims-project/bims-backend/models"
	"github.com/bims-project/bims-backend/realtime"
	"github.com/bims-project/bims-backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"gorm.io/gorm"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// inbound frames from the chat client
type chatFrame struct {
	Event     string `json:"event"` // "join_room" | "send_message"
	ListingID uint   `json:"listing_id"`
	Text      string `json:"text"`
}

// ChatHandler is the websocket endpoint for per-listing chat rooms.
// Auth happens in WebSocketAuthMiddleware; frames after the upgrade
// either join a room or relay a message to it.
func ChatHandler(c *gin.Context) {
	userIDInterface, exists := c.Get("user_id")
	if !exists {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	userID := userIDInterface.(uint)

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	realtime.RegisterClient(ws, userID)
	defer realtime.UnregisterClient(ws)

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			break
		}

		var frame chatFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			continue
		}

		switch frame.Event {
		case "join_room":
			realtime.JoinRoom(ws, frame.ListingID)
		case "send_message":
			if frame.Text == "" || frame.ListingID == 0 {
				continue
			}
			relayChatMessage(userID, frame)
		}
	}
}

func relayChatMessage(senderID uint, frame chatFrame) {
	msg := models.ChatMessage{
		ListingID: frame.ListingID,
		SenderID:  senderID,
		Text:      frame.Text,
	}

	db := utils.GetDB()
	if err := db.Create(&msg).Error; err != nil {
		utils.ErrorLogger.Printf("failed to store chat message for listing %d: %v", frame.ListingID, err)
		return
	}
	db.Preload("Sender").First(&msg, msg.ID)

	realtime.BroadcastToRoom(frame.ListingID, realtime.Message{
		Event: realtime.EventChatMessage,
		Data:  msg,
	})
}

type ChatController struct {
	DB *gorm.DB
}

func NewChatController(db *gorm.DB) *ChatController {
	return &ChatController{DB: db}
}

// History returns the stored messages of a listing room, oldest first.
func (cc *ChatController) History(c *gin.Context) {
	var messages []models.ChatMessage
	if err := cc.DB.Preload("Sender").
		Where("listing_id = ?", c.Param("listing_id")).
		Order("created_at ASC").
		Find(&messages).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Chat history", messages)
}

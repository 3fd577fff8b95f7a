package websocket

import (
	"context"
	"encoding/json"
	"log"

	"github.com/harborchat/chat_backend/chat"
)

// frame is the inbound wire envelope; payload decoding is deferred
// until the event type is known.
type frame struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type joinRoomPayload struct {
	RoomID string `json:"roomId"`
	User   struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"user"`
}

type sendMessagePayload struct {
	RoomID  string `json:"roomId"`
	Message struct {
		UserID   string `json:"userId"`
		UserName string `json:"userName"`
		Content  string `json:"content"`
		Type     string `json:"type"`
	} `json:"message"`
}

type roomUserPayload struct {
	RoomID      string `json:"roomId"`
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	MessageID   string `json:"messageId"`
}

type registerUserPayload struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

// dispatch decodes an inbound frame and routes it to the matching core
// handler. Malformed frames are logged and dropped; the connection
// stays up.
func dispatch(c *Client, raw []byte) {
	var f frame
	if err := json.Unmarshal(raw, &f); err != nil {
		log.Printf("error unmarshaling frame: %v", err)
		return
	}

	ctx := context.Background()

	switch f.Type {
	case chat.EventJoinRoom:
		var p joinRoomPayload
		if err := json.Unmarshal(f.Payload, &p); err != nil {
			log.Printf("error unmarshaling join-room payload: %v", err)
			return
		}
		c.core.JoinRoom(ctx, c.sessionID, p.RoomID, p.User.ID, p.User.Name)

	case chat.EventSendMessage:
		var p sendMessagePayload
		if err := json.Unmarshal(f.Payload, &p); err != nil {
			log.Printf("error unmarshaling send-message payload: %v", err)
			return
		}
		c.core.SendMessage(ctx, p.RoomID, p.Message.UserID, p.Message.UserName, p.Message.Content, p.Message.Type)

	case chat.EventLeaveRoom:
		var p roomUserPayload
		if err := json.Unmarshal(f.Payload, &p); err != nil {
			log.Printf("error unmarshaling leave-room payload: %v", err)
			return
		}
		c.core.LeaveRoom(ctx, p.RoomID, p.UserID)

	case chat.EventTyping:
		var p roomUserPayload
		if err := json.Unmarshal(f.Payload, &p); err != nil {
			log.Printf("error unmarshaling typing payload: %v", err)
			return
		}
		c.core.Typing(p.RoomID, p.UserID, p.DisplayName)

	case chat.EventStopTyping:
		var p roomUserPayload
		if err := json.Unmarshal(f.Payload, &p); err != nil {
			log.Printf("error unmarshaling stop-typing payload: %v", err)
			return
		}
		c.core.StopTyping(p.RoomID, p.UserID)

	case chat.EventMessageRead:
		var p roomUserPayload
		if err := json.Unmarshal(f.Payload, &p); err != nil {
			log.Printf("error unmarshaling message-read payload: %v", err)
			return
		}
		c.core.MessageRead(p.RoomID, p.UserID, p.MessageID)

	case chat.EventReadRoom:
		var p roomUserPayload
		if err := json.Unmarshal(f.Payload, &p); err != nil {
			log.Printf("error unmarshaling read-room payload: %v", err)
			return
		}
		c.core.ReadRoom(ctx, p.RoomID, p.UserID)

	case chat.EventRemoveFromRecent:
		var p roomUserPayload
		if err := json.Unmarshal(f.Payload, &p); err != nil {
			log.Printf("error unmarshaling remove-room-from-recent payload: %v", err)
			return
		}
		c.core.RemoveFromRecent(ctx, c.sessionID, p.RoomID, p.UserID)

	case chat.EventRegisterUser:
		var p registerUserPayload
		if err := json.Unmarshal(f.Payload, &p); err != nil {
			log.Printf("error unmarshaling register-user payload: %v", err)
			return
		}
		c.core.RegisterUser(c.sessionID, p.UserID, p.DisplayName)

	case chat.EventRefreshRooms:
		c.core.RefreshRooms(ctx)

	default:
		log.Printf("unknown event type %q", f.Type)
	}
}

package chat

import "time"

// Event is the wire envelope shared by both directions of the
// websocket channel. Payload shapes are event-specific.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Outbound event names.
const (
	EventConnected          = "connected"
	EventError              = "error"
	EventJoinedRoom         = "joined-room"
	EventUserJoined         = "user-joined"
	EventUserLeft           = "user-left"
	EventRoomRedirect       = "room-redirect"
	EventNewMessage         = "new-message"
	EventRecentMessages     = "recent-messages"
	EventSidebarUnread      = "sidebar-unread"
	EventSidebarPresence    = "sidebar-presence"
	EventSidebarTyping      = "sidebar-typing"
	EventMessageRead        = "message-read"
	EventKickedForIdle      = "kicked-for-idle"
	EventRecentChatsUpdated = "recent-chats-updated"
)

// Inbound event names.
const (
	EventJoinRoom         = "join-room"
	EventSendMessage      = "send-message"
	EventLeaveRoom        = "leave-room"
	EventTyping           = "typing"
	EventStopTyping       = "stop-typing"
	EventReadRoom         = "read-room"
	EventRegisterUser     = "register-user"
	EventRemoveFromRecent = "remove-room-from-recent"
	EventRefreshRooms     = "refresh-rooms-cache"
)

// Message is the wire form of a chat message, also what the per-room
// ring buffer holds.
type Message struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	Content   string    `json:"content"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
}

// RoomSnapshot is what a joining session receives: room metadata plus
// the participant list at the moment of joining.
type RoomSnapshot struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	CreatedAt       time.Time     `json:"createdAt"`
	MaxParticipants int           `json:"maxParticipants"`
	Participants    []Participant `json:"participants"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

type ConnectedPayload struct {
	Message string `json:"message"`
}

type JoinedRoomPayload struct {
	Room RoomSnapshot `json:"room"`
	User Participant  `json:"user"`
}

type UserJoinedPayload struct {
	User             Participant `json:"user"`
	ParticipantCount int         `json:"participantCount"`
}

type UserLeftPayload struct {
	UserID           string `json:"userId"`
	ParticipantCount int    `json:"participantCount"`
	Reason           string `json:"reason,omitempty"`
}

type RoomRedirectPayload struct {
	NewRoomID string `json:"newRoomId"`
}

type RecentMessagesPayload struct {
	Messages []Message `json:"messages"`
}

type SidebarUnreadPayload struct {
	RoomID      string `json:"roomId"`
	UserID      string `json:"userId"`
	UnreadCount int64  `json:"unreadCount"`
}

type SidebarPresencePayload struct {
	RoomID           string   `json:"roomId"`
	OnlineUserIDs    []string `json:"onlineUserIds"`
	ParticipantCount int      `json:"participantCount"`
}

type SidebarTypingPayload struct {
	RoomID          string   `json:"roomId"`
	TypingUserNames []string `json:"typingUserNames"`
}

type MessageReadPayload struct {
	UserID    string `json:"userId"`
	MessageID string `json:"messageId"`
}

type RecentChatsUpdatedPayload struct {
	UserID string `json:"userId"`
}

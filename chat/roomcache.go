package chat

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/harborchat/chat_backend/store"
)

// Room is the in-memory mirror of a stored room plus its live state:
// the participants currently joined and a bounded buffer of recent
// messages. The buffer is a cache; the store stays authoritative.
type Room struct {
	ID              string
	Name            string
	CreatedAt       time.Time
	MaxParticipants int

	participants []*Participant
	messages     *messageRing
}

func (r *Room) ParticipantCount() int { return len(r.participants) }

// OnlineUserIDs lists the ids of currently joined participants.
func (r *Room) OnlineUserIDs() []string {
	ids := make([]string, 0, len(r.participants))
	for _, p := range r.participants {
		ids = append(ids, p.ID)
	}
	return ids
}

// Snapshot copies room metadata and the participant list for delivery
// to a joining session.
func (r *Room) Snapshot() RoomSnapshot {
	participants := make([]Participant, 0, len(r.participants))
	for _, p := range r.participants {
		participants = append(participants, *p)
	}
	return RoomSnapshot{
		ID:              r.ID,
		Name:            r.Name,
		CreatedAt:       r.CreatedAt,
		MaxParticipants: r.MaxParticipants,
		Participants:    participants,
	}
}

// JoinResult describes the outcome of a join attempt. Exactly one of
// Snapshot (success) or RedirectTo (same-name alternative) is set.
type JoinResult struct {
	Snapshot   RoomSnapshot
	RedirectTo string
}

// RoomCache mirrors room metadata from the store and owns the live
// participant lists. Like Presence it relies on the Core mutex for
// serialization.
type RoomCache struct {
	rooms   map[string]*Room
	ringCap int
	store   store.Store
}

func NewRoomCache(s store.Store, ringCap int) *RoomCache {
	return &RoomCache{
		rooms:   make(map[string]*Room),
		ringCap: ringCap,
		store:   s,
	}
}

// LoadAll populates the cache from the store. A load failure is
// logged, not fatal: the server starts with whatever was read.
func (c *RoomCache) LoadAll(ctx context.Context) {
	rooms, err := c.store.ListRooms(ctx)
	if err != nil {
		log.Printf("error loading rooms from store: %v", err)
		return
	}
	for _, r := range rooms {
		c.rooms[r.ID] = &Room{
			ID:              r.ID,
			Name:            r.Name,
			CreatedAt:       r.CreatedAt,
			MaxParticipants: r.MaxParticipants,
			messages:        newMessageRing(c.ringCap),
		}
	}
	log.Printf("loaded %d rooms from store", len(rooms))
}

// Refresh adds rooms present in the store but absent from the cache.
// Existing entries are never touched, so live participant lists and
// buffers survive out-of-band room creation.
func (c *RoomCache) Refresh(ctx context.Context) error {
	rooms, err := c.store.ListRooms(ctx)
	if err != nil {
		return fmt.Errorf("refresh rooms: %w", err)
	}
	for _, r := range rooms {
		if _, ok := c.rooms[r.ID]; ok {
			continue
		}
		c.rooms[r.ID] = &Room{
			ID:              r.ID,
			Name:            r.Name,
			CreatedAt:       r.CreatedAt,
			MaxParticipants: r.MaxParticipants,
			messages:        newMessageRing(c.ringCap),
		}
	}
	return nil
}

func (c *RoomCache) Get(roomID string) (*Room, bool) {
	room, ok := c.rooms[roomID]
	return room, ok
}

// Join adds the participant to the room, enforcing capacity and the
// at-most-one-room invariant. A full room triggers a search for another
// room with the same name and spare capacity; if one exists the result
// carries a redirect and nothing is mutated.
func (c *RoomCache) Join(roomID string, p *Participant) (JoinResult, error) {
	room, ok := c.rooms[roomID]
	if !ok {
		return JoinResult{}, ErrRoomNotFound
	}

	if len(room.participants) >= room.MaxParticipants {
		for _, alt := range c.rooms {
			if alt.ID != room.ID && alt.Name == room.Name && len(alt.participants) < alt.MaxParticipants {
				return JoinResult{RedirectTo: alt.ID}, nil
			}
		}
		return JoinResult{}, ErrRoomFull
	}

	c.removeEverywhere(p.ID)
	room.participants = append(room.participants, p)
	return JoinResult{Snapshot: room.Snapshot()}, nil
}

// Leave removes the user from the room's participant list. Returns the
// remaining participant count and whether the user was present; a
// second leave is a no-op.
func (c *RoomCache) Leave(roomID, userID string) (int, bool) {
	room, ok := c.rooms[roomID]
	if !ok {
		return 0, false
	}
	removed := room.remove(userID)
	return len(room.participants), removed
}

// RemoveEverywhere drops the user from every room's participant list
// and returns the ids of rooms that were affected. Used on disconnect
// and idle eviction.
func (c *RoomCache) RemoveEverywhere(userID string) []string {
	return c.removeEverywhere(userID)
}

func (c *RoomCache) removeEverywhere(userID string) []string {
	var affected []string
	for id, room := range c.rooms {
		if room.remove(userID) {
			affected = append(affected, id)
		}
	}
	if len(affected) > 1 {
		// The join protocol should make this unreachable.
		log.Printf("INVARIANT VIOLATION: user %s was present in %d rooms %v", userID, len(affected), affected)
	}
	return affected
}

func (r *Room) remove(userID string) bool {
	for i, p := range r.participants {
		if p.ID == userID {
			r.participants = append(r.participants[:i], r.participants[i+1:]...)
			return true
		}
	}
	return false
}

// AppendMessage adds the message to the room's ring buffer. Unknown
// rooms are a no-op; the message was persisted independently. Returns
// the evicted message id, if any, so read receipts can be pruned.
func (c *RoomCache) AppendMessage(roomID string, msg Message) (string, bool) {
	room, ok := c.rooms[roomID]
	if !ok {
		return "", false
	}
	evicted, full := room.messages.Append(msg)
	if full {
		return evicted.ID, true
	}
	return "", false
}

// RecentMessages returns up to limit messages oldest-to-newest,
// preferring persisted history and falling back to the in-memory
// buffer when the store read fails.
func (c *RoomCache) RecentMessages(ctx context.Context, roomID string, limit int) []Message {
	room, ok := c.rooms[roomID]
	if !ok {
		return nil
	}

	stored, err := c.store.RecentMessages(ctx, roomID, limit)
	if err != nil {
		log.Printf("error loading messages from store: %v", err)
		return room.messages.Last(limit)
	}

	messages := make([]Message, 0, len(stored))
	for _, m := range stored {
		messages = append(messages, Message{
			ID:        m.ID,
			UserID:    m.UserID,
			UserName:  m.User.DisplayName,
			Content:   m.Content,
			Type:      m.Type,
			Timestamp: m.CreatedAt,
		})
	}
	return messages
}

// NameHasVacancy reports whether a cached room with this name has
// spare capacity.
func (c *RoomCache) NameHasVacancy(name string) bool {
	for _, room := range c.rooms {
		if room.Name == name && len(room.participants) < room.MaxParticipants {
			return true
		}
	}
	return false
}

// RoomsContaining returns the ids of rooms whose participant list
// includes the user.
func (c *RoomCache) RoomsContaining(userID string) []string {
	var ids []string
	for id, room := range c.rooms {
		for _, p := range room.participants {
			if p.ID == userID {
				ids = append(ids, id)
				break
			}
		}
	}
	return ids
}

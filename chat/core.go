package chat

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/harborchat/chat_backend/models"
	"github.com/harborchat/chat_backend/store"
)

// Emitter delivers an event to a single transport session. The
// websocket hub implements it; tests substitute a recorder.
type Emitter interface {
	ToSession(sessionID string, ev Event)
}

// Options configures a Core.
type Options struct {
	Store        store.Store
	Emitter      Emitter
	Clock        Clock
	IdleTimeout  time.Duration
	RingCapacity int
	RecentLimit  int
}

// Core owns the real-time state: presence registry, room cache,
// typing/read tracker and connected-user profiles. A single mutex
// serializes every event handler and the idle sweep, so the components
// behind it never see concurrent mutation. Store calls happen inside
// the critical section; chat keeps working when they fail (the
// in-memory effect proceeds and the failure is logged).
type Core struct {
	mu sync.Mutex

	store       store.Store
	emitter     Emitter
	clock       Clock
	idleTimeout time.Duration
	recentLimit int

	presence *Presence
	rooms    *RoomCache
	tracker  *Tracker
	profiles map[string]*Participant
}

func NewCore(opts Options) *Core {
	if opts.Clock == nil {
		opts.Clock = SystemClock()
	}
	if opts.RingCapacity <= 0 {
		opts.RingCapacity = 1000
	}
	if opts.RecentLimit <= 0 {
		opts.RecentLimit = 50
	}
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = 30 * time.Minute
	}
	return &Core{
		store:       opts.Store,
		emitter:     opts.Emitter,
		clock:       opts.Clock,
		idleTimeout: opts.IdleTimeout,
		recentLimit: opts.RecentLimit,
		presence:    NewPresence(),
		rooms:       NewRoomCache(opts.Store, opts.RingCapacity),
		tracker:     NewTracker(),
		profiles:    make(map[string]*Participant),
	}
}

// LoadRooms populates the room cache at startup.
func (c *Core) LoadRooms(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rooms.LoadAll(ctx)
}

// Connected greets a freshly accepted session.
func (c *Core) Connected(sessionID string) {
	c.emitter.ToSession(sessionID, Event{
		Type:    EventConnected,
		Payload: ConnectedPayload{Message: "Connected to server successfully"},
	})
}

// RegisterUser binds an identity to a session without joining a room,
// so sidebar events can reach the user.
func (c *Core) RegisterUser(sessionID, userID, displayName string) {
	if userID == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.presence.Register(userID, sessionID, c.clock.Now())
	c.tracker.RememberName(userID, displayName)
}

// JoinRoom places the user in the room, binding identity to the
// session if it was anonymous.
func (c *Core) JoinRoom(ctx context.Context, sessionID, roomID, userID, displayName string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	p := c.profileFor(ctx, userID, displayName, now)

	result, err := c.rooms.Join(roomID, p)
	switch {
	case errors.Is(err, ErrRoomNotFound):
		c.emitter.ToSession(sessionID, Event{Type: EventError, Payload: ErrorPayload{Message: "Room not found"}})
		return
	case errors.Is(err, ErrRoomFull):
		c.emitter.ToSession(sessionID, Event{Type: EventError, Payload: ErrorPayload{Message: ErrRoomFull.Error()}})
		return
	case result.RedirectTo != "":
		c.emitter.ToSession(sessionID, Event{Type: EventRoomRedirect, Payload: RoomRedirectPayload{NewRoomID: result.RedirectTo}})
		return
	}

	p.JoinedAt = now
	c.presence.Register(userID, sessionID, now)
	c.tracker.RememberName(userID, p.Name)

	if err := c.store.UpsertMembership(ctx, userID, roomID); err != nil {
		log.Printf("error updating room member in store: %v", err)
	}

	room, _ := c.rooms.Get(roomID)
	c.emitter.ToSession(sessionID, Event{Type: EventJoinedRoom, Payload: JoinedRoomPayload{Room: result.Snapshot, User: *p}})
	c.toRoom(room, Event{Type: EventUserJoined, Payload: UserJoinedPayload{User: *p, ParticipantCount: room.ParticipantCount()}}, userID)
	c.sidebarPresence(room)

	recent := c.rooms.RecentMessages(ctx, roomID, c.recentLimit)
	c.emitter.ToSession(sessionID, Event{Type: EventRecentMessages, Payload: RecentMessagesPayload{Messages: recent}})
}

// SendMessage persists, buffers and fans out a message, then
// recomputes unread counts for the other active members.
func (c *Core) SendMessage(ctx context.Context, roomID, userID, userName, content, msgType string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	room, ok := c.rooms.Get(roomID)
	if !ok {
		return
	}

	now := c.clock.Now()
	c.presence.Touch(userID, now)

	p := c.profileFor(ctx, userID, userName, now)
	p.MessageCount++
	c.adjustTrustLocked(p, 0.1, now)

	if err := c.store.SaveUserStats(ctx, userID, p.MessageCount, p.TrustScore); err != nil {
		log.Printf("error saving user stats: %v", err)
	}

	if msgType == "" {
		msgType = models.MessageTypeText
	}
	msg := Message{
		ID:        uuid.NewString(),
		UserID:    userID,
		UserName:  p.Name,
		Content:   content,
		Type:      msgType,
		Timestamp: now,
	}

	if err := c.store.CreateMessage(ctx, &models.Message{
		ID:        msg.ID,
		Content:   msg.Content,
		Type:      msg.Type,
		RoomID:    roomID,
		UserID:    userID,
		CreatedAt: now,
	}); err != nil {
		log.Printf("error saving message to store: %v", err)
	}

	if evictedID, evicted := c.rooms.AppendMessage(roomID, msg); evicted {
		c.tracker.ForgetMessage(evictedID)
	}

	c.toRoom(room, Event{Type: EventNewMessage, Payload: msg})
	c.fanOutUnread(ctx, roomID, userID)
}

// fanOutUnread recomputes unread counts for every active member except
// the author. Store failures degrade to skipping the member.
func (c *Core) fanOutUnread(ctx context.Context, roomID, authorID string) {
	memberIDs, err := c.store.ActiveMemberIDs(ctx, roomID)
	if err != nil {
		log.Printf("error listing active members for room %s: %v", roomID, err)
		return
	}
	for _, uid := range memberIDs {
		if uid == authorID {
			continue
		}
		var lastSeen time.Time
		if member, err := c.store.Membership(ctx, uid, roomID); err == nil {
			lastSeen = member.LastSeen
		}
		count, err := c.store.UnreadCount(ctx, roomID, uid, lastSeen)
		if err != nil {
			log.Printf("error counting unread for user %s in room %s: %v", uid, roomID, err)
			continue
		}
		c.toUser(uid, Event{Type: EventSidebarUnread, Payload: SidebarUnreadPayload{RoomID: roomID, UserID: uid, UnreadCount: count}})
	}
}

// LeaveRoom removes the user from the room. Safe to call for a user
// who already left.
func (c *Core) LeaveRoom(ctx context.Context, roomID, userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	count, removed := c.rooms.Leave(roomID, userID)
	if removed {
		room, _ := c.rooms.Get(roomID)
		c.toRoom(room, Event{Type: EventUserLeft, Payload: UserLeftPayload{UserID: userID, ParticipantCount: count}}, userID)
		c.sidebarPresence(room)
	}

	if err := c.store.DeactivateMembership(ctx, userID, roomID); err != nil {
		log.Printf("error deactivating membership: %v", err)
	}

	c.presence.Unregister(userID)
}

// Typing marks the user as typing and pushes the room's typing-name
// set back to the user's own sessions for the sidebar indicator.
func (c *Core) Typing(roomID, userID, displayName string) {
	if roomID == "" || userID == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.presence.Touch(userID, c.clock.Now())
	c.tracker.RememberName(userID, displayName)
	c.tracker.SetTyping(roomID, userID)
	c.toUser(userID, Event{Type: EventSidebarTyping, Payload: SidebarTypingPayload{RoomID: roomID, TypingUserNames: c.tracker.TypingNames(roomID)}})
}

// StopTyping clears the user's typing entry.
func (c *Core) StopTyping(roomID, userID string) {
	if roomID == "" || userID == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.tracker.ClearTyping(roomID, userID)
	c.toUser(userID, Event{Type: EventSidebarTyping, Payload: SidebarTypingPayload{RoomID: roomID, TypingUserNames: c.tracker.TypingNames(roomID)}})
}

// MessageRead records a read receipt and relays it to the room,
// excluding the reader.
func (c *Core) MessageRead(roomID, userID, messageID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.tracker.MarkRead(messageID, userID)
	if room, ok := c.rooms.Get(roomID); ok {
		c.toRoom(room, Event{Type: EventMessageRead, Payload: MessageReadPayload{UserID: userID, MessageID: messageID}}, userID)
	}
}

// ReadRoom advances the member's lastSeen and resets their unread
// badge for the room.
func (c *Core) ReadRoom(ctx context.Context, roomID, userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.TouchLastSeen(ctx, userID, roomID, c.clock.Now()); err != nil {
		log.Printf("error updating last seen: %v", err)
	}
	c.toUser(userID, Event{Type: EventSidebarUnread, Payload: SidebarUnreadPayload{RoomID: roomID, UserID: userID, UnreadCount: 0}})
}

// RemoveFromRecent deactivates the membership so the room drops off
// the user's recent-chats list.
func (c *Core) RemoveFromRecent(ctx context.Context, sessionID, roomID, userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.DeactivateMembership(ctx, userID, roomID); err != nil {
		log.Printf("error removing room from recent: %v", err)
		c.emitter.ToSession(sessionID, Event{Type: EventError, Payload: ErrorPayload{Message: "Failed to remove room from recent."}})
		return
	}
	c.toUser(userID, Event{Type: EventRecentChatsUpdated, Payload: RecentChatsUpdatedPayload{UserID: userID}})
}

// RefreshRooms picks up rooms created out-of-band through the REST
// surface or another writer.
func (c *Core) RefreshRooms(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.rooms.Refresh(ctx); err != nil {
		log.Printf("error refreshing rooms cache: %v", err)
	}
}

// Disconnect cleans up after a closed session: the user leaves every
// room, their typing entries are dropped and presence is released.
func (c *Core) Disconnect(sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	userID, ok := c.presence.UserFor(sessionID)
	if !ok {
		return
	}

	for _, roomID := range c.rooms.RoomsContaining(userID) {
		count, _ := c.rooms.Leave(roomID, userID)
		room, _ := c.rooms.Get(roomID)
		c.toRoom(room, Event{Type: EventUserLeft, Payload: UserLeftPayload{UserID: userID, ParticipantCount: count}}, userID)
	}

	c.tracker.ClearUser(userID)
	c.presence.Unregister(userID)
}

// SweepIdle evicts every user whose last activity is older than the
// idle timeout. Runs under the same mutex as the event handlers, so a
// sweep never overlaps an in-flight join or leave.
func (c *Core) SweepIdle() {
	c.mu.Lock()
	defer c.mu.Unlock()

	ctx := context.Background()
	now := c.clock.Now()
	for _, userID := range c.presence.IdleUsers(now, c.idleTimeout) {
		sessionID, hasSession := c.presence.SessionFor(userID)

		for _, roomID := range c.rooms.RoomsContaining(userID) {
			count, _ := c.rooms.Leave(roomID, userID)
			room, _ := c.rooms.Get(roomID)
			c.toRoom(room, Event{Type: EventUserLeft, Payload: UserLeftPayload{UserID: userID, ParticipantCount: count, Reason: "idle"}}, userID)
			c.sidebarPresence(room)

			if err := c.store.DeactivateMembership(ctx, userID, roomID); err != nil {
				log.Printf("error deactivating membership on idle kick: %v", err)
			}
		}

		if hasSession {
			c.emitter.ToSession(sessionID, Event{Type: EventKickedForIdle})
		}

		c.tracker.ClearUser(userID)
		c.presence.Unregister(userID)
	}
}

// NameHasVacancy reports whether any cached room with the given name
// still has space. Room creation uses it to reject duplicate names
// while still allowing overflow rooms once every namesake is full.
func (c *Core) NameHasVacancy(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rooms.NameHasVacancy(name)
}

// AdjustTrust applies an externally decided trust delta (moderation,
// reports). The core itself only ever nudges trust on message send.
func (c *Core) AdjustTrust(userID string, delta float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.profiles[userID]
	if !ok {
		return
	}
	c.adjustTrustLocked(p, delta, c.clock.Now())
}

func (c *Core) adjustTrustLocked(p *Participant, delta float64, now time.Time) {
	p.TrustScore = ClampTrust(p.TrustScore + delta)
	p.Badges = BadgesFor(*p, now)
}

// profileFor returns the cached profile for the user, hydrating it
// from the store on first sight and falling back to a neutral profile
// when the store cannot serve it.
func (c *Core) profileFor(ctx context.Context, userID, displayName string, now time.Time) *Participant {
	if p, ok := c.profiles[userID]; ok {
		if displayName != "" {
			p.Name = displayName
		}
		p.Badges = BadgesFor(*p, now)
		return p
	}

	p := &Participant{
		ID:         userID,
		Name:       displayName,
		TrustScore: NeutralTrustScore,
		ProfileAge: now,
		JoinedAt:   now,
	}
	if u, err := c.store.User(ctx, userID); err == nil {
		if displayName == "" {
			p.Name = u.DisplayName
		}
		p.TrustScore = u.TrustScore
		p.MessageCount = u.MessageCount
		p.ProfileAge = u.CreatedAt
	}
	p.Badges = BadgesFor(*p, now)
	c.profiles[userID] = p
	return p
}

// toRoom emits to every participant's session, skipping excluded ids.
func (c *Core) toRoom(room *Room, ev Event, exclude ...string) {
	if room == nil {
		return
	}
	for _, p := range room.participants {
		skip := false
		for _, ex := range exclude {
			if p.ID == ex {
				skip = true
				break
			}
		}
		if skip {
			continue
		}
		c.toUser(p.ID, ev)
	}
}

func (c *Core) toUser(userID string, ev Event) {
	if sessionID, ok := c.presence.SessionFor(userID); ok {
		c.emitter.ToSession(sessionID, ev)
	}
}

// sidebarPresence pushes the room's online roster to everyone in it.
func (c *Core) sidebarPresence(room *Room) {
	if room == nil {
		return
	}
	payload := SidebarPresencePayload{
		RoomID:           room.ID,
		OnlineUserIDs:    room.OnlineUserIDs(),
		ParticipantCount: room.ParticipantCount(),
	}
	for _, p := range room.participants {
		c.toUser(p.ID, Event{Type: EventSidebarPresence, Payload: payload})
	}
}

package chat

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/harborchat/chat_backend/models"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
}

type emitted struct {
	session string
	ev      Event
}

type fakeEmitter struct{ events []emitted }

func (e *fakeEmitter) ToSession(sessionID string, ev Event) {
	e.events = append(e.events, emitted{session: sessionID, ev: ev})
}

func (e *fakeEmitter) ofType(t string) []emitted {
	var out []emitted
	for _, ev := range e.events {
		if ev.ev.Type == t {
			out = append(out, ev)
		}
	}
	return out
}

func (e *fakeEmitter) reset() { e.events = nil }

var errStoreDown = errors.New("store down")

type fakeStore struct {
	rooms       []models.Room
	users       map[string]models.User
	memberships map[string]models.RoomMember
	messages    []models.Message

	// failing makes every call error, simulating a storage outage.
	failing bool
}

func newFakeStore(rooms ...models.Room) *fakeStore {
	return &fakeStore{
		rooms:       rooms,
		users:       make(map[string]models.User),
		memberships: make(map[string]models.RoomMember),
	}
}

func memberKey(userID, roomID string) string { return userID + "|" + roomID }

func (s *fakeStore) ListRooms(ctx context.Context) ([]models.Room, error) {
	if s.failing {
		return nil, errStoreDown
	}
	return s.rooms, nil
}

func (s *fakeStore) UpsertMembership(ctx context.Context, userID, roomID string) error {
	if s.failing {
		return errStoreDown
	}
	k := memberKey(userID, roomID)
	m, ok := s.memberships[k]
	if !ok {
		m = models.RoomMember{UserID: userID, RoomID: roomID}
	}
	m.IsActive = true
	s.memberships[k] = m
	return nil
}

func (s *fakeStore) DeactivateMembership(ctx context.Context, userID, roomID string) error {
	if s.failing {
		return errStoreDown
	}
	k := memberKey(userID, roomID)
	if m, ok := s.memberships[k]; ok {
		m.IsActive = false
		s.memberships[k] = m
	}
	return nil
}

func (s *fakeStore) TouchLastSeen(ctx context.Context, userID, roomID string, at time.Time) error {
	if s.failing {
		return errStoreDown
	}
	k := memberKey(userID, roomID)
	if m, ok := s.memberships[k]; ok {
		m.LastSeen = at
		s.memberships[k] = m
	}
	return nil
}

func (s *fakeStore) Membership(ctx context.Context, userID, roomID string) (models.RoomMember, error) {
	if s.failing {
		return models.RoomMember{}, errStoreDown
	}
	m, ok := s.memberships[memberKey(userID, roomID)]
	if !ok {
		return models.RoomMember{}, errors.New("membership not found")
	}
	return m, nil
}

func (s *fakeStore) ActiveMemberIDs(ctx context.Context, roomID string) ([]string, error) {
	if s.failing {
		return nil, errStoreDown
	}
	var ids []string
	for _, m := range s.memberships {
		if m.RoomID == roomID && m.IsActive {
			ids = append(ids, m.UserID)
		}
	}
	return ids, nil
}

func (s *fakeStore) CreateMessage(ctx context.Context, msg *models.Message) error {
	if s.failing {
		return errStoreDown
	}
	s.messages = append(s.messages, *msg)
	return nil
}

func (s *fakeStore) RecentMessages(ctx context.Context, roomID string, limit int) ([]models.Message, error) {
	if s.failing {
		return nil, errStoreDown
	}
	var out []models.Message
	for _, m := range s.messages {
		if m.RoomID == roomID {
			out = append(out, m)
		}
	}
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (s *fakeStore) UnreadCount(ctx context.Context, roomID, userID string, after time.Time) (int64, error) {
	if s.failing {
		return 0, errStoreDown
	}
	var count int64
	for _, m := range s.messages {
		if m.RoomID == roomID && m.UserID != userID && m.CreatedAt.After(after) {
			count++
		}
	}
	return count, nil
}

func (s *fakeStore) User(ctx context.Context, userID string) (models.User, error) {
	if s.failing {
		return models.User{}, errStoreDown
	}
	u, ok := s.users[userID]
	if !ok {
		return models.User{}, errors.New("user not found")
	}
	return u, nil
}

func (s *fakeStore) SaveUserStats(ctx context.Context, userID string, messageCount int, trustScore float64) error {
	if s.failing {
		return errStoreDown
	}
	u := s.users[userID]
	u.MessageCount = messageCount
	u.TrustScore = trustScore
	s.users[userID] = u
	return nil
}

func testRoom(id, name string, capacity int) models.Room {
	return models.Room{ID: id, Name: name, MaxParticipants: capacity}
}

func newTestCore(s *fakeStore) (*Core, *fakeEmitter, *fakeClock) {
	emitter := &fakeEmitter{}
	clock := newFakeClock()
	core := NewCore(Options{
		Store:       s,
		Emitter:     emitter,
		Clock:       clock,
		IdleTimeout: 30 * time.Minute,
		RecentLimit: 50,
	})
	core.LoadRooms(context.Background())
	return core, emitter, clock
}

func TestJoinRoomDeliversSnapshotAndNotifies(t *testing.T) {
	s := newFakeStore(testRoom("r1", "general", 10))
	core, emitter, _ := newTestCore(s)
	ctx := context.Background()

	core.JoinRoom(ctx, "s-alice", "r1", "alice", "Alice")

	joined := emitter.ofType(EventJoinedRoom)
	if len(joined) != 1 || joined[0].session != "s-alice" {
		t.Fatalf("expected joined-room to s-alice, got %v", joined)
	}
	payload := joined[0].ev.Payload.(JoinedRoomPayload)
	if payload.Room.ID != "r1" || len(payload.Room.Participants) != 1 {
		t.Fatalf("unexpected snapshot: %+v", payload.Room)
	}
	if len(emitter.ofType(EventRecentMessages)) != 1 {
		t.Fatal("joining session did not receive recent messages")
	}
	if m, ok := s.memberships[memberKey("alice", "r1")]; !ok || !m.IsActive {
		t.Fatal("membership was not upserted")
	}

	emitter.reset()
	core.JoinRoom(ctx, "s-bob", "r1", "bob", "Bob")

	userJoined := emitter.ofType(EventUserJoined)
	if len(userJoined) != 1 || userJoined[0].session != "s-alice" {
		t.Fatalf("expected user-joined only to existing member, got %v", userJoined)
	}
	if userJoined[0].ev.Payload.(UserJoinedPayload).ParticipantCount != 2 {
		t.Fatal("participant count not updated in user-joined")
	}
	if len(emitter.ofType(EventSidebarPresence)) != 2 {
		t.Fatal("sidebar presence should reach both participants")
	}
}

func TestJoinRoomNotFound(t *testing.T) {
	core, emitter, _ := newTestCore(newFakeStore())

	core.JoinRoom(context.Background(), "s1", "missing", "alice", "Alice")

	errs := emitter.ofType(EventError)
	if len(errs) != 1 || errs[0].ev.Payload.(ErrorPayload).Message != "Room not found" {
		t.Fatalf("expected room-not-found rejection, got %v", errs)
	}
}

func TestJoinFullRoomWithoutAlternativeRejects(t *testing.T) {
	s := newFakeStore(testRoom("r1", "general", 1))
	core, emitter, _ := newTestCore(s)
	ctx := context.Background()

	core.JoinRoom(ctx, "s-a", "r1", "a", "A")
	emitter.reset()
	core.JoinRoom(ctx, "s-b", "r1", "b", "B")

	if len(emitter.ofType(EventError)) != 1 {
		t.Fatal("expected capacity rejection")
	}
	room, _ := core.rooms.Get("r1")
	if room.ParticipantCount() != 1 {
		t.Fatalf("rejected join mutated participants: %d", room.ParticipantCount())
	}
	if _, ok := s.memberships[memberKey("b", "r1")]; ok {
		t.Fatal("rejected join should not upsert membership")
	}
}

func TestJoinFullRoomRedirectsToSameNameAlternative(t *testing.T) {
	s := newFakeStore(testRoom("r1", "general", 1), testRoom("r2", "general", 1))
	core, emitter, _ := newTestCore(s)
	ctx := context.Background()

	core.JoinRoom(ctx, "s-a", "r1", "a", "A")
	emitter.reset()
	core.JoinRoom(ctx, "s-b", "r1", "b", "B")

	redirects := emitter.ofType(EventRoomRedirect)
	if len(redirects) != 1 {
		t.Fatalf("expected a redirect, got %v", emitter.events)
	}
	if redirects[0].ev.Payload.(RoomRedirectPayload).NewRoomID != "r2" {
		t.Fatal("redirect should reference the same-name alternative")
	}

	// The redirect itself mutates neither room.
	r1, _ := core.rooms.Get("r1")
	r2, _ := core.rooms.Get("r2")
	if r1.ParticipantCount() != 1 || r2.ParticipantCount() != 0 {
		t.Fatalf("redirect mutated membership: r1=%d r2=%d", r1.ParticipantCount(), r2.ParticipantCount())
	}

	// Re-issuing against the alternative succeeds.
	core.JoinRoom(ctx, "s-b", "r2", "b", "B")
	if r2.ParticipantCount() != 1 {
		t.Fatal("join against alternative failed")
	}
}

func TestCapacityScenario(t *testing.T) {
	// Room "general" capacity 2; A and B fill it; C is rejected until
	// an overflow room carrying the same name exists.
	s := newFakeStore(testRoom("general-1", "general", 2))
	core, emitter, _ := newTestCore(s)
	ctx := context.Background()

	core.JoinRoom(ctx, "s-a", "general-1", "a", "A")
	core.JoinRoom(ctx, "s-b", "general-1", "b", "B")
	room, _ := core.rooms.Get("general-1")
	if room.ParticipantCount() != 2 {
		t.Fatalf("expected 2 participants, got %d", room.ParticipantCount())
	}

	emitter.reset()
	core.JoinRoom(ctx, "s-c", "general-1", "c", "C")
	if len(emitter.ofType(EventError)) != 1 {
		t.Fatal("expected capacity error with no alternative")
	}

	s.rooms = append(s.rooms, testRoom("general-2", "general", 2))
	core.RefreshRooms(ctx)

	emitter.reset()
	core.JoinRoom(ctx, "s-c", "general-1", "c", "C")
	redirects := emitter.ofType(EventRoomRedirect)
	if len(redirects) != 1 || redirects[0].ev.Payload.(RoomRedirectPayload).NewRoomID != "general-2" {
		t.Fatalf("expected redirect to general-2, got %v", emitter.events)
	}
}

func TestRoomSwitchKeepsUserInSingleRoom(t *testing.T) {
	s := newFakeStore(testRoom("r1", "alpha", 5), testRoom("r2", "beta", 5))
	core, _, _ := newTestCore(s)
	ctx := context.Background()

	core.JoinRoom(ctx, "s-a", "r1", "a", "A")
	core.JoinRoom(ctx, "s-a", "r2", "a", "A")

	if rooms := core.rooms.RoomsContaining("a"); len(rooms) != 1 || rooms[0] != "r2" {
		t.Fatalf("expected user only in r2, got %v", rooms)
	}
}

func TestSendMessageBuffersPersistsAndBumpsStats(t *testing.T) {
	s := newFakeStore(testRoom("r1", "general", 5))
	s.users["a"] = models.User{ID: "a", DisplayName: "Alice", TrustScore: 50}
	core, emitter, clock := newTestCore(s)
	ctx := context.Background()

	core.JoinRoom(ctx, "s-a", "r1", "a", "Alice")
	emitter.reset()
	clock.Advance(time.Minute)

	core.SendMessage(ctx, "r1", "a", "Alice", "hello", "text")

	room, _ := core.rooms.Get("r1")
	buffered := room.messages.Last(10)
	if len(buffered) != 1 || buffered[0].Content != "hello" {
		t.Fatalf("expected exactly one buffered message, got %v", buffered)
	}
	if len(s.messages) != 1 {
		t.Fatalf("expected message persisted, got %d", len(s.messages))
	}
	if len(emitter.ofType(EventNewMessage)) != 1 {
		t.Fatal("expected new-message fan-out")
	}

	p := core.profiles["a"]
	if p.MessageCount != 1 {
		t.Fatalf("message count = %d, want 1", p.MessageCount)
	}
	if math.Abs(p.TrustScore-50.1) > 1e-9 {
		t.Fatalf("trust score = %v, want 50.1", p.TrustScore)
	}
	if s.users["a"].MessageCount != 1 {
		t.Fatal("stats not persisted")
	}
}

func TestMessageTimestampsNonDecreasing(t *testing.T) {
	s := newFakeStore(testRoom("r1", "general", 5))
	core, _, clock := newTestCore(s)
	ctx := context.Background()

	core.JoinRoom(ctx, "s-a", "r1", "a", "A")
	core.SendMessage(ctx, "r1", "a", "A", "one", "text")
	clock.Advance(time.Second)
	core.SendMessage(ctx, "r1", "a", "A", "two", "text")
	core.SendMessage(ctx, "r1", "a", "A", "three", "text")

	room, _ := core.rooms.Get("r1")
	msgs := room.messages.Last(10)
	for i := 1; i < len(msgs); i++ {
		if msgs[i].Timestamp.Before(msgs[i-1].Timestamp) {
			t.Fatalf("timestamps regressed at %d: %v < %v", i, msgs[i].Timestamp, msgs[i-1].Timestamp)
		}
	}
}

func TestThreeMessagesRaiseTrustByPointThree(t *testing.T) {
	s := newFakeStore(testRoom("r1", "general", 5))
	s.users["a"] = models.User{ID: "a", DisplayName: "Alice", TrustScore: 50}
	core, _, _ := newTestCore(s)
	ctx := context.Background()

	core.JoinRoom(ctx, "s-a", "r1", "a", "Alice")
	for i := 0; i < 3; i++ {
		core.SendMessage(ctx, "r1", "a", "Alice", "msg", "text")
	}

	got := core.profiles["a"].TrustScore
	if math.Abs(got-50.3) > 1e-9 {
		t.Fatalf("trust score = %v, want 50.3", got)
	}
	if got > 100 {
		t.Fatal("trust score exceeded bound")
	}
}

func TestTrustScoreClampedAtHundred(t *testing.T) {
	s := newFakeStore(testRoom("r1", "general", 5))
	s.users["a"] = models.User{ID: "a", DisplayName: "Alice", TrustScore: 99.95}
	core, _, _ := newTestCore(s)
	ctx := context.Background()

	core.JoinRoom(ctx, "s-a", "r1", "a", "Alice")
	for i := 0; i < 5; i++ {
		core.SendMessage(ctx, "r1", "a", "Alice", "msg", "text")
	}

	if got := core.profiles["a"].TrustScore; got != 100 {
		t.Fatalf("trust score = %v, want clamp at 100", got)
	}
}

func TestSendMessageSurvivesStorageOutage(t *testing.T) {
	s := newFakeStore(testRoom("r1", "general", 5))
	core, emitter, _ := newTestCore(s)
	ctx := context.Background()

	core.JoinRoom(ctx, "s-a", "r1", "a", "A")
	emitter.reset()

	s.failing = true
	core.SendMessage(ctx, "r1", "a", "A", "still delivered", "text")

	room, _ := core.rooms.Get("r1")
	if got := room.messages.Last(1); len(got) != 1 || got[0].Content != "still delivered" {
		t.Fatal("message not buffered during storage outage")
	}
	if len(emitter.ofType(EventNewMessage)) != 1 {
		t.Fatal("message not broadcast during storage outage")
	}
	if core.profiles["a"].MessageCount != 1 {
		t.Fatal("author stats not bumped during storage outage")
	}
}

func TestJoinSurvivesMembershipUpsertFailure(t *testing.T) {
	s := newFakeStore(testRoom("r1", "general", 5))
	core, emitter, _ := newTestCore(s)

	s.failing = true
	core.JoinRoom(context.Background(), "s-a", "r1", "a", "A")

	if len(emitter.ofType(EventJoinedRoom)) != 1 {
		t.Fatal("join rejected because of storage outage")
	}
	room, _ := core.rooms.Get("r1")
	if room.ParticipantCount() != 1 {
		t.Fatal("participant list not updated during storage outage")
	}
}

func TestUnreadFanOutExcludesAuthor(t *testing.T) {
	s := newFakeStore(testRoom("r1", "general", 5))
	core, emitter, clock := newTestCore(s)
	ctx := context.Background()

	core.JoinRoom(ctx, "s-a", "r1", "a", "A")
	core.JoinRoom(ctx, "s-b", "r1", "b", "B")
	emitter.reset()
	clock.Advance(time.Minute)

	for i := 0; i < 3; i++ {
		core.SendMessage(ctx, "r1", "a", "A", "msg", "text")
	}

	unreads := emitter.ofType(EventSidebarUnread)
	for _, u := range unreads {
		payload := u.ev.Payload.(SidebarUnreadPayload)
		if payload.UserID == "a" {
			t.Fatal("author received an unread recompute")
		}
	}
	if len(unreads) != 3 {
		t.Fatalf("expected 3 unread updates for the other member, got %d", len(unreads))
	}
	last := unreads[len(unreads)-1].ev.Payload.(SidebarUnreadPayload)
	if last.UnreadCount != 3 {
		t.Fatalf("unread count = %d, want 3", last.UnreadCount)
	}
}

func TestUnreadFanOutDegradesWhenStoreFails(t *testing.T) {
	s := newFakeStore(testRoom("r1", "general", 5))
	core, emitter, _ := newTestCore(s)
	ctx := context.Background()

	core.JoinRoom(ctx, "s-a", "r1", "a", "A")
	core.JoinRoom(ctx, "s-b", "r1", "b", "B")
	emitter.reset()

	s.failing = true
	core.SendMessage(ctx, "r1", "a", "A", "msg", "text")

	if len(emitter.ofType(EventNewMessage)) != 1 {
		t.Fatal("broadcast should proceed despite unread failure")
	}
	if len(emitter.ofType(EventSidebarUnread)) != 0 {
		t.Fatal("unread updates should be skipped, not guessed")
	}
}

func TestLeaveRoomIdempotent(t *testing.T) {
	s := newFakeStore(testRoom("r1", "general", 5))
	core, emitter, _ := newTestCore(s)
	ctx := context.Background()

	core.JoinRoom(ctx, "s-a", "r1", "a", "A")
	core.JoinRoom(ctx, "s-b", "r1", "b", "B")
	emitter.reset()

	core.LeaveRoom(ctx, "r1", "a")
	if got := emitter.ofType(EventUserLeft); len(got) != 1 {
		t.Fatalf("expected one user-left, got %d", len(got))
	}
	if m := s.memberships[memberKey("a", "r1")]; m.IsActive {
		t.Fatal("membership still active after leave")
	}

	emitter.reset()
	core.LeaveRoom(ctx, "r1", "a") // second leave is a no-op
	if len(emitter.ofType(EventUserLeft)) != 0 {
		t.Fatal("second leave emitted a duplicate user-left")
	}
}

func TestReadRoomResetsUnread(t *testing.T) {
	s := newFakeStore(testRoom("r1", "general", 5))
	core, emitter, clock := newTestCore(s)
	ctx := context.Background()

	core.JoinRoom(ctx, "s-a", "r1", "a", "A")
	clock.Advance(10 * time.Minute)
	emitter.reset()

	core.ReadRoom(ctx, "r1", "a")

	unreads := emitter.ofType(EventSidebarUnread)
	if len(unreads) != 1 || unreads[0].ev.Payload.(SidebarUnreadPayload).UnreadCount != 0 {
		t.Fatalf("expected zeroed unread to caller, got %v", unreads)
	}
	if got := s.memberships[memberKey("a", "r1")].LastSeen; !got.Equal(clock.Now()) {
		t.Fatalf("lastSeen = %v, want %v", got, clock.Now())
	}
}

func TestDisconnectCleansUpEverything(t *testing.T) {
	s := newFakeStore(testRoom("r1", "general", 5))
	core, emitter, _ := newTestCore(s)
	ctx := context.Background()

	core.JoinRoom(ctx, "s-a", "r1", "a", "A")
	core.JoinRoom(ctx, "s-b", "r1", "b", "B")
	core.Typing("r1", "a", "A")
	emitter.reset()

	core.Disconnect("s-a")

	if rooms := core.rooms.RoomsContaining("a"); len(rooms) != 0 {
		t.Fatalf("user still in rooms after disconnect: %v", rooms)
	}
	if _, ok := core.presence.SessionFor("a"); ok {
		t.Fatal("presence binding survived disconnect")
	}
	if names := core.tracker.TypingNames("r1"); len(names) != 0 {
		t.Fatalf("typing entries survived disconnect: %v", names)
	}

	left := emitter.ofType(EventUserLeft)
	if len(left) != 1 || left[0].session != "s-b" {
		t.Fatalf("expected user-left delivered to remaining member, got %v", left)
	}
}

func TestDisconnectUnknownSessionIsNoOp(t *testing.T) {
	core, emitter, _ := newTestCore(newFakeStore())
	core.Disconnect("never-seen")
	if len(emitter.events) != 0 {
		t.Fatalf("unexpected events: %v", emitter.events)
	}
}

func TestSweepEvictsOnlyIdleUsers(t *testing.T) {
	s := newFakeStore(testRoom("r1", "general", 5))
	core, emitter, clock := newTestCore(s)
	ctx := context.Background()

	core.JoinRoom(ctx, "s-idle", "r1", "idle", "Idle")
	core.JoinRoom(ctx, "s-live", "r1", "live", "Live")

	clock.Advance(25 * time.Minute)
	core.Typing("r1", "live", "Live") // keeps the live user fresh
	clock.Advance(6 * time.Minute)    // idle user is now past 30 minutes
	emitter.reset()

	core.SweepIdle()

	if rooms := core.rooms.RoomsContaining("idle"); len(rooms) != 0 {
		t.Fatal("idle user still in room after sweep")
	}
	if _, ok := core.presence.SessionFor("idle"); ok {
		t.Fatal("idle user still registered after sweep")
	}
	if rooms := core.rooms.RoomsContaining("live"); len(rooms) != 1 {
		t.Fatal("active user was evicted")
	}

	kicked := emitter.ofType(EventKickedForIdle)
	if len(kicked) != 1 || kicked[0].session != "s-idle" {
		t.Fatalf("expected kicked-for-idle to the idle session, got %v", kicked)
	}
	left := emitter.ofType(EventUserLeft)
	if len(left) != 1 || left[0].ev.Payload.(UserLeftPayload).Reason != "idle" {
		t.Fatalf("expected user-left with idle reason, got %v", left)
	}
}

func TestSweepDeactivatesMembership(t *testing.T) {
	s := newFakeStore(testRoom("r1", "general", 5))
	core, _, clock := newTestCore(s)

	core.JoinRoom(context.Background(), "s-a", "r1", "a", "A")
	if m := s.memberships[memberKey("a", "r1")]; !m.IsActive {
		t.Fatal("membership should be active after join")
	}

	clock.Advance(31 * time.Minute)
	core.SweepIdle()

	// An idle kick ends the membership like an explicit leave would,
	// so the room drops off the recent-chats list and the user stops
	// counting as an active member for unread fan-out.
	if m := s.memberships[memberKey("a", "r1")]; m.IsActive {
		t.Fatalf("idle-kicked user's membership still active: %+v", m)
	}
}

func TestSweepKicksRoomlessRegisteredUser(t *testing.T) {
	core, emitter, clock := newTestCore(newFakeStore())

	core.RegisterUser("s-a", "a", "A")
	clock.Advance(31 * time.Minute)
	emitter.reset()

	core.SweepIdle()

	kicked := emitter.ofType(EventKickedForIdle)
	if len(kicked) != 1 || kicked[0].session != "s-a" {
		t.Fatalf("expected kick signal to the roomless session, got %v", kicked)
	}
	if _, ok := core.presence.SessionFor("a"); ok {
		t.Fatal("roomless idle user still registered after sweep")
	}
}

func TestRefreshAddsRoomsWithoutTouchingExisting(t *testing.T) {
	s := newFakeStore(testRoom("r1", "general", 5))
	core, _, _ := newTestCore(s)
	ctx := context.Background()

	core.JoinRoom(ctx, "s-a", "r1", "a", "A")
	s.rooms = append(s.rooms, testRoom("r2", "other", 5))

	core.RefreshRooms(ctx)

	r1, _ := core.rooms.Get("r1")
	if r1.ParticipantCount() != 1 {
		t.Fatal("refresh disturbed an existing room")
	}
	if _, ok := core.rooms.Get("r2"); !ok {
		t.Fatal("refresh did not pick up the new room")
	}
}

func TestMessageReadRelayedToOthers(t *testing.T) {
	s := newFakeStore(testRoom("r1", "general", 5))
	core, emitter, _ := newTestCore(s)
	ctx := context.Background()

	core.JoinRoom(ctx, "s-a", "r1", "a", "A")
	core.JoinRoom(ctx, "s-b", "r1", "b", "B")
	emitter.reset()

	core.MessageRead("r1", "a", "m1")

	reads := emitter.ofType(EventMessageRead)
	if len(reads) != 1 || reads[0].session != "s-b" {
		t.Fatalf("expected message-read only to the other member, got %v", reads)
	}
	if core.tracker.Readers("m1") != 1 {
		t.Fatal("read receipt not recorded")
	}
}

func TestTypingIndicatorRoundTrip(t *testing.T) {
	s := newFakeStore(testRoom("r1", "general", 5))
	core, emitter, _ := newTestCore(s)
	ctx := context.Background()

	core.JoinRoom(ctx, "s-a", "r1", "a", "Alice")
	emitter.reset()

	core.Typing("r1", "a", "Alice")
	typing := emitter.ofType(EventSidebarTyping)
	if len(typing) != 1 {
		t.Fatalf("expected one typing event, got %d", len(typing))
	}
	names := typing[0].ev.Payload.(SidebarTypingPayload).TypingUserNames
	if len(names) != 1 || names[0] != "Alice" {
		t.Fatalf("unexpected typing names: %v", names)
	}

	emitter.reset()
	core.StopTyping("r1", "a")
	typing = emitter.ofType(EventSidebarTyping)
	if len(typing) != 1 || len(typing[0].ev.Payload.(SidebarTypingPayload).TypingUserNames) != 0 {
		t.Fatalf("expected cleared typing set, got %v", typing)
	}
}

func TestRegisterUserBindsSidebarDelivery(t *testing.T) {
	s := newFakeStore(testRoom("r1", "general", 5))
	core, emitter, _ := newTestCore(s)

	core.RegisterUser("s-a", "a", "Alice")
	core.ReadRoom(context.Background(), "r1", "a")

	unreads := emitter.ofType(EventSidebarUnread)
	if len(unreads) != 1 || unreads[0].session != "s-a" {
		t.Fatalf("expected sidebar delivery to the registered session, got %v", unreads)
	}
}

func TestRemoveFromRecent(t *testing.T) {
	s := newFakeStore(testRoom("r1", "general", 5))
	core, emitter, _ := newTestCore(s)
	ctx := context.Background()

	core.JoinRoom(ctx, "s-a", "r1", "a", "A")
	emitter.reset()

	core.RemoveFromRecent(ctx, "s-a", "r1", "a")

	if m := s.memberships[memberKey("a", "r1")]; m.IsActive {
		t.Fatal("membership still active after removal from recent")
	}
	if len(emitter.ofType(EventRecentChatsUpdated)) != 1 {
		t.Fatal("expected recent-chats-updated")
	}

	emitter.reset()
	s.failing = true
	core.RemoveFromRecent(ctx, "s-a", "r1", "a")
	if len(emitter.ofType(EventError)) != 1 {
		t.Fatal("expected error event when the store rejects the removal")
	}
}

func TestAdjustTrustHookClamps(t *testing.T) {
	s := newFakeStore(testRoom("r1", "general", 5))
	core, _, _ := newTestCore(s)
	ctx := context.Background()

	core.JoinRoom(ctx, "s-a", "r1", "a", "A")

	core.AdjustTrust("a", -200)
	if got := core.profiles["a"].TrustScore; got != 0 {
		t.Fatalf("trust = %v, want floor of 0", got)
	}
	core.AdjustTrust("a", 500)
	if got := core.profiles["a"].TrustScore; got != 100 {
		t.Fatalf("trust = %v, want ceiling of 100", got)
	}
}

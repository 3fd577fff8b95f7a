package chat

// Tracker holds the ephemeral typing indicators and read receipts.
// Typing entries are cleared by stop-typing, disconnect or idle
// eviction only; there is no independent timeout, so a client that
// vanishes without stop-typing stays "typing" until one of those
// paths fires. Read receipts are append-only and pruned together with
// ring-buffer eviction.
type Tracker struct {
	typing map[string]map[string]struct{} // roomID -> userIDs
	reads  map[string]map[string]struct{} // messageID -> reader userIDs
	names  map[string]string              // userID -> display name
}

func NewTracker() *Tracker {
	return &Tracker{
		typing: make(map[string]map[string]struct{}),
		reads:  make(map[string]map[string]struct{}),
		names:  make(map[string]string),
	}
}

func (t *Tracker) SetTyping(roomID, userID string) {
	set, ok := t.typing[roomID]
	if !ok {
		set = make(map[string]struct{})
		t.typing[roomID] = set
	}
	set[userID] = struct{}{}
}

func (t *Tracker) ClearTyping(roomID, userID string) {
	if set, ok := t.typing[roomID]; ok {
		delete(set, userID)
	}
}

// ClearUser removes the user from every room's typing set. Called on
// disconnect and idle eviction.
func (t *Tracker) ClearUser(userID string) {
	for _, set := range t.typing {
		delete(set, userID)
	}
}

// TypingNames returns display names of users currently typing in the
// room, substituting a placeholder for users never seen by name.
func (t *Tracker) TypingNames(roomID string) []string {
	set, ok := t.typing[roomID]
	if !ok {
		return []string{}
	}
	names := make([]string, 0, len(set))
	for userID := range set {
		if name, ok := t.names[userID]; ok {
			names = append(names, name)
		} else {
			names = append(names, "Someone")
		}
	}
	return names
}

// RememberName records a display name for typing-indicator rendering.
func (t *Tracker) RememberName(userID, name string) {
	if name != "" {
		t.names[userID] = name
	}
}

// MarkRead records the reader in the message's receipt set.
func (t *Tracker) MarkRead(messageID, userID string) {
	set, ok := t.reads[messageID]
	if !ok {
		set = make(map[string]struct{})
		t.reads[messageID] = set
	}
	set[userID] = struct{}{}
}

// Readers returns how many distinct users have read the message.
func (t *Tracker) Readers(messageID string) int {
	return len(t.reads[messageID])
}

// ForgetMessage drops the receipt set for a message evicted from the
// ring buffer.
func (t *Tracker) ForgetMessage(messageID string) {
	delete(t.reads, messageID)
}

package chat

import "time"

// Presence maps connected users to their transport sessions and tracks
// last activity. It is not internally locked: all mutation goes through
// the Core mutex, which serializes event handlers and the idle sweep.
type Presence struct {
	sessions map[string]string    // userID -> sessionID
	users    map[string]string    // sessionID -> userID
	activity map[string]time.Time // userID -> last activity
}

func NewPresence() *Presence {
	return &Presence{
		sessions: make(map[string]string),
		users:    make(map[string]string),
		activity: make(map[string]time.Time),
	}
}

// Register binds a user to a session, overwriting any prior binding,
// and stamps activity.
func (p *Presence) Register(userID, sessionID string, now time.Time) {
	if prev, ok := p.sessions[userID]; ok {
		delete(p.users, prev)
	}
	p.sessions[userID] = sessionID
	p.users[sessionID] = userID
	p.activity[userID] = now
}

// Touch updates the user's last-activity timestamp.
func (p *Presence) Touch(userID string, now time.Time) {
	p.activity[userID] = now
}

func (p *Presence) SessionFor(userID string) (string, bool) {
	id, ok := p.sessions[userID]
	return id, ok
}

func (p *Presence) UserFor(sessionID string) (string, bool) {
	id, ok := p.users[sessionID]
	return id, ok
}

// Unregister removes all bindings for the user. Idempotent.
func (p *Presence) Unregister(userID string) {
	if sessionID, ok := p.sessions[userID]; ok {
		delete(p.users, sessionID)
	}
	delete(p.sessions, userID)
	delete(p.activity, userID)
}

// IdleUsers returns every tracked user whose last activity is older
// than threshold at the given instant.
func (p *Presence) IdleUsers(now time.Time, threshold time.Duration) []string {
	var idle []string
	for userID, last := range p.activity {
		if now.Sub(last) > threshold {
			idle = append(idle, userID)
		}
	}
	return idle
}

package chat

import "time"

// Participant is the in-memory profile of a connected user. The
// canonical copy lives in the store; this mirror is mutated on message
// send and badge recomputation while the user is online.
type Participant struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Badges       []string  `json:"badges"`
	TrustScore   float64   `json:"trustScore"`
	ProfileAge   time.Time `json:"profileAge"`
	MessageCount int       `json:"messageCount"`
	JoinedAt     time.Time `json:"joinedAt"`
}

// NeutralTrustScore is assigned to users seen for the first time.
const NeutralTrustScore = 50

// BadgesFor derives the badge set from account age, activity and trust
// score. Pure function of the participant's stats.
func BadgesFor(p Participant, now time.Time) []string {
	badges := []string{"member"}

	daysOld := now.Sub(p.ProfileAge).Hours() / 24
	if daysOld >= 7 {
		badges = append(badges, "regular")
	}
	if daysOld >= 30 {
		badges = append(badges, "veteran")
	}

	if p.MessageCount >= 100 {
		badges = append(badges, "active")
	}
	if p.MessageCount >= 500 {
		badges = append(badges, "chatty")
	}
	if p.MessageCount >= 1000 {
		badges = append(badges, "superstar")
	}

	if p.TrustScore >= 50 {
		badges = append(badges, "trusted")
	}
	if p.TrustScore >= 80 {
		badges = append(badges, "reliable")
	}
	if p.TrustScore >= 95 {
		badges = append(badges, "exemplary")
	}

	return badges
}

// ClampTrust bounds a trust score to [0, 100].
func ClampTrust(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

package models

import "time"

const (
	EventScammerReported = "scammer.reported"
	EventScammerRemoved  = "scammer.removed"
	EventScammerJoined   = "scammer.joined"
)

// ModerationEvent is broadcast to other moderation tooling when the registry changes
// or a listed user shows up in a community.
type ModerationEvent struct {
	Type    string    `json:"type"`
	UserID  string    `json:"user_id"`
	GuildID string    `json:"guild_id,omitempty"`
	Actor   string    `json:"actor,omitempty"`
	At      time.Time `json:"at"`
}

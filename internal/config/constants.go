package config

import (
	"regexp"
	"time"
)

const (
	// Records
	UnknownValue       = "Unknown"
	UnknownServer      = "Unknown Server"
	TrainersCollection = "users"
	ScammersCollection = "scammers"
	DefaultDatabase    = "Pokepolice"

	// Report input limits, in characters. They keep every reply and alert
	// built from a record inside the platform's message size limits.
	MaxReasonLength = 1000
	MaxNameLength   = 100

	// Profiles
	BannerSize = 1024

	// Lookup API
	DefaultListLimit = 50
	MaxListLimit     = 200
	TokenIssuer      = "pokepolice"
	DefaultTokenTTL  = 30 * 24 * time.Hour

	// Events
	ModerationChannel = "pokepolice:moderation"
)

var (
	// UserIDPattern matches a Discord snowflake as users paste it.
	UserIDPattern = regexp.MustCompile(`^\d{17,19}$`)
	// TrainerCodePattern matches a Pokémon GO friend code written without spaces.
	TrainerCodePattern = regexp.MustCompile(`^\d{12}$`)
)

// IsUserID reports whether id has the shape of a platform user id.
func IsUserID(id string) bool {
	return UserIDPattern.MatchString(id)
}

// Package platform describes the chat platform as the bot sees it: the user,
// member and guild data it reads, the Reply values it sends, and the narrow
// interfaces the Discord adapter implements.
package platform

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by lookups when the platform has no such user, member or guild.
var ErrNotFound = errors.New("platform: not found")

type User struct {
	ID         string
	Username   string
	GlobalName string
	AvatarURL  string
	Bot        bool
	CreatedAt  time.Time
}

// DisplayName prefers the global display name over the username.
func (u *User) DisplayName() string {
	if u.GlobalName != "" {
		return u.GlobalName
	}
	return u.Username
}

// Member is a user's membership in one guild.
type Member struct {
	GuildID  string
	UserID   string
	JoinedAt time.Time
	RoleIDs  []string
}

type Channel struct {
	ID   string
	Name string
}

type Guild struct {
	ID              string
	Name            string
	SystemChannelID string
	// Channels lists text channels only.
	Channels []Channel
}

// Directory resolves live platform state.
type Directory interface {
	FetchUser(ctx context.Context, userID string) (*User, error)
	FetchMember(ctx context.Context, guildID, userID string) (*Member, error)
	FetchGuild(ctx context.Context, guildID string) (*Guild, error)
}

// Messenger posts a reply into a channel.
type Messenger interface {
	Send(ctx context.Context, channelID string, reply *Reply) error
}

// BannerResolver looks up the profile banner image of a user.
// An empty URL means the user has no banner.
type BannerResolver interface {
	BannerURL(ctx context.Context, userID string) (string, error)
}

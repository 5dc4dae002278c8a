package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"pokepolice/backend/internal/platform"

	"github.com/bwmarrin/discordgo"
)

// Client implements platform.Directory and platform.Messenger. Lookups try
// the gateway state cache first and fall back to REST.
type Client struct {
	Session *discordgo.Session
}

func NewClient(session *discordgo.Session) *Client {
	return &Client{Session: session}
}

func (c *Client) FetchUser(ctx context.Context, userID string) (*platform.User, error) {
	u, err := c.Session.User(userID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, mapError(err)
	}
	return toUser(u), nil
}

func (c *Client) FetchMember(ctx context.Context, guildID, userID string) (*platform.Member, error) {
	m, err := c.Session.State.Member(guildID, userID)
	if err != nil {
		m, err = c.Session.GuildMember(guildID, userID, discordgo.WithContext(ctx))
		if err != nil {
			return nil, mapError(err)
		}
	}
	return toMember(guildID, userID, m), nil
}

func (c *Client) FetchGuild(ctx context.Context, guildID string) (*platform.Guild, error) {
	g, err := c.Session.State.Guild(guildID)
	if err == nil {
		return toGuild(g, g.Channels), nil
	}

	g, err = c.Session.Guild(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, mapError(err)
	}
	channels, err := c.Session.GuildChannels(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, mapError(err)
	}
	return toGuild(g, channels), nil
}

func (c *Client) Send(ctx context.Context, channelID string, reply *platform.Reply) error {
	_, err := c.Session.ChannelMessageSendComplex(channelID, render(reply), discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("send to channel %s: %w", channelID, err)
	}
	return nil
}

var notFoundCodes = map[int]bool{
	discordgo.ErrCodeUnknownGuild:  true,
	discordgo.ErrCodeUnknownMember: true,
	discordgo.ErrCodeUnknownUser:   true,
}

// mapError turns Discord's "unknown user/member/guild" answers into
// platform.ErrNotFound and leaves every other failure as is.
func mapError(err error) error {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) {
		return err
	}
	if restErr.Message != nil && notFoundCodes[restErr.Message.Code] {
		return fmt.Errorf("%w: %s", platform.ErrNotFound, restErr.Message.Message)
	}
	if restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %w", platform.ErrNotFound, err)
	}
	return err
}

func toUser(u *discordgo.User) *platform.User {
	created, _ := discordgo.SnowflakeTimestamp(u.ID)
	return &platform.User{
		ID:         u.ID,
		Username:   u.Username,
		GlobalName: u.GlobalName,
		AvatarURL:  u.AvatarURL(""),
		Bot:        u.Bot,
		CreatedAt:  created,
	}
}

func toMember(guildID, userID string, m *discordgo.Member) *platform.Member {
	return &platform.Member{
		GuildID:  guildID,
		UserID:   userID,
		JoinedAt: m.JoinedAt,
		RoleIDs:  append([]string(nil), m.Roles...),
	}
}

func toGuild(g *discordgo.Guild, channels []*discordgo.Channel) *platform.Guild {
	out := &platform.Guild{
		ID:              g.ID,
		Name:            g.Name,
		SystemChannelID: g.SystemChannelID,
	}
	for _, ch := range channels {
		if ch == nil || ch.Type != discordgo.ChannelTypeGuildText {
			continue
		}
		out.Channels = append(out.Channels, platform.Channel{ID: ch.ID, Name: ch.Name})
	}
	return out
}

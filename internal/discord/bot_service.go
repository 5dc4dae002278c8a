// Package discord connects the dispatcher and the alert service to the
// Discord gateway, and implements the platform interfaces on top of discordgo.
package discord

import (
	"context"
	"fmt"
	"time"

	"pokepolice/backend/internal/alert"
	"pokepolice/backend/internal/bot"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// Intents requests guild, message, member-join and message-content events.
const Intents = discordgo.IntentsGuilds |
	discordgo.IntentsGuildMessages |
	discordgo.IntentsGuildMembers |
	discordgo.IntentsMessageContent

// NewSession creates an unopened gateway session for a bot token.
func NewSession(token string) (*discordgo.Session, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	session.Identify.Intents = Intents
	return session, nil
}

// BotService is responsible for receiving gateway events and routing them
// to the dispatcher and the alert service.
type BotService struct {
	Session    *discordgo.Session
	Client     *Client
	Dispatcher *bot.Dispatcher
	Alerts     *alert.Service
	// CommandTimeout bounds the work done for one event.
	CommandTimeout time.Duration

	logger *zap.Logger
}

// NewBotService creates a new BotService instance.
func NewBotService(
	session *discordgo.Session,
	client *Client,
	dispatcher *bot.Dispatcher,
	alerts *alert.Service,
	timeout time.Duration,
	logger *zap.Logger,
) *BotService {
	return &BotService{
		Session:        session,
		Client:         client,
		Dispatcher:     dispatcher,
		Alerts:         alerts,
		CommandTimeout: timeout,
		logger:         logger.With(zap.String("component", "discord")),
	}
}

// Run opens the gateway and serves events until ctx is cancelled.
func (s *BotService) Run(ctx context.Context) error {
	removers := []func(){
		s.Session.AddHandler(func(_ *discordgo.Session, r *discordgo.Ready) {
			s.logger.Info("connected to discord",
				zap.String("user", r.User.Username),
				zap.Int("guilds", len(r.Guilds)))
		}),
		s.Session.AddHandler(func(_ *discordgo.Session, m *discordgo.MessageCreate) {
			s.handleMessage(ctx, m)
		}),
		s.Session.AddHandler(func(_ *discordgo.Session, m *discordgo.GuildMemberAdd) {
			s.handleMemberAdd(ctx, m)
		}),
	}
	defer func() {
		for _, remove := range removers {
			remove()
		}
	}()

	if err := s.Session.Open(); err != nil {
		return fmt.Errorf("open discord gateway: %w", err)
	}
	<-ctx.Done()

	s.logger.Info("closing discord gateway")
	if err := s.Session.Close(); err != nil {
		return fmt.Errorf("close discord gateway: %w", err)
	}
	return nil
}

func (s *BotService) eventContext(parent context.Context) (context.Context, context.CancelFunc) {
	if s.CommandTimeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, s.CommandTimeout)
}

func (s *BotService) handleMessage(parent context.Context, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || !s.Dispatcher.Recognizes(m.Content) {
		return
	}
	ctx, cancel := s.eventContext(parent)
	defer cancel()

	in := bot.Inbound{
		Content:         m.Content,
		AuthorID:        m.Author.ID,
		AuthorName:      m.Author.Username,
		AuthorAvatarURL: m.Author.AvatarURL(""),
		GuildID:         m.GuildID,
		GuildName:       s.guildName(ctx, m.GuildID),
		IsAdmin:         s.isAdmin(ctx, m.Author.ID, m.ChannelID),
	}

	reply, err := s.Dispatcher.Dispatch(ctx, in)
	if reply == nil {
		return
	}
	if err != nil {
		s.logger.Debug("replying with failure", zap.String("channel", m.ChannelID), zap.Error(err))
	}

	data := render(reply)
	data.Reference = m.Reference()
	if _, err := s.Session.ChannelMessageSendComplex(m.ChannelID, data, discordgo.WithContext(ctx)); err != nil {
		s.logger.Error("send reply",
			zap.String("channel", m.ChannelID),
			zap.Error(err))
	}
}

func (s *BotService) handleMemberAdd(parent context.Context, m *discordgo.GuildMemberAdd) {
	if m.Member == nil || m.User == nil {
		return
	}
	ctx, cancel := s.eventContext(parent)
	defer cancel()

	s.Alerts.HandleMemberJoined(ctx, alert.MemberJoined{
		GuildID:  m.GuildID,
		UserID:   m.User.ID,
		Username: m.User.Username,
	})
}

// isAdmin checks the administrator bit of the author's effective permissions
// in the channel. Lookup failures count as not admin.
func (s *BotService) isAdmin(ctx context.Context, userID, channelID string) bool {
	perms, err := s.Session.UserChannelPermissions(userID, channelID, discordgo.WithContext(ctx))
	if err != nil {
		s.logger.Debug("permission lookup failed",
			zap.String("user", userID),
			zap.String("channel", channelID),
			zap.Error(err))
		return false
	}
	return perms&discordgo.PermissionAdministrator != 0
}

func (s *BotService) guildName(ctx context.Context, guildID string) string {
	if guildID == "" {
		return ""
	}
	guild, err := s.Client.FetchGuild(ctx, guildID)
	if err != nil {
		s.logger.Debug("guild lookup failed", zap.String("guild", guildID), zap.Error(err))
		return ""
	}
	return guild.Name
}

// Package alert warns a guild when a user on the scammer list joins it.
package alert

import (
	"context"
	"errors"
	"strings"
	"time"

	"pokepolice/backend/internal/localization"
	"pokepolice/backend/internal/models"
	"pokepolice/backend/internal/platform"
	"pokepolice/backend/internal/storage"

	"go.uber.org/zap"
)

var now = time.Now

// MemberJoined is a guild join as the alert service needs it.
type MemberJoined struct {
	GuildID  string
	UserID   string
	Username string
}

// Service handles member-join events. Failures never propagate: the join
// is always left to complete.
type Service struct {
	Storage   storage.Storage
	Directory platform.Directory
	Messenger platform.Messenger
	// Events is optional.
	Events    storage.Publisher
	Localizer *localization.Localizer
	Language  string

	logger *zap.Logger
}

// NewService creates a new alert service.
func NewService(
	s storage.Storage,
	dir platform.Directory,
	msg platform.Messenger,
	loc *localization.Localizer,
	logger *zap.Logger,
) *Service {
	return &Service{
		Storage:   s,
		Directory: dir,
		Messenger: msg,
		Localizer: loc,
		Language:  localization.DefaultLanguage,
		logger:    logger.With(zap.String("component", "alert")),
	}
}

// HandleMemberJoined posts one alert when ev.UserID is on the list and a
// target channel exists. It reports whether an alert was sent.
func (s *Service) HandleMemberJoined(ctx context.Context, ev MemberJoined) (sent bool) {
	log := s.logger.With(zap.String("guild", ev.GuildID), zap.String("user", ev.UserID))
	defer func() {
		if r := recover(); r != nil {
			log.Error("alert handler panicked", zap.Any("panic", r))
			sent = false
		}
	}()

	record, err := s.Storage.GetScammer(ctx, ev.UserID)
	if errors.Is(err, storage.ErrNotFound) {
		return false
	}
	if err != nil {
		log.Error("scammer lookup failed", zap.Error(err))
		return false
	}

	guild, err := s.Directory.FetchGuild(ctx, ev.GuildID)
	if err != nil {
		log.Error("guild lookup failed", zap.Error(err))
		return false
	}
	channelID := AlertChannel(guild)
	if channelID == "" {
		log.Warn("no channel to post the scammer alert in")
		return false
	}

	if err := s.Messenger.Send(ctx, channelID, s.alertReply(record)); err != nil {
		log.Error("send scammer alert", zap.String("channel", channelID), zap.Error(err))
		return false
	}
	log.Info("scammer alert sent", zap.String("channel", channelID))

	if s.Events != nil {
		err := s.Events.Publish(ctx, models.ModerationEvent{
			Type:    models.EventScammerJoined,
			UserID:  ev.UserID,
			GuildID: ev.GuildID,
		})
		if err != nil {
			log.Warn("publish moderation event", zap.Error(err))
		}
	}
	return true
}

// AlertChannel picks the guild's system channel, else the first text
// channel whose name contains "general". Empty means there is nowhere to post.
func AlertChannel(guild *platform.Guild) string {
	if guild == nil {
		return ""
	}
	if guild.SystemChannelID != "" {
		return guild.SystemChannelID
	}
	for _, ch := range guild.Channels {
		if strings.Contains(strings.ToLower(ch.Name), "general") {
			return ch.ID
		}
	}
	return ""
}

func (s *Service) text(key string) string {
	return s.Localizer.GetString(s.Language, key)
}

func (s *Service) alertReply(r *models.ScammerRecord) *platform.Reply {
	summary := &platform.Summary{
		Title:       s.text("alert_title"),
		Description: s.text("alert_description"),
		Color:       platform.ColorRed,
		Timestamp:   now(),
	}
	summary.
		AddField(s.text("alert_discord_name"), r.DisplayName, true).
		AddField(s.text("alert_discord_id"), r.UserID, true).
		AddField(s.text("alert_trainer_name"), r.TrainerName, true).
		AddField(s.text("alert_trainer_code"), r.TrainerCode, true).
		AddField(s.text("alert_reason"), r.Reason, false).
		AddField(s.text("alert_reported_server"), r.ReportedServer, true).
		AddField(s.text("alert_reported_by"), r.Reporter, true)

	return &platform.Reply{
		Text:            s.text("alert_content"),
		Summary:         summary,
		MentionEveryone: true,
	}
}

package alert

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"pokepolice/backend/internal/localization"
	"pokepolice/backend/internal/models"
	"pokepolice/backend/internal/platform"
	"pokepolice/backend/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const (
	guildID  = "800000000000000000"
	scammer  = "123456789012345678"
	innocent = "223456789012345678"
)

type fakeDirectory struct {
	guild *platform.Guild
	err   error
}

func (f *fakeDirectory) FetchUser(context.Context, string) (*platform.User, error) {
	return nil, platform.ErrNotFound
}

func (f *fakeDirectory) FetchMember(context.Context, string, string) (*platform.Member, error) {
	return nil, platform.ErrNotFound
}

func (f *fakeDirectory) FetchGuild(context.Context, string) (*platform.Guild, error) {
	return f.guild, f.err
}

type sentMessage struct {
	channelID string
	reply     *platform.Reply
}

type recordingMessenger struct {
	mu   sync.Mutex
	sent []sentMessage
	err  error
}

func (m *recordingMessenger) Send(_ context.Context, channelID string, reply *platform.Reply) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMessage{channelID: channelID, reply: reply})
	return nil
}

type recordingPublisher struct {
	events []models.ModerationEvent
}

func (p *recordingPublisher) Publish(_ context.Context, e models.ModerationEvent) error {
	p.events = append(p.events, e)
	return nil
}

type panickingStore struct {
	storage.Storage
}

func (panickingStore) GetScammer(context.Context, string) (*models.ScammerRecord, error) {
	panic("boom")
}

func newService(t *testing.T, guild *platform.Guild) (*Service, *recordingMessenger) {
	t.Helper()
	store := storage.NewMemoryStore()
	require.NoError(t, store.AddScammer(context.Background(), &models.ScammerRecord{
		UserID:         scammer,
		DisplayName:    "mallory",
		TrainerCode:    "111122223333",
		TrainerName:    "TeamRocket",
		ReportedServer: "Other Server",
		Reporter:       "jenny",
		Reason:         "fake trade",
	}))
	loc, err := localization.Bundled()
	require.NoError(t, err)
	msg := &recordingMessenger{}
	return NewService(store, &fakeDirectory{guild: guild}, msg, loc, zaptest.NewLogger(t)), msg
}

func systemGuild() *platform.Guild {
	return &platform.Guild{
		ID:              guildID,
		Name:            "Pogo Masters",
		SystemChannelID: "700000000000000001",
		Channels:        []platform.Channel{{ID: "700000000000000002", Name: "general"}},
	}
}

func TestHandleMemberJoined_AlertsOnce(t *testing.T) {
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	now = func() time.Time { return at }
	t.Cleanup(func() { now = time.Now })

	svc, msg := newService(t, systemGuild())
	events := &recordingPublisher{}
	svc.Events = events

	ok := svc.HandleMemberJoined(context.Background(), MemberJoined{GuildID: guildID, UserID: scammer})

	assert.True(t, ok)
	require.Len(t, msg.sent, 1)
	got := msg.sent[0]
	assert.Equal(t, "700000000000000001", got.channelID)
	assert.True(t, got.reply.MentionEveryone)
	assert.Equal(t, "@everyone ⚠️ **Alert! A scammer has joined.**", got.reply.Text)

	s := got.reply.Summary
	require.NotNil(t, s)
	assert.Equal(t, platform.ColorRed, s.Color)
	assert.Equal(t, at, s.Timestamp)
	require.Len(t, s.Fields, 7)
	assert.Equal(t, platform.Field{Label: "👤 Discord Name", Value: "mallory", Inline: true}, s.Fields[0])
	assert.Equal(t, platform.Field{Label: "🆔 Discord ID", Value: scammer, Inline: true}, s.Fields[1])
	assert.Equal(t, platform.Field{Label: "⚠️ Reason", Value: "fake trade", Inline: false}, s.Fields[4])
	assert.Equal(t, platform.Field{Label: "🔍 Reported By", Value: "jenny", Inline: true}, s.Fields[6])

	require.Len(t, events.events, 1)
	assert.Equal(t, models.EventScammerJoined, events.events[0].Type)
	assert.Equal(t, guildID, events.events[0].GuildID)
}

func TestHandleMemberJoined_NotListed(t *testing.T) {
	svc, msg := newService(t, systemGuild())

	ok := svc.HandleMemberJoined(context.Background(), MemberJoined{GuildID: guildID, UserID: innocent})

	assert.False(t, ok)
	assert.Empty(t, msg.sent)
}

func TestHandleMemberJoined_Failures(t *testing.T) {
	t.Run("no channel", func(t *testing.T) {
		svc, msg := newService(t, &platform.Guild{ID: guildID, Channels: []platform.Channel{{ID: "1", Name: "trades"}}})
		assert.False(t, svc.HandleMemberJoined(context.Background(), MemberJoined{GuildID: guildID, UserID: scammer}))
		assert.Empty(t, msg.sent)
	})

	t.Run("guild lookup fails", func(t *testing.T) {
		svc, msg := newService(t, nil)
		svc.Directory = &fakeDirectory{err: assert.AnError}
		assert.False(t, svc.HandleMemberJoined(context.Background(), MemberJoined{GuildID: guildID, UserID: scammer}))
		assert.Empty(t, msg.sent)
	})

	t.Run("send fails", func(t *testing.T) {
		svc, msg := newService(t, systemGuild())
		msg.err = assert.AnError
		events := &recordingPublisher{}
		svc.Events = events
		assert.False(t, svc.HandleMemberJoined(context.Background(), MemberJoined{GuildID: guildID, UserID: scammer}))
		assert.Empty(t, events.events)
	})

	t.Run("panic is contained", func(t *testing.T) {
		svc, msg := newService(t, systemGuild())
		svc.Storage = panickingStore{}
		assert.NotPanics(t, func() {
			assert.False(t, svc.HandleMemberJoined(context.Background(), MemberJoined{GuildID: guildID, UserID: scammer}))
		})
		assert.Empty(t, msg.sent)
	})
}

func TestAlertChannel(t *testing.T) {
	tests := []struct {
		name  string
		guild *platform.Guild
		want  string
	}{
		{"nil guild", nil, ""},
		{"system channel wins", systemGuild(), "700000000000000001"},
		{
			name: "general fallback is case insensitive",
			guild: &platform.Guild{Channels: []platform.Channel{
				{ID: "1", Name: "rules"},
				{ID: "2", Name: "🌍-General-Chat"},
				{ID: "3", Name: "general"},
			}},
			want: "2",
		},
		{"nothing suitable", &platform.Guild{Channels: []platform.Channel{{ID: "1", Name: "trades"}}}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AlertChannel(tt.guild))
		})
	}
}

func TestAlertReply_ReasonLength(t *testing.T) {
	tests := []struct {
		name    string
		reason  string
		want    string
		wantCut bool
	}{
		{"report cap", strings.Repeat("x", 1000), strings.Repeat("x", 1000), false},
		{"field limit", strings.Repeat("x", platform.MaxFieldValueLength), strings.Repeat("x", platform.MaxFieldValueLength), false},
		{"over field limit", strings.Repeat("x", platform.MaxFieldValueLength+1), "", true},
		{"legacy record", strings.Repeat("x", 1500), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newService(t, systemGuild())

			reply := svc.alertReply(&models.ScammerRecord{UserID: scammer, DisplayName: "mallory", Reason: tt.reason})

			reason := reply.Summary.Fields[4]
			require.Equal(t, "⚠️ Reason", reason.Label)
			assert.LessOrEqual(t, utf8.RuneCountInString(reason.Value), platform.MaxFieldValueLength)
			if tt.wantCut {
				assert.True(t, strings.HasSuffix(reason.Value, "…"))
			} else {
				assert.Equal(t, tt.want, reason.Value)
			}
		})
	}
}

// TestHandleMemberJoined_LongReasonStillAlerts guards the join alert for a
// record whose reason predates the report length cap.
func TestHandleMemberJoined_LongReasonStillAlerts(t *testing.T) {
	svc, msg := newService(t, systemGuild())
	legacy := storage.NewMemoryStore()
	require.NoError(t, legacy.AddScammer(context.Background(), &models.ScammerRecord{
		UserID: innocent,
		Reason: strings.Repeat("x", 1950),
	}))
	svc.Storage = legacy

	assert.True(t, svc.HandleMemberJoined(context.Background(), MemberJoined{GuildID: guildID, UserID: innocent}))
	require.Len(t, msg.sent, 1)
	for _, f := range msg.sent[0].reply.Summary.Fields {
		assert.LessOrEqual(t, utf8.RuneCountInString(f.Value), platform.MaxFieldValueLength)
	}
}

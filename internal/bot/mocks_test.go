package bot_test

import (
	"context"
	"testing"
	"time"

	"pokepolice/backend/internal/bot"
	"pokepolice/backend/internal/localization"
	"pokepolice/backend/internal/models"
	"pokepolice/backend/internal/platform"
	"pokepolice/backend/internal/storage"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const (
	guildID   = "800000000000000000"
	guildName = "Pogo Masters"
	modID     = "900000000000000001"
	memberID  = "900000000000000002"
	targetID  = "123456789012345678"
)

var anyCtx = mock.Anything

// MockStorage is a testify implementation of storage.Storage.
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) RegisterTrainer(ctx context.Context, profile *models.TrainerProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockStorage) GetTrainer(ctx context.Context, userID string) (*models.TrainerProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TrainerProfile), args.Error(1)
}

func (m *MockStorage) AddScammer(ctx context.Context, record *models.ScammerRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockStorage) GetScammer(ctx context.Context, userID string) (*models.ScammerRecord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ScammerRecord), args.Error(1)
}

func (m *MockStorage) RemoveScammer(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockStorage) ListScammers(ctx context.Context, limit int) ([]models.ScammerRecord, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ScammerRecord), args.Error(1)
}

func (m *MockStorage) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockStorage) Close(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// MockDirectory is a testify implementation of platform.Directory.
type MockDirectory struct {
	mock.Mock
}

func (m *MockDirectory) FetchUser(ctx context.Context, userID string) (*platform.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*platform.User), args.Error(1)
}

func (m *MockDirectory) FetchMember(ctx context.Context, guildID, userID string) (*platform.Member, error) {
	args := m.Called(ctx, guildID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*platform.Member), args.Error(1)
}

func (m *MockDirectory) FetchGuild(ctx context.Context, guildID string) (*platform.Guild, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*platform.Guild), args.Error(1)
}

type MockBanners struct {
	mock.Mock
}

func (m *MockBanners) BannerURL(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, event models.ModerationEvent) error {
	return m.Called(ctx, event).Error(0)
}

func newDispatcher(t *testing.T, s storage.Storage, dir platform.Directory, banners platform.BannerResolver) *bot.Dispatcher {
	t.Helper()
	loc, err := localization.Bundled()
	require.NoError(t, err)
	return bot.NewDispatcher(s, dir, banners, loc, bot.Options{Prefix: "!"}, zaptest.NewLogger(t))
}

func adminSays(content string) bot.Inbound {
	return bot.Inbound{
		Content:    content,
		AuthorID:   modID,
		AuthorName: "modmin",
		GuildID:    guildID,
		GuildName:  guildName,
		IsAdmin:    true,
	}
}

func memberSays(content string) bot.Inbound {
	return bot.Inbound{
		Content:    content,
		AuthorID:   memberID,
		AuthorName: "pikachu_fan",
		GuildID:    guildID,
		GuildName:  guildName,
	}
}

func realUser(id string) *platform.User {
	return &platform.User{
		ID:        id,
		Username:  "mallory",
		AvatarURL: "https://cdn.example.com/avatars/" + id + ".png",
		CreatedAt: time.Date(2019, 4, 1, 10, 0, 0, 0, time.UTC),
	}
}

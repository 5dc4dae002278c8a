// Package storage is the record store: trainer profiles and scammer records
// persisted in MongoDB, PostgreSQL or memory, plus the Redis feed of
// moderation events.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pokepolice/backend/internal/config"
	"pokepolice/backend/internal/models"

	"go.uber.org/zap"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrAlreadyRegistered = errors.New("trainer already registered")
	ErrAlreadyReported   = errors.New("user already reported")
)

// now is swapped in tests.
var now = time.Now

// Storage is the contract every backend implements. All methods are safe for
// concurrent use.
type Storage interface {
	RegisterTrainer(ctx context.Context, profile *models.TrainerProfile) error
	GetTrainer(ctx context.Context, userID string) (*models.TrainerProfile, error)

	// AddScammer stamps record.ReportedAt with the current time before saving.
	AddScammer(ctx context.Context, record *models.ScammerRecord) error
	GetScammer(ctx context.Context, userID string) (*models.ScammerRecord, error)
	RemoveScammer(ctx context.Context, userID string) error
	// ListScammers returns up to limit records, newest first.
	ListScammers(ctx context.Context, limit int) ([]models.ScammerRecord, error)

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Open connects the backend selected by cfg.Driver.
func Open(ctx context.Context, cfg config.StoreConfig, logger *zap.Logger) (Storage, error) {
	switch cfg.Driver {
	case config.DriverMongo:
		return NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase, logger)
	case config.DriverPostgres:
		return NewGormStore(cfg.PostgresDSN, logger)
	case config.DriverMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return config.DefaultListLimit
	}
	if limit > config.MaxListLimit {
		return config.MaxListLimit
	}
	return limit
}

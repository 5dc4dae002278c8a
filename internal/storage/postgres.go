package storage

import (
	"context"
	"errors"
	"fmt"

	"pokepolice/backend/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// GormStore is the PostgreSQL backend.
type GormStore struct {
	DB     *gorm.DB
	logger *zap.Logger
}

// NewGormStore opens PostgreSQL and migrates both tables.
func NewGormStore(dsn string, logger *zap.Logger) (*GormStore, error) {
	// TranslateError turns unique violations into gorm.ErrDuplicatedKey.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return newGormStore(db, logger)
}

func newGormStore(db *gorm.DB, logger *zap.Logger) (*GormStore, error) {
	if err := db.AutoMigrate(&models.TrainerProfile{}, &models.ScammerRecord{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	logger.Info("database migrations complete", zap.String("component", "gorm_store"))
	return &GormStore{DB: db, logger: logger.With(zap.String("component", "gorm_store"))}, nil
}

func (s *GormStore) RegisterTrainer(ctx context.Context, profile *models.TrainerProfile) error {
	_, err := s.GetTrainer(ctx, profile.UserID)
	if err == nil {
		return ErrAlreadyRegistered
	}
	if !errors.Is(err, ErrNotFound) {
		return err
	}

	return s.insert(ctx, profile, ErrAlreadyRegistered, "trainer "+profile.UserID)
}

func (s *GormStore) GetTrainer(ctx context.Context, userID string) (*models.TrainerProfile, error) {
	var profile models.TrainerProfile
	err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find trainer %s: %w", userID, err)
	}
	return &profile, nil
}

func (s *GormStore) AddScammer(ctx context.Context, record *models.ScammerRecord) error {
	_, err := s.GetScammer(ctx, record.UserID)
	if err == nil {
		return ErrAlreadyReported
	}
	if !errors.Is(err, ErrNotFound) {
		return err
	}

	record.ReportedAt = now().UTC()
	return s.insert(ctx, record, ErrAlreadyReported, "scammer "+record.UserID)
}

// insert creates value. A unique violation from a concurrent insert that won
// the race after the existence check becomes duplicate.
func (s *GormStore) insert(ctx context.Context, value any, duplicate error, what string) error {
	if err := s.DB.WithContext(ctx).Create(value).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return duplicate
		}
		return fmt.Errorf("insert %s: %w", what, err)
	}
	return nil
}

func (s *GormStore) GetScammer(ctx context.Context, userID string) (*models.ScammerRecord, error) {
	var record models.ScammerRecord
	err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find scammer %s: %w", userID, err)
	}
	return &record, nil
}

func (s *GormStore) RemoveScammer(ctx context.Context, userID string) error {
	res := s.DB.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.ScammerRecord{})
	if res.Error != nil {
		return fmt.Errorf("delete scammer %s: %w", userID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) ListScammers(ctx context.Context, limit int) ([]models.ScammerRecord, error) {
	records := make([]models.ScammerRecord, 0)
	err := s.DB.WithContext(ctx).
		Order("reported_at desc").
		Limit(clampLimit(limit)).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("list scammers: %w", err)
	}
	return records, nil
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *GormStore) Close(ctx context.Context) error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

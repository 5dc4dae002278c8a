package storage

import (
	"context"
	"sort"
	"sync"

	"pokepolice/backend/internal/models"
)

// MemoryStore keeps records in process memory. It backs local runs
// (STORE_DRIVER=memory) and tests.
type MemoryStore struct {
	mu       sync.RWMutex
	trainers map[string]models.TrainerProfile
	scammers map[string]models.ScammerRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		trainers: make(map[string]models.TrainerProfile),
		scammers: make(map[string]models.ScammerRecord),
	}
}

func (s *MemoryStore) RegisterTrainer(_ context.Context, profile *models.TrainerProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.trainers[profile.UserID]; ok {
		return ErrAlreadyRegistered
	}
	if err := profile.BeforeCreate(nil); err != nil {
		return err
	}
	s.trainers[profile.UserID] = *profile
	return nil
}

func (s *MemoryStore) GetTrainer(_ context.Context, userID string) (*models.TrainerProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profile, ok := s.trainers[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return &profile, nil
}

func (s *MemoryStore) AddScammer(_ context.Context, record *models.ScammerRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.scammers[record.UserID]; ok {
		return ErrAlreadyReported
	}
	if err := record.BeforeCreate(nil); err != nil {
		return err
	}
	record.ReportedAt = now().UTC()
	s.scammers[record.UserID] = *record
	return nil
}

func (s *MemoryStore) GetScammer(_ context.Context, userID string) (*models.ScammerRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.scammers[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return &record, nil
}

func (s *MemoryStore) RemoveScammer(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.scammers[userID]; !ok {
		return ErrNotFound
	}
	delete(s.scammers, userID)
	return nil
}

func (s *MemoryStore) ListScammers(_ context.Context, limit int) ([]models.ScammerRecord, error) {
	s.mu.RLock()
	records := make([]models.ScammerRecord, 0, len(s.scammers))
	for _, r := range s.scammers {
		records = append(records, r)
	}
	s.mu.RUnlock()

	sort.Slice(records, func(i, j int) bool {
		return records[i].ReportedAt.After(records[j].ReportedAt)
	})
	if limit = clampLimit(limit); len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// Len reports the number of trainer profiles and scammer records held.
func (s *MemoryStore) Len() (trainers, scammers int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.trainers), len(s.scammers)
}

func (s *MemoryStore) Ping(context.Context) error  { return nil }
func (s *MemoryStore) Close(context.Context) error { return nil }

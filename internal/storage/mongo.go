package storage

import (
	"context"
	"errors"
	"fmt"

	"pokepolice/backend/internal/config"
	"pokepolice/backend/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoStore keeps both collections in one MongoDB database.
type MongoStore struct {
	Client   *mongo.Client
	Trainers *mongo.Collection
	Scammers *mongo.Collection
	logger   *zap.Logger
}

// NewMongoStore connects, pings and prepares the unique indexes.
func NewMongoStore(ctx context.Context, uri, database string, logger *zap.Logger) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	db := client.Database(database)
	s := &MongoStore{
		Client:   client,
		Trainers: db.Collection(config.TrainersCollection),
		Scammers: db.Collection(config.ScammersCollection),
		logger:   logger.With(zap.String("component", "mongo_store")),
	}
	s.ensureIndexes(ctx)

	s.logger.Info("connected to MongoDB", zap.String("database", database))
	return s, nil
}

// ensureIndexes is best effort: legacy data may already hold duplicates, in
// which case the existence checks remain the only guard.
func (s *MongoStore) ensureIndexes(ctx context.Context) {
	indexes := []struct {
		coll *mongo.Collection
		key  string
	}{
		{s.Trainers, "discordId"},
		{s.Scammers, "discordID"},
	}
	for _, idx := range indexes {
		_, err := idx.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: idx.key, Value: 1}},
			Options: options.Index().SetUnique(true),
		})
		if err != nil {
			s.logger.Warn("could not create unique index",
				zap.String("collection", idx.coll.Name()),
				zap.String("key", idx.key),
				zap.Error(err))
		}
	}
}

func (s *MongoStore) RegisterTrainer(ctx context.Context, profile *models.TrainerProfile) error {
	err := s.Trainers.FindOne(ctx, bson.M{"discordId": profile.UserID}).Err()
	if err == nil {
		return ErrAlreadyRegistered
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("find trainer %s: %w", profile.UserID, err)
	}

	if _, err := s.Trainers.InsertOne(ctx, profile); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrAlreadyRegistered
		}
		return fmt.Errorf("insert trainer %s: %w", profile.UserID, err)
	}
	return nil
}

func (s *MongoStore) GetTrainer(ctx context.Context, userID string) (*models.TrainerProfile, error) {
	var profile models.TrainerProfile
	err := s.Trainers.FindOne(ctx, bson.M{"discordId": userID}).Decode(&profile)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find trainer %s: %w", userID, err)
	}
	return &profile, nil
}

func (s *MongoStore) AddScammer(ctx context.Context, record *models.ScammerRecord) error {
	err := s.Scammers.FindOne(ctx, bson.M{"discordID": record.UserID}).Err()
	if err == nil {
		return ErrAlreadyReported
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("find scammer %s: %w", record.UserID, err)
	}

	record.ReportedAt = now().UTC()
	if _, err := s.Scammers.InsertOne(ctx, record); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrAlreadyReported
		}
		return fmt.Errorf("insert scammer %s: %w", record.UserID, err)
	}
	return nil
}

func (s *MongoStore) GetScammer(ctx context.Context, userID string) (*models.ScammerRecord, error) {
	var record models.ScammerRecord
	err := s.Scammers.FindOne(ctx, bson.M{"discordID": userID}).Decode(&record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find scammer %s: %w", userID, err)
	}
	return &record, nil
}

func (s *MongoStore) RemoveScammer(ctx context.Context, userID string) error {
	res, err := s.Scammers.DeleteOne(ctx, bson.M{"discordID": userID})
	if err != nil {
		return fmt.Errorf("delete scammer %s: %w", userID, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) ListScammers(ctx context.Context, limit int) ([]models.ScammerRecord, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "reportedDate", Value: -1}}).
		SetLimit(int64(clampLimit(limit)))

	cursor, err := s.Scammers.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list scammers: %w", err)
	}
	records := make([]models.ScammerRecord, 0)
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decode scammers: %w", err)
	}
	return records, nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.Client.Ping(ctx, nil)
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.Client.Disconnect(ctx)
}

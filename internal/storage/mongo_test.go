package storage

import (
	"context"
	"testing"
	"time"

	"pokepolice/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
	"go.uber.org/zap/zaptest"
)

const ns = "Pokepolice.scammers"

func mockStore(mt *mtest.T) *MongoStore {
	return &MongoStore{
		Client:   mt.Client,
		Trainers: mt.Coll,
		Scammers: mt.Coll,
		logger:   zaptest.NewLogger(mt),
	}
}

func TestMongoStore_AddScammer(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("inserts when absent", func(mt *mtest.T) {
		s := mockStore(mt)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch),
			mtest.CreateSuccessResponse(),
		)

		record := &models.ScammerRecord{UserID: "123456789012345678", Reason: "fake trade"}
		require.NoError(mt, s.AddScammer(context.Background(), record))
		assert.WithinDuration(mt, time.Now(), record.ReportedAt, 5*time.Second)
	})

	mt.Run("existing record", func(mt *mtest.T) {
		s := mockStore(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(1, ns, mtest.FirstBatch,
			bson.D{{Key: "discordID", Value: "123456789012345678"}}))

		err := s.AddScammer(context.Background(), &models.ScammerRecord{UserID: "123456789012345678"})
		assert.ErrorIs(mt, err, ErrAlreadyReported)
	})

	mt.Run("duplicate key on insert", func(mt *mtest.T) {
		s := mockStore(mt)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch),
			mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "duplicate key error"}),
		)

		err := s.AddScammer(context.Background(), &models.ScammerRecord{UserID: "123456789012345678"})
		assert.ErrorIs(mt, err, ErrAlreadyReported)
	})
}

func TestMongoStore_GetScammerLegacyFields(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("decodes", func(mt *mtest.T) {
		s := mockStore(mt)
		at := time.Date(2024, 3, 5, 18, 30, 0, 0, time.UTC)
		mt.AddMockResponses(mtest.CreateCursorResponse(1, ns, mtest.FirstBatch, bson.D{
			{Key: "discordID", Value: "123456789012345678"},
			{Key: "discordName", Value: "mallory"},
			{Key: "trainerCode", Value: "111122223333"},
			{Key: "trainerName", Value: "TeamRocket"},
			{Key: "reportedServer", Value: "Pogo Masters"},
			{Key: "reporter", Value: "jenny"},
			{Key: "reason", Value: "fake trade"},
			{Key: "reportedDate", Value: at},
		}))

		record, err := s.GetScammer(context.Background(), "123456789012345678")
		require.NoError(mt, err)
		assert.Equal(mt, "mallory", record.DisplayName)
		assert.Equal(mt, "111122223333", record.TrainerCode)
		assert.Equal(mt, "TeamRocket", record.TrainerName)
		assert.Equal(mt, "Pogo Masters", record.ReportedServer)
		assert.Equal(mt, "jenny", record.Reporter)
		assert.True(mt, at.Equal(record.ReportedAt))
	})

	mt.Run("missing", func(mt *mtest.T) {
		s := mockStore(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := s.GetScammer(context.Background(), "123456789012345678")
		assert.ErrorIs(mt, err, ErrNotFound)
	})
}

func TestMongoStore_RemoveScammer(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("removed", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))
		assert.NoError(mt, mockStore(mt).RemoveScammer(context.Background(), "123456789012345678"))
	})

	mt.Run("not listed", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))
		err := mockStore(mt).RemoveScammer(context.Background(), "123456789012345678")
		assert.ErrorIs(mt, err, ErrNotFound)
	})
}

func TestMongoStore_RegisterTrainerTwice(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("already registered", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(1, "Pokepolice.users", mtest.FirstBatch,
			bson.D{{Key: "discordId", Value: "900000000000000002"}}))

		err := mockStore(mt).RegisterTrainer(context.Background(), &models.TrainerProfile{UserID: "900000000000000002"})
		assert.ErrorIs(mt, err, ErrAlreadyRegistered)
	})
}

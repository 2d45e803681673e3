package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AnshRaj112/journal-backend/internal/database"
	"github.com/AnshRaj112/journal-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
	"go.uber.org/zap"
)

const entriesNS = "journal." + EntriesCollectionName

func mockEntries(mt *mtest.T) *MongoEntries {
	db := database.NewMongoWithDialer(func(context.Context) (*mongo.Client, error) {
		return mt.Client, nil
	}, "journal", time.Second, zap.NewNop().Sugar())
	return NewMongoEntries(db)
}

func networkError() bson.D {
	return mtest.CreateCommandErrorResponse(mtest.CommandError{
		Code:    6,
		Name:    "HostUnreachable",
		Message: "connection reset by peer",
		Labels:  []string{"NetworkError"},
	})
}

func TestMongoEntries(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("update unknown id is not found", func(mt *mtest.T) {
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: nil}})

		_, err := mockEntries(mt).Update(ctx, models.Entry{ID: primitive.NewObjectID(), Title: "Morning walk"})
		assert.ErrorIs(mt, err, ErrNotFound)

		_, err = mt.GetStartedEvent().Command.LookupErr("upsert")
		assert.Error(mt, err)
	})

	mt.Run("delete unknown id is not found", func(mt *mtest.T) {
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: nil}})

		_, err := mockEntries(mt).Delete(ctx, primitive.NewObjectID())
		assert.ErrorIs(mt, err, ErrNotFound)
		assert.Equal(mt, "findAndModify", mt.GetStartedEvent().CommandName)
	})

	mt.Run("find unknown id is not found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, entriesNS, mtest.FirstBatch))

		_, err := mockEntries(mt).FindByID(ctx, primitive.NewObjectID())
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("update sets stored field names", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		now := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: bson.D{
			{Key: "_id", Value: id},
			{Key: "title", Value: "Evening walk"},
			{Key: "owner_id", Value: "user-1"},
			{Key: "is_private", Value: true},
			{Key: "updated_at", Value: now},
		}}})

		updated, err := mockEntries(mt).Update(ctx, models.Entry{
			ID:        id,
			Title:     "Evening walk",
			IsPrivate: true,
			UpdatedAt: now,
		})
		require.NoError(mt, err)
		assert.Equal(mt, id, updated.ID)
		assert.Equal(mt, "user-1", updated.OwnerID)
		assert.True(mt, updated.IsPrivate)

		cmd := mt.GetStartedEvent().Command
		set, err := cmd.LookupErr("update", "$set")
		require.NoError(mt, err)
		for _, field := range []string{"title", "content", "mood", "date", "tags", "is_private", "updated_at"} {
			_, err := set.Document().LookupErr(field)
			assert.NoError(mt, err, field)
		}
		_, err = set.Document().LookupErr("owner_id")
		assert.Error(mt, err, "owner must not be rewritten")
		assert.True(mt, cmd.Lookup("new").Boolean())
	})

	mt.Run("empty list is an empty slice", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, entriesNS, mtest.FirstBatch))

		entries, err := mockEntries(mt).FindByOwner(ctx, "user-1", models.SortNewest)
		require.NoError(mt, err)
		assert.NotNil(mt, entries)
		assert.Empty(mt, entries)
	})

	for _, tc := range []struct {
		order models.SortOrder
		want  int32
	}{
		{models.SortNewest, -1},
		{models.SortOldest, 1},
	} {
		tc := tc
		mt.Run("list sort "+string(tc.order), func(mt *mtest.T) {
			first := bson.D{
				{Key: "_id", Value: primitive.NewObjectID()},
				{Key: "title", Value: "Morning walk"},
				{Key: "owner_id", Value: "user-1"},
			}
			mt.AddMockResponses(mtest.CreateCursorResponse(0, entriesNS, mtest.FirstBatch, first))

			entries, err := mockEntries(mt).FindByOwner(ctx, "user-1", tc.order)
			require.NoError(mt, err)
			require.Len(mt, entries, 1)
			assert.Equal(mt, "Morning walk", entries[0].Title)

			cmd := mt.GetStartedEvent().Command
			assert.Equal(mt, "user-1", cmd.Lookup("filter", "owner_id").StringValue())

			sort := cmd.Lookup("sort").Document()
			keys, err := sort.Elements()
			require.NoError(mt, err)
			require.Len(mt, keys, 2)
			assert.Equal(mt, "date", keys[0].Key())
			assert.Equal(mt, "_id", keys[1].Key())
			assert.Equal(mt, tc.want, keys[0].Value().AsInt32())
			assert.Equal(mt, tc.want, keys[1].Value().AsInt32())
		})
	}

	mt.Run("network failure is a connection error", func(mt *mtest.T) {
		// one response for the first attempt, one for the retry
		mt.AddMockResponses(networkError(), networkError())

		_, err := mockEntries(mt).FindByOwner(ctx, "user-1", models.SortNewest)
		var connErr *database.ConnectionError
		require.True(mt, errors.As(err, &connErr), "got %v", err)
		assert.True(mt, database.IsUnavailable(err))
	})

	mt.Run("command failure is passed through", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    13,
			Name:    "Unauthorized",
			Message: "not authorized on journal",
		}))

		err := mockEntries(mt).Insert(ctx, models.Entry{ID: primitive.NewObjectID()})
		require.Error(mt, err)
		assert.NotErrorIs(mt, err, ErrNotFound)
		assert.False(mt, database.IsUnavailable(err))
		assert.Contains(mt, err.Error(), "insert entry")
	})
}

func TestMongoEntries_DialFailure(t *testing.T) {
	db := database.NewMongoWithDialer(func(context.Context) (*mongo.Client, error) {
		return nil, errors.New("server selection timeout")
	}, "journal", time.Second, zap.NewNop().Sugar())

	_, err := NewMongoEntries(db).FindByID(context.Background(), primitive.NewObjectID())

	var connErr *database.ConnectionError
	require.True(t, errors.As(err, &connErr))
	assert.Contains(t, err.Error(), "server selection timeout")
}

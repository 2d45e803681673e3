package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/AnshRaj112/journal-backend/internal/database"
	"github.com/AnshRaj112/journal-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EntriesCollectionName is the MongoDB collection holding journal entries.
const EntriesCollectionName = "journal_entries"

// MongoEntries stores entries in MongoDB through the shared connection handle.
type MongoEntries struct {
	db *database.Mongo
}

func NewMongoEntries(db *database.Mongo) *MongoEntries {
	return &MongoEntries{db: db}
}

// EnsureEntryIndexes configures indexes for the journal_entries collection.
// Called on startup from main; listing by owner is the hot path.
func EnsureEntryIndexes(ctx context.Context, db *database.Mongo) error {
	mdb, err := db.Database(ctx)
	if err != nil {
		return err
	}

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "owner_id", Value: 1},
				{Key: "date", Value: -1},
			},
			Options: options.Index().SetName("idx_owner_date"),
		},
	}
	if _, err := mdb.Collection(EntriesCollectionName).Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("ensure entry indexes: %w", err)
	}
	return nil
}

func (m *MongoEntries) collection(ctx context.Context) (*mongo.Collection, error) {
	mdb, err := m.db.Database(ctx)
	if err != nil {
		return nil, err
	}
	return mdb.Collection(EntriesCollectionName), nil
}

func (m *MongoEntries) Insert(ctx context.Context, entry models.Entry) error {
	col, err := m.collection(ctx)
	if err != nil {
		return err
	}
	if _, err := col.InsertOne(ctx, entry); err != nil {
		return storeError("insert entry", err)
	}
	return nil
}

func (m *MongoEntries) FindByID(ctx context.Context, id primitive.ObjectID) (models.Entry, error) {
	col, err := m.collection(ctx)
	if err != nil {
		return models.Entry{}, err
	}

	var entry models.Entry
	if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&entry); err != nil {
		return models.Entry{}, storeError("find entry", err)
	}
	return entry, nil
}

func (m *MongoEntries) FindByOwner(ctx context.Context, ownerID string, order models.SortOrder) ([]models.Entry, error) {
	col, err := m.collection(ctx)
	if err != nil {
		return nil, err
	}

	direction := -1
	if order == models.SortOldest {
		direction = 1
	}
	findOptions := options.Find().SetSort(bson.D{
		{Key: "date", Value: direction},
		{Key: "_id", Value: direction},
	})

	cursor, err := col.Find(ctx, bson.M{"owner_id": ownerID}, findOptions)
	if err != nil {
		return nil, storeError("list entries", err)
	}
	defer cursor.Close(ctx)

	entries := []models.Entry{}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, storeError("decode entries", err)
	}
	return entries, nil
}

func (m *MongoEntries) Update(ctx context.Context, entry models.Entry) (models.Entry, error) {
	col, err := m.collection(ctx)
	if err != nil {
		return models.Entry{}, err
	}

	update := bson.M{"$set": bson.M{
		"title":      entry.Title,
		"content":    entry.Content,
		"mood":       entry.Mood,
		"date":       entry.Date,
		"tags":       entry.Tags,
		"is_private": entry.IsPrivate,
		"updated_at": entry.UpdatedAt,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Entry
	if err := col.FindOneAndUpdate(ctx, bson.M{"_id": entry.ID}, update, opts).Decode(&updated); err != nil {
		return models.Entry{}, storeError("update entry", err)
	}
	return updated, nil
}

func (m *MongoEntries) Delete(ctx context.Context, id primitive.ObjectID) (models.Entry, error) {
	col, err := m.collection(ctx)
	if err != nil {
		return models.Entry{}, err
	}

	var deleted models.Entry
	if err := col.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&deleted); err != nil {
		return models.Entry{}, storeError("delete entry", err)
	}
	return deleted, nil
}

// storeError maps driver errors onto the gateway's taxonomy.
func storeError(op string, err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case database.IsUnavailable(err):
		return &database.ConnectionError{Err: fmt.Errorf("%s: %w", op, err)}
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

package services

import (
	"context"
	"time"

	"github.com/AnshRaj112/journal-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EntryCollection is the document-level surface JournalStore persists through.
// Lookups by id return ErrNotFound when no document matches.
type EntryCollection interface {
	Insert(ctx context.Context, entry models.Entry) error
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Entry, error)
	// FindByOwner returns an empty slice, not an error, when the owner has no entries.
	FindByOwner(ctx context.Context, ownerID string, order models.SortOrder) ([]models.Entry, error)
	// Update overwrites the mutable fields of the stored document and returns the result.
	Update(ctx context.Context, entry models.Entry) (models.Entry, error)
	Delete(ctx context.Context, id primitive.ObjectID) (models.Entry, error)
}

// JournalStore is the persistence gateway for journal entries. Every write is
// validated before it reaches the collection.
type JournalStore struct {
	entries   EntryCollection
	validator *models.Validator
	now       func() time.Time
}

func NewJournalStore(entries EntryCollection, validator *models.Validator) *JournalStore {
	return &JournalStore{entries: entries, validator: validator, now: time.Now}
}

// Create validates the draft with its defaults applied and stores it.
func (s *JournalStore) Create(ctx context.Context, draft models.EntryDraft) (models.Entry, error) {
	entry, err := s.validator.Validate(draft.Build(s.now()))
	if err != nil {
		return models.Entry{}, err
	}
	entry.ID = primitive.NewObjectID()

	if err := s.entries.Insert(ctx, entry); err != nil {
		return models.Entry{}, err
	}
	return entry, nil
}

func (s *JournalStore) GetByID(ctx context.Context, id string) (models.Entry, error) {
	oid, err := parseEntryID(id)
	if err != nil {
		return models.Entry{}, err
	}
	return s.entries.FindByID(ctx, oid)
}

func (s *JournalStore) ListByOwner(ctx context.Context, ownerID string, order models.SortOrder) ([]models.Entry, error) {
	if order == "" {
		order = models.SortNewest
	}
	entries, err := s.entries.FindByOwner(ctx, ownerID, order)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []models.Entry{}
	}
	return entries, nil
}

// UpdateByID merges the patch into the stored entry and re-validates the
// result. An empty patch performs no write.
func (s *JournalStore) UpdateByID(ctx context.Context, id string, patch models.EntryPatch) (models.Entry, error) {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return models.Entry{}, err
	}
	if patch.IsEmpty() {
		return current, nil
	}

	merged, err := s.validator.Validate(patch.ApplyTo(current))
	if err != nil {
		return models.Entry{}, err
	}
	merged.UpdatedAt = models.StoreTime(s.now())

	return s.entries.Update(ctx, merged)
}

// DeleteByID removes the entry permanently and returns what was removed.
func (s *JournalStore) DeleteByID(ctx context.Context, id string) (models.Entry, error) {
	oid, err := parseEntryID(id)
	if err != nil {
		return models.Entry{}, err
	}
	return s.entries.Delete(ctx, oid)
}

// parseEntryID maps ids that cannot name a document to ErrNotFound.
func parseEntryID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrNotFound
	}
	return oid, nil
}

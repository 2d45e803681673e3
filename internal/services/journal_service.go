package services

import (
	"context"

	"github.com/AnshRaj112/journal-backend/internal/models"
	"go.uber.org/zap"
)

// Policy holds the ownership rules of the journal API.
type Policy struct {
	// AllowAnonymousCreate lets requests without an identity create entries
	// owned by PlaceholderOwnerID.
	AllowAnonymousCreate bool
	PlaceholderOwnerID   string
	// EnforceOwnership makes get, update and delete check that the caller
	// owns the entry. When false any caller can act on any id.
	EnforceOwnership bool
}

// DefaultPolicy matches the long-standing behaviour of the API.
func DefaultPolicy() Policy {
	return Policy{
		AllowAnonymousCreate: true,
		PlaceholderOwnerID:   models.PlaceholderOwnerID,
	}
}

// JournalService binds the journal store to the caller's identity. An empty
// ownerID means the request carried no identity.
type JournalService struct {
	store  *JournalStore
	policy Policy
	logger *zap.SugaredLogger
}

func NewJournalService(store *JournalStore, policy Policy, logger *zap.SugaredLogger) *JournalService {
	if policy.PlaceholderOwnerID == "" {
		policy.PlaceholderOwnerID = models.PlaceholderOwnerID
	}
	return &JournalService{store: store, policy: policy, logger: logger}
}

func (s *JournalService) List(ctx context.Context, ownerID string, order models.SortOrder) ([]models.Entry, error) {
	if ownerID == "" {
		return nil, ErrUnauthorized
	}
	return s.store.ListByOwner(ctx, ownerID, order)
}

func (s *JournalService) Create(ctx context.Context, ownerID string, draft models.EntryDraft) (models.Entry, error) {
	if ownerID == "" {
		if !s.policy.AllowAnonymousCreate {
			return models.Entry{}, ErrUnauthorized
		}
		ownerID = s.policy.PlaceholderOwnerID
	}
	draft.OwnerID = ownerID

	entry, err := s.store.Create(ctx, draft)
	if err != nil {
		return models.Entry{}, err
	}
	s.logger.Infow("journal entry created", "id", entry.ID.Hex(), "owner_id", entry.OwnerID)
	return entry, nil
}

func (s *JournalService) Get(ctx context.Context, ownerID, id string) (models.Entry, error) {
	if s.policy.EnforceOwnership {
		return s.owned(ctx, ownerID, id)
	}
	return s.store.GetByID(ctx, id)
}

func (s *JournalService) Update(ctx context.Context, ownerID, id string, patch models.EntryPatch) (models.Entry, error) {
	if s.policy.EnforceOwnership {
		if _, err := s.owned(ctx, ownerID, id); err != nil {
			return models.Entry{}, err
		}
	}

	entry, err := s.store.UpdateByID(ctx, id, patch)
	if err != nil {
		return models.Entry{}, err
	}
	s.logger.Infow("journal entry updated", "id", id)
	return entry, nil
}

func (s *JournalService) Delete(ctx context.Context, ownerID, id string) (models.Entry, error) {
	if s.policy.EnforceOwnership {
		if _, err := s.owned(ctx, ownerID, id); err != nil {
			return models.Entry{}, err
		}
	}

	entry, err := s.store.DeleteByID(ctx, id)
	if err != nil {
		return models.Entry{}, err
	}
	s.logger.Infow("journal entry deleted", "id", id, "owner_id", entry.OwnerID)
	return entry, nil
}

// owned fetches the entry and checks it belongs to ownerID.
func (s *JournalService) owned(ctx context.Context, ownerID, id string) (models.Entry, error) {
	if ownerID == "" {
		return models.Entry{}, ErrUnauthorized
	}
	entry, err := s.store.GetByID(ctx, id)
	if err != nil {
		return models.Entry{}, err
	}
	if entry.OwnerID != ownerID {
		return models.Entry{}, ErrForbidden
	}
	return entry, nil
}

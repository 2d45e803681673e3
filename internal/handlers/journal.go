package handlers

import (
	"context"
	"net/http"

	"github.com/AnshRaj112/journal-backend/internal/middleware"
	"github.com/AnshRaj112/journal-backend/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// EntryService is the journal API as seen by HTTP. An empty ownerID means
// the request carried no identity.
type EntryService interface {
	List(ctx context.Context, ownerID string, order models.SortOrder) ([]models.Entry, error)
	Create(ctx context.Context, ownerID string, draft models.EntryDraft) (models.Entry, error)
	Get(ctx context.Context, ownerID, id string) (models.Entry, error)
	Update(ctx context.Context, ownerID, id string, patch models.EntryPatch) (models.Entry, error)
	Delete(ctx context.Context, ownerID, id string) (models.Entry, error)
}

type JournalHandler struct {
	entries EntryService
	logger  *zap.SugaredLogger
}

func NewJournalHandler(entries EntryService, logger *zap.SugaredLogger) *JournalHandler {
	return &JournalHandler{entries: entries, logger: logger}
}

type DeleteEntryResponse struct {
	Message string       `json:"message"`
	Entry   models.Entry `json:"entry"`
}

// List returns the caller's entries. ?sort=newest|oldest picks the date
// order and ?q= narrows the result by title, content and tags.
func (h *JournalHandler) List(w http.ResponseWriter, r *http.Request) {
	order, ok := models.ParseSortOrder(r.URL.Query().Get("sort"))
	if !ok {
		verr := models.NewValidationError()
		verr.Add("sort", "must be one of: newest, oldest")
		writeServiceError(w, h.logger, verr)
		return
	}

	entries, err := h.entries.List(r.Context(), middleware.OwnerID(r.Context()), order)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, models.FilterEntries(entries, r.URL.Query().Get("q")))
}

func (h *JournalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var draft models.EntryDraft
	if err := decodeJSON(w, r, &draft); err != nil {
		writeDecodeError(w, h.logger, err)
		return
	}

	entry, err := h.entries.Create(r.Context(), middleware.OwnerID(r.Context()), draft)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (h *JournalHandler) Get(w http.ResponseWriter, r *http.Request) {
	entry, err := h.entries.Get(r.Context(), middleware.OwnerID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// Update applies a partial update; fields missing from the body are left as they are.
func (h *JournalHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch models.EntryPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeDecodeError(w, h.logger, err)
		return
	}

	entry, err := h.entries.Update(r.Context(), middleware.OwnerID(r.Context()), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (h *JournalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	entry, err := h.entries.Delete(r.Context(), middleware.OwnerID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, DeleteEntryResponse{
		Message: "Journal entry deleted",
		Entry:   entry,
	})
}

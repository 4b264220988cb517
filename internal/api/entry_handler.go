package api

import (
	"log/slog"
	"net/http"

	"github.com/langtools/langtools-api/internal/api/shared"
	"github.com/langtools/langtools-api/internal/platform/logger"
	"github.com/langtools/langtools-api/internal/service"
)

// EntryHandler handles dictionary entry requests.
type EntryHandler struct {
	entries service.DictionaryService
	logger  *slog.Logger
}

// NewEntryHandler creates an EntryHandler.
func NewEntryHandler(entries service.DictionaryService, logger *slog.Logger) *EntryHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for EntryHandler")
	}
	return &EntryHandler{
		entries: entries,
		logger:  logger.With(slog.String("component", "entry_handler")),
	}
}

// CreateEntry handles POST /api/entries. The meanings are generated
// synchronously and the entry is returned with one fresh training record
// per meaning.
func (h *EntryHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}

	var req CreateEntryRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.entries.CreateEntry(r.Context(), userID, service.CreateEntryRequest{
		Headword:       req.Headword,
		SourceLanguage: req.SourceLanguage,
		TargetLanguage: req.TargetLanguage,
	})
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Info("entry created",
		slog.String("user_id", userID.String()),
		slog.String("entry_id", result.Entry.ID.String()),
		slog.Int("meanings", len(result.Entry.Meanings)))
	shared.RespondWithJSON(w, r, http.StatusCreated, entryToResponse(result))
}

// GetEntry handles GET /api/entries/{id}.
func (h *EntryHandler) GetEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}
	entryID, ok := pathUUID(w, r, "id", "Entry")
	if !ok {
		return
	}

	result, err := h.entries.GetEntry(r.Context(), userID, entryID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, entryToResponse(result))
}

// RegenerateEntry handles POST /api/entries/{id}/regenerate.
func (h *EntryHandler) RegenerateEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}
	entryID, ok := pathUUID(w, r, "id", "Entry")
	if !ok {
		return
	}

	result, err := h.entries.RegenerateEntry(r.Context(), userID, entryID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, entryToResponse(result))
}

// DeleteEntry handles DELETE /api/entries/{id}.
func (h *EntryHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}
	entryID, ok := pathUUID(w, r, "id", "Entry")
	if !ok {
		return
	}

	if err := h.entries.DeleteEntry(r.Context(), userID, entryID); err != nil {
		HandleAPIError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/linguachat/server/internal/models"
	"github.com/linguachat/server/internal/services"
	"github.com/linguachat/server/internal/store"
)

// VocabHandler serves the vocabulary CRUD endpoints for the learning
// collections (numbers, animals, body parts, people, days, household).
type VocabHandler struct {
	vocab *services.VocabService
	log   *zap.Logger
}

// NewVocabHandler creates a new VocabHandler instance.
func NewVocabHandler(vocab *services.VocabService, log *zap.Logger) *VocabHandler {
	return &VocabHandler{vocab: vocab, log: log}
}

func collectionParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	collection := chi.URLParam(r, "collection")
	if !services.IsCollection(collection) {
		writeError(w, http.StatusNotFound, "unknown collection")
		return "", false
	}
	return collection, true
}

// List handles GET /api/vocab/{collection}
func (h *VocabHandler) List(w http.ResponseWriter, r *http.Request) {
	collection, ok := collectionParam(w, r)
	if !ok {
		return
	}
	items, err := h.vocab.List(collection)
	if err != nil {
		h.log.Error("failed to list vocab", zap.String("collection", collection), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list items")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Get handles GET /api/vocab/{collection}/{id}
func (h *VocabHandler) Get(w http.ResponseWriter, r *http.Request) {
	collection, ok := collectionParam(w, r)
	if !ok {
		return
	}
	item, err := h.vocab.Get(collection, chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// Create handles POST /api/vocab/{collection}
func (h *VocabHandler) Create(w http.ResponseWriter, r *http.Request) {
	collection, ok := collectionParam(w, r)
	if !ok {
		return
	}
	var req models.VocabItemRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	item, err := h.vocab.Create(collection, req)
	if err != nil {
		h.log.Error("failed to create vocab item", zap.String("collection", collection), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to create item")
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// Update handles PUT /api/vocab/{collection}/{id}
func (h *VocabHandler) Update(w http.ResponseWriter, r *http.Request) {
	collection, ok := collectionParam(w, r)
	if !ok {
		return
	}
	var req models.VocabItemRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	item, err := h.vocab.Update(collection, chi.URLParam(r, "id"), req)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update item")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// Delete handles DELETE /api/vocab/{collection}/{id}
func (h *VocabHandler) Delete(w http.ResponseWriter, r *http.Request) {
	collection, ok := collectionParam(w, r)
	if !ok {
		return
	}
	err := h.vocab.Delete(collection, chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete item")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/linguachat/server/internal/models"
	"github.com/linguachat/server/internal/store"
)

// Collections are the vocabulary groups the app teaches.
var Collections = []string{"numbers", "animals", "bodyparts", "people", "days", "household"}

// IsCollection reports whether name is a known vocabulary collection.
func IsCollection(name string) bool {
	return lo.Contains(Collections, name)
}

// VocabService handles vocabulary CRUD over the document store.
type VocabService struct {
	store *store.Store
}

// NewVocabService creates a new VocabService instance.
func NewVocabService(st *store.Store) *VocabService {
	return &VocabService{store: st}
}

// List returns all items in a collection.
func (s *VocabService) List(collection string) ([]models.VocabItem, error) {
	items, err := s.store.ListVocabItems(collection)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.VocabItem{}
	}
	return items, nil
}

// Get returns one item by id.
func (s *VocabService) Get(collection, id string) (*models.VocabItem, error) {
	return s.store.GetVocabItem(collection, id)
}

// Create stores a new item with a generated id.
func (s *VocabService) Create(collection string, req models.VocabItemRequest) (*models.VocabItem, error) {
	item := &models.VocabItem{
		ID:          uuid.New().String(),
		Word:        req.Word,
		Translation: req.Translation,
		Phonetic:    req.Phonetic,
		Example:     req.Example,
		ImageURL:    req.ImageURL,
		AudioURL:    req.AudioURL,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.store.InsertVocabItem(collection, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Update overwrites an existing item's fields.
func (s *VocabService) Update(collection, id string, req models.VocabItemRequest) (*models.VocabItem, error) {
	item, err := s.store.GetVocabItem(collection, id)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	item.Word = req.Word
	item.Translation = req.Translation
	item.Phonetic = req.Phonetic
	item.Example = req.Example
	item.ImageURL = req.ImageURL
	item.AudioURL = req.AudioURL
	item.UpdatedAt = &now

	if err := s.store.UpdateVocabItem(collection, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Delete removes an item.
func (s *VocabService) Delete(collection, id string) error {
	return s.store.DeleteVocabItem(collection, id)
}

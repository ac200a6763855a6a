package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/dgraph-io/badger/v4"

	"github.com/linguachat/server/internal/models"
)

func vocabKey(collection, id string) []byte {
	return []byte(fmt.Sprintf("%s%s:%s", vocabPrefix, collection, id))
}

// InsertVocabItem persists a new vocabulary item in the given collection.
func (s *Store) InsertVocabItem(collection string, item *models.VocabItem) error {
	key := vocabKey(collection, item.ID)
	return s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		if err == nil {
			return ErrConflict
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return setJSON(txn, key, item)
	})
}

// GetVocabItem returns one item from a collection.
func (s *Store) GetVocabItem(collection, id string) (*models.VocabItem, error) {
	var item models.VocabItem
	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, vocabKey(collection, id), &item)
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ListVocabItems returns all items in a collection, sorted by word.
func (s *Store) ListVocabItems(collection string) ([]models.VocabItem, error) {
	var items []models.VocabItem
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		prefix := []byte(vocabPrefix + collection + ":")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var item models.VocabItem
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &item)
			})
			if err != nil {
				return err
			}
			items = append(items, item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Word < items[j].Word })
	return items, nil
}

// UpdateVocabItem overwrites an existing item. ErrNotFound if absent.
func (s *Store) UpdateVocabItem(collection string, item *models.VocabItem) error {
	key := vocabKey(collection, item.ID)
	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound
			}
			return err
		}
		return setJSON(txn, key, item)
	})
}

// DeleteVocabItem removes an item permanently. Vocabulary entries are plain
// reference data, so this is a hard delete, unlike chat messages.
func (s *Store) DeleteVocabItem(collection, id string) error {
	key := vocabKey(collection, id)
	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound
			}
			return err
		}
		return txn.Delete(key)
	})
}

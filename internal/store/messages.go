package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"

	"github.com/linguachat/server/internal/models"
)

// Sort orders for ListActive.
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

func msgKey(id string) []byte {
	return []byte(msgPrefix + id)
}

// InsertMessage persists a new message. Returns ErrConflict if a message
// with the same id already exists; the existence check and the write happen
// in one transaction.
func (s *Store) InsertMessage(msg *models.ChatMessage) error {
	key := msgKey(msg.ID)
	return s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		if err == nil {
			return ErrConflict
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("failed to check message %s: %w", msg.ID, err)
		}
		return setJSON(txn, key, msg)
	})
}

// FindMessage returns the message with the given id, deleted or not.
// Callers use it for dedup and for authorization checks before mutation.
func (s *Store) FindMessage(id string) (*models.ChatMessage, error) {
	var msg models.ChatMessage
	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, msgKey(id), &msg)
	})
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// UpdateMessage overwrites the stored document for msg.ID.
// Returns ErrNotFound if the message was never inserted.
func (s *Store) UpdateMessage(msg *models.ChatMessage) error {
	key := msgKey(msg.ID)
	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound
			}
			return err
		}
		return setJSON(txn, key, msg)
	})
}

// FindActiveForReceiver returns the offline queue for userID: non-deleted
// messages addressed to them that they have not seen yet, oldest first.
func (s *Store) FindActiveForReceiver(userID string) ([]models.ChatMessage, error) {
	messages, err := s.scanMessages()
	if err != nil {
		return nil, err
	}
	pending := lo.Filter(messages, func(m models.ChatMessage, _ int) bool {
		return !m.IsDeleted && m.ReceiverID == userID && !m.SeenByUser(userID)
	})
	sortByCreatedAt(pending, OrderAsc)
	return pending, nil
}

// ListActive returns non-deleted messages sorted by createdAt, paginated.
func (s *Store) ListActive(limit, offset int, order string) ([]models.ChatMessage, error) {
	messages, err := s.scanMessages()
	if err != nil {
		return nil, err
	}
	active := lo.Filter(messages, func(m models.ChatMessage, _ int) bool {
		return !m.IsDeleted
	})
	sortByCreatedAt(active, order)

	if offset >= len(active) {
		return []models.ChatMessage{}, nil
	}
	active = active[offset:]
	if limit > 0 && limit < len(active) {
		active = active[:limit]
	}
	return active, nil
}

// SoftDelete marks the message as deleted and returns the updated document.
// Deleting an already-deleted message is a no-op success that returns the
// original deletion metadata.
func (s *Store) SoftDelete(id, deletedBy string) (*models.ChatMessage, error) {
	var msg models.ChatMessage
	err := s.db.Update(func(txn *badger.Txn) error {
		key := msgKey(id)
		if err := getJSON(txn, key, &msg); err != nil {
			return err
		}
		if msg.IsDeleted {
			return nil
		}
		now := time.Now().UTC()
		msg.IsDeleted = true
		msg.DeletedAt = &now
		msg.DeletedBy = deletedBy
		return setJSON(txn, key, &msg)
	})
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// RevertDelete clears the soft-delete fields, restoring the message.
// Used only to undo an unauthorized delete attempt.
func (s *Store) RevertDelete(id string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		key := msgKey(id)
		var msg models.ChatMessage
		if err := getJSON(txn, key, &msg); err != nil {
			return err
		}
		msg.IsDeleted = false
		msg.DeletedAt = nil
		msg.DeletedBy = ""
		return setJSON(txn, key, &msg)
	})
}

// MarkPushSent records that a push notification went out for the message.
// Best-effort bookkeeping; the caller is allowed to ignore the error.
func (s *Store) MarkPushSent(id string, at time.Time) error {
	return s.db.Update(func(txn *badger.Txn) error {
		key := msgKey(id)
		var msg models.ChatMessage
		if err := getJSON(txn, key, &msg); err != nil {
			return err
		}
		msg.PushNotificationSent = true
		msg.PushSentAt = &at
		return setJSON(txn, key, &msg)
	})
}

// CountMessages returns the total number of stored messages, deleted included.
func (s *Store) CountMessages() (int, error) {
	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		prefix := []byte(msgPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}

// scanMessages walks the message collection. The two-party conversation
// stays small, so filtering and sorting happen in memory at read time.
func (s *Store) scanMessages() ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		prefix := []byte(msgPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var msg models.ChatMessage
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &msg)
			})
			if err != nil {
				return err
			}
			messages = append(messages, msg)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func sortByCreatedAt(messages []models.ChatMessage, order string) {
	sort.SliceStable(messages, func(i, j int) bool {
		if order == OrderDesc {
			return messages[i].CreatedAt.After(messages[j].CreatedAt)
		}
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})
}

func getJSON(txn *badger.Txn, key []byte, v any) error {
	item, err := txn.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, v)
	})
}

func setJSON(txn *badger.Txn, key []byte, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}
	return txn.Set(key, data)
}

package store

import (
	"encoding/json"

	"github.com/dgraph-io/badger/v4"

	"github.com/linguachat/server/internal/models"
)

func pushKey(userID string) []byte {
	return []byte(pushPrefix + userID)
}

// UpsertPushRegistration writes the registration for reg.UserID,
// replacing any previous token for that user.
func (s *Store) UpsertPushRegistration(reg *models.PushRegistration) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return setJSON(txn, pushKey(reg.UserID), reg)
	})
}

// GetPushRegistration returns the stored registration for userID.
func (s *Store) GetPushRegistration(userID string) (*models.PushRegistration, error) {
	var reg models.PushRegistration
	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, pushKey(userID), &reg)
	})
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

// ListPushRegistrations returns every stored registration. Used to rebuild
// the in-memory token map at startup.
func (s *Store) ListPushRegistrations() ([]models.PushRegistration, error) {
	var regs []models.PushRegistration
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		prefix := []byte(pushPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var reg models.PushRegistration
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &reg)
			})
			if err != nil {
				return err
			}
			regs = append(regs, reg)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return regs, nil
}

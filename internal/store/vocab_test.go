package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linguachat/server/internal/models"
)

func TestVocabItemCRUD(t *testing.T) {
	s := newTestStore(t)

	item := &models.VocabItem{
		ID:          "n1",
		Word:        "uno",
		Translation: "one",
		CreatedAt:   time.Now().UTC(),
	}
	require.NoError(t, s.InsertVocabItem("numbers", item))
	require.ErrorIs(t, s.InsertVocabItem("numbers", item), ErrConflict)

	got, err := s.GetVocabItem("numbers", "n1")
	require.NoError(t, err)
	assert.Equal(t, "uno", got.Word)

	got.Translation = "one (1)"
	require.NoError(t, s.UpdateVocabItem("numbers", got))
	updated, err := s.GetVocabItem("numbers", "n1")
	require.NoError(t, err)
	assert.Equal(t, "one (1)", updated.Translation)

	require.NoError(t, s.DeleteVocabItem("numbers", "n1"))
	_, err = s.GetVocabItem("numbers", "n1")
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, s.DeleteVocabItem("numbers", "n1"), ErrNotFound)
}

func TestListVocabItemsScopedToCollection(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.InsertVocabItem("animals", &models.VocabItem{ID: "a1", Word: "gato", Translation: "cat"}))
	require.NoError(t, s.InsertVocabItem("animals", &models.VocabItem{ID: "a2", Word: "perro", Translation: "dog"}))
	require.NoError(t, s.InsertVocabItem("numbers", &models.VocabItem{ID: "n1", Word: "dos", Translation: "two"}))

	animals, err := s.ListVocabItems("animals")
	require.NoError(t, err)
	require.Len(t, animals, 2)
	assert.Equal(t, "gato", animals[0].Word, "sorted by word")

	numbers, err := s.ListVocabItems("numbers")
	require.NoError(t, err)
	assert.Len(t, numbers, 1)
}

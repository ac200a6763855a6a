package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/linguachat/server/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testMessage(id, sender, receiver string, at time.Time) *models.ChatMessage {
	return &models.ChatMessage{
		ID:         id,
		User:       models.MessageUser{ID: sender, Name: "Sender"},
		ReceiverID: receiver,
		Text:       "hello " + id,
		Type:       models.TypeText,
		CreatedAt:  at,
		SeenBy:     []string{sender},
	}
}

func TestInsertMessageRejectsDuplicateID(t *testing.T) {
	s := newTestStore(t)
	now := time.Now().UTC()

	require.NoError(t, s.InsertMessage(testMessage("m1", "user_1", "user_2", now)))

	err := s.InsertMessage(testMessage("m1", "user_1", "user_2", now))
	require.ErrorIs(t, err, ErrConflict)

	count, err := s.CountMessages()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestFindMessageNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.FindMessage("missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFindActiveForReceiver(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	// Pending for user_2, inserted out of chronological order.
	require.NoError(t, s.InsertMessage(testMessage("m2", "user_1", "user_2", base.Add(2*time.Minute))))
	require.NoError(t, s.InsertMessage(testMessage("m1", "user_1", "user_2", base.Add(1*time.Minute))))

	// Already seen by the receiver.
	seen := testMessage("m3", "user_1", "user_2", base.Add(3*time.Minute))
	seen.SeenBy = append(seen.SeenBy, "user_2")
	require.NoError(t, s.InsertMessage(seen))

	// Addressed to someone else.
	require.NoError(t, s.InsertMessage(testMessage("m4", "user_2", "user_1", base.Add(4*time.Minute))))

	// Deleted.
	require.NoError(t, s.InsertMessage(testMessage("m5", "user_1", "user_2", base.Add(5*time.Minute))))
	_, err := s.SoftDelete("m5", "user_1")
	require.NoError(t, err)

	pending, err := s.FindActiveForReceiver("user_2")
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "m1", pending[0].ID)
	assert.Equal(t, "m2", pending[1].ID)
}

func TestListActivePaginationAndOrder(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	ids := []string{"a", "b", "c", "d", "e"}
	for i, id := range ids {
		require.NoError(t, s.InsertMessage(testMessage(id, "user_1", "user_2", base.Add(time.Duration(i)*time.Minute))))
	}
	_, err := s.SoftDelete("c", "user_1")
	require.NoError(t, err)

	asc, err := s.ListActive(0, 0, OrderAsc)
	require.NoError(t, err)
	require.Len(t, asc, 4)
	assert.Equal(t, "a", asc[0].ID)
	assert.Equal(t, "e", asc[3].ID)

	desc, err := s.ListActive(2, 1, OrderDesc)
	require.NoError(t, err)
	require.Len(t, desc, 2)
	assert.Equal(t, "d", desc[0].ID)
	assert.Equal(t, "b", desc[1].ID)

	empty, err := s.ListActive(10, 100, OrderAsc)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestSoftDeleteIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.InsertMessage(testMessage("m1", "user_1", "user_2", time.Now().UTC())))

	first, err := s.SoftDelete("m1", "user_2")
	require.NoError(t, err)
	require.True(t, first.IsDeleted)
	require.NotNil(t, first.DeletedAt)
	assert.Equal(t, "user_2", first.DeletedBy)

	second, err := s.SoftDelete("m1", "user_1")
	require.NoError(t, err)
	assert.Equal(t, first.DeletedAt, second.DeletedAt)
	assert.Equal(t, "user_2", second.DeletedBy, "second delete keeps the original metadata")

	// Deleted but still retrievable.
	stored, err := s.FindMessage("m1")
	require.NoError(t, err)
	assert.True(t, stored.IsDeleted)
}

func TestSoftDeleteNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.SoftDelete("missing", "user_1")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRevertDelete(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.InsertMessage(testMessage("m1", "user_1", "user_2", time.Now().UTC())))

	_, err := s.SoftDelete("m1", "user_3")
	require.NoError(t, err)
	require.NoError(t, s.RevertDelete("m1"))

	msg, err := s.FindMessage("m1")
	require.NoError(t, err)
	assert.False(t, msg.IsDeleted)
	assert.Nil(t, msg.DeletedAt)
	assert.Empty(t, msg.DeletedBy)

	active, err := s.ListActive(0, 0, OrderAsc)
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestMarkPushSent(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.InsertMessage(testMessage("m1", "user_1", "user_2", time.Now().UTC())))

	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.MarkPushSent("m1", at))

	msg, err := s.FindMessage("m1")
	require.NoError(t, err)
	assert.True(t, msg.PushNotificationSent)
	require.NotNil(t, msg.PushSentAt)
	assert.True(t, msg.PushSentAt.Equal(at))
}

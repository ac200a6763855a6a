package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/linguachat/server/internal/models"
	"github.com/linguachat/server/internal/store"
)

func newMessagesRouter(t *testing.T) (*chi.Mux, *store.Store) {
	t.Helper()
	st, err := store.Open(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	h := NewMessageHandler(st, zap.NewNop())
	r := chi.NewRouter()
	r.Route("/api/messages", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
		r.Get("/pending/{userId}", h.Pending)
		r.Delete("/{id}", h.Delete)
	})
	return r, st
}

func seedMessage(t *testing.T, st *store.Store, id string, at time.Time) {
	t.Helper()
	require.NoError(t, st.InsertMessage(&models.ChatMessage{
		ID:         id,
		User:       models.MessageUser{ID: "user_1"},
		ReceiverID: "user_2",
		Text:       "hello " + id,
		Type:       models.TypeText,
		CreatedAt:  at,
		SeenBy:     []string{"user_1"},
	}))
}

func TestListMessages(t *testing.T) {
	r, st := newMessagesRouter(t)
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	seedMessage(t, st, "m1", base)
	seedMessage(t, st, "m2", base.Add(time.Minute))
	seedMessage(t, st, "m3", base.Add(2*time.Minute))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/messages?order=asc&limit=2&offset=1", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got []models.ChatMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "m2", got[0].ID)
	assert.Equal(t, "m3", got[1].ID)
}

func TestGetMessageNotFound(t *testing.T) {
	r, _ := newMessagesRouter(t)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/messages/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPendingMessages(t *testing.T) {
	r, st := newMessagesRouter(t)
	seedMessage(t, st, "m1", time.Now().UTC())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/messages/pending/user_2", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got []models.ChatMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "m1", got[0].ID)
}

func TestDeleteMessageAuthorization(t *testing.T) {
	r, st := newMessagesRouter(t)
	seedMessage(t, st, "m1", time.Now().UTC())

	del := func(userID string) *httptest.ResponseRecorder {
		body, _ := json.Marshal(map[string]string{"userId": userID})
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/api/messages/m1", bytes.NewReader(body))
		r.ServeHTTP(rec, req)
		return rec
	}

	// Not a conversation participant.
	rec := del("user_9")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	msg, err := st.FindMessage("m1")
	require.NoError(t, err)
	assert.False(t, msg.IsDeleted)

	// Resolved receiver may delete; repeating it stays a success.
	require.Equal(t, http.StatusOK, del("user_2").Code)
	require.Equal(t, http.StatusOK, del("user_2").Code)

	msg, err = st.FindMessage("m1")
	require.NoError(t, err)
	assert.True(t, msg.IsDeleted)
	assert.Equal(t, "user_2", msg.DeletedBy)
}

func TestDeleteMessageRequiresUserID(t *testing.T) {
	r, st := newMessagesRouter(t)
	seedMessage(t, st, "m1", time.Now().UTC())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/messages/m1", bytes.NewReader([]byte(`{}`)))
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

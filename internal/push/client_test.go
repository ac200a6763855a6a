package push

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSendPushOK(t *testing.T) {
	var got pushRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]any{"data": map[string]string{"status": "ok"}})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, zap.NewNop())
	err := c.SendPush(context.Background(), "ExponentPushToken[abc]", Notification{
		Title: "Ana",
		Body:  "hola",
		Data:  map[string]any{"messageId": "m1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "ExponentPushToken[abc]", got.To)
	assert.Equal(t, "hola", got.Body)
	assert.Equal(t, "default", got.Sound)
}

func TestSendPushRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"data": map[string]string{
			"status":  "error",
			"message": "DeviceNotRegistered",
		}})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, zap.NewNop())
	err := c.SendPush(context.Background(), "ExponentPushToken[abc]", Notification{Body: "hola"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DeviceNotRegistered")
}

func TestSendPushHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gateway timeout", http.StatusGatewayTimeout)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, zap.NewNop())
	err := c.SendPush(context.Background(), "ExponentPushToken[abc]", Notification{Body: "hola"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 504")
}

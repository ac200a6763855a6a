package push

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/linguachat/server/internal/store"
)

func newTestRegistry(t *testing.T) (*Registry, *store.Store) {
	t.Helper()
	st, err := store.Open(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return NewRegistry(st, zap.NewNop()), st
}

func TestRegisterValidToken(t *testing.T) {
	r, st := newTestRegistry(t)

	require.NoError(t, r.Register("user_1", "ExponentPushToken[abc-123_XYZ]"))

	token, ok := r.Lookup("user_1")
	require.True(t, ok)
	assert.Equal(t, "ExponentPushToken[abc-123_XYZ]", token)

	reg, err := st.GetPushRegistration("user_1")
	require.NoError(t, err)
	assert.Equal(t, "ExponentPushToken[abc-123_XYZ]", reg.Token)
	assert.False(t, reg.LastSeen.IsZero())
}

func TestRegisterAcceptsExpoSpelling(t *testing.T) {
	r, _ := newTestRegistry(t)
	require.NoError(t, r.Register("user_1", "ExpoPushToken[abc]"))
}

func TestRegisterRejectsMalformedToken(t *testing.T) {
	r, st := newTestRegistry(t)
	require.NoError(t, r.Register("user_1", "ExponentPushToken[old]"))

	for _, bad := range []string{
		"",
		"abc",
		"ExponentPushToken[]",
		"ExponentPushToken[has space]",
		"PushToken[abc]",
	} {
		err := r.Register("user_1", bad)
		require.ErrorIs(t, err, ErrInvalidToken, "token %q", bad)
	}

	// The prior valid token survives untouched, in memory and on disk.
	token, ok := r.Lookup("user_1")
	require.True(t, ok)
	assert.Equal(t, "ExponentPushToken[old]", token)
	reg, err := st.GetPushRegistration("user_1")
	require.NoError(t, err)
	assert.Equal(t, "ExponentPushToken[old]", reg.Token)
}

func TestRegisterRequiresUserID(t *testing.T) {
	r, _ := newTestRegistry(t)
	require.ErrorIs(t, r.Register("", "ExponentPushToken[abc]"), ErrInvalidToken)
}

func TestRegisterOverwritesToken(t *testing.T) {
	r, _ := newTestRegistry(t)
	require.NoError(t, r.Register("user_1", "ExponentPushToken[first]"))
	require.NoError(t, r.Register("user_1", "ExponentPushToken[second]"))

	token, _ := r.Lookup("user_1")
	assert.Equal(t, "ExponentPushToken[second]", token)
}

func TestLoadRebuildsMemoryFromStore(t *testing.T) {
	st, err := store.Open(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	first := NewRegistry(st, zap.NewNop())
	require.NoError(t, first.Register("user_1", "ExponentPushToken[abc]"))
	require.NoError(t, first.Register("user_2", "ExponentPushToken[def]"))

	second := NewRegistry(st, zap.NewNop())
	require.NoError(t, second.Load())

	token, ok := second.Lookup("user_2")
	require.True(t, ok)
	assert.Equal(t, "ExponentPushToken[def]", token)
}

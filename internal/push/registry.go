package push

import (
	"errors"
	"fmt"
	"regexp"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/linguachat/server/internal/models"
	"github.com/linguachat/server/internal/store"
)

// ErrInvalidToken is returned when a push token fails format validation.
var ErrInvalidToken = errors.New("invalid push token")

// Expo tokens look like ExponentPushToken[xxxx] (or the newer ExpoPushToken
// spelling). Anything else is rejected before it reaches storage.
var tokenPattern = regexp.MustCompile(`^Expo(nent)?PushToken\[[A-Za-z0-9_-]+\]$`)

// Registry maps users to their Expo push tokens. Registrations are
// persisted for durability and mirrored in memory for fast lookup on the
// message send path.
type Registry struct {
	mu     sync.RWMutex
	tokens map[string]string
	store  *store.Store
	log    *zap.Logger
}

// NewRegistry creates a registry backed by the given store.
func NewRegistry(st *store.Store, log *zap.Logger) *Registry {
	return &Registry{
		tokens: make(map[string]string),
		store:  st,
		log:    log,
	}
}

// Load rebuilds the in-memory map from persisted registrations. Called
// once at startup.
func (r *Registry) Load() error {
	regs, err := r.store.ListPushRegistrations()
	if err != nil {
		return fmt.Errorf("failed to load push registrations: %w", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, reg := range regs {
		r.tokens[reg.UserID] = reg.Token
	}
	r.log.Info("push registrations loaded", zap.Int("count", len(regs)))
	return nil
}

// Register validates and stores a token for userID, upserting the
// persisted record with lastSeen=now. An invalid token leaves both the
// stored and the in-memory token untouched.
func (r *Registry) Register(userID, token string) error {
	if userID == "" {
		return fmt.Errorf("%w: missing userId", ErrInvalidToken)
	}
	if !tokenPattern.MatchString(token) {
		return fmt.Errorf("%w: %q", ErrInvalidToken, token)
	}

	err := r.store.UpsertPushRegistration(&models.PushRegistration{
		UserID:   userID,
		Token:    token,
		LastSeen: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to persist push registration: %w", err)
	}

	r.mu.Lock()
	r.tokens[userID] = token
	r.mu.Unlock()

	r.log.Info("push token registered", zap.String("userId", userID))
	return nil
}

// Lookup returns the token for userID, if one is registered.
func (r *Registry) Lookup(userID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	token, ok := r.tokens[userID]
	return token, ok
}

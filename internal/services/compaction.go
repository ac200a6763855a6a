package services

import (
	"time"

	"go.uber.org/zap"

	"github.com/linguachat/server/internal/store"
)

// CompactionService periodically reclaims space from the document store's
// value log. It runs as a background goroutine for the life of the process.
type CompactionService struct {
	store    *store.Store
	interval time.Duration
	stopChan chan struct{}
	log      *zap.Logger
}

// NewCompactionService creates a new compaction worker.
func NewCompactionService(st *store.Store, interval time.Duration, log *zap.Logger) *CompactionService {
	return &CompactionService{
		store:    st,
		interval: interval,
		stopChan: make(chan struct{}),
		log:      log,
	}
}

// Start begins the background worker. Call with 'go'.
func (s *CompactionService) Start() {
	s.log.Info("compaction service started", zap.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.store.RunGC(); err != nil {
				s.log.Warn("store compaction failed", zap.Error(err))
			}
		case <-s.stopChan:
			s.log.Info("compaction service stopped")
			return
		}
	}
}

// Stop gracefully shuts down the worker.
func (s *CompactionService) Stop() {
	close(s.stopChan)
}

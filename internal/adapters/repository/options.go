package repository

import (
	"time"

	"github.com/Waldoz-X/PrjEvaluacion360/pkg/logger"
)

// Option applies a configuration option to the SnapshotStore.
type Option func(*SnapshotStore)

// WithRefreshInterval reloads the dataset in the background at interval.
// Zero disables background refreshes.
func WithRefreshInterval(interval time.Duration) Option {
	return func(s *SnapshotStore) {
		if interval > 0 {
			s.refreshInterval = interval
		}
	}
}

// WithLogger sets the store logger.
func WithLogger(l logger.Logger) Option {
	return func(s *SnapshotStore) {
		if l != nil {
			s.log = l
		}
	}
}

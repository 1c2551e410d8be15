// Package repository holds the current survey dataset and swaps it
// atomically when it is reloaded.
package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Waldoz-X/PrjEvaluacion360/internal/domain/dataset"
	"github.com/Waldoz-X/PrjEvaluacion360/internal/domain/scoring"
	"github.com/Waldoz-X/PrjEvaluacion360/pkg/logger"
	"github.com/Waldoz-X/PrjEvaluacion360/pkg/metrics"
)

// Loader builds a fresh engine from the data source.
type Loader func(ctx context.Context) (*scoring.Engine, error)

// Store provides the engine over the current dataset.
type Store interface {
	// Engine returns the current engine. It is never nil; before a
	// successful load it serves an empty dataset.
	Engine() *scoring.Engine
	// Reload rebuilds the dataset and swaps it in only on success.
	Reload(ctx context.Context) (dataset.Summary, error)
	// Close stops background refreshes.
	Close() error
}

// SnapshotStore is a swap-on-read Store: readers load the pointer once and
// keep using that engine even while a reload publishes a new one.
type SnapshotStore struct {
	loader          Loader
	refreshInterval time.Duration
	log             logger.Logger

	current  atomic.Pointer[scoring.Engine]
	reloadMu sync.Mutex

	wg       sync.WaitGroup
	stopChan chan struct{}
	closed   atomic.Bool
}

// NewSnapshotStore performs the initial load and, when a refresh interval is
// set, keeps reloading in the background. A failed initial load is logged and
// leaves an empty dataset in place.
func NewSnapshotStore(ctx context.Context, loader Loader, opts ...Option) *SnapshotStore {
	s := &SnapshotStore{
		loader:   loader,
		log:      logger.Get().Named("repository"),
		stopChan: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.current.Store(scoring.NewEngine(dataset.Build(ctx, dataset.Table{})))

	if _, err := s.Reload(ctx); err != nil {
		s.log.Error(ctx, "initial dataset load failed, serving empty dataset", logger.Error(err))
	}
	if s.refreshInterval > 0 {
		s.startPeriodicRefresh(ctx)
	}
	return s
}

// Engine implements Store.
func (s *SnapshotStore) Engine() *scoring.Engine { return s.current.Load() }

// Reload implements Store. Concurrent reloads are serialized.
func (s *SnapshotStore) Reload(ctx context.Context) (dataset.Summary, error) {
	if s.closed.Load() {
		return dataset.Summary{}, ErrClosed
	}
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	start := time.Now()
	e, err := s.loader(ctx)
	if err == nil && e == nil {
		err = ErrNilEngine
	}
	if err != nil {
		metrics.RecordDatasetRefresh("error")
		metrics.RecordErrorByComponent("repository", "reload")
		return s.Engine().Dataset().Summary(), err
	}
	s.current.Store(e)

	sum := e.Dataset().Summary()
	metrics.RecordDatasetRefresh("ok")
	metrics.UpdateDatasetShape(sum.Responses, sum.Subjects, sum.Competencies)
	metrics.RecordDuplicateResponses(sum.Duplicates)
	s.log.Info(ctx, "dataset loaded",
		logger.String("source", sum.Source),
		logger.Int("responses", sum.Responses),
		logger.Int("subjects", sum.Subjects),
		logger.Int("competencies", sum.Competencies),
		logger.Int("duplicates", sum.Duplicates),
		logger.Duration("took", time.Since(start)),
	)
	return sum, nil
}

func (s *SnapshotStore) startPeriodicRefresh(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.refreshInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				if _, err := s.Reload(ctx); err != nil {
					s.log.Warn(ctx, "dataset refresh failed, keeping previous", logger.Error(err))
				}
			}
		}
	}()
}

// Close implements Store.
func (s *SnapshotStore) Close() error {
	if s.closed.CompareAndSwap(false, true) {
		close(s.stopChan)
	}
	s.wg.Wait()
	return nil
}

var _ Store = (*SnapshotStore)(nil)

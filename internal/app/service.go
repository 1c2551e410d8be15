// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Waldoz-X/PrjEvaluacion360/internal/adapters/mq/queue"
	"github.com/Waldoz-X/PrjEvaluacion360/internal/adapters/mq/worker"
	"github.com/Waldoz-X/PrjEvaluacion360/internal/adapters/provider"
	"github.com/Waldoz-X/PrjEvaluacion360/internal/adapters/render"
	"github.com/Waldoz-X/PrjEvaluacion360/internal/adapters/repository"
	"github.com/Waldoz-X/PrjEvaluacion360/internal/adapters/storage"
	"github.com/Waldoz-X/PrjEvaluacion360/internal/domain/competency"
	"github.com/Waldoz-X/PrjEvaluacion360/internal/domain/dataset"
	"github.com/Waldoz-X/PrjEvaluacion360/internal/domain/dedupe"
	"github.com/Waldoz-X/PrjEvaluacion360/internal/domain/model"
	"github.com/Waldoz-X/PrjEvaluacion360/internal/domain/scoring"
	"github.com/Waldoz-X/PrjEvaluacion360/pkg/logger"
	"github.com/Waldoz-X/PrjEvaluacion360/pkg/metrics"
)

const (
	defaultQueueSize     = 256
	defaultMaxPopulation = 500
	defaultTextTab       = "Respuestas de formulario 1"
	defaultNumericTab    = "Base de Datos Limpia"
	stopTimeout          = 30 * time.Second
)

// Service implements the API dependencies for the evaluation system.
type Service struct {
	mu sync.RWMutex

	// Core components
	store *repository.SnapshotStore
	jobs  *repository.MemoryJobStore
	queue *queue.InMemoryQueue
	pool  *worker.Pool

	// Data source
	provider        provider.Provider
	sink            storage.Sink
	textTab         string
	numericTab      string
	tabMode         provider.Mode
	excludePatterns []string
	excluder        *competency.Excluder
	dedupeResponses bool

	// Configuration
	defaults        scoring.Weights
	refreshInterval time.Duration
	workerCount     int
	queueSize       int
	jobRetention    int
	maxPopulation   int

	// State
	started bool
	now     func() time.Time

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithProvider sets the survey data source.
func WithProvider(p provider.Provider) Option {
	return func(s *Service) { s.provider = p }
}

// WithSink sets where generated reports are stored.
func WithSink(sink storage.Sink) Option {
	return func(s *Service) { s.sink = sink }
}

// WithTabs names the text and numeric tabs and how they are combined.
func WithTabs(textTab, numericTab string, mode provider.Mode) Option {
	return func(s *Service) {
		if textTab != "" {
			s.textTab = textTab
		}
		if numericTab != "" {
			s.numericTab = numericTab
		}
		if mode != "" {
			s.tabMode = mode
		}
	}
}

// WithExcludePatterns adds glob patterns for columns that are never competencies.
func WithExcludePatterns(patterns ...string) Option {
	return func(s *Service) { s.excludePatterns = append(s.excludePatterns, patterns...) }
}

// WithDedupeResponses drops identical responses after the tabs are combined.
func WithDedupeResponses(enabled bool) Option {
	return func(s *Service) { s.dedupeResponses = enabled }
}

// WithDefaultWeights sets the weights used when a request omits them.
func WithDefaultWeights(w scoring.Weights) Option {
	return func(s *Service) { s.defaults = w }
}

// WithRefreshInterval reloads the dataset periodically; zero disables it.
func WithRefreshInterval(d time.Duration) Option {
	return func(s *Service) { s.refreshInterval = d }
}

// WithWorkerCount sets the number of report workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum number of pending report jobs.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithJobRetention caps how many report jobs are remembered.
func WithJobRetention(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.jobRetention = n
		}
	}
}

// WithMaxPopulation caps the subjects in the talent matrix and ranking.
func WithMaxPopulation(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxPopulation = n
		}
	}
}

// WithClock overrides time.Now for load and job timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		textTab:       defaultTextTab,
		numericTab:    defaultNumericTab,
		tabMode:       provider.ModeUnion,
		defaults:      scoring.DefaultWeights(),
		workerCount:   runtime.NumCPU(),
		queueSize:     defaultQueueSize,
		maxPopulation: defaultMaxPopulation,
		now:           time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoadEngine reads both tabs from the provider and builds a fresh engine.
// It does not need Start and backs both the snapshot store and the CLI.
func (s *Service) LoadEngine(ctx context.Context) (*scoring.Engine, error) {
	if s.provider == nil {
		return nil, ErrNoProvider
	}
	ex, err := s.compileExcluder()
	if err != nil {
		return nil, err
	}

	var loadOpts []provider.LoadOption
	if s.logger != nil {
		loadOpts = append(loadOpts, provider.WithLoadLogger(s.logger.Named("provider")))
	}
	table, err := provider.LoadTabs(ctx, s.provider, s.textTab, s.numericTab, s.tabMode, loadOpts...)
	if err != nil {
		return nil, err
	}

	opts := []dataset.Option{dataset.WithExcluder(ex), dataset.WithLoadedAt(s.now())}
	if s.dedupeResponses {
		// Fresh per load so a reload re-evaluates every response.
		opts = append(opts, dataset.WithDeduper(dedupe.NewInMemoryDeduper()))
	}
	ds := dataset.Build(ctx, table, opts...)
	return scoring.NewEngine(ds, scoring.WithMaxPopulation(s.maxPopulation)), nil
}

func (s *Service) compileExcluder() (*competency.Excluder, error) {
	if s.excluder != nil {
		return s.excluder, nil
	}
	ex, err := competency.NewExcluder(s.excludePatterns...)
	if err != nil {
		return nil, fmt.Errorf("exclude_columns: %w", err)
	}
	s.excluder = ex
	return ex, nil
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if s.provider == nil {
		return ErrNoProvider
	}
	if s.sink == nil {
		return ErrNoSink
	}
	if _, err := s.defaults.Normalize(); err != nil {
		return fmt.Errorf("default weights: %w", err)
	}
	if _, err := s.compileExcluder(); err != nil {
		return err
	}

	s.logger.Info(ctx, "starting evaluation service...",
		logger.String("source", s.provider.Name()),
		logger.String("sink", s.sink.Name()),
	)

	s.store = repository.NewSnapshotStore(ctx, s.LoadEngine,
		repository.WithRefreshInterval(s.refreshInterval),
		repository.WithLogger(s.logger.Named("repository")),
	)
	s.jobs = repository.NewMemoryJobStore(s.jobRetention)
	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.pool = worker.NewPool(s.workerCount, s.queue, s.store, s.sink, s.jobs,
		worker.WithLogger(s.logger.Named("worker")),
		worker.WithClock(s.now),
	)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "evaluation service started",
		logger.Int("workers", s.pool.Size()),
		logger.Int("queueSize", s.queueSize),
		logger.Duration("refreshInterval", s.refreshInterval),
	)
	return nil
}

// Stop drains pending report jobs and stops background refreshes.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()

	s.logger.Info(ctx, "stopping evaluation service...")

	if err := s.pool.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "report workers did not drain", logger.Error(err))
	}
	if err := s.store.Close(); err != nil {
		s.logger.Warn(ctx, "closing dataset store", logger.Error(err))
	}

	s.started = false
	s.logger.Info(ctx, "evaluation service stopped")
}

// Engine returns the engine over the current dataset. Before Start it serves
// an empty dataset.
func (s *Service) Engine() *scoring.Engine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.store == nil {
		return scoring.NewEngine(dataset.Build(context.Background(), dataset.Table{}))
	}
	return s.store.Engine()
}

// DefaultWeights returns the configured default rater-group weights.
func (s *Service) DefaultWeights() scoring.Weights { return s.defaults }

// Reload rebuilds the dataset from the provider. On failure the previous
// dataset keeps serving.
func (s *Service) Reload(ctx context.Context) (dataset.Summary, error) {
	s.mu.RLock()
	store := s.store
	s.mu.RUnlock()
	if store == nil {
		return dataset.Summary{}, ErrNotStarted
	}
	return store.Reload(ctx)
}

// SubmitReport checks that the report can be produced, records a queued job
// and hands it to the workers. A job that cannot be queued is forgotten.
func (s *Service) SubmitReport(ctx context.Context, subject string, w scoring.Weights, format string) (model.ReportJob, error) { //nolint:gocritic // hugeParam: weights are a small value type
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return model.ReportJob{}, ErrNotStarted
	}

	f, err := render.ParseFormat(format)
	if err != nil {
		return model.ReportJob{}, err
	}
	// Scoring up front surfaces invalid weights, unknown subjects and
	// schema problems synchronously instead of as failed jobs.
	if _, err := s.store.Engine().Score(ctx, subject, w); err != nil {
		return model.ReportJob{}, err
	}

	j := model.ReportJob{
		ID:      uuid.NewString(),
		Subject: subject,
		Weights: w,
		Format:  string(f),
		Status:  model.JobQueued,
		Created: s.now().UTC(),
	}
	if err := s.jobs.Put(ctx, j); err != nil {
		return model.ReportJob{}, err
	}
	if err := s.queue.Enqueue(ctx, j); err != nil {
		s.jobs.Delete(ctx, j.ID)
		s.logger.Debug(ctx, "report job rejected",
			logger.String("subject", subject),
			logger.String("format", j.Format),
			logger.Error(err),
		)
		return model.ReportJob{}, err
	}

	s.logger.Debug(ctx, "report job queued",
		logger.String("id", j.ID),
		logger.String("subject", subject),
		logger.String("format", j.Format),
	)
	return j, nil
}

// ReportJob returns the current state of a report job.
func (s *Service) ReportJob(ctx context.Context, id string) (model.ReportJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.jobs == nil {
		return model.ReportJob{}, repository.ErrJobNotFound
	}
	return s.jobs.Get(ctx, id)
}

// OpenReport opens a stored report artifact.
func (s *Service) OpenReport(ctx context.Context, key string) (io.ReadCloser, error) {
	if s.sink == nil {
		return nil, ErrNoSink
	}
	return s.sink.Open(ctx, key)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":               s.started,
		"report_workers":        s.workerCount,
		"report_queue_capacity": s.queueSize,
		"default_weights":       s.defaults,
	}
	if s.provider != nil {
		stats["source"] = s.provider.Name()
	}
	if s.sink != nil {
		stats["sink"] = s.sink.Name()
	}

	if s.started {
		queueLen := s.queue.Len()
		stats["dataset"] = s.store.Engine().Dataset().Summary()
		stats["report_queue_size"] = queueLen
		stats["report_jobs"] = s.jobs.Len()
		stats["report_workers"] = s.pool.Size()

		metrics.UpdateReportQueue(queueLen, s.queue.Capacity())
	}
	return stats
}

// Package worker renders queued report jobs and stores the artifacts.
package worker

import (
	"bytes"
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/Waldoz-X/PrjEvaluacion360/internal/adapters/mq/queue"
	"github.com/Waldoz-X/PrjEvaluacion360/internal/adapters/render"
	"github.com/Waldoz-X/PrjEvaluacion360/internal/adapters/storage"
	"github.com/Waldoz-X/PrjEvaluacion360/internal/domain/model"
	"github.com/Waldoz-X/PrjEvaluacion360/internal/domain/report"
	"github.com/Waldoz-X/PrjEvaluacion360/internal/domain/scoring"
	"github.com/Waldoz-X/PrjEvaluacion360/pkg/logger"
	"github.com/Waldoz-X/PrjEvaluacion360/pkg/metrics"
)

const poolShutdownTimeout = 30 * time.Second

// Job is what workers read off the queue.
type Job = queue.Job

// Engines hands out the engine over the current dataset.
type Engines interface {
	Engine() *scoring.Engine
}

// Tracker records job progress.
type Tracker interface {
	Update(ctx context.Context, id string, fn func(*model.ReportJob)) (model.ReportJob, error)
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Job
}

// Worker processes report jobs until the queue closes.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown stops the worker after the job in progress.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker.
type InMemoryWorker struct {
	queue   Queue
	engines Engines
	sink    storage.Sink
	tracker Tracker
	name    string
	now     func() time.Time

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, engines Engines, sink storage.Sink, tracker Tracker, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    q,
		engines:  engines,
		sink:     sink,
		tracker:  tracker,
		name:     "worker",
		now:      time.Now,
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case j, ok := <-jobs:
			if !ok {
				return
			}
			// A started job completes or fails; it is not canceled.
			if err := w.Process(context.WithoutCancel(ctx), j); err != nil {
				w.logger.Error(ctx, "report job failed",
					logger.String("job_id", j.ID),
					logger.String("subject", j.Subject),
					logger.Error(err),
				)
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	close(w.shutdown)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Process renders one job into the sink and records its outcome.
func (w *InMemoryWorker) Process(ctx context.Context, j Job) error { //nolint:gocritic // hugeParam: jobs travel by value over the channel
	start := time.Now()
	w.track(ctx, j.ID, func(rj *model.ReportJob) { rj.Status = model.JobRunning })

	key, n, err := w.generate(ctx, j)
	latency := float64(time.Since(start).Milliseconds())
	if err != nil {
		metrics.RecordReportJob(j.Format, "failed", latency)
		metrics.RecordErrorByComponent("worker", "report_failed")
		metrics.RecordErrorByType("report_failed", "medium")
		w.track(ctx, j.ID, func(rj *model.ReportJob) {
			rj.Status = model.JobFailed
			rj.Error = err.Error()
			rj.Finished = w.now()
		})
		return fmt.Errorf("job %s: %w", j.ID, err)
	}

	metrics.RecordReportJob(j.Format, "done", latency)
	w.track(ctx, j.ID, func(rj *model.ReportJob) {
		rj.Status = model.JobDone
		rj.Key = key
		rj.Bytes = n
		rj.Finished = w.now()
	})
	w.logger.Debug(ctx, "report stored",
		logger.String("job_id", j.ID),
		logger.String("key", key),
		logger.Int("bytes", int(n)),
	)
	return nil
}

func (w *InMemoryWorker) generate(ctx context.Context, j Job) (string, int64, error) { //nolint:gocritic // hugeParam: see Process
	format, err := render.ParseFormat(j.Format)
	if err != nil {
		return "", 0, err
	}
	r, err := render.For(format)
	if err != nil {
		return "", 0, err
	}
	rep, err := report.Generate(ctx, w.engines.Engine(), j.Subject, j.Weights, report.WithGeneratedAt(w.now()))
	if err != nil {
		return "", 0, err
	}

	var buf bytes.Buffer
	if err := r.Render(&buf, rep); err != nil {
		return "", 0, err
	}
	key := Key(j.ID, r.Extension())
	n, err := w.sink.Put(ctx, key, r.ContentType(), &buf)
	if err != nil {
		return "", 0, fmt.Errorf("store %s in %s: %w", key, w.sink.Name(), err)
	}
	return key, n, nil
}

func (w *InMemoryWorker) track(ctx context.Context, id string, fn func(*model.ReportJob)) {
	if _, err := w.tracker.Update(ctx, id, fn); err != nil {
		w.logger.Warn(ctx, "job status not recorded", logger.String("job_id", id), logger.Error(err))
	}
}

// Key is the storage key of a job's artifact.
func Key(jobID, ext string) string { return jobID + ext }

// Pool manages multiple workers.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue
	logger  logger.Logger
}

// NewPool creates a pool of workerCount workers; workerCount < 1 uses one
// per CPU.
func NewPool(workerCount int, q Queue, engines Engines, sink storage.Sink, tracker Tracker, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}

	pool := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   q,
		logger:  logger.Get().Named("worker-pool"),
	}
	for i := 0; i < workerCount; i++ {
		wopts := append([]Option{WithName("worker-" + strconv.Itoa(i))}, opts...)
		pool.workers[i] = NewInMemoryWorker(q, engines, sink, tracker, wopts...)
	}

	metrics.UpdateReportWorkers(workerCount)
	return pool
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Shutdown closes the queue and waits for the workers to drain it.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	var timedOut bool
	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			timedOut = true
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}
	metrics.UpdateReportWorkers(0)
	if timedOut {
		return fmt.Errorf("worker pool shutdown: %w", shutdownCtx.Err())
	}
	return nil
}

package worker_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	queue "github.com/Waldoz-X/PrjEvaluacion360/internal/adapters/mq/queue"
	worker "github.com/Waldoz-X/PrjEvaluacion360/internal/adapters/mq/worker"
	"github.com/Waldoz-X/PrjEvaluacion360/internal/adapters/repository"
	"github.com/Waldoz-X/PrjEvaluacion360/internal/adapters/storage"
	"github.com/Waldoz-X/PrjEvaluacion360/internal/domain/dataset"
	"github.com/Waldoz-X/PrjEvaluacion360/internal/domain/model"
	"github.com/Waldoz-X/PrjEvaluacion360/internal/domain/scoring"
	logging "github.com/Waldoz-X/PrjEvaluacion360/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

type fixedEngines struct{ e *scoring.Engine }

func (f fixedEngines) Engine() *scoring.Engine { return f.e }

func testEngines() fixedEngines {
	header := []string{"Evaluado", "Relación", "Liderazgo", "Trabajo en equipo"}
	rows := [][]string{
		{"Ana", "Jefe", "5", "4"},
		{"Ana", "Par", "4", "4"},
		{"Bea", "Jefe", "3", "2"},
	}
	return fixedEngines{scoring.NewEngine(dataset.Build(context.Background(), dataset.NewTable("t", header, rows)))}
}

type failingSink struct{}

func (failingSink) Name() string { return "broken" }

func (failingSink) Put(context.Context, string, string, io.Reader) (int64, error) {
	return 0, errors.New("disk full")
}

func (failingSink) Open(context.Context, string) (io.ReadCloser, error) {
	return nil, storage.ErrNotFound
}

func submit(jobs *repository.MemoryJobStore, id, subject, format string) queue.Job {
	j := model.ReportJob{ID: id, Subject: subject, Format: format, Weights: scoring.DefaultWeights(), Status: model.JobQueued}
	_ = jobs.Put(context.Background(), j)
	return j
}

func waitTerminal(jobs *repository.MemoryJobStore, id string) model.ReportJob {
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if j, err := jobs.Get(context.Background(), id); err == nil && j.Status.Terminal() {
			return j
		}
		time.Sleep(5 * time.Millisecond)
	}
	j, _ := jobs.Get(context.Background(), id)
	return j
}

func TestInMemoryWorker(t *testing.T) {
	convey.Convey("Given a worker over a local sink", t, func() {
		ctx := context.Background()
		sink := storage.NewLocal(t.TempDir())
		jobs := repository.NewMemoryJobStore(0)
		q := queue.NewInMemoryQueue(queue.WithCapacity(8))
		at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		w := worker.NewInMemoryWorker(q, testEngines(), sink, jobs,
			worker.WithName("test-worker"),
			worker.WithLogger(logging.Nop()),
			worker.WithClock(func() time.Time { return at }),
		)

		convey.Convey("When processing an HTML job", func() {
			j := submit(jobs, "job-1", "Ana", "html")
			err := w.Process(ctx, j)

			convey.Convey("Then the artifact is stored and the job is done", func() {
				convey.So(err, convey.ShouldBeNil)
				got, _ := jobs.Get(ctx, "job-1")
				convey.So(got.Status, convey.ShouldEqual, model.JobDone)
				convey.So(got.Key, convey.ShouldEqual, "job-1.html")
				convey.So(got.Bytes, convey.ShouldBeGreaterThan, 0)
				convey.So(got.Finished, convey.ShouldEqual, at)

				rc, err := sink.Open(ctx, got.Key)
				convey.So(err, convey.ShouldBeNil)
				defer rc.Close()
				body, _ := io.ReadAll(rc)
				convey.So(string(body), convey.ShouldContainSubstring, "<svg")
				convey.So(int64(len(body)), convey.ShouldEqual, got.Bytes)
			})
		})

		convey.Convey("When the subject has no data", func() {
			j := submit(jobs, "job-2", "Zoe", "json")
			err := w.Process(ctx, j)

			convey.Convey("Then the job fails with the reason", func() {
				convey.So(errors.Is(err, scoring.ErrNoData), convey.ShouldBeTrue)
				got, _ := jobs.Get(ctx, "job-2")
				convey.So(got.Status, convey.ShouldEqual, model.JobFailed)
				convey.So(got.Error, convey.ShouldContainSubstring, "Zoe")
				convey.So(got.Key, convey.ShouldBeEmpty)
			})
		})

		convey.Convey("When the format is unknown", func() {
			j := submit(jobs, "job-3", "Ana", "pdf")
			err := w.Process(ctx, j)

			convey.Convey("Then the job fails", func() {
				convey.So(err, convey.ShouldNotBeNil)
				got, _ := jobs.Get(ctx, "job-3")
				convey.So(got.Status, convey.ShouldEqual, model.JobFailed)
			})
		})

		convey.Convey("When running the worker loop", func() {
			runCtx, cancel := context.WithCancel(ctx)
			defer cancel()
			go w.Run(runCtx)

			j := submit(jobs, "job-4", "Bea", "text")
			convey.So(q.Enqueue(ctx, j), convey.ShouldBeNil)

			convey.Convey("Then queued jobs are processed", func() {
				got := waitTerminal(jobs, "job-4")
				convey.So(got.Status, convey.ShouldEqual, model.JobDone)
				convey.So(strings.HasSuffix(got.Key, ".txt"), convey.ShouldBeTrue)
			})

			convey.Convey("And when shutting down", func() {
				shutdownCtx, done := context.WithTimeout(ctx, time.Second)
				defer done()
				convey.So(w.Shutdown(shutdownCtx), convey.ShouldBeNil)
			})
		})

		convey.Convey("When context is cancelled", func() {
			runCtx, cancel := context.WithCancel(ctx)
			finished := make(chan struct{})
			go func() {
				w.Run(runCtx)
				close(finished)
			}()
			cancel()

			convey.Convey("Then worker should stop", func() {
				select {
				case <-finished:
				case <-time.After(time.Second):
					t.Fatal("worker did not stop")
				}
			})
		})
	})

	convey.Convey("Given a sink that fails", t, func() {
		ctx := context.Background()
		jobs := repository.NewMemoryJobStore(0)
		w := worker.NewInMemoryWorker(queue.NewInMemoryQueue(), testEngines(), failingSink{}, jobs, worker.WithLogger(logging.Nop()))
		j := submit(jobs, "job-5", "Ana", "json")

		convey.Convey("Then the job is marked failed", func() {
			err := w.Process(ctx, j)
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(err.Error(), convey.ShouldContainSubstring, "broken")
			got, _ := jobs.Get(ctx, "job-5")
			convey.So(got.Status, convey.ShouldEqual, model.JobFailed)
		})
	})
}

func TestWorkerPool(t *testing.T) {
	convey.Convey("Given a started pool", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		jobs := repository.NewMemoryJobStore(0)
		q := queue.NewInMemoryQueue(queue.WithCapacity(64))
		pool := worker.NewPool(4, q, testEngines(), storage.NewLocal(t.TempDir()), jobs, worker.WithLogger(logging.Nop()))
		convey.So(pool.Size(), convey.ShouldEqual, 4)
		pool.Start(ctx)

		convey.Convey("When many jobs are queued concurrently", func() {
			const n = 20
			var wg sync.WaitGroup
			for i := 0; i < n; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					subject := []string{"Ana", "Bea"}[i%2]
					format := []string{"html", "json", "text", "json", "html"}[i%5]
					id := "job-" + strings.Repeat("x", i+1)
					j := submit(jobs, id, subject, format)
					j.Weights.Self = float64(i + 1)
					_, _ = jobs.Update(context.Background(), id, func(rj *model.ReportJob) { rj.Weights = j.Weights })
					_ = q.Enqueue(context.Background(), j)
				}(i)
			}
			wg.Wait()

			convey.Convey("Then every job finishes and shutdown drains the queue", func() {
				convey.So(pool.Shutdown(context.Background()), convey.ShouldBeNil)
				for i := 0; i < n; i++ {
					got := waitTerminal(jobs, "job-"+strings.Repeat("x", i+1))
					convey.So(got.Status, convey.ShouldEqual, model.JobDone)
				}
			})
		})
	})

	convey.Convey("Given a pool with a non-positive size", t, func() {
		pool := worker.NewPool(0, queue.NewInMemoryQueue(), testEngines(), failingSink{}, repository.NewMemoryJobStore(0))

		convey.Convey("Then it sizes itself to the machine", func() {
			convey.So(pool.Size(), convey.ShouldBeGreaterThan, 0)
		})
	})
}

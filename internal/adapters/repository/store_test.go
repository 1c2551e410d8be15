package repository_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Waldoz-X/PrjEvaluacion360/internal/adapters/repository"
	"github.com/Waldoz-X/PrjEvaluacion360/internal/domain/dataset"
	"github.com/Waldoz-X/PrjEvaluacion360/internal/domain/scoring"
	"github.com/Waldoz-X/PrjEvaluacion360/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func engineWith(subjects ...string) *scoring.Engine {
	rows := make([][]string, len(subjects))
	for i, s := range subjects {
		rows[i] = []string{s, "Jefe", "4"}
	}
	t := dataset.NewTable("t", []string{"Evaluado", "Relación", "Liderazgo"}, rows)
	return scoring.NewEngine(dataset.Build(context.Background(), t))
}

func TestSnapshotStore(t *testing.T) {
	ctx := context.Background()

	Convey("Given a loader that succeeds", t, func() {
		var calls atomic.Int32
		loader := func(context.Context) (*scoring.Engine, error) {
			if calls.Add(1) == 1 {
				return engineWith("Ana"), nil
			}
			return engineWith("Ana", "Luis"), nil
		}
		s := repository.NewSnapshotStore(ctx, loader, repository.WithLogger(logger.Nop()))
		defer s.Close()

		Convey("The initial load is served", func() {
			subjects, err := s.Engine().Subjects()
			So(err, ShouldBeNil)
			So(subjects, ShouldResemble, []string{"Ana"})
		})

		Convey("Reload swaps in the new dataset", func() {
			held := s.Engine()
			sum, err := s.Reload(ctx)
			So(err, ShouldBeNil)
			So(sum.Subjects, ShouldEqual, 2)
			subjects, _ := s.Engine().Subjects()
			So(subjects, ShouldResemble, []string{"Ana", "Luis"})

			// Readers holding the old engine keep a consistent view.
			old, _ := held.Subjects()
			So(old, ShouldResemble, []string{"Ana"})
		})
	})

	Convey("Given a loader that fails after the first load", t, func() {
		var calls atomic.Int32
		boom := errors.New("sheet offline")
		loader := func(context.Context) (*scoring.Engine, error) {
			if calls.Add(1) == 1 {
				return engineWith("Ana"), nil
			}
			return nil, boom
		}
		s := repository.NewSnapshotStore(ctx, loader, repository.WithLogger(logger.Nop()))
		defer s.Close()

		Convey("The previous dataset stays in place", func() {
			sum, err := s.Reload(ctx)
			So(errors.Is(err, boom), ShouldBeTrue)
			So(sum.Subjects, ShouldEqual, 1)
			So(s.Engine().Dataset().Len(), ShouldEqual, 1)
		})
	})

	Convey("Given a loader that never succeeds", t, func() {
		s := repository.NewSnapshotStore(ctx, func(context.Context) (*scoring.Engine, error) {
			return nil, errors.New("no tabs")
		}, repository.WithLogger(logger.Nop()))
		defer s.Close()

		Convey("An empty dataset is served instead of crashing", func() {
			So(s.Engine(), ShouldNotBeNil)
			So(s.Engine().Dataset().Empty(), ShouldBeTrue)
			_, err := s.Engine().Score(ctx, "Ana", scoring.DefaultWeights())
			So(err, ShouldNotBeNil)
		})
	})

	Convey("Given a loader returning a nil engine", t, func() {
		s := repository.NewSnapshotStore(ctx, func(context.Context) (*scoring.Engine, error) {
			return nil, nil
		}, repository.WithLogger(logger.Nop()))
		defer s.Close()

		Convey("Reload reports it", func() {
			_, err := s.Reload(ctx)
			So(errors.Is(err, repository.ErrNilEngine), ShouldBeTrue)
		})
	})

	Convey("Given a background refresh interval", t, func() {
		var calls atomic.Int32
		loader := func(context.Context) (*scoring.Engine, error) {
			calls.Add(1)
			return engineWith("Ana"), nil
		}
		s := repository.NewSnapshotStore(ctx, loader,
			repository.WithRefreshInterval(10*time.Millisecond),
			repository.WithLogger(logger.Nop()))

		Convey("The dataset is reloaded until Close", func() {
			time.Sleep(80 * time.Millisecond)
			So(s.Close(), ShouldBeNil)
			n := calls.Load()
			So(n, ShouldBeGreaterThan, 1)
			time.Sleep(30 * time.Millisecond)
			So(calls.Load(), ShouldEqual, n)

			_, err := s.Reload(ctx)
			So(errors.Is(err, repository.ErrClosed), ShouldBeTrue)
		})
	})

	Convey("Given concurrent readers during reloads", t, func() {
		s := repository.NewSnapshotStore(ctx, func(context.Context) (*scoring.Engine, error) {
			return engineWith("Ana", "Luis"), nil
		}, repository.WithLogger(logger.Nop()))
		defer s.Close()

		var wg sync.WaitGroup
		var failures atomic.Int32
		for i := 0; i < 8; i++ {
			wg.Add(2)
			go func() {
				defer wg.Done()
				_, _ = s.Reload(ctx)
			}()
			go func() {
				defer wg.Done()
				if _, err := s.Engine().Score(ctx, "Luis", scoring.DefaultWeights()); err != nil {
					failures.Add(1)
				}
			}()
		}
		wg.Wait()

		Convey("Every read sees a complete dataset", func() {
			So(failures.Load(), ShouldEqual, 0)
		})
	})
}

package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Waldoz-X/PrjEvaluacion360/internal/adapters/provider"
	"github.com/Waldoz-X/PrjEvaluacion360/internal/adapters/storage"
	service "github.com/Waldoz-X/PrjEvaluacion360/internal/app"
	"github.com/Waldoz-X/PrjEvaluacion360/internal/config"
	"github.com/Waldoz-X/PrjEvaluacion360/internal/domain/dataset"
	"github.com/Waldoz-X/PrjEvaluacion360/internal/domain/scoring"
	"github.com/Waldoz-X/PrjEvaluacion360/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

var surveyHeader = []string{"Marca temporal", "Evaluado", "Relación", "Trabajo en equipo", "Toma de decisiones", "Comentarios"} //nolint:gochecknoglobals // fixture

// stubProvider serves tabs from memory and counts loads.
type stubProvider struct {
	mu    sync.Mutex
	tabs  map[string]dataset.Table
	loads int
}

func newStubProvider(tabs ...dataset.Table) *stubProvider {
	p := &stubProvider{tabs: make(map[string]dataset.Table)}
	for _, t := range tabs {
		p.tabs[t.Name] = t
	}
	return p
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) Load(_ context.Context, tab string) (dataset.Table, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.loads++
	t, ok := p.tabs[tab]
	if !ok {
		return dataset.Table{}, &provider.DataProviderError{Source: "stub", Tab: tab, Err: provider.ErrTabNotFound}
	}
	return t, nil
}

func (p *stubProvider) set(t dataset.Table) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tabs[t.Name] = t
}

func (p *stubProvider) remove(tab string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.tabs, tab)
}

func numericTab(rows ...[]string) dataset.Table {
	return dataset.NewTable("Base de Datos Limpia", surveyHeader, rows)
}

func defaultRows() [][]string {
	return [][]string{
		{"2024-01-01", "Ana", "Jefe", "5", "4", "bien"},
		{"2024-01-02", "Ana", "Compañero", "4", "4", ""},
		{"2024-01-03", "Luis", "Jefe", "3", "2", ""},
		{"2024-01-04", "Luis", "Autoevaluación", "4", "3", ""},
	}
}

func newTestService(t *testing.T, p provider.Provider, opts ...service.Option) *service.Service {
	t.Helper()
	base := []service.Option{
		service.WithProvider(p),
		service.WithSink(storage.NewLocal(t.TempDir())),
		service.WithWorkerCount(2),
		service.WithLogger(logger.Nop()),
	}
	return service.New(append(base, opts...)...)
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it should have sensible defaults", func() {
			So(svc, ShouldNotBeNil)
			So(svc.DefaultWeights(), ShouldResemble, scoring.DefaultWeights())
			stats := svc.GetStats()
			So(stats["started"], ShouldEqual, false)
			So(stats["report_queue_capacity"], ShouldEqual, 256)
		})

		Convey("And the engine serves an empty dataset before start", func() {
			So(svc.Engine(), ShouldNotBeNil)
			So(svc.Engine().Dataset().Empty(), ShouldBeTrue)
		})
	})

	Convey("Given a new service with custom options", t, func() {
		w := scoring.Weights{Manager: 1, Peers: 1}
		svc := service.New(
			service.WithWorkerCount(8),
			service.WithQueueSize(50),
			service.WithDefaultWeights(w),
		)

		Convey("Then the options are applied", func() {
			So(svc.DefaultWeights(), ShouldResemble, w)
			So(svc.GetStats()["report_workers"], ShouldEqual, 8)
			So(svc.GetStats()["report_queue_capacity"], ShouldEqual, 50)
		})
	})
}

func TestService_Start(t *testing.T) {
	Convey("Given a service without a provider", t, func() {
		svc := service.New(service.WithSink(storage.NewLocal(t.TempDir())))

		Convey("Then start fails", func() {
			So(errors.Is(svc.Start(context.Background()), service.ErrNoProvider), ShouldBeTrue)
		})
	})

	Convey("Given a service without a sink", t, func() {
		svc := service.New(service.WithProvider(newStubProvider()))

		Convey("Then start fails", func() {
			So(errors.Is(svc.Start(context.Background()), service.ErrNoSink), ShouldBeTrue)
		})
	})

	Convey("Given all-zero default weights", t, func() {
		svc := newTestService(t, newStubProvider(), service.WithDefaultWeights(scoring.Weights{}))

		Convey("Then start fails with a weight error", func() {
			So(errors.Is(svc.Start(context.Background()), scoring.ErrInvalidWeights), ShouldBeTrue)
		})
	})

	Convey("Given a malformed exclusion glob", t, func() {
		svc := newTestService(t, newStubProvider(), service.WithExcludePatterns("[unclosed"))

		Convey("Then start fails", func() {
			So(svc.Start(context.Background()), ShouldNotBeNil)
		})
	})

	Convey("Given a service over a stub provider", t, func() {
		svc := newTestService(t, newStubProvider(numericTab(defaultRows()...)))
		defer svc.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		Convey("When starting the service", func() {
			So(svc.Start(ctx), ShouldBeNil)

			Convey("Then the dataset is loaded", func() {
				subjects, err := svc.Engine().Subjects()
				So(err, ShouldBeNil)
				So(subjects, ShouldResemble, []string{"Ana", "Luis"})
			})

			Convey("And the stats describe it", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
				So(stats["source"], ShouldEqual, "stub")
				So(stats["report_queue_size"], ShouldEqual, 0)
				summary, ok := stats["dataset"].(dataset.Summary)
				So(ok, ShouldBeTrue)
				So(summary.Responses, ShouldEqual, 4)
			})

			Convey("And a second start is a no-op", func() {
				So(svc.Start(ctx), ShouldBeNil)
			})
		})
	})
}

func TestService_Stop(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := newTestService(t, newStubProvider(numericTab(defaultRows()...)))
		So(svc.Start(context.Background()), ShouldBeNil)

		Convey("When stopping the service", func() {
			svc.Stop()

			Convey("Then it should be marked as stopped", func() {
				So(svc.GetStats()["started"], ShouldEqual, false)
			})

			Convey("And new reports are refused", func() {
				_, err := svc.SubmitReport(context.Background(), "Ana", scoring.DefaultWeights(), "json")
				So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			})

			Convey("And stopping again is safe", func() {
				So(svc.Stop, ShouldNotPanic)
			})
		})
	})
}

func TestService_LoadEngine(t *testing.T) {
	Convey("Given tabs that overlap", t, func() {
		text := dataset.NewTable("Respuestas de formulario 1", surveyHeader, [][]string{
			{"2024-01-01", "Ana", "Jefe", "Totalmente de acuerdo", "De acuerdo", ""},
		})
		numeric := numericTab(
			[]string{"2024-01-01", "Ana", "Jefe", "5", "4", ""},
			[]string{"2024-01-02", "Luis", "Jefe", "3", "3", ""},
		)
		p := newStubProvider(text, numeric)

		Convey("Union mode keeps every response", func() {
			svc := service.New(service.WithProvider(p))
			e, err := svc.LoadEngine(context.Background())
			So(err, ShouldBeNil)
			So(e.Dataset().Len(), ShouldEqual, 3)
			So(e.Dataset().Duplicates(), ShouldEqual, 0)
		})

		Convey("Deduplication drops the repeated response", func() {
			svc := service.New(service.WithProvider(p), service.WithDedupeResponses(true))
			e, err := svc.LoadEngine(context.Background())
			So(err, ShouldBeNil)
			So(e.Dataset().Len(), ShouldEqual, 2)
			So(e.Dataset().Duplicates(), ShouldEqual, 1)
		})

		Convey("Prefer mode uses only the numeric tab", func() {
			svc := service.New(service.WithProvider(p), service.WithTabs("", "", provider.ModePrefer))
			e, err := svc.LoadEngine(context.Background())
			So(err, ShouldBeNil)
			So(e.Dataset().Len(), ShouldEqual, 2)
		})

		Convey("Exclusion patterns drop matching competencies", func() {
			svc := service.New(service.WithProvider(p), service.WithExcludePatterns("toma*"))
			e, err := svc.LoadEngine(context.Background())
			So(err, ShouldBeNil)
			So(e.Competencies(), ShouldResemble, []string{"Trabajo en equipo"})
		})
	})

	Convey("Given a provider with no tabs", t, func() {
		svc := service.New(service.WithProvider(newStubProvider()))

		Convey("Then loading fails with no data", func() {
			_, err := svc.LoadEngine(context.Background())
			So(errors.Is(err, provider.ErrNoData), ShouldBeTrue)
		})
	})

	Convey("Given no provider", t, func() {
		_, err := service.New().LoadEngine(context.Background())
		So(errors.Is(err, service.ErrNoProvider), ShouldBeTrue)
	})
}

func TestWiring(t *testing.T) {
	Convey("Given a default config", t, func() {
		ctx := context.Background()
		cfg := config.New(ctx)
		cfg.CSVDir = t.TempDir()
		cfg.ReportDir = t.TempDir()

		Convey("The csv provider and local sink are built", func() {
			p, closeFn, err := service.BuildProvider(ctx, cfg)
			So(err, ShouldBeNil)
			So(p.Name(), ShouldEqual, "csv")
			So(closeFn(), ShouldBeNil)

			sink, err := service.BuildSink(ctx, cfg)
			So(err, ShouldBeNil)
			So(sink.Name(), ShouldEqual, "local")
		})

		Convey("The sheets provider is built without network access", func() {
			cfg.Provider = config.ProviderSheets
			cfg.SheetID = "abc"
			cfg.SheetGID = "7"
			p, _, err := service.BuildProvider(ctx, cfg)
			So(err, ShouldBeNil)
			So(p.Name(), ShouldEqual, "sheets")

			sheets, ok := p.(*provider.Sheets)
			So(ok, ShouldBeTrue)
			So(sheets.ExportURL(cfg.TextTab), ShouldEndWith, "gid=7")
			So(sheets.ExportURL(cfg.NumericTab), ShouldNotContainSubstring, "gid=")
		})

		Convey("Unknown names are rejected", func() {
			cfg.Provider = "excel"
			_, _, err := service.BuildProvider(ctx, cfg)
			So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)

			cfg.ReportSink = "ftp"
			_, err = service.BuildSink(ctx, cfg)
			So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
		})

		Convey("Options carry the default weights", func() {
			cfg.WeightSelf = 10
			opts, err := service.OptionsFrom(cfg)
			So(err, ShouldBeNil)
			svc := service.New(opts...)
			So(svc.DefaultWeights(), ShouldResemble, scoring.Weights{Self: 10, Manager: 18, Peers: 30, Subordinates: 47})
		})

		Convey("An unknown tab mode is rejected", func() {
			cfg.TabMode = "merge"
			_, err := service.OptionsFrom(cfg)
			So(errors.Is(err, provider.ErrUnknownMode), ShouldBeTrue)
		})
	})
}

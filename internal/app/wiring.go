package service

import (
	"context"
	"fmt"

	"github.com/Waldoz-X/PrjEvaluacion360/internal/adapters/provider"
	"github.com/Waldoz-X/PrjEvaluacion360/internal/adapters/storage"
	"github.com/Waldoz-X/PrjEvaluacion360/internal/config"
	"github.com/Waldoz-X/PrjEvaluacion360/internal/domain/scoring"
	"github.com/Waldoz-X/PrjEvaluacion360/pkg/logger"
)

// BuildProvider opens the data source named by cfg.Provider. The returned
// close function releases the database for the postgres provider and is a
// no-op otherwise.
func BuildProvider(ctx context.Context, cfg *config.Config) (provider.Provider, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Provider {
	case config.ProviderCSV:
		return provider.NewCSV(cfg.CSVDir), noop, nil
	case config.ProviderSheets:
		opts := []provider.SheetsOption{provider.WithSheetsLogger(logger.Get().Named("sheets"))}
		if cfg.CredentialsPath != "" {
			opts = append(opts, provider.WithCredentialsFile(cfg.CredentialsPath))
		}
		if cfg.SheetGID != "" {
			opts = append(opts, provider.WithGID(cfg.TextTab, cfg.SheetGID))
		}
		return provider.NewSheets(cfg.SheetID, opts...), noop, nil
	case config.ProviderPostgres:
		db, err := provider.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return provider.NewPostgres(db), db.Close, nil
	default:
		return nil, nil, fmt.Errorf("%w: unknown provider %q", config.ErrInvalidConfig, cfg.Provider)
	}
}

// BuildSink creates the report sink named by cfg.ReportSink.
func BuildSink(ctx context.Context, cfg *config.Config) (storage.Sink, error) {
	switch cfg.ReportSink {
	case config.SinkLocal:
		return storage.NewLocal(cfg.ReportDir), nil
	case config.SinkS3:
		return storage.NewS3(ctx, cfg.S3Region, cfg.S3Bucket, cfg.S3Prefix)
	default:
		return nil, fmt.Errorf("%w: unknown report_sink %q", config.ErrInvalidConfig, cfg.ReportSink)
	}
}

// DefaultWeightsFrom returns the configured default rater-group weights.
func DefaultWeightsFrom(cfg *config.Config) scoring.Weights {
	return scoring.Weights{
		Self:         cfg.WeightSelf,
		Manager:      cfg.WeightManager,
		Peers:        cfg.WeightPeers,
		Subordinates: cfg.WeightSubordinates,
	}
}

// OptionsFrom maps the dataset and report settings of cfg to service
// options. The provider and sink are built separately because they own
// external resources.
func OptionsFrom(cfg *config.Config) ([]Option, error) {
	mode, err := provider.ParseMode(cfg.TabMode)
	if err != nil {
		return nil, err
	}
	return []Option{
		WithTabs(cfg.TextTab, cfg.NumericTab, mode),
		WithExcludePatterns(cfg.ExcludeColumns...),
		WithDedupeResponses(cfg.DedupeResponses),
		WithDefaultWeights(DefaultWeightsFrom(cfg)),
		WithRefreshInterval(cfg.RefreshInterval()),
		WithWorkerCount(cfg.ReportWorkers),
		WithQueueSize(cfg.ReportQueueSize),
		WithMaxPopulation(cfg.MaxPopulation),
	}, nil
}

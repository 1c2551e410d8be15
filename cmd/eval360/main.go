// Command eval360 scores 360 evaluations and renders reports from the terminal.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	service "github.com/Waldoz-X/PrjEvaluacion360/internal/app"
	"github.com/Waldoz-X/PrjEvaluacion360/internal/config"
	"github.com/Waldoz-X/PrjEvaluacion360/internal/domain/scoring"
	"github.com/Waldoz-X/PrjEvaluacion360/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// rootOptions are the persistent flags plus the configuration they resolve to.
type rootOptions struct {
	configFile  string
	provider    string
	csvDir      string
	databaseURL string
	logLevel    string

	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "eval360",
		Short: "Score 360 degree evaluations",
		Long: `eval360 reads 360 degree survey exports, scores every evaluated person
with weighted rater groups and renders their reports.

Configuration is layered like the server: defaults, then the YAML file named
by --config or EVAL360_CONFIG, then EVAL360_* environment variables, then the
flags below.

Examples:
  # Generate demo data and score it
  eval360 generate --dir data
  eval360 ranking --csv-dir data --limit 5

  # Render a report with custom weights
  eval360 report "Ana García" --format html --manager 40 --peers 60 -o ana.html`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.load(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "YAML config file (overrides "+config.EnvConfigFile+")")
	flags.StringVar(&opts.provider, "provider", "", "data source: csv, sheets or postgres")
	flags.StringVar(&opts.csvDir, "csv-dir", "", "directory holding <tab>.csv files")
	flags.StringVar(&opts.databaseURL, "database-url", "", "Postgres DSN")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "debug, info, warn or error")

	cmd.AddCommand(
		newSubjectsCmd(opts),
		newCompetenciesCmd(opts),
		newCategoriesCmd(opts),
		newScoreCmd(opts),
		newRankingCmd(opts),
		newReportCmd(opts),
		newGenerateCmd(opts),
		newMigrateCmd(opts),
		newImportCmd(opts),
	)
	return cmd
}

// load resolves the configuration and sets up logging on stderr.
func (o *rootOptions) load(cmd *cobra.Command) error {
	if err := logger.Init(logger.WithWriter(cmd.ErrOrStderr())); err != nil {
		return err
	}
	if err := logger.SetLevelString(o.logLevel); err != nil {
		return err
	}

	if o.configFile != "" {
		if err := os.Setenv(config.EnvConfigFile, o.configFile); err != nil {
			return err
		}
	}
	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return err
	}
	if o.provider != "" {
		cfg.Provider = o.provider
	}
	if o.csvDir != "" {
		cfg.CSVDir = o.csvDir
	}
	if o.databaseURL != "" {
		cfg.DatabaseURL = o.databaseURL
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	o.cfg = cfg
	return nil
}

// engine loads the survey once from the configured provider.
func (o *rootOptions) engine(ctx context.Context) (*scoring.Engine, error) {
	p, closeSource, err := service.BuildProvider(ctx, o.cfg)
	if err != nil {
		return nil, err
	}
	defer func() { _ = closeSource() }()

	svcOpts, err := service.OptionsFrom(o.cfg)
	if err != nil {
		return nil, err
	}
	svc := service.New(append(svcOpts, service.WithProvider(p))...)
	return svc.LoadEngine(ctx)
}

// weightFlags are the per-command rater-group weight overrides.
type weightFlags struct {
	self, manager, peers, subordinates float64
}

func (w *weightFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Float64Var(&w.self, "self", 0, "self-evaluation weight (default from config)")
	f.Float64Var(&w.manager, "manager", 0, "manager weight (default from config)")
	f.Float64Var(&w.peers, "peers", 0, "peers weight (default from config)")
	f.Float64Var(&w.subordinates, "subordinates", 0, "subordinates weight (default from config)")
}

// resolve starts from the configured defaults and applies the flags that
// were set explicitly.
func (w *weightFlags) resolve(cmd *cobra.Command, cfg *config.Config) scoring.Weights {
	out := service.DefaultWeightsFrom(cfg)
	f := cmd.Flags()
	if f.Changed("self") {
		out.Self = w.self
	}
	if f.Changed("manager") {
		out.Manager = w.manager
	}
	if f.Changed("peers") {
		out.Peers = w.peers
	}
	if f.Changed("subordinates") {
		out.Subordinates = w.subordinates
	}
	return out
}

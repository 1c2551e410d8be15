package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Waldoz-X/PrjEvaluacion360/internal/adapters/provider"
	"github.com/Waldoz-X/PrjEvaluacion360/internal/config"
)

func requireDatabase(cfg *config.Config) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("%w: database_url is required", config.ErrInvalidConfig)
	}
	return nil
}

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the Postgres schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireDatabase(opts.cfg); err != nil {
				return err
			}
			db, err := provider.OpenPostgres(cmd.Context(), opts.cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := provider.Migrate(cmd.Context(), db); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
			return nil
		},
	}
}

func newImportCmd(opts *rootOptions) *cobra.Command {
	var fromDir string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Copy CSV tabs into Postgres",
		Long: `Import reads <text_tab>.csv and <numeric_tab>.csv from --from-dir and
replaces the same tabs in Postgres. A missing file is skipped; the schema is
migrated first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireDatabase(opts.cfg); err != nil {
				return err
			}
			if fromDir == "" {
				fromDir = opts.cfg.CSVDir
			}
			ctx := cmd.Context()
			src := provider.NewCSV(fromDir)

			db, err := provider.OpenPostgres(ctx, opts.cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := provider.Migrate(ctx, db); err != nil {
				return err
			}
			pg := provider.NewPostgres(db)

			imported := 0
			for _, tab := range []string{opts.cfg.TextTab, opts.cfg.NumericTab} {
				t, err := src.Load(ctx, tab)
				if errors.Is(err, provider.ErrTabNotFound) {
					fmt.Fprintf(cmd.ErrOrStderr(), "skip %s: no file\n", tab)
					continue
				}
				if err != nil {
					return err
				}
				if err := pg.Import(ctx, tab, t); err != nil {
					return err
				}
				imported++
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d rows\n", tab, t.Len())
			}
			if imported == 0 {
				return fmt.Errorf("%w in %s", provider.ErrNoData, fromDir)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&fromDir, "from-dir", "", "directory holding the CSV tabs (default csv_dir)")
	return cmd
}

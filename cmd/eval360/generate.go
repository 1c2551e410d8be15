package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Waldoz-X/PrjEvaluacion360/internal/adapters/provider"
	"github.com/Waldoz-X/PrjEvaluacion360/internal/domain/dataset"
	"github.com/Waldoz-X/PrjEvaluacion360/internal/surveygen"
)

func newGenerateCmd(opts *rootOptions) *cobra.Command {
	cfg := surveygen.DefaultConfig()
	var dir string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a synthetic survey as CSV tabs",
		Long: `Generate writes <text_tab>.csv and <numeric_tab>.csv with synthetic
responses. The same seed always produces the same files.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if dir == "" {
				dir = opts.cfg.CSVDir
			}
			s, err := surveygen.Generate(cmd.Context(), cfg, opts.cfg.TextTab, opts.cfg.NumericTab)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return fmt.Errorf("create %s: %w", dir, err)
			}
			for _, t := range []dataset.Table{s.Text, s.Numeric} {
				path := filepath.Join(dir, t.Name+".csv")
				if err := writeTab(path, t); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d responses\n", path, t.Len())
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&dir, "dir", "", "output directory (default csv_dir)")
	f.IntVar(&cfg.Subjects, "subjects", cfg.Subjects, "number of evaluated people")
	f.IntVar(&cfg.MinRaters, "min-raters", cfg.MinRaters, "fewest raters besides the self-evaluation")
	f.IntVar(&cfg.MaxRaters, "max-raters", cfg.MaxRaters, "most raters besides the self-evaluation")
	f.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "random seed")
	f.Float64Var(&cfg.TextShare, "text-share", cfg.TextShare, "share of responses written to the text tab")
	f.Float64Var(&cfg.MissingRate, "missing-rate", cfg.MissingRate, "share of answers left blank")
	return cmd
}

func writeTab(path string, t dataset.Table) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()
	w := bufio.NewWriter(f)
	if err := provider.WriteCSV(w, t); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return w.Flush()
}

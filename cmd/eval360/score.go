package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Waldoz-X/PrjEvaluacion360/internal/adapters/render"
	"github.com/Waldoz-X/PrjEvaluacion360/internal/domain/report"
)

func newScoreCmd(opts *rootOptions) *cobra.Command {
	var (
		weights weightFlags
		asJSON  bool
	)
	cmd := &cobra.Command{
		Use:   "score <subject>",
		Short: "Score one evaluated person",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.engine(cmd.Context())
			if err != nil {
				return err
			}
			res, err := e.Score(cmd.Context(), args[0], weights.resolve(cmd, opts.cfg))
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), res)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: overall %.2f, potential %.2f, %s, %s (%d responses)\n",
				res.Subject, res.Overall, res.Potential, res.Aptitude.Tier, res.Quadrant.Kind, res.Responses)
			t := newTable("Category", "", "Score", "Achieved")
			for _, c := range res.Categories {
				t.Row(c.Category.String(), render.Bar(c.Score, c.Category.Color()),
					strconv.FormatFloat(c.Score, 'f', 2, 64), strconv.FormatFloat(c.Achieved, 'f', 1, 64)+"%")
			}
			fmt.Fprintln(out, t.Render())
			return nil
		},
	}
	weights.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full result as JSON")
	return cmd
}

func newRankingCmd(opts *rootOptions) *cobra.Command {
	var (
		weights weightFlags
		limit   int
		asJSON  bool
	)
	cmd := &cobra.Command{
		Use:   "ranking",
		Short: "Rank evaluated people by overall score",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := opts.engine(cmd.Context())
			if err != nil {
				return err
			}
			entries, err := e.Ranking(cmd.Context(), weights.resolve(cmd, opts.cfg), limit)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), entries)
			}
			t := newTable("#", "Subject", "Overall", "Potential", "Tier", "Quadrant")
			for _, r := range entries {
				t.Row(strconv.Itoa(r.Rank), r.Subject,
					strconv.FormatFloat(r.Overall, 'f', 2, 64), strconv.FormatFloat(r.Potential, 'f', 2, 64),
					r.Tier.String(), r.Quadrant.String())
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return nil
		},
	}
	weights.register(cmd)
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show at most n people (0 shows all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func newReportCmd(opts *rootOptions) *cobra.Command {
	var (
		weights weightFlags
		format  string
		output  string
	)
	cmd := &cobra.Command{
		Use:   "report <subject>",
		Short: "Render a full report",
		Long: `Render the report of one evaluated person as text (default for a
terminal), HTML with inline charts, or JSON.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := render.ParseFormat(format)
			if err != nil {
				return err
			}
			r, err := render.For(f)
			if err != nil {
				return err
			}
			e, err := opts.engine(cmd.Context())
			if err != nil {
				return err
			}
			rep, err := report.Generate(cmd.Context(), e, args[0], weights.resolve(cmd, opts.cfg))
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			if err := r.Render(&buf, rep); err != nil {
				return err
			}
			if output == "" || output == "-" {
				_, err = io.Copy(cmd.OutOrStdout(), &buf)
				return err
			}
			if err := os.WriteFile(output, buf.Bytes(), 0o600); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (%d bytes)\n", output, buf.Len())
			return nil
		},
	}
	weights.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", string(render.FormatText), "text, html or json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	return cmd
}

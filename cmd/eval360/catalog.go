package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1) //nolint:gochecknoglobals // shared style
var cellStyle = lipgloss.NewStyle().Padding(0, 1)               //nolint:gochecknoglobals // shared style

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newSubjectsCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "subjects",
		Short: "List evaluated people",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := opts.engine(cmd.Context())
			if err != nil {
				return err
			}
			subjects, err := e.Subjects()
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), subjects)
			}
			for _, s := range subjects {
				fmt.Fprintln(cmd.OutOrStdout(), s)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func newCompetenciesCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "competencies",
		Short: "List scored competencies with their category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := opts.engine(cmd.Context())
			if err != nil {
				return err
			}
			type row struct {
				Name     string `json:"name"`
				Category string `json:"category"`
			}
			ds := e.Dataset()
			rows := make([]row, 0, len(e.Competencies()))
			for _, c := range e.Competencies() {
				cat, _ := ds.CategoryOf(c)
				rows = append(rows, row{Name: c, Category: cat.String()})
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), rows)
			}
			t := newTable("Competency", "Category")
			for _, r := range rows {
				t.Row(r.Name, r.Category)
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func newCategoriesCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List non-empty categories and their competencies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := opts.engine(cmd.Context())
			if err != nil {
				return err
			}
			groups := e.Categories()
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), groups)
			}
			t := newTable("Category", "Competencies")
			for _, g := range groups {
				name := lipgloss.NewStyle().Foreground(lipgloss.Color(g.Category.Color())).Render(g.Category.String())
				t.Row(name, strings.Join(g.Competencies, "\n"))
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

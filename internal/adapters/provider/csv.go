package provider

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Waldoz-X/PrjEvaluacion360/internal/domain/dataset"
)

const sourceCSV = "csv"

// CSV reads tabs from <dir>/<tab>.csv.
type CSV struct {
	dir string
}

// NewCSV creates a provider rooted at dir.
func NewCSV(dir string) *CSV { return &CSV{dir: dir} }

// Name implements Provider.
func (c *CSV) Name() string { return sourceCSV }

// Path returns the file a tab is read from.
func (c *CSV) Path(tab string) string { return filepath.Join(c.dir, tab+".csv") }

// Load implements Provider.
func (c *CSV) Load(ctx context.Context, tab string) (dataset.Table, error) {
	if err := ctx.Err(); err != nil {
		return dataset.Table{}, &DataProviderError{Source: sourceCSV, Tab: tab, Err: err}
	}
	f, err := os.Open(c.Path(tab))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			err = fmt.Errorf("%w: %s", ErrTabNotFound, c.Path(tab))
		}
		return dataset.Table{}, &DataProviderError{Source: sourceCSV, Tab: tab, Err: err}
	}
	defer f.Close()

	t, err := ReadCSV(tab, f)
	if err != nil {
		return dataset.Table{}, &DataProviderError{Source: sourceCSV, Tab: tab, Err: err}
	}
	return t, nil
}

// ReadCSV parses a CSV export whose first record is the header. Ragged
// records are allowed and a UTF-8 byte order mark is dropped.
func ReadCSV(name string, r io.Reader) (dataset.Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	records, err := cr.ReadAll()
	if err != nil {
		return dataset.Table{}, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return dataset.NewTable(name, nil, nil), nil
	}
	header := records[0]
	if len(header) > 0 {
		header[0] = trimBOM(header[0])
	}
	return dataset.NewTable(name, header, records[1:]), nil
}

// WriteCSV writes t with its header as the first record.
func WriteCSV(w io.Writer, t dataset.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("write rows: %w", err)
	}
	return nil
}

func trimBOM(s string) string {
	const bom = "\ufeff"
	if len(s) >= len(bom) && s[:len(bom)] == bom {
		return s[len(bom):]
	}
	return s
}

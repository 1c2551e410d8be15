package dataset

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Waldoz-X/PrjEvaluacion360/internal/domain/competency"
	"github.com/Waldoz-X/PrjEvaluacion360/internal/domain/dedupe"
	"github.com/Waldoz-X/PrjEvaluacion360/internal/domain/likert"
	"github.com/Waldoz-X/PrjEvaluacion360/internal/domain/schema"
)

// Dataset is the coerced, resolved survey. It is never mutated after Build,
// so it may be shared by concurrent readers without locking.
type Dataset struct {
	source     string
	loadedAt   time.Time
	header     []string
	columns    [][]likert.Value
	numeric    []bool
	rows       int
	duplicates int

	schema       schema.Schema
	competencies []competency.Candidate
	groups       []competency.Group
	categoryOf   map[string]competency.Category

	subjects      []string
	rowsBySubject map[string][]int
}

// Option configures Build.
type Option func(*buildOptions)

type buildOptions struct {
	excluder *competency.Excluder
	deduper  dedupe.Deduper
	loadedAt time.Time
}

// WithExcluder sets the free-text and glob exclusions for competency selection.
func WithExcluder(e *competency.Excluder) Option {
	return func(o *buildOptions) { o.excluder = e }
}

// WithDeduper drops responses whose coerced values were already seen.
func WithDeduper(d dedupe.Deduper) Option {
	return func(o *buildOptions) { o.deduper = d }
}

// WithLoadedAt stamps the dataset, time.Now by default.
func WithLoadedAt(t time.Time) Option {
	return func(o *buildOptions) { o.loadedAt = t }
}

// Build coerces answers, optionally removes duplicate responses, resolves
// the metadata columns, selects the competencies and categorizes them. An
// empty table produces a valid empty dataset.
func Build(ctx context.Context, t Table, opts ...Option) *Dataset {
	o := buildOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.excluder == nil {
		o.excluder, _ = competency.NewExcluder()
	}
	if o.loadedAt.IsZero() {
		o.loadedAt = time.Now()
	}

	d := &Dataset{
		source:   t.Name,
		loadedAt: o.loadedAt,
		header:   append([]string(nil), t.Header...),
		columns:  make([][]likert.Value, len(t.Header)),
		numeric:  make([]bool, len(t.Header)),
		rows:     len(t.Rows),
	}
	for i := range t.Header {
		d.columns[i], d.numeric[i] = likert.Column(t.Column(i))
	}

	if o.deduper != nil && d.rows > 0 {
		d.removeDuplicates(ctx, o.deduper)
	}

	d.schema = schema.Resolve(d.header)

	skip := make(map[int]bool, 3)
	for _, idx := range d.schema.Indices() {
		skip[idx] = true
	}
	candidates := make([]competency.Candidate, len(d.header))
	for i, h := range d.header {
		candidates[i] = competency.Candidate{Index: i, Name: h, Numeric: d.numeric[i]}
	}
	d.competencies = competency.Select(candidates, skip, o.excluder)

	names := d.Competencies()
	d.groups = competency.Categorize(names)
	d.categoryOf = make(map[string]competency.Category, len(names))
	for _, g := range d.groups {
		for _, c := range g.Competencies {
			d.categoryOf[c] = g.Category
		}
	}

	d.indexSubjects()
	return d
}

func (d *Dataset) removeDuplicates(ctx context.Context, dd dedupe.Deduper) {
	keys := make([]string, d.rows)
	parts := make([]string, len(d.columns))
	for r := 0; r < d.rows; r++ {
		for c := range d.columns {
			parts[c] = fingerprintPart(d.columns[c][r])
		}
		keys[r] = dedupe.Fingerprint(parts...)
	}
	keep, dropped := dedupe.Filter(ctx, dd, keys)
	if dropped == 0 {
		return
	}
	for c := range d.columns {
		col := make([]likert.Value, len(keep))
		for i, r := range keep {
			col[i] = d.columns[c][r]
		}
		d.columns[c] = col
	}
	d.rows = len(keep)
	d.duplicates = dropped
}

// fingerprintPart makes "De acuerdo" and "4" compare equal.
func fingerprintPart(v likert.Value) string {
	switch v.Kind {
	case likert.Number:
		return strconv.FormatFloat(v.Num, 'g', -1, 64)
	case likert.Text:
		return strings.TrimSpace(v.Raw)
	default:
		return ""
	}
}

func (d *Dataset) indexSubjects() {
	d.rowsBySubject = map[string][]int{}
	if !d.schema.Subject.Resolved() {
		return
	}
	col := d.columns[d.schema.Subject.Index]
	for r := 0; r < d.rows; r++ {
		s := col[r].Raw
		if strings.TrimSpace(s) == "" {
			continue
		}
		d.rowsBySubject[s] = append(d.rowsBySubject[s], r)
	}
	d.subjects = make([]string, 0, len(d.rowsBySubject))
	for s := range d.rowsBySubject {
		d.subjects = append(d.subjects, s)
	}
	sort.Strings(d.subjects)
}

// Source names the tab(s) the dataset was built from.
func (d *Dataset) Source() string { return d.source }

// LoadedAt is when the dataset was built.
func (d *Dataset) LoadedAt() time.Time { return d.loadedAt }

// Len returns the number of responses.
func (d *Dataset) Len() int { return d.rows }

// Empty reports whether the dataset holds no responses.
func (d *Dataset) Empty() bool { return d.rows == 0 }

// Duplicates is the number of responses dropped as duplicates.
func (d *Dataset) Duplicates() int { return d.duplicates }

// Header returns a copy of the column names.
func (d *Dataset) Header() []string { return append([]string(nil), d.header...) }

// Schema returns the resolved metadata columns.
func (d *Dataset) Schema() schema.Schema { return d.schema }

// Competencies returns the competency names in source order.
func (d *Dataset) Competencies() []string {
	out := make([]string, len(d.competencies))
	for i, c := range d.competencies {
		out[i] = c.Name
	}
	return out
}

// Categories returns the category groups, computed once at Build.
func (d *Dataset) Categories() []competency.Group {
	out := make([]competency.Group, len(d.groups))
	for i, g := range d.groups {
		out[i] = competency.Group{Category: g.Category, Competencies: append([]string(nil), g.Competencies...)}
	}
	return out
}

// CategoryOf returns the category a competency was assigned to.
func (d *Dataset) CategoryOf(name string) (competency.Category, bool) {
	c, ok := d.categoryOf[name]
	return c, ok
}

// Subjects returns the distinct evaluated subjects, sorted. Blank values are
// skipped. It fails with a *schema.SchemaError when no subject column exists.
func (d *Dataset) Subjects() ([]string, error) {
	if err := d.schema.Require(schema.RoleSubject); err != nil {
		return nil, err
	}
	return append([]string(nil), d.subjects...), nil
}

// Rows returns the response indices whose subject cell equals subject exactly.
func (d *Dataset) Rows(subject string) []int {
	return d.rowsBySubject[subject]
}

// Subject returns the raw subject cell of row.
func (d *Dataset) Subject(row int) string {
	return d.raw(d.schema.Subject, row)
}

// Relationship returns the raw relationship cell of row.
func (d *Dataset) Relationship(row int) string {
	return d.raw(d.schema.Relationship, row)
}

// Timestamp returns the raw timestamp cell of row.
func (d *Dataset) Timestamp(row int) string {
	return d.raw(d.schema.Timestamp, row)
}

func (d *Dataset) raw(c schema.Column, row int) string {
	if !c.Resolved() || row < 0 || row >= d.rows {
		return ""
	}
	return d.columns[c.Index][row].Raw
}

// Value returns the coerced answer of competency comp (an index into
// Competencies) for row.
func (d *Dataset) Value(row, comp int) likert.Value {
	if comp < 0 || comp >= len(d.competencies) || row < 0 || row >= d.rows {
		return likert.Value{}
	}
	return d.columns[d.competencies[comp].Index][row]
}

// Summary describes a dataset for status endpoints and logs.
type Summary struct {
	Source       string        `json:"source"`
	LoadedAt     time.Time     `json:"loaded_at"`
	Responses    int           `json:"responses"`
	Duplicates   int           `json:"duplicates_dropped"`
	Subjects     int           `json:"subjects"`
	Competencies int           `json:"competencies"`
	Categories   int           `json:"categories"`
	Schema       schema.Schema `json:"schema"`
}

// Summary returns counts describing the dataset.
func (d *Dataset) Summary() Summary {
	return Summary{
		Source:       d.source,
		LoadedAt:     d.loadedAt,
		Responses:    d.rows,
		Duplicates:   d.duplicates,
		Subjects:     len(d.subjects),
		Competencies: len(d.competencies),
		Categories:   len(d.groups),
		Schema:       d.schema,
	}
}

package provider

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the pgx database/sql driver
	"github.com/pressly/goose/v3"

	"github.com/Waldoz-X/PrjEvaluacion360/internal/domain/dataset"
)

const (
	sourcePostgres  = "postgres"
	pingTimeout     = 5 * time.Second
	maxOpenConns    = 10
	maxIdleConns    = 5
	connMaxLifetime = time.Hour
)

//go:embed migrations/*.sql
var migrations embed.FS

// Postgres reads tabs stored cell by cell in survey_columns and survey_values.
type Postgres struct {
	db *sql.DB
}

// NewPostgres wraps an open database.
func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

// OpenPostgres connects through the pgx driver and verifies the connection.
func OpenPostgres(ctx context.Context, databaseURL string) (*sql.DB, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, errors.New("database url is empty")
	}
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	pctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// Migrate applies the embedded schema migrations.
func Migrate(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Name implements Provider.
func (p *Postgres) Name() string { return sourcePostgres }

const (
	selectColumns = `SELECT position, header FROM survey_columns WHERE tab = $1 ORDER BY position`
	selectValues  = `SELECT row_index, position, value FROM survey_values WHERE tab = $1 ORDER BY row_index, position`
)

// Load implements Provider.
func (p *Postgres) Load(ctx context.Context, tab string) (dataset.Table, error) {
	t, err := p.load(ctx, tab)
	if err != nil {
		return dataset.Table{}, &DataProviderError{Source: sourcePostgres, Tab: tab, Err: err}
	}
	return t, nil
}

func (p *Postgres) load(ctx context.Context, tab string) (dataset.Table, error) {
	rows, err := p.db.QueryContext(ctx, selectColumns, tab)
	if err != nil {
		return dataset.Table{}, fmt.Errorf("query columns: %w", err)
	}
	var header []string
	slot := map[int]int{}
	for rows.Next() {
		var (
			pos int
			h   string
		)
		if err := rows.Scan(&pos, &h); err != nil {
			rows.Close()
			return dataset.Table{}, fmt.Errorf("scan column: %w", err)
		}
		slot[pos] = len(header)
		header = append(header, h)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return dataset.Table{}, fmt.Errorf("read columns: %w", err)
	}
	if len(header) == 0 {
		return dataset.Table{}, fmt.Errorf("%w: %s", ErrTabNotFound, tab)
	}

	vals, err := p.db.QueryContext(ctx, selectValues, tab)
	if err != nil {
		return dataset.Table{}, fmt.Errorf("query values: %w", err)
	}
	defer vals.Close()
	byRow := map[int][]string{}
	for vals.Next() {
		var (
			r, pos int
			v      string
		)
		if err := vals.Scan(&r, &pos, &v); err != nil {
			return dataset.Table{}, fmt.Errorf("scan value: %w", err)
		}
		i, ok := slot[pos]
		if !ok {
			continue
		}
		if byRow[r] == nil {
			byRow[r] = make([]string, len(header))
		}
		byRow[r][i] = v
	}
	if err := vals.Err(); err != nil {
		return dataset.Table{}, fmt.Errorf("read values: %w", err)
	}

	order := make([]int, 0, len(byRow))
	for r := range byRow {
		order = append(order, r)
	}
	sort.Ints(order)
	out := make([][]string, len(order))
	for i, r := range order {
		out[i] = byRow[r]
	}
	return dataset.NewTable(tab, header, out), nil
}

const (
	deleteValues  = `DELETE FROM survey_values WHERE tab = $1`
	deleteColumns = `DELETE FROM survey_columns WHERE tab = $1`
	insertColumn  = `INSERT INTO survey_columns (tab, position, header) VALUES ($1, $2, $3)`
	insertValue   = `INSERT INTO survey_values (tab, row_index, position, value) VALUES ($1, $2, $3, $4)`
	upsertImport  = `INSERT INTO survey_imports (tab, rows, imported_at) VALUES ($1, $2, $3)
ON CONFLICT (tab) DO UPDATE SET rows = EXCLUDED.rows, imported_at = EXCLUDED.imported_at`
)

// Import replaces tab with the content of t in one transaction. Blank cells
// are not stored.
func (p *Postgres) Import(ctx context.Context, tab string, t dataset.Table) (err error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, deleteValues, tab); err != nil {
		return fmt.Errorf("clear values: %w", err)
	}
	if _, err = tx.ExecContext(ctx, deleteColumns, tab); err != nil {
		return fmt.Errorf("clear columns: %w", err)
	}
	for pos, h := range t.Header {
		if _, err = tx.ExecContext(ctx, insertColumn, tab, pos, h); err != nil {
			return fmt.Errorf("insert column %d: %w", pos, err)
		}
	}
	for r, row := range t.Rows {
		for pos, v := range row {
			if strings.TrimSpace(v) == "" {
				continue
			}
			if _, err = tx.ExecContext(ctx, insertValue, tab, r, pos, v); err != nil {
				return fmt.Errorf("insert value %d/%d: %w", r, pos, err)
			}
		}
	}
	if _, err = tx.ExecContext(ctx, upsertImport, tab, len(t.Rows), time.Now().UTC()); err != nil {
		return fmt.Errorf("record import: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

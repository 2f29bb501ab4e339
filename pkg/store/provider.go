package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"mercator-hq/gridexport/pkg/grid"
)

// Row is one database row keyed by column name.
type Row map[string]any

// Get implements grid.Record.
func (r Row) Get(attribute string) (any, bool) {
	v, ok := r[attribute]
	return v, ok
}

// Source selects the records of a grid.
type Source struct {
	// Table is the table or view to read.
	Table string

	// Key is the column used as record key. Empty uses record positions.
	Key string

	// OrderBy lists sort columns; a leading "-" sorts descending.
	// Default: Key, when set
	OrderBy []string
}

// Validate checks every identifier of the source.
func (s Source) Validate() error {
	if err := checkIdentifier("table", s.Table); err != nil {
		return err
	}
	if s.Key != "" {
		if err := checkIdentifier("column", s.Key); err != nil {
			return err
		}
	}
	for _, o := range s.OrderBy {
		if err := checkIdentifier("column", strings.TrimPrefix(o, "-")); err != nil {
			return err
		}
	}
	return nil
}

func (s Source) orderClause() string {
	order := s.OrderBy
	if len(order) == 0 && s.Key != "" {
		order = []string{s.Key}
	}
	if len(order) == 0 {
		return ""
	}
	parts := make([]string, len(order))
	for i, o := range order {
		if name, desc := strings.CutPrefix(o, "-"); desc {
			parts[i] = quote(name) + " DESC"
		} else {
			parts[i] = quote(o) + " ASC"
		}
	}
	return " ORDER BY " + strings.Join(parts, ", ")
}

// QueryProvider is a grid.DataProvider reading one table.
type QueryProvider struct {
	store      *Store
	source     Source
	pagination *grid.Pagination

	total   int
	records []any
	keys    []any
}

var _ grid.DataProvider = (*QueryProvider)(nil)

// NewQueryProvider creates a provider for source. The source is validated
// here so SQL is never built from unchecked names.
func (s *Store) NewQueryProvider(source Source) (*QueryProvider, error) {
	if err := source.Validate(); err != nil {
		return nil, err
	}
	return &QueryProvider{store: s, source: source}, nil
}

// Prepare implements grid.DataProvider.
func (p *QueryProvider) Prepare(ctx context.Context) error {
	driver := p.store.config.Driver
	table := quote(p.source.Table)

	if err := p.store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&p.total); err != nil {
		return NewStorageError(driver, "count", err)
	}

	query := "SELECT * FROM " + table + p.source.orderClause()
	var args []any
	if p.pagination != nil {
		query += " LIMIT ? OFFSET ?"
		args = append(args, p.pagination.Limit(), p.pagination.Offset())
	}

	rows, err := p.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return NewStorageError(driver, "query", err)
	}
	defer rows.Close()

	records, err := scanRows(rows)
	if err != nil {
		return NewStorageError(driver, "scan", err)
	}

	p.records = make([]any, len(records))
	p.keys = make([]any, len(records))
	offset := p.pagination.Offset()
	for i, r := range records {
		p.records[i] = r
		if p.source.Key != "" {
			k, ok := r[p.source.Key]
			if !ok {
				return NewStorageError(driver, "scan", fmt.Errorf("key column %q not in result", p.source.Key))
			}
			p.keys[i] = k
		} else {
			p.keys[i] = offset + i
		}
	}
	return nil
}

func scanRows(rows *sql.Rows) ([]Row, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []Row
	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(Row, len(cols))
		for i, c := range cols {
			if b, ok := values[i].([]byte); ok {
				row[c] = string(b)
			} else {
				row[c] = values[i]
			}
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// Records implements export.RecordSet.
func (p *QueryProvider) Records() []any { return p.records }

// Keys implements export.RecordSet.
func (p *QueryProvider) Keys() []any { return p.keys }

// Count implements export.RecordSet.
func (p *QueryProvider) Count() int { return len(p.records) }

// TotalCount implements grid.DataProvider.
func (p *QueryProvider) TotalCount() int { return p.total }

// Pagination implements grid.DataProvider.
func (p *QueryProvider) Pagination() *grid.Pagination { return p.pagination }

// SetPagination implements grid.DataProvider.
func (p *QueryProvider) SetPagination(pg *grid.Pagination) { p.pagination = pg }

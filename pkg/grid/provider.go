package grid

import (
	"context"

	"mercator-hq/gridexport/pkg/export"
)

// DefaultPageSize is used when a Pagination has no page size.
const DefaultPageSize = 20

// Pagination selects one page of a data provider's records. Pages are
// zero-based.
type Pagination struct {
	Page     int
	PageSize int
}

func (p *Pagination) size() int {
	if p.PageSize <= 0 {
		return DefaultPageSize
	}
	return p.PageSize
}

// Offset returns the index of the first record on the current page.
func (p *Pagination) Offset() int {
	if p == nil || p.Page <= 0 {
		return 0
	}
	return p.Page * p.size()
}

// Limit returns the page size, or -1 for a nil pagination.
func (p *Pagination) Limit() int {
	if p == nil {
		return -1
	}
	return p.size()
}

// PageCount returns the number of pages needed for total records.
func (p *Pagination) PageCount(total int) int {
	if p == nil || total <= 0 {
		return 1
	}
	size := p.size()
	return (total + size - 1) / size
}

// DataProvider supplies the records a grid shows. Pagination is applied by
// Prepare; a nil pagination means every record.
type DataProvider interface {
	export.RecordSet

	// Prepare loads the records for the current pagination.
	Prepare(ctx context.Context) error

	// TotalCount returns the number of records ignoring pagination.
	TotalCount() int

	Pagination() *Pagination
	SetPagination(p *Pagination)
}

// SliceProvider serves records from memory.
type SliceProvider struct {
	all        []any
	allKeys    []any
	pagination *Pagination

	records []any
	keys    []any
}

var _ DataProvider = (*SliceProvider)(nil)

// NewSliceProvider creates a provider over records. keys may be nil, in
// which case record positions are used.
func NewSliceProvider(records []any, keys []any) *SliceProvider {
	if keys == nil {
		keys = make([]any, len(records))
		for i := range keys {
			keys[i] = i
		}
	}
	return &SliceProvider{all: records, allKeys: keys}
}

// Prepare implements DataProvider.
func (p *SliceProvider) Prepare(context.Context) error {
	start, end := 0, len(p.all)
	if p.pagination != nil {
		start = min(p.pagination.Offset(), end)
		end = min(start+p.pagination.Limit(), end)
	}
	p.records = p.all[start:end]
	n := len(p.allKeys)
	p.keys = p.allKeys[min(start, n):min(end, n)]
	return nil
}

// Records implements export.RecordSet.
func (p *SliceProvider) Records() []any { return p.records }

// Keys implements export.RecordSet.
func (p *SliceProvider) Keys() []any { return p.keys }

// Count implements export.RecordSet.
func (p *SliceProvider) Count() int { return len(p.records) }

// TotalCount implements DataProvider.
func (p *SliceProvider) TotalCount() int { return len(p.all) }

// Pagination implements DataProvider.
func (p *SliceProvider) Pagination() *Pagination { return p.pagination }

// SetPagination implements DataProvider.
func (p *SliceProvider) SetPagination(pg *Pagination) { p.pagination = pg }

package grid

import (
	"context"
	"testing"
)

func TestPagination(t *testing.T) {
	var nilPage *Pagination
	if nilPage.Offset() != 0 || nilPage.Limit() != -1 || nilPage.PageCount(50) != 1 {
		t.Error("nil pagination should select everything")
	}

	p := &Pagination{Page: 2, PageSize: 10}
	if p.Offset() != 20 || p.Limit() != 10 {
		t.Errorf("Offset/Limit = %d/%d", p.Offset(), p.Limit())
	}
	if got := p.PageCount(21); got != 3 {
		t.Errorf("PageCount(21) = %d, want 3", got)
	}
	if got := (&Pagination{}).Limit(); got != DefaultPageSize {
		t.Errorf("default Limit = %d", got)
	}
}

func TestSliceProvider(t *testing.T) {
	records := []any{"a", "b", "c", "d", "e"}
	p := NewSliceProvider(records, nil)

	tests := []struct {
		name     string
		page     *Pagination
		wantRecs []any
		wantKeys []any
	}{
		{"unpaginated", nil, records, []any{0, 1, 2, 3, 4}},
		{"first page", &Pagination{Page: 0, PageSize: 2}, []any{"a", "b"}, []any{0, 1}},
		{"last partial page", &Pagination{Page: 2, PageSize: 2}, []any{"e"}, []any{4}},
		{"past the end", &Pagination{Page: 9, PageSize: 2}, []any{}, []any{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p.SetPagination(tt.page)
			if err := p.Prepare(context.Background()); err != nil {
				t.Fatalf("Prepare() failed: %v", err)
			}
			if p.Count() != len(tt.wantRecs) {
				t.Fatalf("Count() = %d, want %d", p.Count(), len(tt.wantRecs))
			}
			for i := range tt.wantRecs {
				if p.Records()[i] != tt.wantRecs[i] || p.Keys()[i] != tt.wantKeys[i] {
					t.Errorf("item %d = %v/%v", i, p.Records()[i], p.Keys()[i])
				}
			}
			if p.TotalCount() != 5 {
				t.Errorf("TotalCount() = %d", p.TotalCount())
			}
		})
	}
}

package export

import (
	"fmt"
	"testing"
)

func TestMaterializer_Shape(t *testing.T) {
	for _, cols := range []int{0, 1, 3, 7} {
		for _, rows := range []int{0, 1, 2, 25} {
			t.Run(fmt.Sprintf("%dx%d", cols, rows), func(t *testing.T) {
				tbl := NewMaterializer(stubColumns(cols), stubRecords(rows, cols)).Materialize()

				if tbl.Len() != rows+2 {
					t.Fatalf("expected %d rows, got %d", rows+2, tbl.Len())
				}
				for i, row := range tbl.Rows() {
					if len(row) != cols {
						t.Errorf("row %d has %d cells, want %d", i, len(row), cols)
					}
				}
			})
		}
	}
}

func TestMaterializer_RowOrder(t *testing.T) {
	tbl := NewMaterializer(stubColumns(3), stubRecords(2, 3)).Materialize()

	want := [][]string{
		{"h1", "h2", "h3"},
		{"r1c1", "r1c2", "r1c3"},
		{"r2c1", "r2c2", "r2c3"},
		{"f1", "f2", "f3"},
	}
	assertRows(t, tbl.Rows(), want)
}

func TestMaterializer_RecordOrderAndKeys(t *testing.T) {
	var calls []string
	col := stubColumn{name: "v", header: "V", calls: &calls}

	records := []any{
		map[string]string{"v": "third"},
		map[string]string{"v": "first"},
		map[string]string{"v": "first"},
	}
	keys := []any{"k30", "k10", "k10"}

	tbl := NewMaterializer([]Column{col}, NewSliceRecordSet(records, keys)).Materialize()

	wantCalls := []string{"v:header", "v:data:k30:0", "v:data:k10:1", "v:data:k10:2", "v:footer"}
	if len(calls) != len(wantCalls) {
		t.Fatalf("calls = %v, want %v", calls, wantCalls)
	}
	for i := range wantCalls {
		if calls[i] != wantCalls[i] {
			t.Errorf("call %d = %q, want %q", i, calls[i], wantCalls[i])
		}
	}

	// duplicates are kept, order is not changed
	assertRows(t, tbl.Rows(), [][]string{{"V"}, {"third"}, {"first"}, {"first"}, {""}})
}

func TestMaterializer_EmptyCellsPreserved(t *testing.T) {
	cols := []Column{stubColumn{name: "a"}, stubColumn{name: "b", header: "B"}}
	records := NewSliceRecordSet([]any{map[string]string{"b": "x"}}, nil)

	tbl := NewMaterializer(cols, records).Materialize()
	assertRows(t, tbl.Rows(), [][]string{{"", "B"}, {"", "x"}, {"", ""}})
}

func TestMaterializer_NilRecords(t *testing.T) {
	tbl := NewMaterializer(stubColumns(2), nil).Materialize()
	if tbl.Len() != 2 {
		t.Errorf("expected header and footer only, got %d rows", tbl.Len())
	}
}

func TestMaterializer_StepIndices(t *testing.T) {
	m := NewMaterializer(stubColumns(1), stubRecords(3, 1))
	tbl := NewTable()

	if got := m.RenderHeader(tbl); got != RowBase {
		t.Errorf("header row index = %d, want %d", got, RowBase)
	}
	m.RenderBody(tbl)
	if got := m.RenderFooter(tbl); got != RowBase+4 {
		t.Errorf("footer row index = %d, want %d", got, RowBase+4)
	}
}

func assertRows(t *testing.T, got, want [][]string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d rows %v, want %d rows %v", len(got), got, len(want), want)
	}
	for i := range want {
		if len(got[i]) != len(want[i]) {
			t.Fatalf("row %d = %v, want %v", i, got[i], want[i])
		}
		for j := range want[i] {
			if got[i][j] != want[i][j] {
				t.Errorf("cell [%d][%d] = %q, want %q", i, j, got[i][j], want[i][j])
			}
		}
	}
}

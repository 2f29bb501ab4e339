package export

import (
	"fmt"
	"io"
	"sync"
)

// stubColumn renders fixed header/footer text and looks data cells up in a
// map record.
type stubColumn struct {
	name   string
	header string
	footer string
	calls  *[]string
}

func (c stubColumn) RenderHeaderCell() string {
	c.record("header")
	return c.header
}

func (c stubColumn) RenderDataCell(record any, key any, index int) string {
	c.record(fmt.Sprintf("data:%v:%d", key, index))
	m, _ := record.(map[string]string)
	return m[c.name]
}

func (c stubColumn) RenderFooterCell() string {
	c.record("footer")
	return c.footer
}

func (c stubColumn) record(s string) {
	if c.calls != nil {
		*c.calls = append(*c.calls, c.name+":"+s)
	}
}

func stubColumns(n int) []Column {
	cols := make([]Column, n)
	for i := range cols {
		cols[i] = stubColumn{
			name:   fmt.Sprintf("c%d", i+1),
			header: fmt.Sprintf("h%d", i+1),
			footer: fmt.Sprintf("f%d", i+1),
		}
	}
	return cols
}

func stubRecords(rows, cols int) *SliceRecordSet {
	records := make([]any, rows)
	for r := range records {
		m := make(map[string]string, cols)
		for c := 0; c < cols; c++ {
			m[fmt.Sprintf("c%d", c+1)] = fmt.Sprintf("r%dc%d", r+1, c+1)
		}
		records[r] = m
	}
	return NewSliceRecordSet(records, nil)
}

// recordingResponder captures what the exporter streams.
type recordingResponder struct {
	mu    sync.Mutex
	name  string
	size  int64
	body  []byte
	opts  SendOptions
	calls int
	err   error
}

func (r *recordingResponder) SendStream(name string, size int64, body io.Reader, opts SendOptions) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return r.err
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	r.name, r.size, r.body, r.opts = name, size, b, opts
	return nil
}

// stuckSink never lets its level drop, like a broken buffering primitive.
type stuckSink struct {
	level    int
	discards int
	cleans   int
}

func (s *stuckSink) Level() int { return s.level }

func (s *stuckSink) DiscardInnermost() bool {
	s.discards++
	return true
}

func (s *stuckSink) Clean() { s.cleans++ }

// failingSink refuses to discard scopes.
type failingSink struct {
	level    int
	discards int
	cleans   int
}

func (s *failingSink) Level() int { return s.level }

func (s *failingSink) DiscardInnermost() bool {
	s.discards++
	return false
}

func (s *failingSink) Clean() { s.cleans++ }

package export

import (
	"bytes"
	"errors"
	"io"
)

// DefaultMaxCleanupIterations bounds the number of nested output scopes
// SuppressOutput will try to discard.
const DefaultMaxCleanupIterations = 100

// ErrNoScope is returned when writing to a BufferStack with no open scope.
var ErrNoScope = errors.New("no output scope open")

// OutputSink is the buffered page output an export has to silence before it
// streams binary data.
type OutputSink interface {
	// Level returns the number of open buffering scopes.
	Level() int

	// DiscardInnermost drops the innermost scope and its contents. It
	// returns false when nothing could be discarded.
	DiscardInnermost() bool

	// Clean empties the innermost scope without closing it.
	Clean()
}

// SuppressionReport describes what SuppressOutput did.
type SuppressionReport struct {
	Discarded  int  // Nested scopes dropped
	Iterations int  // Discard attempts made
	Cleaned    bool // Whether the remaining scope was emptied
	Aborted    bool // A discard failed and suppression stopped early
}

// SuppressOutput drops every nested scope above the outermost one and then
// empties the outermost one, leaving it open. At most maxIterations discard
// attempts are made (DefaultMaxCleanupIterations when <= 0), and the loop
// stops at the first failed discard.
func SuppressOutput(sink OutputSink, maxIterations int) SuppressionReport {
	var report SuppressionReport
	if sink == nil {
		return report
	}
	if maxIterations <= 0 {
		maxIterations = DefaultMaxCleanupIterations
	}

	for sink.Level() > 1 && report.Iterations < maxIterations {
		report.Iterations++
		if !sink.DiscardInnermost() {
			report.Aborted = true
			break
		}
		report.Discarded++
	}

	if sink.Level() > 0 {
		sink.Clean()
		report.Cleaned = true
	}
	return report
}

// BufferStack is an in-memory OutputSink that page handlers render into.
// Scopes nest: Push opens one, Pop closes it and appends its contents to the
// scope below. Writes go to the innermost scope.
type BufferStack struct {
	scopes []*bytes.Buffer
}

// NewBufferStack creates a stack with no open scope.
func NewBufferStack() *BufferStack {
	return &BufferStack{}
}

// Push opens a new innermost scope.
func (b *BufferStack) Push() {
	b.scopes = append(b.scopes, new(bytes.Buffer))
}

// Pop closes the innermost scope, moving its contents into the scope below.
// Popping the outermost scope returns its contents to the caller.
func (b *BufferStack) Pop() ([]byte, error) {
	n := len(b.scopes)
	if n == 0 {
		return nil, ErrNoScope
	}
	top := b.scopes[n-1]
	b.scopes = b.scopes[:n-1]
	if n == 1 {
		return top.Bytes(), nil
	}
	_, err := b.scopes[n-2].Write(top.Bytes())
	return nil, err
}

// Write implements io.Writer on the innermost scope.
func (b *BufferStack) Write(p []byte) (int, error) {
	n := len(b.scopes)
	if n == 0 {
		return 0, ErrNoScope
	}
	return b.scopes[n-1].Write(p)
}

// Level implements OutputSink.
func (b *BufferStack) Level() int {
	return len(b.scopes)
}

// DiscardInnermost implements OutputSink.
func (b *BufferStack) DiscardInnermost() bool {
	n := len(b.scopes)
	if n == 0 {
		return false
	}
	b.scopes = b.scopes[:n-1]
	return true
}

// Clean implements OutputSink.
func (b *BufferStack) Clean() {
	if n := len(b.scopes); n > 0 {
		b.scopes[n-1].Reset()
	}
}

// FlushTo collapses all scopes in order and writes the result to w. The
// stack is empty afterwards.
func (b *BufferStack) FlushTo(w io.Writer) (int64, error) {
	var total int64
	for _, scope := range b.scopes {
		n, err := scope.WriteTo(w)
		total += n
		if err != nil {
			return total, err
		}
	}
	b.scopes = nil
	return total, nil
}

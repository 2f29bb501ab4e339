package export

// Column renders the cells of one grid column.
//
// Each method returns cell text that may contain markup; the pipeline strips
// it during sanitization.
type Column interface {
	RenderHeaderCell() string
	RenderDataCell(record any, key any, index int) string
	RenderFooterCell() string
}

// RecordSet is an ordered sequence of records with index-aligned keys.
type RecordSet interface {
	// Records returns the records in display order.
	Records() []any

	// Keys returns one key per record, aligned with Records.
	Keys() []any

	// Count returns the number of records currently available.
	Count() int
}

// SliceRecordSet is a RecordSet backed by slices.
type SliceRecordSet struct {
	records []any
	keys    []any
}

// NewSliceRecordSet creates a RecordSet over records. When keys is nil the
// positional index of each record is used as its key.
func NewSliceRecordSet(records []any, keys []any) *SliceRecordSet {
	if keys == nil {
		keys = make([]any, len(records))
		for i := range records {
			keys[i] = i
		}
	}
	return &SliceRecordSet{records: records, keys: keys}
}

// Records implements RecordSet.
func (s *SliceRecordSet) Records() []any { return s.records }

// Keys implements RecordSet.
func (s *SliceRecordSet) Keys() []any { return s.keys }

// Count implements RecordSet.
func (s *SliceRecordSet) Count() int { return len(s.records) }

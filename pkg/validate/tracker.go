package validate

import (
	"encoding/binary"
	"sync"

	"github.com/leapstack-labs/leapcheck/pkg/schema"
	"github.com/zeebo/xxh3"
)

// KeyDuplicate is a row whose composite primary key tuple was already seen.
type KeyDuplicate struct {
	File      string
	Row       int
	FirstFile string
	FirstRow  int
	Values    []string
}

type keyOrigin struct {
	file string
	row  int
}

// Tracker records values of unique fields and composite primary key tuples
// for one validation run. Values are stored as 128-bit digests.
type Tracker struct {
	mu      sync.Mutex
	fields  map[string]map[xxh3.Uint128]struct{}
	keyCols []string
	keys    map[xxh3.Uint128]keyOrigin
	pending []KeyDuplicate
}

// NewTracker creates an empty tracker for s.
func NewTracker(s *schema.Schema) *Tracker {
	t := &Tracker{fields: make(map[string]map[xxh3.Uint128]struct{})}
	for _, f := range s.Fields {
		if f.Unique {
			t.fields[f.Name] = make(map[xxh3.Uint128]struct{})
		}
	}
	if s.HasCompositeKey() {
		t.keyCols = s.PrimaryKey
		t.keys = make(map[xxh3.Uint128]keyOrigin)
	}
	return t
}

// Observe records value for a unique field. It returns true when the value
// was already recorded, in which case nothing changes.
func (t *Tracker) Observe(field, value string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	set, ok := t.fields[field]
	if !ok {
		set = make(map[xxh3.Uint128]struct{})
		t.fields[field] = set
	}
	h := xxh3.HashString128(value)
	if _, dup := set[h]; dup {
		return true
	}
	set[h] = struct{}{}
	return false
}

// ObserveKey records the composite primary key tuple of row. Rows missing a
// key column are not tracked. A repeated tuple is queued for TakeKeyDuplicates.
func (t *Tracker) ObserveKey(file string, row Row, rowNum int) {
	if t.keys == nil {
		return
	}
	values := make([]string, len(t.keyCols))
	for i, col := range t.keyCols {
		v, ok := row[col]
		if !ok {
			return
		}
		values[i] = v
	}

	h := xxh3.Hash128(encodeTuple(values))

	t.mu.Lock()
	defer t.mu.Unlock()
	if first, dup := t.keys[h]; dup {
		t.pending = append(t.pending, KeyDuplicate{
			File:      file,
			Row:       rowNum,
			FirstFile: first.file,
			FirstRow:  first.row,
			Values:    values,
		})
		return
	}
	t.keys[h] = keyOrigin{file: file, row: rowNum}
}

// TakeKeyDuplicates returns the queued duplicates in detection order and
// clears the queue.
func (t *Tracker) TakeKeyDuplicates() []KeyDuplicate {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := t.pending
	t.pending = nil
	return out
}

// KeyColumns returns the composite key columns, or nil for single or no key.
func (t *Tracker) KeyColumns() []string { return t.keyCols }

// encodeTuple length-prefixes each value so that ("ab","c") and ("a","bc")
// differ.
func encodeTuple(values []string) []byte {
	n := 0
	for _, v := range values {
		n += binary.MaxVarintLen64 + len(v)
	}
	buf := make([]byte, 0, n)
	for _, v := range values {
		buf = binary.AppendUvarint(buf, uint64(len(v)))
		buf = append(buf, v...)
	}
	return buf
}

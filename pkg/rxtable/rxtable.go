// Package rxtable aggregates received frames per identifier.
package rxtable

import (
	"sort"
	"sync"
	"time"

	"github.com/roffe/canbridge/pkg/frame"
)

// Entry is the aggregated view of one identifier
type Entry struct {
	ID       string                   `json:"id"`
	Row      int                      `json:"row"`
	Data     [frame.MaxDataLen]string `json:"data"`
	Count    int                      `json:"count"`
	LastSeen time.Time                `json:"lastSeen"`
}

// Table maps identifiers to their latest observation. Rows are handed out in
// first-seen order and never change, entries are never removed.
type Table struct {
	mu      sync.RWMutex
	entries map[string]*Entry
	nextRow int
	total   uint64
	now     func() time.Time
}

func New() *Table {
	return &Table{
		entries: make(map[string]*Entry),
		now:     time.Now,
	}
}

// Observe records one received frame and returns the row of the identifier
// and how many times it has been seen. Data slots not carried by a short
// frame keep their previous value.
func (t *Table) Observe(f frame.CANFrame) (row, count int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.entries[f.ID]
	if !ok {
		e = &Entry{ID: f.ID, Row: t.nextRow}
		t.entries[f.ID] = e
		t.nextRow++
	}
	e.Count++
	e.LastSeen = t.now()
	for i := 0; i < len(f.Data) && i < frame.MaxDataLen; i++ {
		e.Data[i] = f.Data[i]
	}
	t.total++
	return e.Row, e.Count
}

// Get returns a copy of the entry for id
func (t *Table) Get(id string) (Entry, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e, ok := t.entries[id]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// Snapshot returns a copy of all entries ordered by row
func (t *Table) Snapshot() []Entry {
	t.mu.RLock()
	out := make([]Entry, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, *e)
	}
	t.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Row < out[j].Row })
	return out
}

// Len returns the number of distinct identifiers seen
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// Total returns the number of frames observed
func (t *Table) Total() uint64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.total
}

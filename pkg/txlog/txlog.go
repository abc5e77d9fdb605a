// Package txlog keeps an ordered record of sent frames.
package txlog

import (
	"fmt"
	"sync"
	"time"

	"github.com/roffe/canbridge/pkg/frame"
)

type Record struct {
	Frame     frame.CANFrame `json:"frame"`
	Timestamp string         `json:"timestamp"`
}

type Log struct {
	mu      sync.RWMutex
	records []Record
}

func New() *Log {
	return &Log{records: make([]Record, 0, 64)}
}

// Append adds a record to the end of the log
func (l *Log) Append(f frame.CANFrame, timestamp string) {
	l.mu.Lock()
	l.records = append(l.records, Record{Frame: frame.New(f.ID, f.Data), Timestamp: timestamp})
	l.mu.Unlock()
}

// Snapshot returns a copy of the log in send order
func (l *Log) Snapshot() []Record {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Record, len(l.records))
	copy(out, l.records)
	return out
}

func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}

// Timestamp formats t as local HH:mm:ss:ms. The time package only knows
// fractional seconds after a dot or comma so milliseconds are added by hand.
func Timestamp(t time.Time) string {
	t = t.Local()
	return fmt.Sprintf("%s:%03d", t.Format("15:04:05"), t.Nanosecond()/int(time.Millisecond))
}

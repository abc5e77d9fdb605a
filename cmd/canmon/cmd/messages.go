package cmd

import (
	"sync"
	"time"
)

// messageLog keeps the last max status lines for the monitor view
type messageLog struct {
	mu    sync.Mutex
	lines []string
	max   int
	now   func() time.Time
}

func newMessageLog(max int) *messageLog {
	return &messageLog{max: max, now: time.Now}
}

func (m *messageLog) Add(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lines = append(m.lines, m.now().Format("15:04:05")+" "+msg)
	if len(m.lines) > m.max {
		m.lines = m.lines[len(m.lines)-m.max:]
	}
}

func (m *messageLog) Lines() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.lines))
	copy(out, m.lines)
	return out
}

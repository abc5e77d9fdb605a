package canbridge

import (
	"fmt"
	"sync/atomic"
)

type Stats struct {
	RecvLines   uint64
	RecvFrames  uint64
	Ignored     uint64
	ParseErrors uint64
	Sent        uint64
	WriteErrors uint64
}

func (st Stats) String() string {
	return fmt.Sprintf("lines: %d frames: %d ignored: %d parse errors: %d sent: %d write errors: %d",
		st.RecvLines, st.RecvFrames, st.Ignored, st.ParseErrors, st.Sent, st.WriteErrors)
}

type counters struct {
	recvLines   atomic.Uint64
	recvFrames  atomic.Uint64
	ignored     atomic.Uint64
	parseErrors atomic.Uint64
	sent        atomic.Uint64
	writeErrors atomic.Uint64
}

func (b *Bridge) Stats() Stats {
	return Stats{
		RecvLines:   b.stats.recvLines.Load(),
		RecvFrames:  b.stats.recvFrames.Load(),
		Ignored:     b.stats.ignored.Load(),
		ParseErrors: b.stats.parseErrors.Load(),
		Sent:        b.stats.sent.Load(),
		WriteErrors: b.stats.writeErrors.Load(),
	}
}

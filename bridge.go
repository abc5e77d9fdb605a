package canbridge

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/roffe/canbridge/pkg/frame"
	"github.com/roffe/canbridge/pkg/rxtable"
	"github.com/roffe/canbridge/pkg/txlog"
)

const maxLineLength = 1024

type State int32

const (
	Disconnected State = iota
	Connecting
	Connected
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	default:
		return "unknown"
	}
}

// Bridge owns the serial connection to the adapter. Received frame lines
// are aggregated into the RX table and every sent frame is recorded in the
// TX log.
type Bridge struct {
	cfg *Config
	rx  *rxtable.Table
	tx  *txlog.Log

	mu      sync.Mutex // port, started and the send path
	port    Port
	started bool

	portName atomic.Value // string
	state    atomic.Int32
	closing  atomic.Bool
	stats    counters

	evtChan chan Event

	// read loop only
	discarding bool

	closeOnce sync.Once
	doneOnce  sync.Once
	done      chan struct{}
}

func New(cfg *Config) *Bridge {
	if cfg == nil {
		cfg = &Config{}
	}
	cfg.setDefaults()
	return &Bridge{
		cfg:     cfg,
		rx:      rxtable.New(),
		tx:      txlog.New(),
		evtChan: make(chan Event, 100),
		done:    make(chan struct{}),
	}
}

func (b *Bridge) RX() *rxtable.Table {
	return b.rx
}

func (b *Bridge) TX() *txlog.Log {
	return b.tx
}

func (b *Bridge) State() State {
	return State(b.state.Load())
}

// Port returns the device name of the open connection
func (b *Bridge) Port() string {
	name, _ := b.portName.Load().(string)
	return name
}

func (b *Bridge) Event() <-chan Event {
	return b.evtChan
}

// Done is closed when the read loop has exited, or on Close if it never ran
func (b *Bridge) Done() <-chan struct{} {
	return b.done
}

// Open resolves the adapter port, opens it and starts the read loop. When no
// device is found ErrNoDevice is returned and the bridge stays disconnected,
// Send keeps working but only records to the TX log. After Close or a read
// error the bridge can not be opened again and ErrClosed is returned. A nil
// resolver uses Config.Port, or looks for an Arduino when that is empty too.
func (b *Bridge) Open(ctx context.Context, resolver PortResolver) error {
	if b.closing.Load() {
		return ErrClosed
	}
	if resolver == nil {
		if b.cfg.Port != "" {
			resolver = StaticPort(b.cfg.Port)
		} else {
			resolver = &EnumeratorResolver{Match: DefaultMatch}
		}
	}
	if !b.state.CompareAndSwap(int32(Disconnected), int32(Connecting)) {
		return ErrAlreadyOpen
	}

	name, err := resolver.Find(ctx)
	if err != nil {
		b.state.Store(int32(Disconnected))
		if errors.Is(err, ErrNoDevice) {
			b.cfg.OnMessage("no device found")
			return err
		}
		cerr := &ConnectionError{Op: "resolve", Err: err}
		b.cfg.OnMessage(cerr.Error())
		return cerr
	}

	p, err := b.cfg.Opener(name, b.cfg.PortBaudrate, b.cfg.ReadTimeout)
	if err != nil {
		b.state.Store(int32(Disconnected))
		cerr := &ConnectionError{Op: "open", Port: name, Err: err}
		b.cfg.OnMessage(fmt.Sprintf("failed to connect to adapter: %v", err))
		return cerr
	}

	b.mu.Lock()
	if b.closing.Load() {
		b.mu.Unlock()
		p.Close()
		b.state.Store(int32(Disconnected))
		return ErrClosed
	}
	b.port = p
	b.portName.Store(name)
	b.started = true
	b.state.Store(int32(Connected))
	b.mu.Unlock()

	context.AfterFunc(ctx, func() {
		b.Close()
	})

	go b.recvManager(ctx, p, name)

	b.Info(fmt.Sprintf("connected to %s @ %d baud", name, b.cfg.PortBaudrate))
	return nil
}

// Send encodes and writes a frame. Input that can not be encoded is returned
// as a *frame.ValidationError and nothing is recorded. Everything else is
// appended to the TX log, also when the bridge is disconnected or the write
// fails; the log records what was requested, not what reached the bus.
func (b *Bridge) Send(rawID string, rawBytes ...string) (frame.CANFrame, error) {
	f, err := frame.Encode(rawID, rawBytes)
	if err != nil {
		return frame.CANFrame{}, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.write(f)
	b.tx.Append(f, txlog.Timestamp(b.cfg.Clock()))
	b.stats.sent.Add(1)
	return f, nil
}

// write must be called with b.mu held
func (b *Bridge) write(f frame.CANFrame) {
	if b.port == nil || b.State() != Connected {
		return
	}
	line := frame.Serialize(f)
	if _, err := io.WriteString(b.port, line+"\n"); err != nil {
		b.stats.writeErrors.Add(1)
		b.Error(&ConnectionError{Op: "write", Port: b.Port(), Err: err})
		return
	}
	if b.cfg.Debug {
		b.Debug(">> " + line)
	}
}

func (b *Bridge) Close() error {
	var err error
	b.closeOnce.Do(func() {
		b.closing.Store(true)
		b.mu.Lock()
		p := b.port
		b.port = nil
		started := b.started
		b.mu.Unlock()
		b.state.Store(int32(Disconnected))
		if p != nil {
			if cerr := p.Close(); cerr != nil {
				err = fmt.Errorf("failed to close port: %w", cerr)
			}
		}
		if !started {
			b.doneOnce.Do(func() { close(b.done) })
		}
	})
	return err
}

func (b *Bridge) recvManager(ctx context.Context, p Port, name string) {
	defer b.doneOnce.Do(func() { close(b.done) })
	buf := make([]byte, 0, 128)
	readBuf := make([]byte, 64)
	for ctx.Err() == nil {
		n, err := p.Read(readBuf)
		if err != nil {
			if b.closing.Load() || ctx.Err() != nil {
				return
			}
			b.fail(p)
			cerr := &ConnectionError{Op: "read", Port: name, Err: err}
			b.Error(cerr)
			b.cfg.OnMessage(cerr.Error())
			return
		}
		if n == 0 {
			continue
		}
		buf = b.parse(buf, readBuf[:n])
	}
}

// fail makes the bridge unusable after an I/O error on p. The adapter is
// gone, Open refuses to reconnect and Send only records.
func (b *Bridge) fail(p Port) {
	b.closing.Store(true)
	b.mu.Lock()
	if b.port == p {
		b.port = nil
	}
	b.mu.Unlock()
	b.state.Store(int32(Disconnected))
	p.Close()
}

// parse processes the read data and returns any remaining partial line. A
// line longer than maxLineLength is dropped up to its terminator.
func (b *Bridge) parse(buf, data []byte) []byte {
	for _, c := range data {
		if c == '\n' {
			if b.discarding {
				b.discarding = false
				continue
			}
			b.handleLine(string(buf))
			buf = buf[:0]
			continue
		}
		if b.discarding {
			continue
		}
		if len(buf) >= maxLineLength {
			b.stats.parseErrors.Add(1)
			b.Warn(ErrLineTooLong.Error())
			buf = buf[:0]
			b.discarding = true
			continue
		}
		buf = append(buf, c)
	}
	return buf
}

func (b *Bridge) handleLine(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	b.stats.recvLines.Add(1)
	if b.cfg.Debug {
		b.Debug("<< " + line)
	}
	f, err := frame.Decode(line)
	if err != nil {
		if errors.Is(err, frame.ErrNotFrame) {
			b.stats.ignored.Add(1)
			return
		}
		b.stats.parseErrors.Add(1)
		b.Warn(err.Error())
		return
	}
	_, count := b.rx.Observe(f)
	b.stats.recvFrames.Add(1)
	if b.cfg.OnFrame != nil {
		b.cfg.OnFrame(f, count)
	}
}

func (b *Bridge) sendEvent(eventType EventType, details string) {
	select {
	case b.evtChan <- b.newEvent(eventType, details):
	default:
		if !b.cfg.Debug {
			return
		}
		_, file, no, ok := runtime.Caller(2)
		if ok {
			log.Printf("%s#%d %v: %s\n", filepath.Base(file), no, ErrEventChanFull, details)
		} else {
			log.Printf("%v: %s", ErrEventChanFull, details)
		}
	}
}

// Send an error event
func (b *Bridge) Error(err error) {
	b.sendEvent(EventTypeError, err.Error())
}

// Send a warning event
func (b *Bridge) Warn(warn string) {
	b.sendEvent(EventTypeWarning, warn)
}

// Send an info event
func (b *Bridge) Info(info string) {
	b.sendEvent(EventTypeInfo, info)
}

// Send a debug event
func (b *Bridge) Debug(debug string) {
	b.sendEvent(EventTypeDebug, debug)
}

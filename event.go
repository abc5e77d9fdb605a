package canbridge

import (
	"fmt"
	"time"
)

// EventType is the severity of a bridge event
type EventType int

const (
	EventTypeError EventType = iota
	EventTypeWarning
	EventTypeInfo
	EventTypeDebug
)

var eventTypeNames = [...]string{
	EventTypeError:   "ERROR",
	EventTypeWarning: "WARN",
	EventTypeInfo:    "INFO",
	EventTypeDebug:   "DEBUG",
}

func (et EventType) String() string {
	if et < 0 || int(et) >= len(eventTypeNames) {
		return "UNKNOWN"
	}
	return eventTypeNames[et]
}

// Event reports something that happened on the adapter connection. Port is
// empty while no adapter is connected.
type Event struct {
	Type    EventType
	Port    string
	Time    time.Time
	Details string
}

func (b *Bridge) newEvent(eventType EventType, details string) Event {
	return Event{
		Type:    eventType,
		Port:    b.Port(),
		Time:    b.cfg.Clock(),
		Details: details,
	}
}

func (e Event) String() string {
	if e.Port == "" {
		return fmt.Sprintf("[%s] %s", e.Type, e.Details)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Port, e.Details)
}

package canbridge

import (
	"errors"
	"fmt"
)

var (
	ErrNoDevice      = errors.New("no device found")
	ErrClosed        = errors.New("bridge closed")
	ErrAlreadyOpen   = errors.New("bridge already open")
	ErrLineTooLong   = errors.New("line too long, discarded")
	ErrEventChanFull = errors.New("event channel full")
)

// ConnectionError is an open, read or write failure on the adapter port
type ConnectionError struct {
	Op   string
	Port string
	Err  error
}

func (e *ConnectionError) Error() string {
	if e.Port == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Port, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

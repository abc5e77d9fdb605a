package canbridge

import (
	"fmt"
	"io"
	"time"

	"go.bug.st/serial"
)

// Port is the connection to the adapter
type Port interface {
	io.ReadWriteCloser
}

type OpenFunc func(name string, baudrate int, readTimeout time.Duration) (Port, error)

// OpenSerial opens a 8N1 serial port. A read that times out returns zero
// bytes and no error.
func OpenSerial(name string, baudrate int, readTimeout time.Duration) (Port, error) {
	mode := &serial.Mode{
		BaudRate: baudrate,
		Parity:   serial.NoParity,
		DataBits: 8,
		StopBits: serial.OneStopBit,
	}
	p, err := serial.Open(name, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open com port %q : %w", name, err)
	}
	if err := p.SetReadTimeout(readTimeout); err != nil {
		p.Close()
		return nil, fmt.Errorf("failed to set read timeout: %w", err)
	}
	p.ResetOutputBuffer()
	p.ResetInputBuffer()
	return p, nil
}

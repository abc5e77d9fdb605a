package canbridge

import (
	"fmt"
	"log"
	"path/filepath"
	"runtime"
	"time"

	"github.com/roffe/canbridge/pkg/frame"
)

const (
	DefaultBaudrate    = 115200
	DefaultReadTimeout = time.Second
)

type Config struct {
	Debug        bool
	Port         string
	PortBaudrate int
	ReadTimeout  time.Duration
	// OnMessage receives human readable status messages
	OnMessage func(string)
	// OnFrame is called from the read loop after every aggregated frame
	OnFrame func(f frame.CANFrame, count int)
	// Opener creates the connection, defaults to a serial port
	Opener OpenFunc
	Clock  func() time.Time
}

func (cfg *Config) setDefaults() {
	if cfg.PortBaudrate == 0 {
		cfg.PortBaudrate = DefaultBaudrate
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Opener == nil {
		cfg.Opener = OpenSerial
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.OnMessage == nil {
		cfg.OnMessage = func(msg string) {
			_, file, no, ok := runtime.Caller(1)
			if ok {
				fmt.Printf("%s#%d %v\n", filepath.Base(file), no, msg)
			} else {
				log.Println(msg)
			}
		}
	}
}

package canbridge

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"go.bug.st/serial/enumerator"
)

// DefaultMatch is looked for in the USB product string of the adapter
const DefaultMatch = "Arduino"

// PortResolver finds the device name of the adapter
type PortResolver interface {
	Find(ctx context.Context) (string, error)
}

type ResolverFunc func(ctx context.Context) (string, error)

func (fn ResolverFunc) Find(ctx context.Context) (string, error) {
	return fn(ctx)
}

// StaticPort always resolves to name. An empty name resolves to ErrNoDevice.
func StaticPort(name string) PortResolver {
	return ResolverFunc(func(context.Context) (string, error) {
		if name == "" {
			return "", ErrNoDevice
		}
		return name, nil
	})
}

// EnumeratorResolver picks the first serial port whose USB product string
// contains Match.
type EnumeratorResolver struct {
	Match string
	// List defaults to enumerator.GetDetailedPortsList
	List func() ([]*enumerator.PortDetails, error)
}

func (er *EnumeratorResolver) Find(ctx context.Context) (string, error) {
	list := er.List
	if list == nil {
		list = enumerator.GetDetailedPortsList
	}
	ports, err := list()
	if err != nil {
		return "", fmt.Errorf("failed to list ports: %w", err)
	}
	for _, port := range ports {
		if MatchPort(port, er.Match) {
			return portName(port.Name), nil
		}
	}
	return "", ErrNoDevice
}

// MatchPort reports whether port is an adapter candidate for match, a case
// insensitive substring of the USB product or the port name. An empty match
// accepts any USB port.
func MatchPort(port *enumerator.PortDetails, match string) bool {
	if match == "" {
		return port.IsUSB
	}
	match = strings.ToLower(match)
	return strings.Contains(strings.ToLower(port.Product), match) ||
		strings.Contains(strings.ToLower(port.Name), match)
}

func portName(name string) string {
	if runtime.GOOS == "windows" {
		return strings.ToUpper(name)
	}
	return name
}

// WithRetry asks r again until it finds a device, attempts is exhausted or
// ctx is done.
func WithRetry(r PortResolver, attempts uint, delay time.Duration, onRetry func(n uint, err error)) PortResolver {
	if attempts <= 1 {
		return r
	}
	return ResolverFunc(func(ctx context.Context) (string, error) {
		var name string
		err := retry.Do(func() error {
			n, err := r.Find(ctx)
			if err != nil {
				return err
			}
			name = n
			return nil
		},
			retry.Context(ctx),
			retry.Attempts(attempts),
			retry.Delay(delay),
			retry.DelayType(retry.FixedDelay),
			retry.LastErrorOnly(true),
			retry.OnRetry(func(n uint, err error) {
				if onRetry != nil {
					onRetry(n, err)
				}
			}),
		)
		if err != nil {
			return "", err
		}
		return name, nil
	})
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/roffe/canbridge"
	"github.com/roffe/canbridge/pkg/frame"
	"github.com/spf13/cobra"
	"go.bug.st/serial/enumerator"
)

type bridgeOpts struct {
	OnMessage func(string)
	OnFrame   func(f frame.CANFrame, count int)
	// Degraded keeps going without a connected adapter
	Degraded bool
}

// initBridge creates the bridge from the persistent flags and connects it.
// Unless opts.Degraded is set a failed connection is returned as an error.
func initBridge(ctx context.Context, cmd *cobra.Command, opts bridgeOpts) (*canbridge.Bridge, error) {
	pf := cmd.Flags()
	port, err := pf.GetString(flagPort)
	if err != nil {
		return nil, err
	}
	baudrate, err := pf.GetInt(flagBaudrate)
	if err != nil {
		return nil, err
	}
	debug, err := pf.GetBool(flagDebug)
	if err != nil {
		return nil, err
	}
	match, err := pf.GetString(flagMatch)
	if err != nil {
		return nil, err
	}
	wait, err := pf.GetUint(flagWait)
	if err != nil {
		return nil, err
	}

	if opts.OnMessage == nil {
		opts.OnMessage = func(msg string) { log.Println(msg) }
	}

	resolver, err := portResolver(port, match)
	if err != nil {
		return nil, err
	}
	resolver = canbridge.WithRetry(resolver, wait, time.Second, func(n uint, err error) {
		opts.OnMessage(fmt.Sprintf("attempt #%d: %v", n+1, err))
	})

	b := canbridge.New(&canbridge.Config{
		Debug:        debug,
		Port:         port,
		PortBaudrate: baudrate,
		OnMessage:    opts.OnMessage,
		OnFrame:      opts.OnFrame,
	})
	if err := b.Open(ctx, resolver); err != nil {
		if !opts.Degraded {
			return nil, err
		}
		opts.OnMessage(fmt.Sprintf("running without adapter: %v", err))
	}
	return b, nil
}

func portResolver(port, match string) (canbridge.PortResolver, error) {
	switch port {
	case "":
		return &canbridge.EnumeratorResolver{Match: match}, nil
	case "?":
		selected, err := selectPort()
		if err != nil {
			return nil, err
		}
		return canbridge.StaticPort(selected), nil
	default:
		return canbridge.StaticPort(port), nil
	}
}

func selectPort() (string, error) {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return "", err
	}
	if len(ports) == 0 {
		return "", canbridge.ErrNoDevice
	}
	items := make([]string, len(ports))
	for i, p := range ports {
		items[i] = portDescription(p)
	}
	prompt := promptui.Select{
		Label: "Select adapter port",
		Items: items,
	}
	idx, _, err := prompt.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrInterrupt) {
			return "", context.Canceled
		}
		return "", fmt.Errorf("prompt failed %v", err)
	}
	return ports[idx].Name, nil
}

func portDescription(p *enumerator.PortDetails) string {
	if !p.IsUSB {
		return p.Name
	}
	return fmt.Sprintf("%s (%s:%s %s)", p.Name, p.VID, p.PID, p.Product)
}

// logEvents prints bridge events until ctx is done or the bridge is closed
func logEvents(ctx context.Context, b *canbridge.Bridge, debug bool) {
	for {
		select {
		case <-ctx.Done():
			return
		case e := <-b.Event():
			if e.Type == canbridge.EventTypeDebug && !debug {
				continue
			}
			log.Println(e.String())
		}
	}
}

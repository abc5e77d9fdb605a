package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jroimartin/gocui"
	"github.com/roffe/canbridge"
	"github.com/roffe/canbridge/cmd/canmon/pkg/ui"
	"github.com/roffe/canbridge/pkg/frame"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func init() {
	rootCmd.AddCommand(monitorCmd)
}

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Monitor received frames per identifier and send frames",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		refresh, err := cmd.Flags().GetDuration(flagRefresh)
		if err != nil {
			return err
		}
		debug, err := cmd.Flags().GetBool(flagDebug)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		msgs := newMessageLog(200)
		b, err := initBridge(ctx, cmd, bridgeOpts{OnMessage: msgs.Add, Degraded: true})
		if err != nil {
			return err
		}
		defer b.Close()

		g, err := gocui.NewGui(gocui.OutputNormal)
		if err != nil {
			return err
		}
		defer g.Close()
		g.Cursor = true

		m := newMonitor(b, msgs)
		g.SetManagerFunc(m.layout)
		if err := m.keybindings(g); err != nil {
			return err
		}

		errg, gctx := errgroup.WithContext(ctx)
		errg.Go(func() error {
			m.collectEvents(gctx, debug)
			return nil
		})
		errg.Go(func() error {
			m.refresher(gctx, g, refresh)
			return nil
		})

		if err := g.MainLoop(); err != nil && err != gocui.ErrQuit {
			cancel()
			errg.Wait()
			return err
		}
		cancel()
		return errg.Wait()
	},
}

type monitor struct {
	b    *canbridge.Bridge
	msgs *messageLog
	form *ui.Form
}

func newMonitor(b *canbridge.Bridge, msgs *messageLog) *monitor {
	inputs := []*ui.Input{ui.NewInput("id", "ID", 0, 0, 9, 8)}
	for i := 0; i < frame.MaxDataLen; i++ {
		inputs = append(inputs, ui.NewInput(fmt.Sprintf("b%d", i), fmt.Sprintf("B%d", i+1), 0, 0, 4, 2))
	}
	return &monitor{
		b:    b,
		msgs: msgs,
		form: &ui.Form{Inputs: inputs},
	}
}

func (m *monitor) layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()
	rxW := idWidth + frame.MaxDataLen*3 + 8

	if v, err := g.SetView("rx", 0, 0, rxW, maxY-1); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "CAN monitor"
	}

	x0 := rxW + 1
	for i, in := range m.form.Inputs {
		in.Y = 0
		in.X = x0
		if i > 0 {
			in.X = x0 + 10 + (i-1)*5
		}
	}
	if err := m.form.Layout(g); err != nil {
		return err
	}

	if v, err := g.SetView("help", x0, 3, maxX-1, 5); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "Frame setup"
		fmt.Fprintln(v, "<Tab> Next field <Enter> Send <Ctrl-C> Quit")
	}

	if v, err := g.SetView("tx", x0, 6, maxX-1, maxY-9); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "CAN frames sent"
		v.Autoscroll = true
	}

	if v, err := g.SetView("status", x0, maxY-8, maxX-1, maxY-1); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "Status"
		v.Autoscroll = true
		v.Wrap = true
	}

	if g.CurrentView() == nil {
		if _, err := g.SetCurrentView(m.form.Inputs[0].Name); err != nil {
			return err
		}
	}
	return nil
}

func (m *monitor) keybindings(g *gocui.Gui) error {
	if err := g.SetKeybinding("", gocui.KeyCtrlC, gocui.ModNone, quit); err != nil {
		return err
	}
	for _, in := range m.form.Inputs {
		if err := g.SetKeybinding(in.Name, gocui.KeyTab, gocui.ModNone,
			func(g *gocui.Gui, v *gocui.View) error {
				_, err := g.SetCurrentView(m.form.Next(v.Name()))
				return err
			}); err != nil {
			return err
		}
		if err := g.SetKeybinding(in.Name, gocui.KeyEnter, gocui.ModNone, m.send); err != nil {
			return err
		}
	}
	return nil
}

func quit(g *gocui.Gui, v *gocui.View) error {
	return gocui.ErrQuit
}

func (m *monitor) send(g *gocui.Gui, v *gocui.View) error {
	values := m.form.Values(g)
	if _, err := m.b.Send(values[0], values[1:]...); err != nil {
		if errors.Is(err, frame.ErrEmptyID) {
			m.msgs.Add("ID is required! Please enter any ID before sending.")
		} else {
			m.msgs.Add(err.Error())
		}
		return m.render(g)
	}
	m.form.Clear(g)
	if _, err := g.SetCurrentView(m.form.Inputs[0].Name); err != nil {
		return err
	}
	return m.render(g)
}

func (m *monitor) render(g *gocui.Gui) error {
	rx, err := g.View("rx")
	if err != nil {
		if err == gocui.ErrUnknownView {
			return nil
		}
		return err
	}
	rx.Clear()
	fmt.Fprintln(rx, rxHeader())
	for _, e := range m.b.RX().Snapshot() {
		fmt.Fprintln(rx, rxRow(e, fmt.Sprintf))
	}

	tx, err := g.View("tx")
	if err != nil {
		return err
	}
	tx.Clear()
	fmt.Fprintln(tx, txHeader())
	for _, rec := range m.b.TX().Snapshot() {
		fmt.Fprintln(tx, txRow(rec))
	}

	status, err := g.View("status")
	if err != nil {
		return err
	}
	status.Clear()
	fmt.Fprintf(status, "%s %s | %s\n", m.b.State(), m.b.Port(), m.b.Stats())
	for _, l := range m.msgs.Lines() {
		fmt.Fprintln(status, l)
	}
	return nil
}

func (m *monitor) refresher(ctx context.Context, g *gocui.Gui, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			g.Update(func(*gocui.Gui) error { return gocui.ErrQuit })
			return
		case <-t.C:
			g.Update(m.render)
		}
	}
}

func (m *monitor) collectEvents(ctx context.Context, debug bool) {
	for {
		select {
		case <-ctx.Done():
			return
		case e := <-m.b.Event():
			if e.Type == canbridge.EventTypeDebug && !debug {
				continue
			}
			m.msgs.Add(e.String())
		}
	}
}

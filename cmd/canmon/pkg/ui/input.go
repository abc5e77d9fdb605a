package ui

import (
	"strings"

	"github.com/jroimartin/gocui"
)

type Input struct {
	Name      string
	Title     string
	X, Y      int
	W         int
	MaxLength int
}

func NewInput(name, title string, x, y, w, maxLength int) *Input {
	return &Input{Name: name, Title: title, X: x, Y: y, W: w, MaxLength: maxLength}
}

func (i *Input) Layout(g *gocui.Gui) error {
	v, err := g.SetView(i.Name, i.X, i.Y, i.X+i.W, i.Y+2)
	if err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = i.Title
		v.Editor = i
		v.Editable = true
	}
	return nil
}

func (i *Input) Edit(v *gocui.View, key gocui.Key, ch rune, mod gocui.Modifier) {
	cx, _ := v.Cursor()
	ox, _ := v.Origin()
	limit := ox+cx+1 > i.MaxLength
	switch {
	case ch != 0 && mod == 0 && !limit:
		v.EditWrite(ch)
	case key == gocui.KeyBackspace || key == gocui.KeyBackspace2:
		v.EditDelete(true)
	case key == gocui.KeyArrowLeft:
		v.MoveCursor(-1, 0, false)
	case key == gocui.KeyArrowRight:
		v.MoveCursor(1, 0, false)
	}
}

// Value returns the trimmed content of the input
func (i *Input) Value(g *gocui.Gui) string {
	v, err := g.View(i.Name)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(v.Buffer())
}

func (i *Input) Clear(g *gocui.Gui) {
	v, err := g.View(i.Name)
	if err != nil {
		return
	}
	v.Clear()
	v.SetCursor(0, 0)
	v.SetOrigin(0, 0)
}

// Form is a row of inputs navigated with tab
type Form struct {
	Inputs []*Input
}

func (f *Form) Layout(g *gocui.Gui) error {
	for _, in := range f.Inputs {
		if err := in.Layout(g); err != nil {
			return err
		}
	}
	return nil
}

func (f *Form) Values(g *gocui.Gui) []string {
	out := make([]string, len(f.Inputs))
	for n, in := range f.Inputs {
		out[n] = in.Value(g)
	}
	return out
}

func (f *Form) Clear(g *gocui.Gui) {
	for _, in := range f.Inputs {
		in.Clear(g)
	}
}

// Next returns the name of the input after current, wrapping around
func (f *Form) Next(current string) string {
	for n, in := range f.Inputs {
		if in.Name == current {
			return f.Inputs[(n+1)%len(f.Inputs)].Name
		}
	}
	return f.Inputs[0].Name
}

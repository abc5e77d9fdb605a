package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/roffe/canbridge"
	"github.com/roffe/canbridge/pkg/frame"
	"github.com/roffe/canbridge/pkg/rxtable"
	"github.com/roffe/canbridge/pkg/txlog"
)

func TestRxRow(t *testing.T) {
	tbl := rxtable.New()
	tbl.Observe(frame.New("0x1A3", []string{"11", "22"}))
	tbl.Observe(frame.New("0x1A3", []string{"33", "44"}))
	e, _ := tbl.Get("0x1A3")
	want := "0x1A3   33 44                   2"
	if got := rxRow(e, fmt.Sprintf); got != want {
		t.Errorf("rxRow() = %q, want %q", got, want)
	}
	if got := rxHeader(); !strings.HasPrefix(got, "ID      B1 B2 ") || !strings.HasSuffix(got, "B8 Count") {
		t.Errorf("rxHeader() = %q", got)
	}
}

func TestTxRow(t *testing.T) {
	f, err := frame.Encode("7E0", []string{"02", "10", "03"})
	if err != nil {
		t.Fatal(err)
	}
	want := "0x7E0   02 10 03 00 00 00 00 00 12:01:02:003"
	if got := txRow(txlog.Record{Frame: f, Timestamp: "12:01:02:003"}); got != want {
		t.Errorf("txRow() = %q, want %q", got, want)
	}
}

func TestMessageLog(t *testing.T) {
	m := newMessageLog(2)
	m.now = func() time.Time { return time.Date(2024, 1, 1, 8, 9, 10, 0, time.Local) }
	m.Add("one")
	m.Add("two")
	m.Add("three")
	want := []string{"08:09:10 two", "08:09:10 three"}
	if got := m.Lines(); !reflect.DeepEqual(got, want) {
		t.Errorf("Lines() = %v, want %v", got, want)
	}
}

func TestReadFrameFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "frames.txt")
	content := "# startup\n1A3 11 22\n\n  0x7E0 02 10 03  \n"
	if err := os.WriteFile(name, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := readFrameFile(name)
	if err != nil {
		t.Fatal(err)
	}
	want := []frameLine{
		{no: 2, fields: []string{"1A3", "11", "22"}},
		{no: 4, fields: []string{"0x7E0", "02", "10", "03"}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("readFrameFile() = %v, want %v", got, want)
	}
	if _, err := readFrameFile(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestPortResolver(t *testing.T) {
	r, err := portResolver("", "Arduino")
	if err != nil {
		t.Fatal(err)
	}
	if er, ok := r.(*canbridge.EnumeratorResolver); !ok || er.Match != "Arduino" {
		t.Errorf("portResolver(\"\") = %#v", r)
	}
	r, err = portResolver("/dev/ttyACM1", "Arduino")
	if err != nil {
		t.Fatal(err)
	}
	name, err := r.Find(context.Background())
	if err != nil || name != "/dev/ttyACM1" {
		t.Errorf("Find() = %q, %v", name, err)
	}
}

func TestNewMonitorForm(t *testing.T) {
	m := newMonitor(canbridge.New(&canbridge.Config{OnMessage: func(string) {}}), newMessageLog(10))
	if len(m.form.Inputs) != 1+frame.MaxDataLen {
		t.Fatalf("inputs = %d", len(m.form.Inputs))
	}
	if m.form.Next("b7") != "id" {
		t.Errorf("Next(b7) = %q", m.form.Next("b7"))
	}
}

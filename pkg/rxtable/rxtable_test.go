package rxtable

import (
	"fmt"
	"sync"
	"testing"

	"github.com/roffe/canbridge/pkg/frame"
)

func TestObserveCounts(t *testing.T) {
	tbl := New()
	row1, count1 := tbl.Observe(frame.New("0x1A3", []string{"11", "22"}))
	row2, count2 := tbl.Observe(frame.New("0x1A3", []string{"33", "44"}))
	if count1 != 1 || count2 != 2 {
		t.Errorf("counts = %d, %d, want 1, 2", count1, count2)
	}
	if row1 != row2 {
		t.Errorf("row changed from %d to %d", row1, row2)
	}
	e, ok := tbl.Get("0x1A3")
	if !ok {
		t.Fatal("entry missing")
	}
	if e.Data[0] != "33" || e.Data[1] != "44" {
		t.Errorf("data = %v, want latest observation", e.Data)
	}
}

func TestObserveRowOrder(t *testing.T) {
	tbl := New()
	ids := []string{"0x300", "0x100", "0x200"}
	for _, id := range ids {
		tbl.Observe(frame.New(id, []string{"00"}))
	}
	tbl.Observe(frame.New("0x100", []string{"01"}))

	snap := tbl.Snapshot()
	if len(snap) != len(ids) {
		t.Fatalf("len = %d, want %d", len(snap), len(ids))
	}
	for i, e := range snap {
		if e.ID != ids[i] {
			t.Errorf("row %d = %s, want %s", i, e.ID, ids[i])
		}
		if e.Row != i {
			t.Errorf("%s row = %d, want %d", e.ID, e.Row, i)
		}
	}
	if tbl.Total() != 4 {
		t.Errorf("Total() = %d, want 4", tbl.Total())
	}
}

func TestObserveShortFrameKeepsSlots(t *testing.T) {
	tbl := New()
	tbl.Observe(frame.New("0x10", []string{"01", "02", "03", "04", "05", "06", "07", "08"}))
	tbl.Observe(frame.New("0x10", []string{"AA", "BB"}))
	e, _ := tbl.Get("0x10")
	want := [frame.MaxDataLen]string{"AA", "BB", "03", "04", "05", "06", "07", "08"}
	if e.Data != want {
		t.Errorf("data = %v, want %v", e.Data, want)
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	tbl := New()
	tbl.Observe(frame.New("0x1", []string{"01"}))
	snap := tbl.Snapshot()
	snap[0].Count = 100
	snap[0].Data[0] = "FF"
	e, _ := tbl.Get("0x1")
	if e.Count != 1 || e.Data[0] != "01" {
		t.Errorf("table modified through snapshot: %+v", e)
	}
}

func TestConcurrentObserve(t *testing.T) {
	tbl := New()
	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 250; i++ {
				tbl.Observe(frame.New(fmt.Sprintf("0x%X", i%10), []string{"00"}))
				_ = tbl.Snapshot()
			}
		}()
	}
	wg.Wait()
	if tbl.Len() != 10 {
		t.Errorf("Len() = %d, want 10", tbl.Len())
	}
	if tbl.Total() != 1000 {
		t.Errorf("Total() = %d, want 1000", tbl.Total())
	}
	for _, e := range tbl.Snapshot() {
		if e.Count != 100 {
			t.Errorf("%s count = %d, want 100", e.ID, e.Count)
		}
	}
}

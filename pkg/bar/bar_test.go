package bar

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewWithWriter(t *testing.T) {
	var buf bytes.Buffer
	b := NewWithWriter(&buf, 4, "replay")
	for i := 0; i < 4; i++ {
		if err := b.Add(1); err != nil {
			t.Fatal(err)
		}
	}
	if !strings.Contains(buf.String(), "replay") {
		t.Errorf("output %q lacks description", buf.String())
	}
}

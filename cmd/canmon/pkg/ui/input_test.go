package ui

import "testing"

func TestFormNavigation(t *testing.T) {
	f := &Form{Inputs: []*Input{
		NewInput("id", "ID", 0, 0, 8, 8),
		NewInput("b0", "B1", 9, 0, 4, 2),
		NewInput("b1", "B2", 14, 0, 4, 2),
	}}
	tests := []struct {
		current, next string
	}{
		{"id", "b0"},
		{"b0", "b1"},
		{"b1", "id"},
		{"unknown", "id"},
	}
	for _, tt := range tests {
		t.Run(tt.current, func(t *testing.T) {
			if got := f.Next(tt.current); got != tt.next {
				t.Errorf("Next(%q) = %q, want %q", tt.current, got, tt.next)
			}
		})
	}
}

package dialog

import (
	"fmt"
	"testing"
)

func TestWindow_EvictsOldestFirst(t *testing.T) {
	w := NewWindow(3)

	for i := 0; i < 5; i++ {
		w.Append(fmt.Sprintf("u%d", i), fmt.Sprintf("a%d", i))
	}

	pairs := w.Pairs()
	if len(pairs) != 3 {
		t.Fatalf("expected 3 pairs, got %d", len(pairs))
	}
	for i, p := range pairs {
		want := fmt.Sprintf("u%d", i+2)
		if p.User != want {
			t.Errorf("pair %d: expected %q, got %q", i, want, p.User)
		}
	}
}

func TestWindow_NeverExceedsCap(t *testing.T) {
	w := NewWindow(2)

	for i := 0; i < 10; i++ {
		w.Append("u", "a")
		if w.Len() > 2 {
			t.Fatalf("window exceeded cap after %d appends: %d", i+1, w.Len())
		}
	}
}

func TestWindow_PairsReturnsCopy(t *testing.T) {
	w := NewWindow(3)
	w.Append("original", "reply")

	pairs := w.Pairs()
	pairs[0].User = "mutated"

	if w.Pairs()[0].User != "original" {
		t.Error("mutating the returned slice must not affect the window")
	}
}

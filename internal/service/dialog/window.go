package dialog

// Pair is one utterance/reply exchange held in the sliding history window.
type Pair struct {
	User      string
	Assistant string
}

// Window is a fixed-capacity positional FIFO over recent pairs. Eviction is
// purely positional: once full, appending drops the oldest pair. It is
// independent of the durable conversation log, which is unbounded.
type Window struct {
	capacity int
	pairs    []Pair
}

func NewWindow(capacity int) *Window {
	if capacity < 1 {
		capacity = 1
	}
	return &Window{capacity: capacity}
}

func (w *Window) Append(user, assistant string) {
	w.pairs = append(w.pairs, Pair{User: user, Assistant: assistant})
	if len(w.pairs) > w.capacity {
		w.pairs = w.pairs[1:]
	}
}

// Pairs returns a copy of the window contents, oldest first.
func (w *Window) Pairs() []Pair {
	out := make([]Pair, len(w.pairs))
	copy(out, w.pairs)
	return out
}

func (w *Window) Len() int {
	return len(w.pairs)
}

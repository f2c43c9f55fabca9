package chess

import "golang.org/x/exp/slices"

// History is the append-only record of applied moves. The cursor tracks
// undo/redo position only; entries are never removed.
type History struct {
	entries []Move
	cursor  int
}

func NewHistory() *History {
	return &History{cursor: -1}
}

// Append adds m at the end and moves the cursor to it.
func (h *History) Append(m Move) {
	h.entries = append(h.entries, m)
	h.cursor = len(h.entries) - 1
}

// Back moves the cursor one entry toward the start. Stepping back from
// the first entry leaves the cursor unset.
func (h *History) Back() {
	if h.cursor >= 0 {
		h.cursor--
	}
}

// Forward moves the cursor one entry toward the end, or to the first entry
// when the cursor is unset.
func (h *History) Forward() {
	switch {
	case h.cursor < 0 && len(h.entries) > 0:
		h.cursor = 0
	case h.cursor >= 0 && h.cursor < len(h.entries)-1:
		h.cursor++
	}
}

func (h *History) Len() int {
	return len(h.entries)
}

// Cursor returns the cursor index, or -1 when unset.
func (h *History) Cursor() int {
	return h.cursor
}

func (h *History) Head() (Move, bool) {
	if len(h.entries) == 0 {
		return Move{}, false
	}
	return h.entries[0], true
}

func (h *History) Tail() (Move, bool) {
	if len(h.entries) == 0 {
		return Move{}, false
	}
	return h.entries[len(h.entries)-1], true
}

// Current returns the entry under the cursor.
func (h *History) Current() (Move, bool) {
	if h.cursor < 0 {
		return Move{}, false
	}
	return h.entries[h.cursor], true
}

// Entries returns a copy of every recorded move in order.
func (h *History) Entries() []Move {
	return slices.Clone(h.entries)
}

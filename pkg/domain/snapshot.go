package domain

import "strings"

// TapeSnapshot is a bounded copy of a tape region.
// Cells[i] holds the symbol at position Offset+i.
type TapeSnapshot struct {
	Offset int      `json:"offset"`
	Cells  []Symbol `json:"cells"`
}

// At returns the symbol at an absolute position, or Blank outside the snapshot.
func (t TapeSnapshot) At(pos int) Symbol {
	i := pos - t.Offset
	if i < 0 || i >= len(t.Cells) {
		return Blank
	}
	return t.Cells[i]
}

// String renders the cells back to back, e.g. "_xx#10_".
func (t TapeSnapshot) String() string {
	return JoinSymbols(t.Cells)
}

// Trimmed renders the snapshot without leading and trailing blanks.
// An all-blank tape renders as a single blank.
func (t TapeSnapshot) Trimmed() string {
	s := strings.Trim(t.String(), string(Blank))
	if s == "" {
		return string(Blank)
	}
	return s
}

// Snapshot is the view of a run at one step, produced by tracing.
type Snapshot struct {
	Step   uint64       `json:"step"`
	State  string       `json:"state"`
	Head   int          `json:"head"`
	Symbol Symbol       `json:"symbol"`
	Window TapeSnapshot `json:"window"`
	// Verdict is set on the last snapshot of a halted run only.
	Verdict *Verdict `json:"verdict,omitempty"`
}

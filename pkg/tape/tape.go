// Package tape provides the unbounded two-way tape used by the execution engine.
//
// Cells live in fixed-size pages held in a map keyed by page index, so a head
// may wander arbitrarily far in either direction without a pre-sized buffer.
// Unwritten cells read as the blank value given at construction.
package tape

import "github.com/WizardOfMenlo/turing-machine/pkg/domain"

const (
	pageBits = 6
	pageSize = 1 << pageBits
	pageMask = pageSize - 1
)

type page[S comparable] [pageSize]S

// Tape is a sparse, two-way unbounded sequence of cells plus a head.
// A Tape is owned by a single run and is not safe for concurrent use.
type Tape[S comparable] struct {
	blank S
	pages map[int]*page[S]

	head    int
	lo, hi  int
	written bool

	// last page touched; runs are highly local so this skips most map lookups.
	lastIdx  int
	lastPage *page[S]
}

// New creates an empty tape whose cells all read as blank.
func New[S comparable](blank S) *Tape[S] {
	return &Tape[S]{
		blank: blank,
		pages: make(map[int]*page[S]),
	}
}

// split maps a position to its page index and offset.
// Arithmetic shift floors negative positions, so -1 lands in page -1 at offset 63.
func split(pos int) (int, int) {
	return pos >> pageBits, pos & pageMask
}

func (t *Tape[S]) lookup(idx int) *page[S] {
	if t.lastPage != nil && t.lastIdx == idx {
		return t.lastPage
	}
	p := t.pages[idx]
	if p != nil {
		t.lastIdx, t.lastPage = idx, p
	}
	return p
}

// Blank returns the value of an unwritten cell.
func (t *Tape[S]) Blank() S {
	return t.blank
}

// Read returns the symbol at pos, or blank if the cell was never written.
func (t *Tape[S]) Read(pos int) S {
	idx, off := split(pos)
	p := t.lookup(idx)
	if p == nil {
		return t.blank
	}
	return p[off]
}

// Write stores s at pos.
func (t *Tape[S]) Write(pos int, s S) {
	idx, off := split(pos)
	p := t.lookup(idx)
	if p == nil {
		p = new(page[S])
		for i := range p {
			p[i] = t.blank
		}
		t.pages[idx] = p
		t.lastIdx, t.lastPage = idx, p
	}
	p[off] = s

	if !t.written {
		t.lo, t.hi, t.written = pos, pos, true
		return
	}
	if pos < t.lo {
		t.lo = pos
	}
	if pos > t.hi {
		t.hi = pos
	}
}

// Load writes cells at consecutive positions starting from the origin (0)
// and parks the head on the origin.
func (t *Tape[S]) Load(cells []S) {
	for i, s := range cells {
		t.Write(i, s)
	}
	t.head = 0
}

// Head returns the current head position.
func (t *Tape[S]) Head() int {
	return t.head
}

// Move shifts the head one cell in the given direction.
func (t *Tape[S]) Move(m domain.Move) {
	t.head += int(m)
}

// ReadHead reads the cell under the head.
func (t *Tape[S]) ReadHead() S {
	return t.Read(t.head)
}

// WriteHead writes the cell under the head.
func (t *Tape[S]) WriteHead(s S) {
	t.Write(t.head, s)
}

// Bounds returns the lowest and highest written positions.
// ok is false when nothing was ever written.
func (t *Tape[S]) Bounds() (lo, hi int, ok bool) {
	return t.lo, t.hi, t.written
}

// Snapshot copies the written span [lo, hi]. An untouched tape yields (0, nil).
func (t *Tape[S]) Snapshot() (offset int, cells []S) {
	if !t.written {
		return 0, nil
	}
	return t.lo, t.span(t.lo, t.hi)
}

// Window copies the cells within radius of the head, blanks included.
func (t *Tape[S]) Window(radius int) (offset int, cells []S) {
	if radius < 0 {
		radius = 0
	}
	return t.head - radius, t.span(t.head-radius, t.head+radius)
}

func (t *Tape[S]) span(from, to int) []S {
	cells := make([]S, 0, to-from+1)
	for pos := from; pos <= to; pos++ {
		cells = append(cells, t.Read(pos))
	}
	return cells
}

// Package table implements the deterministic transition table.
//
// States and symbols are resolved to dense indices before the table is built,
// so a lookup is a slice index plus a small integer-keyed map probe instead of
// a hash of two strings.
package table

import (
	"fmt"
	"maps"
	"slices"

	"github.com/WizardOfMenlo/turing-machine/pkg/domain"
)

// StateID is the dense index of a state inside a program.
type StateID uint32

// SymbolID is the dense index of a symbol inside a program. Zero is always the blank.
type SymbolID uint16

// BlankID is the index reserved for domain.Blank.
const BlankID SymbolID = 0

// Action is the right-hand side of a transition.
type Action struct {
	Next  StateID
	Write SymbolID
	Move  domain.Move
}

// DuplicateError reports an attempt to insert a key that already exists.
type DuplicateError struct {
	State  StateID
	Symbol SymbolID
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s: key (state %d, symbol %d) already present", domain.ErrDuplicateTransition, e.State, e.Symbol)
}

func (e *DuplicateError) Unwrap() error {
	return domain.ErrDuplicateTransition
}

// Table maps (state, symbol) to an Action. Each state owns a row keyed by
// symbol, allocated on its first insert, so memory grows with the number of
// transitions rather than with states times symbols.
type Table struct {
	symbols int
	rows    []map[SymbolID]Action
	size    int
}

// New creates an empty table for the given number of states and symbols
// (the symbol count includes the blank).
func New(states, symbols int) *Table {
	return &Table{
		symbols: symbols,
		rows:    make([]map[SymbolID]Action, states),
	}
}

func (t *Table) inRange(state StateID, sym SymbolID) bool {
	return int(state) < len(t.rows) && int(sym) < t.symbols
}

// Insert adds a transition. It never overwrites: inserting an existing key
// returns a *DuplicateError and leaves the table unchanged.
func (t *Table) Insert(state StateID, sym SymbolID, action Action) error {
	if !t.inRange(state, sym) {
		return fmt.Errorf("key (state %d, symbol %d) out of range %dx%d", state, sym, len(t.rows), t.symbols)
	}
	if _, ok := t.rows[state][sym]; ok {
		return &DuplicateError{State: state, Symbol: sym}
	}
	if !t.inRange(action.Next, action.Write) {
		return fmt.Errorf("action %+v references an index out of range", action)
	}
	if t.rows[state] == nil {
		t.rows[state] = make(map[SymbolID]Action)
	}
	t.rows[state][sym] = action
	t.size++
	return nil
}

// Lookup returns the transition for (state, sym).
func (t *Table) Lookup(state StateID, sym SymbolID) (Action, bool) {
	if int(state) >= len(t.rows) {
		return Action{}, false
	}
	a, ok := t.rows[state][sym]
	return a, ok
}

// HasOutgoing reports whether any transition starts in state.
func (t *Table) HasOutgoing(state StateID) bool {
	return int(state) < len(t.rows) && len(t.rows[state]) > 0
}

// Len returns the number of transitions.
func (t *Table) Len() int {
	return t.size
}

// Each visits every transition in (state, symbol) order.
// Iteration stops early when fn returns false.
func (t *Table) Each(fn func(state StateID, sym SymbolID, action Action) bool) {
	for state, row := range t.rows {
		for _, sym := range slices.Sorted(maps.Keys(row)) {
			if !fn(StateID(state), sym, row[sym]) {
				return
			}
		}
	}
}

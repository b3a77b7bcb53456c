package program

import (
	"errors"
	"fmt"

	"github.com/WizardOfMenlo/turing-machine/pkg/domain"
	"github.com/WizardOfMenlo/turing-machine/pkg/table"
)

type rule struct {
	from  string
	read  domain.Symbol
	to    string
	write domain.Symbol
	move  domain.Move
}

// Builder assembles a Program. It is not safe for concurrent use.
type Builder struct {
	name     string
	states   []StateInfo
	stateIDs map[string]table.StateID
	symbols  []domain.Symbol
	symIDs   map[domain.Symbol]table.SymbolID
	rules    []rule
	start    *table.StateID
	warnings []string
	errs     []error
}

// NewBuilder creates a builder whose symbol table already holds the blank.
func NewBuilder(name string) *Builder {
	return &Builder{
		name:     name,
		stateIDs: make(map[string]table.StateID),
		symbols:  []domain.Symbol{domain.Blank},
		symIDs:   map[domain.Symbol]table.SymbolID{domain.Blank: table.BlankID},
	}
}

// State declares a state, or returns the existing index. A start role also
// marks the state as the start state. A non-ordinary role upgrades an ordinary
// state; redeclaring a state with a different non-ordinary role, or naming a
// second start state, is recorded and makes Build fail.
func (b *Builder) State(name string, role domain.Role) table.StateID {
	id, ok := b.stateIDs[name]
	if !ok {
		id = table.StateID(len(b.states))
		b.states = append(b.states, StateInfo{Name: name, Role: domain.RoleOrdinary})
		b.stateIDs[name] = id
	}
	if role == domain.RoleOrdinary {
		return id
	}

	switch prev := b.states[id].Role; {
	case prev == role:
	case prev != domain.RoleOrdinary:
		b.errs = append(b.errs, fmt.Errorf("state %q declared %s after %s", name, role, prev))
		return id
	case role == domain.RoleStart && b.start != nil:
		b.errs = append(b.errs, fmt.Errorf("start state %q conflicts with %q", name, b.states[*b.start].Name))
		return id
	}
	b.states[id].Role = role
	if role == domain.RoleStart {
		b.start = &id
	}
	return id
}

// Symbol declares a tape symbol, or returns the existing index.
func (b *Builder) Symbol(sym domain.Symbol) table.SymbolID {
	if id, ok := b.symIDs[sym]; ok {
		return id
	}
	id := table.SymbolID(len(b.symbols))
	b.symbols = append(b.symbols, sym)
	b.symIDs[sym] = id
	return id
}

// Rule records a transition. States and symbols must be declared before Build.
func (b *Builder) Rule(from string, read domain.Symbol, to string, write domain.Symbol, move domain.Move) {
	b.rules = append(b.rules, rule{from: from, read: read, to: to, write: write, move: move})
}

// Warn attaches a non-fatal diagnostic to the program.
func (b *Builder) Warn(msg string) {
	b.warnings = append(b.warnings, msg)
}

// Build resolves all rules into the transition table. It enforces the same
// invariants as the validator: exactly one start state, at least one accept
// and one reject state, no rule leaving a terminal state, every name declared
// and every (state, symbol) key unique. All failures are joined into one error.
func (b *Builder) Build() (*Program, error) {
	if len(b.symbols) > int(^table.SymbolID(0)) {
		return nil, fmt.Errorf("%w: too many symbols (%d)", domain.ErrInvalidProgram, len(b.symbols))
	}

	errs := append([]error(nil), b.errs...)
	if b.start == nil {
		errs = append(errs, errors.New("no start state"))
	}
	var hasAccept, hasReject bool
	for _, st := range b.states {
		hasAccept = hasAccept || st.Role == domain.RoleAccept
		hasReject = hasReject || st.Role == domain.RoleReject
	}
	if !hasAccept {
		errs = append(errs, errors.New("no accept state"))
	}
	if !hasReject {
		errs = append(errs, errors.New("no reject state"))
	}

	tbl := table.New(len(b.states), len(b.symbols))
	for _, r := range b.rules {
		from, ok1 := b.stateIDs[r.from]
		to, ok2 := b.stateIDs[r.to]
		read, ok3 := b.symIDs[r.read]
		write, ok4 := b.symIDs[r.write]
		if !ok1 || !ok2 || !ok3 || !ok4 {
			errs = append(errs, fmt.Errorf("rule %s %s %s %s %s references an undeclared name", r.from, r.read, r.to, r.write, r.move))
			continue
		}
		if err := tbl.Insert(from, read, table.Action{Next: to, Write: write, Move: r.move}); err != nil {
			errs = append(errs, fmt.Errorf("rule %s %s: %w", r.from, r.read, err))
		}
	}
	for id, st := range b.states {
		if st.Role.IsTerminal() && tbl.HasOutgoing(table.StateID(id)) {
			errs = append(errs, fmt.Errorf("%s state %q has outgoing transitions", st.Role, st.Name))
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidProgram, errors.Join(errs...))
	}

	p := &Program{
		name:     b.name,
		states:   append([]StateInfo(nil), b.states...),
		stateIDs: make(map[string]table.StateID, len(b.stateIDs)),
		symbols:  append([]domain.Symbol(nil), b.symbols...),
		symIDs:   make(map[domain.Symbol]table.SymbolID, len(b.symIDs)),
		table:    tbl,
		start:    *b.start,
		warnings: append([]string(nil), b.warnings...),
	}
	for k, v := range b.stateIDs {
		p.stateIDs[k] = v
	}
	for k, v := range b.symIDs {
		p.symIDs[k] = v
	}
	p.computeDigest()
	return p, nil
}

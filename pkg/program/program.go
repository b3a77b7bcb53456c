package program

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/WizardOfMenlo/turing-machine/pkg/domain"
	"github.com/WizardOfMenlo/turing-machine/pkg/table"
)

// StateInfo describes one state of a Program.
type StateInfo struct {
	Name string      `json:"name"`
	Role domain.Role `json:"role"`
}

// Transition is the name-level view of one table entry.
type Transition struct {
	State string        `json:"state"`
	Read  domain.Symbol `json:"read"`
	Next  string        `json:"next"`
	Write domain.Symbol `json:"write"`
	Move  domain.Move   `json:"move"`
}

func (t Transition) String() string {
	return fmt.Sprintf("%s %s %s %s %s", t.State, t.Read, t.Next, t.Write, t.Move)
}

// Program is an immutable, validated machine.
type Program struct {
	name     string
	states   []StateInfo
	stateIDs map[string]table.StateID
	symbols  []domain.Symbol
	symIDs   map[domain.Symbol]table.SymbolID
	table    *table.Table
	start    table.StateID
	warnings []string
	digest   string
}

// Name returns the label given at build time (usually the file name).
func (p *Program) Name() string {
	return p.name
}

// Start returns the start state.
func (p *Program) Start() table.StateID {
	return p.start
}

// NumStates returns the number of states.
func (p *Program) NumStates() int {
	return len(p.states)
}

// NumSymbols returns the number of tape symbols, blank included.
func (p *Program) NumSymbols() int {
	return len(p.symbols)
}

// StateName returns the label of a state.
func (p *Program) StateName(id table.StateID) string {
	return p.states[id].Name
}

// StateID resolves a state label.
func (p *Program) StateID(name string) (table.StateID, bool) {
	id, ok := p.stateIDs[name]
	return id, ok
}

// Role returns the role of a state.
func (p *Program) Role(id table.StateID) domain.Role {
	return p.states[id].Role
}

// Symbol returns the symbol for an index.
func (p *Program) Symbol(id table.SymbolID) domain.Symbol {
	return p.symbols[id]
}

// SymbolID resolves a symbol. The blank always resolves to table.BlankID.
func (p *Program) SymbolID(sym domain.Symbol) (table.SymbolID, bool) {
	id, ok := p.symIDs[sym]
	return id, ok
}

// Lookup returns the transition for (state, sym).
func (p *Program) Lookup(state table.StateID, sym table.SymbolID) (table.Action, bool) {
	return p.table.Lookup(state, sym)
}

// States returns a copy of the state list in index order.
func (p *Program) States() []StateInfo {
	out := make([]StateInfo, len(p.states))
	copy(out, p.states)
	return out
}

// Alphabet returns the declared alphabet, blank excluded.
func (p *Program) Alphabet() []domain.Symbol {
	out := make([]domain.Symbol, len(p.symbols)-1)
	copy(out, p.symbols[1:])
	return out
}

// Transitions returns every transition in (state, symbol) index order.
func (p *Program) Transitions() []Transition {
	out := make([]Transition, 0, p.table.Len())
	p.table.Each(func(s table.StateID, sym table.SymbolID, a table.Action) bool {
		out = append(out, Transition{
			State: p.StateName(s),
			Read:  p.Symbol(sym),
			Next:  p.StateName(a.Next),
			Write: p.Symbol(a.Write),
			Move:  a.Move,
		})
		return true
	})
	return out
}

// Warnings returns non-fatal diagnostics collected while loading.
func (p *Program) Warnings() []string {
	out := make([]string, len(p.warnings))
	copy(out, p.warnings)
	return out
}

// Digest is a stable content hash of the canonical description.
// Two programs with the same states, alphabet and rules share a digest.
func (p *Program) Digest() string {
	return p.digest
}

// Encode converts an input tape into symbol indices.
// Every symbol must be the blank or a member of the alphabet.
func (p *Program) Encode(input []domain.Symbol) ([]table.SymbolID, error) {
	out := make([]table.SymbolID, len(input))
	for i, sym := range input {
		id, ok := p.symIDs[sym]
		if !ok {
			return nil, &InputError{Position: i, Symbol: sym}
		}
		out[i] = id
	}
	return out, nil
}

// Decode converts symbol indices back into symbols.
func (p *Program) Decode(ids []table.SymbolID) []domain.Symbol {
	out := make([]domain.Symbol, len(ids))
	for i, id := range ids {
		out[i] = p.symbols[id]
	}
	return out
}

// WriteTo writes the canonical description text. Parsing the output yields
// an equivalent program.
func (p *Program) WriteTo(w io.Writer) (int64, error) {
	var sb strings.Builder
	p.format(&sb)
	n, err := io.WriteString(w, sb.String())
	return int64(n), err
}

// String returns the canonical description text.
func (p *Program) String() string {
	var sb strings.Builder
	p.format(&sb)
	return sb.String()
}

func (p *Program) format(sb *strings.Builder) {
	fmt.Fprintf(sb, "%s %d\n", domain.KeywordStates, len(p.states))
	fmt.Fprintf(sb, "%s %s\n", domain.KeywordStart, p.StateName(p.start))

	alphabet := p.Alphabet()
	sort.Slice(alphabet, func(i, j int) bool { return alphabet[i] < alphabet[j] })
	fmt.Fprintf(sb, "%s %d", domain.KeywordAlphabet, len(alphabet))
	for _, s := range alphabet {
		fmt.Fprintf(sb, " %s", s)
	}
	sb.WriteString("\n")

	// Declarations are sorted by name so the digest ignores declaration order.
	decls := p.States()
	sort.Slice(decls, func(i, j int) bool { return decls[i].Name < decls[j].Name })
	for _, st := range decls {
		switch st.Role {
		case domain.RoleAccept:
			fmt.Fprintf(sb, "%s %s\n", st.Name, domain.MarkerAccept)
		case domain.RoleReject:
			fmt.Fprintf(sb, "%s %s\n", st.Name, domain.MarkerReject)
		case domain.RoleOrdinary:
			fmt.Fprintf(sb, "%s\n", st.Name)
		}
	}

	rules := p.Transitions()
	sort.Slice(rules, func(i, j int) bool {
		if rules[i].State != rules[j].State {
			return rules[i].State < rules[j].State
		}
		return rules[i].Read < rules[j].Read
	})
	for _, r := range rules {
		sb.WriteString(r.String())
		sb.WriteString("\n")
	}
}

func (p *Program) computeDigest() {
	sum := sha256.Sum256([]byte(p.String()))
	p.digest = hex.EncodeToString(sum[:])
}

// InputError reports an input symbol that is neither blank nor in the alphabet.
type InputError struct {
	Position int
	Symbol   domain.Symbol
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: symbol %q at position %d is not in the alphabet", domain.ErrInvalidInput, e.Symbol, e.Position)
}

func (e *InputError) Unwrap() error {
	return domain.ErrInvalidInput
}

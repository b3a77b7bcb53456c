// Package compiler turns description text into a candidate machine.
//
// The parser only classifies lines by shape and records what it saw, with
// line numbers, in a Description. Whether the candidate is a well-formed
// machine is decided afterwards by the validator.
package compiler

import "github.com/WizardOfMenlo/turing-machine/pkg/domain"

// Header is the "states N" sanity line.
type Header struct {
	Count int
	Line  int
}

// Declaration introduces a state: a start directive, a bare label, or a role line.
type Declaration struct {
	Name string
	Role domain.Role
	Line int
}

// Rule is one five-token transition line.
type Rule struct {
	State string
	Read  domain.Symbol
	Next  string
	Write domain.Symbol
	Move  domain.Move
	Line  int
}

// Description is a candidate machine exactly as written. It may be inconsistent.
type Description struct {
	Name         string
	Header       *Header
	Starts       []Declaration
	Alphabet     []domain.Symbol
	AlphabetLine int
	Declarations []Declaration
	Rules        []Rule
	Warnings     []string
}

// Labels returns every distinct state label mentioned anywhere, in first-seen order.
func (d *Description) Labels() []string {
	seen := make(map[string]bool)
	var out []string
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	for _, s := range d.Starts {
		add(s.Name)
	}
	for _, decl := range d.Declarations {
		add(decl.Name)
	}
	for _, r := range d.Rules {
		add(r.State)
		add(r.Next)
	}
	return out
}

// Package validator confirms that a parsed description is a well-formed machine.
package validator

import (
	"fmt"
	"sort"

	"github.com/WizardOfMenlo/turing-machine/internal/compiler"
	"github.com/WizardOfMenlo/turing-machine/pkg/domain"
	"github.com/WizardOfMenlo/turing-machine/pkg/program"
)

type roleDecl struct {
	role domain.Role
	line int
}

type ruleKey struct {
	state string
	read  domain.Symbol
}

// Validate checks desc and, if no defect is found, builds the immutable Program.
// All defects are collected before returning; the order is by line, then kind.
func Validate(desc *compiler.Description) (*program.Program, error) {
	var defects []Defect
	report := func(kind DefectKind, line int, format string, args ...any) {
		defects = append(defects, Defect{Kind: kind, Line: line, Message: fmt.Sprintf(format, args...)})
	}

	// Roles
	roles := make(map[string]roleDecl)
	assign := func(name string, role domain.Role, line int) {
		prev, ok := roles[name]
		if !ok {
			roles[name] = roleDecl{role: role, line: line}
			return
		}
		if prev.role != role {
			report(DefectRoleConflict, line, "state %q declared %s here but %s on line %d", name, role, prev.role, prev.line)
		}
	}

	switch len(desc.Starts) {
	case 0:
		report(DefectStartState, 0, "no start state declared")
	default:
		first := desc.Starts[0]
		for _, s := range desc.Starts[1:] {
			report(DefectStartState, s.Line, "start state %q conflicts with %q declared on line %d", s.Name, first.Name, first.Line)
		}
		assign(first.Name, domain.RoleStart, first.Line)
	}

	declared := make(map[string]bool)
	for _, s := range desc.Starts {
		declared[s.Name] = true
	}
	for _, d := range desc.Declarations {
		declared[d.Name] = true
		if d.Role != domain.RoleOrdinary {
			assign(d.Name, d.Role, d.Line)
		}
	}
	for _, r := range desc.Rules {
		declared[r.State] = true
	}

	var hasAccept, hasReject bool
	for _, rd := range roles {
		hasAccept = hasAccept || rd.role == domain.RoleAccept
		hasReject = hasReject || rd.role == domain.RoleReject
	}
	if !hasAccept {
		report(DefectMissingAccept, 0, "no state is marked %s", domain.MarkerAccept)
	}
	if !hasReject {
		report(DefectMissingReject, 0, "no state is marked %s", domain.MarkerReject)
	}

	// Rules
	alphabet := make(map[domain.Symbol]bool, len(desc.Alphabet))
	for _, sym := range desc.Alphabet {
		alphabet[sym] = true
	}
	knownSymbol := func(sym domain.Symbol) bool {
		return sym.IsBlank() || alphabet[sym]
	}

	seen := make(map[ruleKey]int, len(desc.Rules))
	for _, r := range desc.Rules {
		if !declared[r.Next] {
			report(DefectUnknownState, r.Line, "next state %q is never declared", r.Next)
		}
		if !knownSymbol(r.Read) {
			report(DefectUnknownSymbol, r.Line, "read symbol %q is not in the alphabet", r.Read)
		}
		if !knownSymbol(r.Write) {
			report(DefectUnknownSymbol, r.Line, "write symbol %q is not in the alphabet", r.Write)
		}

		key := ruleKey{state: r.State, read: r.Read}
		if first, dup := seen[key]; dup {
			report(DefectDuplicateTransition, r.Line, "(%s, %s) already has a transition on line %d", r.State, r.Read, first)
		} else {
			seen[key] = r.Line
		}

		if rd, ok := roles[r.State]; ok && rd.role.IsTerminal() {
			report(DefectTerminalTransition, r.Line, "%s state %q cannot have outgoing transitions", rd.role, r.State)
		}
	}

	if len(defects) > 0 {
		sort.SliceStable(defects, func(i, j int) bool {
			if defects[i].Line != defects[j].Line {
				return defects[i].Line < defects[j].Line
			}
			return defects[i].Kind < defects[j].Kind
		})
		return nil, &ValidationError{Defects: defects}
	}

	return build(desc, roles)
}

func build(desc *compiler.Description, roles map[string]roleDecl) (*program.Program, error) {
	b := program.NewBuilder(desc.Name)
	for _, name := range desc.Labels() {
		role := domain.RoleOrdinary
		if rd, ok := roles[name]; ok {
			role = rd.role
		}
		b.State(name, role)
	}
	for _, sym := range desc.Alphabet {
		b.Symbol(sym)
	}
	for _, r := range desc.Rules {
		b.Rule(r.State, r.Read, r.Next, r.Write, r.Move)
	}
	for _, w := range desc.Warnings {
		b.Warn(w)
	}

	prog, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build program %q: %w", desc.Name, err)
	}
	return prog, nil
}

package graph

import (
	"fmt"
	"iter"
	"sort"
	"strings"

	"github.com/WizardOfMenlo/turing-machine/pkg/domain"
	"github.com/WizardOfMenlo/turing-machine/pkg/program"
)

// Overlay contains run data to visualize on the graph.
type Overlay struct {
	Visited []string
	Current string
}

// OverlayFromTrace drains a trace and records every state it passed through.
// Current is the state of the last snapshot.
func OverlayFromTrace(seq iter.Seq[domain.Snapshot]) *Overlay {
	o := &Overlay{}
	seen := make(map[string]bool)
	for s := range seq {
		if !seen[s.State] {
			seen[s.State] = true
			o.Visited = append(o.Visited, s.State)
		}
		o.Current = s.State
	}
	return o
}

type edgeKey struct {
	from, to string
}

// GenerateMermaid produces a Mermaid flowchart of prog.
// Shapes follow roles:
// - Start: ((Circle))
// - Accept: (((Double circle)))
// - Reject: {{Hexagon}}
// - Ordinary: [Rectangle]
// Rules sharing a source and target collapse into one edge whose label lists
// read/write,move for each rule.
func GenerateMermaid(prog *program.Program, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	ids := make(map[string]string)
	for i, st := range prog.States() {
		id := fmt.Sprintf("s%d", i)
		ids[st.Name] = id

		opener, closer := "[", "]"
		switch st.Role {
		case domain.RoleStart:
			opener, closer = "((", "))"
		case domain.RoleAccept:
			opener, closer = "(((", ")))"
		case domain.RoleReject:
			opener, closer = "{{", "}}"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", id, opener, escape(st.Name), closer)
	}

	labels := make(map[edgeKey][]string)
	var order []edgeKey
	for _, t := range prog.Transitions() {
		k := edgeKey{from: t.State, to: t.Next}
		if _, ok := labels[k]; !ok {
			order = append(order, k)
		}
		labels[k] = append(labels[k], fmt.Sprintf("%s/%s,%s", t.Read, t.Write, t.Move))
	}
	for _, k := range order {
		l := labels[k]
		sort.Strings(l)
		fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n", ids[k.from], escape(strings.Join(l, " ")), ids[k.to])
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for contrast on light fills in both themes.
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		done := make(map[string]bool)
		for _, name := range overlay.Visited {
			id, ok := ids[name]
			if !ok || done[id] || name == overlay.Current {
				continue
			}
			done[id] = true
			fmt.Fprintf(&sb, "    class %s visited;\n", id)
		}
		if id, ok := ids[overlay.Current]; ok {
			fmt.Fprintf(&sb, "    class %s current;\n", id)
		}
	}

	return sb.String()
}

// escape makes text safe inside a quoted Mermaid label.
func escape(s string) string {
	s = strings.ReplaceAll(s, "#", "#35;")
	s = strings.ReplaceAll(s, "\"", "#quot;")
	return s
}

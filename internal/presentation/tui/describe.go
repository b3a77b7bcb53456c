package tui

import (
	"fmt"
	"strings"

	"github.com/WizardOfMenlo/turing-machine/pkg/domain"
	"github.com/WizardOfMenlo/turing-machine/pkg/program"
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
// Plain output skips styling entirely.
func NewRenderer(plain bool) (func(string) (string, error), error) {
	opt := glamour.WithAutoStyle()
	if plain {
		opt = glamour.WithStandardStyle("notty")
	}
	r, err := glamour.NewTermRenderer(opt, glamour.WithWordWrap(100))
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	return r.Render, nil
}

// DescribeMarkdown summarizes prog as a Markdown document.
func DescribeMarkdown(prog *program.Program) string {
	var sb strings.Builder

	name := prog.Name()
	if name == "" {
		name = "machine"
	}
	fmt.Fprintf(&sb, "# %s\n\n", name)
	fmt.Fprintf(&sb, "- **States:** %d\n", prog.NumStates())
	fmt.Fprintf(&sb, "- **Start:** `%s`\n", prog.StateName(prog.Start()))
	fmt.Fprintf(&sb, "- **Alphabet:** %s (blank `%s`)\n", codeList(prog.Alphabet()), domain.Blank)
	fmt.Fprintf(&sb, "- **Transitions:** %d\n", len(prog.Transitions()))
	fmt.Fprintf(&sb, "- **Digest:** `%s`\n", prog.Digest()[:12])

	if w := prog.Warnings(); len(w) > 0 {
		sb.WriteString("\n## Warnings\n\n")
		for _, msg := range w {
			fmt.Fprintf(&sb, "- %s\n", msg)
		}
	}

	sb.WriteString("\n## States\n\n| State | Role | Rules |\n|---|---|---|\n")
	counts := make(map[string]int)
	for _, t := range prog.Transitions() {
		counts[t.State]++
	}
	for _, st := range prog.States() {
		fmt.Fprintf(&sb, "| `%s` | %s | %d |\n", st.Name, st.Role, counts[st.Name])
	}

	sb.WriteString("\n## Transitions\n\n| State | Read | Next | Write | Move |\n|---|---|---|---|---|\n")
	for _, t := range prog.Transitions() {
		fmt.Fprintf(&sb, "| `%s` | `%s` | `%s` | `%s` | %s |\n", t.State, t.Read, t.Next, t.Write, t.Move)
	}
	return sb.String()
}

func codeList(symbols []domain.Symbol) string {
	parts := make([]string, len(symbols))
	for i, s := range symbols {
		parts[i] = "`" + string(s) + "`"
	}
	return strings.Join(parts, " ")
}

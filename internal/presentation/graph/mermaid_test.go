package graph_test

import (
	"context"
	"strings"
	"testing"

	"github.com/WizardOfMenlo/turing-machine/internal/compiler"
	"github.com/WizardOfMenlo/turing-machine/internal/fixtures"
	"github.com/WizardOfMenlo/turing-machine/internal/presentation/graph"
	"github.com/WizardOfMenlo/turing-machine/internal/runtime"
	"github.com/WizardOfMenlo/turing-machine/internal/validator"
	"github.com/WizardOfMenlo/turing-machine/pkg/domain"
	"github.com/WizardOfMenlo/turing-machine/pkg/program"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func load(t *testing.T, text string) *program.Program {
	t.Helper()
	desc, err := compiler.NewParser(domain.HeaderLenient).ParseString(text)
	require.NoError(t, err)
	prog, err := validator.Validate(desc)
	require.NoError(t, err)
	return prog
}

func TestGenerateMermaid_Shapes(t *testing.T) {
	got := graph.GenerateMermaid(load(t, fixtures.TinyAccept), nil)

	for _, want := range []string{
		"graph LR\n",
		`s0(("start"))`,
		`s1((("accept")))`,
		`s2{{"reject"}}`,
		`s0 -- "0/0,R" --> s1`,
	} {
		assert.Contains(t, got, want)
	}
	assert.NotContains(t, got, "classDef")
}

func TestGenerateMermaid_MergesEdgesAndEscapes(t *testing.T) {
	text := `states 3
start a
alphabet 2 # "
y +
n -
a # a # R
a " a " R
a _ y _ L
`
	got := graph.GenerateMermaid(load(t, text), nil)
	assert.Contains(t, got, `s0 -- "#quot;/#quot;,R #35;/#35;,R" --> s0`)
	assert.Contains(t, got, `s0 -- "_/_,L" --> s1`)
	assert.Equal(t, 2, strings.Count(got, "-->"))
}

func TestGenerateMermaid_Overlay(t *testing.T) {
	prog := load(t, fixtures.TinyAccept)
	seq, err := runtime.NewEngine().Trace(context.Background(), prog, domain.SplitSymbols("0"), 10)
	require.NoError(t, err)

	overlay := graph.OverlayFromTrace(seq)
	assert.Equal(t, []string{"start", "accept"}, overlay.Visited)
	assert.Equal(t, "accept", overlay.Current)

	got := graph.GenerateMermaid(prog, overlay)
	assert.Contains(t, got, "class s0 visited;")
	assert.Contains(t, got, "class s1 current;")
	assert.NotContains(t, got, "class s1 visited;")
}

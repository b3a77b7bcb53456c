package tui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/WizardOfMenlo/turing-machine/internal/compiler"
	"github.com/WizardOfMenlo/turing-machine/internal/fixtures"
	"github.com/WizardOfMenlo/turing-machine/internal/validator"
	"github.com/WizardOfMenlo/turing-machine/pkg/domain"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileFor_NonTerminal(t *testing.T) {
	var buf bytes.Buffer
	assert.False(t, IsTerminal(&buf))
	assert.Equal(t, termenv.Ascii, ProfileFor(&buf))
}

func TestTapeRenderer_Ascii(t *testing.T) {
	r := NewTapeRenderer(termenv.Ascii)
	line := r.Snapshot(domain.Snapshot{
		Step:   3,
		State:  "scan",
		Head:   1,
		Window: domain.TapeSnapshot{Offset: 0, Cells: []domain.Symbol{"0", "1", "_"}},
	})
	assert.Equal(t, "     3  scan        | 0 [1] _ |", line)

	v := r.Verdict(domain.Verdict{Kind: domain.VerdictAccept, State: "acc", Steps: 3})
	assert.Equal(t, "accept in state acc at head 0 after 3 steps", v)
}

func TestTapeRenderer_VerdictOnLastLine(t *testing.T) {
	r := NewTapeRenderer(termenv.Ascii)
	v := domain.Verdict{Kind: domain.VerdictReject, State: "rej"}
	line := r.Snapshot(domain.Snapshot{State: "rej", Verdict: &v})
	assert.True(t, strings.HasSuffix(line, "reject in state rej at head 0 after 0 steps"))
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, "v1.2.3")
	assert.Contains(t, buf.String(), "turing machine v1.2.3")
	assert.NotContains(t, buf.String(), "\x1b[")
}

func TestDescribeMarkdown(t *testing.T) {
	desc, err := compiler.NewParser(domain.HeaderStrict, compiler.WithName("tiny")).ParseString(fixtures.TinyAccept)
	require.NoError(t, err)
	prog, err := validator.Validate(desc)
	require.NoError(t, err)

	md := DescribeMarkdown(prog)
	assert.Contains(t, md, "# tiny")
	assert.Contains(t, md, "- **Start:** `start`")
	assert.Contains(t, md, "| `accept` | accept | 0 |")
	assert.Contains(t, md, "| `start` | `0` | `accept` | `0` | R |")

	render, err := NewRenderer(true)
	require.NoError(t, err)
	out, err := render(md)
	require.NoError(t, err)
	assert.Contains(t, out, "tiny")
}

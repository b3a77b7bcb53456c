package turing

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	goruntime "runtime"
	"strings"
	"testing"

	"github.com/WizardOfMenlo/turing-machine/internal/fixtures"
	"github.com/WizardOfMenlo/turing-machine/internal/logging"
	"github.com/WizardOfMenlo/turing-machine/internal/testutils"
	"github.com/WizardOfMenlo/turing-machine/internal/validator"
	"github.com/WizardOfMenlo/turing-machine/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_Defaults(t *testing.T) {
	eng := New()
	assert.Equal(t, domain.ModeStrict, eng.Mode())
	assert.Equal(t, domain.HeaderLenient, eng.HeaderPolicy())
	assert.Equal(t, domain.DefaultStepLimit, eng.StepLimit())
}

func TestEngine_LoadFileAndRun(t *testing.T) {
	dir := testutils.SetupMachineDir(t, map[string]string{"compare": fixtures.Compare48})
	path := filepath.Join(dir, "compare.tm")

	eng := New(WithMode(domain.ModeCompat), WithHeaderPolicy(domain.HeaderStrict))
	prog, err := eng.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "compare.tm", prog.Name())

	res, err := eng.RunString(context.Background(), prog, "101100#101100")
	require.NoError(t, err)
	assert.True(t, res.Verdict.Accepted())
	assert.Equal(t, uint64(84), res.Steps)

	res, err = eng.RunString(context.Background(), prog, "000#100")
	require.NoError(t, err)
	assert.Equal(t, domain.VerdictReject, res.Verdict.Kind)
}

func TestEngine_LoadFileMissing(t *testing.T) {
	_, err := New().LoadFile(filepath.Join(t.TempDir(), "nope.tm"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestEngine_LoadErrors(t *testing.T) {
	_, err := Load("states 1\nstart a\na 0 b 0 X\n", domain.HeaderLenient)
	assert.ErrorIs(t, err, domain.ErrParse)

	_, err = Load("states 2\nstart a\na +\n", domain.HeaderLenient)
	assert.ErrorIs(t, err, domain.ErrInvalidProgram)
	assert.NotEmpty(t, validator.Defects(err))
}

func TestLoad_HeaderPolicyArgument(t *testing.T) {
	text := "states 9\nstart a\nalphabet 1 0\ny +\nn -\na 0 y 0 R\n"

	prog, err := Load(text, domain.HeaderLenient)
	require.NoError(t, err)
	assert.Len(t, prog.Warnings(), 1)

	_, err = Load(text, domain.HeaderStrict)
	assert.ErrorIs(t, err, domain.ErrParse)
}

func TestLoad_WideMachineWithoutRules(t *testing.T) {
	const states, symbols = 6000, 6000

	var sb strings.Builder
	fmt.Fprintf(&sb, "states %d\nstart q0\nalphabet %d", states, symbols)
	for i := range symbols {
		fmt.Fprintf(&sb, " %c", rune(0x4E00+i))
	}
	sb.WriteString("\nq1 +\n")
	for i := 2; i < states; i++ {
		fmt.Fprintf(&sb, "q%d -\n", i)
	}

	var before, after goruntime.MemStats
	goruntime.GC()
	goruntime.ReadMemStats(&before)
	prog, err := Load(sb.String(), domain.HeaderStrict)
	goruntime.ReadMemStats(&after)
	require.NoError(t, err)

	assert.Equal(t, states, prog.NumStates())
	assert.Equal(t, symbols+1, prog.NumSymbols())
	assert.Empty(t, prog.Transitions())
	assert.Less(t, after.TotalAlloc-before.TotalAlloc, uint64(64<<20), "loading must not allocate per (state, symbol) pair")
}

func TestEngine_HeaderPolicy(t *testing.T) {
	text := "states 7\nstart a\nalphabet 1 0\ny +\nn -\na 0 y 0 R\n"

	var buf bytes.Buffer
	lenient := New(WithLogger(logging.NewWriter(&buf, slog.LevelWarn)))
	prog, err := lenient.LoadString("m", text)
	require.NoError(t, err)
	assert.Len(t, prog.Warnings(), 1)
	assert.Contains(t, buf.String(), "header")

	_, err = New(WithHeaderPolicy(domain.HeaderStrict)).LoadString("m", text)
	assert.ErrorIs(t, err, domain.ErrParse)
}

func TestEngine_StepLimitAndHooks(t *testing.T) {
	var halts int
	eng := New(
		WithStepLimit(100),
		WithLifecycleHooks(domain.LifecycleHooks{
			OnHalt: func(_ context.Context, ev *domain.RunEvent) { halts++ },
		}),
	)
	prog, err := eng.LoadString("loop", fixtures.Unbounded)
	require.NoError(t, err)

	res, err := eng.Run(context.Background(), prog, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.VerdictStepLimitExceeded, res.Verdict.Kind)
	assert.Equal(t, uint64(101), res.Steps)

	res, err = eng.RunLimit(context.Background(), prog, nil, 3)
	require.NoError(t, err)
	assert.Equal(t, uint64(4), res.Steps)
	assert.Equal(t, 2, halts)
}

func TestEngine_CompatScenario(t *testing.T) {
	prog, err := Load(fixtures.TinyAccept)
	require.NoError(t, err)

	res, err := New(WithMode(domain.ModeCompat)).RunString(context.Background(), prog, "")
	require.NoError(t, err)
	assert.Equal(t, domain.VerdictReject, res.Verdict.Kind)

	res, err = Run(context.Background(), prog, nil, 10)
	require.NoError(t, err)
	assert.Equal(t, domain.VerdictUndefined, res.Verdict.Kind)
	assert.Equal(t, domain.Blank, res.Verdict.Symbol)
}

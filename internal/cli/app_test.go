package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/WizardOfMenlo/turing-machine/internal/testutils"
	"github.com/WizardOfMenlo/turing-machine/pkg/adapters/file"
	"github.com/WizardOfMenlo/turing-machine/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testApp struct {
	*App
	dir string
	out *bytes.Buffer
	err *bytes.Buffer
}

func newTestApp(t *testing.T, mutate ...func(*Config)) *testApp {
	t.Helper()
	dir := testutils.SetupMachineDir(t, testutils.ReferenceMachines())

	cfg := DefaultConfig()
	cfg.MachinesDir = dir
	for _, m := range mutate {
		m(&cfg)
	}

	var out, errOut bytes.Buffer
	app, err := NewApp(cfg, strings.NewReader(""), &out, &errOut)
	require.NoError(t, err)
	return &testApp{App: app, dir: dir, out: &out, err: &errOut}
}

func compat(c *Config) { c.Mode = "compat" }

func TestRun_Accept(t *testing.T) {
	app := newTestApp(t)

	err := app.Run(context.Background(), RunOptions{TapeOptions: TapeOptions{Machine: "compare", Input: "101100#101100"}})
	require.NoError(t, err)
	assert.Equal(t, ExitAccepted, ExitCode(err))
	assert.Contains(t, app.out.String(), "accept in state acc at head 0 after 84 steps")
	assert.Contains(t, app.out.String(), "tape: _\n")
}

func TestRun_NotAccepted(t *testing.T) {
	t.Run("strict undefined", func(t *testing.T) {
		app := newTestApp(t)
		err := app.Run(context.Background(), RunOptions{TapeOptions: TapeOptions{Machine: "compare", Input: "000#100"}})
		assert.ErrorIs(t, err, ErrNotAccepted)
		assert.Equal(t, ExitNotAccepted, ExitCode(err))
		assert.Contains(t, app.out.String(), "undefined(000C, 1) at head 4 after 20 steps")
		assert.Contains(t, app.out.String(), "tape: xxx#100\n")
	})

	t.Run("compat reject", func(t *testing.T) {
		app := newTestApp(t, compat)
		err := app.Run(context.Background(), RunOptions{TapeOptions: TapeOptions{Machine: "compare", Input: "011#01"}})
		assert.Equal(t, ExitNotAccepted, ExitCode(err))
		assert.Contains(t, app.out.String(), "reject in state rej at head 7 after 21 steps")
	})
}

func TestRun_FilePathAndTapeFile(t *testing.T) {
	app := newTestApp(t)
	tape := writeFile(t, app.dir, "input.tape", "0 #\n0\n")

	err := app.Run(context.Background(), RunOptions{
		TapeOptions: TapeOptions{Machine: app.dir + "/compare.tm", TapeFile: tape},
		JSON:        true,
	})
	require.NoError(t, err)

	var rec domain.RunRecord
	require.NoError(t, json.Unmarshal(app.out.Bytes(), &rec))
	assert.Equal(t, "compare.tm", rec.Program)
	assert.Equal(t, "0#0", rec.Input)
	assert.Equal(t, uint64(16), rec.Result.Steps)
}

func TestRun_InputErrors(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	err := app.Run(ctx, RunOptions{TapeOptions: TapeOptions{Machine: "tiny", Input: "0", TapeFile: "x"}})
	assert.ErrorIs(t, err, ErrUsage)
	assert.Equal(t, ExitInvalid, ExitCode(err))

	err = app.Run(ctx, RunOptions{TapeOptions: TapeOptions{Machine: "tiny", Input: "7"}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, ExitInvalid, ExitCode(err))

	err = app.Run(ctx, RunOptions{TapeOptions: TapeOptions{Machine: "tiny", TapeFile: app.dir + "/missing"}})
	assert.Equal(t, ExitIO, ExitCode(err))

	err = app.Run(ctx, RunOptions{TapeOptions: TapeOptions{Machine: app.dir + "/missing.tm"}})
	assert.Equal(t, ExitIO, ExitCode(err))

	err = app.Run(ctx, RunOptions{TapeOptions: TapeOptions{Machine: "nope"}})
	assert.ErrorIs(t, err, domain.ErrMachineNotFound)
	assert.Equal(t, ExitInvalid, ExitCode(err))
}

func TestRun_PersistsToStoreDir(t *testing.T) {
	storeDir := t.TempDir()
	app := newTestApp(t, func(c *Config) { c.StoreDir = storeDir })

	err := app.Run(context.Background(), RunOptions{TapeOptions: TapeOptions{Machine: "tiny", Input: "0"}})
	require.NoError(t, err)

	ids, err := file.NewStore(storeDir).List(context.Background())
	require.NoError(t, err)
	require.Len(t, ids, 1)
	assert.Contains(t, app.out.String(), "run:  "+ids[0])
}

func TestValidate(t *testing.T) {
	app := newTestApp(t)
	require.NoError(t, app.Validate("compare"))
	assert.Equal(t, "compare: ok (48 states, 4 symbols, 127 transitions)\n", app.out.String())

	bad := writeFile(t, app.dir, "bad.tm", "states 3\nstart a\nalphabet 1 0\nacc +\nrej -\na 0 b 0 R\n")
	err := app.Validate(bad)
	assert.ErrorIs(t, err, domain.ErrInvalidProgram)
	assert.Equal(t, ExitInvalid, ExitCode(err))

	strict := newTestApp(t, func(c *Config) { c.HeaderPolicy = "strict" })
	missingHeader := writeFile(t, strict.dir, "noheader.tm", "start s\nalphabet 1 0\na +\nr -\ns 0 a 0 R\n")
	err = strict.Validate(missingHeader)
	assert.ErrorIs(t, err, domain.ErrParse)
}

func TestTrace_Text(t *testing.T) {
	app := newTestApp(t)

	err := app.Trace(context.Background(), TraceOptions{TapeOptions: TapeOptions{Machine: "tiny", Input: "0"}})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(app.out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "[0]")
	assert.Contains(t, lines[1], "accept in state accept")
}

func TestTrace_JSONNotAccepted(t *testing.T) {
	app := newTestApp(t)

	err := app.Trace(context.Background(), TraceOptions{TapeOptions: TapeOptions{Machine: "tiny"}, JSON: true})
	assert.ErrorIs(t, err, ErrNotAccepted)

	var snap domain.Snapshot
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(app.out.Bytes()), &snap))
	require.NotNil(t, snap.Verdict)
	assert.Equal(t, domain.VerdictUndefined, snap.Verdict.Kind)
}

func TestGraph(t *testing.T) {
	app := newTestApp(t)

	require.NoError(t, app.Graph(context.Background(), GraphOptions{TapeOptions: TapeOptions{Machine: "tiny"}}))
	assert.True(t, strings.HasPrefix(app.out.String(), "graph LR\n"))
	assert.NotContains(t, app.out.String(), "classDef")

	app.out.Reset()
	require.NoError(t, app.Graph(context.Background(), GraphOptions{
		TapeOptions: TapeOptions{Machine: "tiny", Input: "0"},
		Overlay:     true,
	}))
	assert.Contains(t, app.out.String(), "classDef")
}

func TestDescribe(t *testing.T) {
	app := newTestApp(t)

	require.NoError(t, app.Describe("tiny", true))
	assert.Contains(t, app.out.String(), "# tiny")
	assert.Contains(t, app.out.String(), "| `start` | `0` | `accept` | `0` | R |")

	app.out.Reset()
	require.NoError(t, app.Describe("tiny", false))
	assert.Contains(t, app.out.String(), "tiny")
}

func TestBatch(t *testing.T) {
	app := newTestApp(t, compat)
	inputs := writeFile(t, app.dir, "inputs.txt", "// pairs\n0#0\n\n1101#1101\n")

	err := app.Batch(context.Background(), BatchOptions{Machine: "compare", InputsFile: inputs})
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(app.out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "accept")
	assert.Contains(t, lines[1], "steps=50")
}

func TestBatch_Stdin(t *testing.T) {
	app := newTestApp(t, compat)
	app.In = strings.NewReader("0#0\n1#0\n")

	err := app.Batch(context.Background(), BatchOptions{Machine: "compare", InputsFile: "-", JSON: true})
	assert.ErrorIs(t, err, ErrNotAccepted)
	assert.Contains(t, err.Error(), "1 of 2 inputs")
	assert.Equal(t, 2, strings.Count(app.out.String(), "\n"))
}

func TestBatch_InputError(t *testing.T) {
	app := newTestApp(t, compat)
	app.In = strings.NewReader("0#0\n2#2\n")

	err := app.Batch(context.Background(), BatchOptions{Machine: "compare", InputsFile: "-"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, ExitInvalid, ExitCode(err))
}

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	turing "github.com/WizardOfMenlo/turing-machine"
	"github.com/WizardOfMenlo/turing-machine/internal/presentation/graph"
	"github.com/WizardOfMenlo/turing-machine/internal/presentation/tui"
	"github.com/WizardOfMenlo/turing-machine/pkg/adapters/file"
	"github.com/WizardOfMenlo/turing-machine/pkg/domain"
	"github.com/WizardOfMenlo/turing-machine/pkg/program"
	"github.com/WizardOfMenlo/turing-machine/pkg/runner"
)

// ErrUsage is wrapped by errors caused by conflicting or missing arguments.
var ErrUsage = errors.New("usage error")

// App carries the resolved configuration and the streams every command writes to.
type App struct {
	Config Config
	In     io.Reader
	Out    io.Writer
	Err    io.Writer

	logger *slog.Logger
}

// NewApp validates cfg and prepares the logger, which writes to errOut.
func NewApp(cfg Config, in io.Reader, out, errOut io.Writer) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger, err := createLogger(cfg, errOut)
	if err != nil {
		return nil, err
	}
	return &App{Config: cfg, In: in, Out: out, Err: errOut, logger: logger}, nil
}

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// TapeOptions names a machine and where its input tape comes from.
// Machine is a path to a description file or the name of a *.tm file in
// the configured machines directory. Input and TapeFile are exclusive;
// TapeFile "-" reads standard input.
type TapeOptions struct {
	Machine  string
	Input    string
	TapeFile string
}

// RunOptions configures the run command.
type RunOptions struct {
	TapeOptions
	JSON bool
}

// TraceOptions configures the trace command.
type TraceOptions struct {
	TapeOptions
	JSON bool
}

// GraphOptions configures the graph command. With Overlay set, the input
// is traced and the visited states are highlighted.
type GraphOptions struct {
	TapeOptions
	Overlay bool
}

// BatchOptions configures the batch command. InputsFile "-" reads standard input.
type BatchOptions struct {
	Machine    string
	InputsFile string
	JSON       bool
}

// loadProgram resolves ref either as a file path or as a machine name.
func (a *App) loadProgram(eng *turing.Engine, ref string) (*program.Program, error) {
	if ref == "" {
		return nil, fmt.Errorf("%w: no machine given", ErrUsage)
	}
	if strings.HasSuffix(ref, file.Ext) || strings.ContainsAny(ref, `/\`) {
		return eng.LoadFile(ref)
	}
	raw, err := createLoader(a.Config).GetMachine(ref)
	if err != nil {
		return nil, err
	}
	return eng.Load(ref, bytes.NewReader(raw))
}

// readTape returns the input tape text. Whitespace in tape files is ignored
// later, when the text is split into symbols.
func (a *App) readTape(opts TapeOptions) (string, error) {
	if opts.TapeFile == "" {
		return opts.Input, nil
	}
	if opts.Input != "" {
		return "", fmt.Errorf("%w: give the input either inline or with --tape, not both", ErrUsage)
	}
	data, err := a.readSource(opts.TapeFile)
	if err != nil {
		return "", fmt.Errorf("failed to read tape: %w", err)
	}
	return string(data), nil
}

func (a *App) readSource(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(a.In)
	}
	return os.ReadFile(path)
}

func (a *App) prepare(ref string, hooks ...domain.LifecycleHooks) (*turing.Engine, *program.Program, error) {
	eng, err := createEngine(a.Config, a.logger, hooks...)
	if err != nil {
		return nil, nil, err
	}
	prog, err := a.loadProgram(eng, ref)
	if err != nil {
		return nil, nil, err
	}
	for _, w := range prog.Warnings() {
		a.logger.Warn("description warning", "program", prog.Name(), "detail", w)
	}
	return eng, prog, nil
}

func (a *App) persistent() bool {
	return a.Config.RedisURL != "" || a.Config.StoreDir != ""
}

// Validate loads a description and reports its shape.
func (a *App) Validate(ref string) error {
	_, prog, err := a.prepare(ref)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "%s: ok (%d states, %d symbols, %d transitions)\n",
		prog.Name(), prog.NumStates(), prog.NumSymbols()-1, len(prog.Transitions()))
	for _, w := range prog.Warnings() {
		fmt.Fprintf(a.Out, "  warning: %s\n", w)
	}
	return nil
}

// Run executes one input and prints the verdict and the final tape.
// It returns ErrNotAccepted when the machine did not accept.
func (a *App) Run(ctx context.Context, opts RunOptions) error {
	eng, prog, err := a.prepare(opts.Machine)
	if err != nil {
		return err
	}
	input, err := a.readTape(opts.TapeOptions)
	if err != nil {
		return err
	}

	runnerOpts := []runner.Option{runner.WithLogger(a.logger)}
	if a.persistent() {
		store, closeStore, err := createStore(ctx, a.Config, a.logger)
		if err != nil {
			return err
		}
		defer closeStore()
		runnerOpts = append(runnerOpts, runner.WithStore(store))
	}

	rec, err := runner.New(eng, runnerOpts...).RunOne(ctx, prog, strings.Join(strings.Fields(input), ""))
	if err != nil {
		return err
	}

	if opts.JSON {
		if err := json.NewEncoder(a.Out).Encode(rec); err != nil {
			return err
		}
	} else {
		r := tui.NewTapeRenderer(tui.ProfileFor(a.Out))
		fmt.Fprintln(a.Out, r.Verdict(rec.Result.Verdict))
		fmt.Fprintf(a.Out, "tape: %s\n", rec.Result.Tape.Trimmed())
		if a.persistent() {
			fmt.Fprintf(a.Out, "run:  %s\n", rec.ID)
		}
	}

	if !rec.Result.Verdict.Accepted() {
		return ErrNotAccepted
	}
	return nil
}

// Trace prints one line (or JSON object) per step.
func (a *App) Trace(ctx context.Context, opts TraceOptions) error {
	eng, prog, err := a.prepare(opts.Machine)
	if err != nil {
		return err
	}
	input, err := a.readTape(opts.TapeOptions)
	if err != nil {
		return err
	}
	seq, err := eng.Trace(ctx, prog, domain.SplitSymbols(input))
	if err != nil {
		return err
	}

	enc := json.NewEncoder(a.Out)
	r := tui.NewTapeRenderer(tui.ProfileFor(a.Out))
	var last *domain.Verdict
	for snap := range seq {
		if opts.JSON {
			if err := enc.Encode(snap); err != nil {
				return err
			}
		} else {
			fmt.Fprintln(a.Out, r.Snapshot(snap))
		}
		last = snap.Verdict
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if last == nil || !last.Accepted() {
		return ErrNotAccepted
	}
	return nil
}

// Graph prints a Mermaid diagram of the machine.
func (a *App) Graph(ctx context.Context, opts GraphOptions) error {
	eng, prog, err := a.prepare(opts.Machine)
	if err != nil {
		return err
	}

	var overlay *graph.Overlay
	if opts.Overlay {
		input, err := a.readTape(opts.TapeOptions)
		if err != nil {
			return err
		}
		seq, err := eng.Trace(ctx, prog, domain.SplitSymbols(input))
		if err != nil {
			return err
		}
		overlay = graph.OverlayFromTrace(seq)
	}

	_, err = io.WriteString(a.Out, graph.GenerateMermaid(prog, overlay))
	return err
}

// Describe renders a Markdown summary of the machine, styled on a terminal.
func (a *App) Describe(ref string, raw bool) error {
	_, prog, err := a.prepare(ref)
	if err != nil {
		return err
	}
	md := tui.DescribeMarkdown(prog)
	if raw {
		_, err := io.WriteString(a.Out, md)
		return err
	}

	render, err := tui.NewRenderer(!tui.IsTerminal(a.Out))
	if err != nil {
		return err
	}
	out, err := render(md)
	if err != nil {
		return fmt.Errorf("failed to render description: %w", err)
	}
	_, err = io.WriteString(a.Out, out)
	return err
}

// Batch runs every input line against the machine concurrently.
// It fails with the first input error, or ErrNotAccepted if any input was not accepted.
func (a *App) Batch(ctx context.Context, opts BatchOptions) error {
	eng, prog, err := a.prepare(opts.Machine)
	if err != nil {
		return err
	}
	if opts.InputsFile == "" {
		return fmt.Errorf("%w: no inputs file given", ErrUsage)
	}
	data, err := a.readSource(opts.InputsFile)
	if err != nil {
		return fmt.Errorf("failed to read inputs: %w", err)
	}
	inputs, err := runner.ReadInputs(bytes.NewReader(data))
	if err != nil {
		return err
	}

	runnerOpts := []runner.Option{
		runner.WithLogger(a.logger),
		runner.WithConcurrency(a.Config.Concurrency),
	}
	if a.persistent() {
		store, closeStore, err := createStore(ctx, a.Config, a.logger)
		if err != nil {
			return err
		}
		defer closeStore()
		runnerOpts = append(runnerOpts, runner.WithStore(store))
	}

	outcomes, err := runner.New(eng, runnerOpts...).RunBatch(ctx, prog, inputs)
	if err != nil {
		return err
	}

	var sink runner.Sink = runner.NewTextSink(a.Out)
	if opts.JSON {
		sink = runner.NewJSONSink(a.Out)
	}
	var firstErr error
	rejected := 0
	for _, o := range outcomes {
		if err := sink.Write(o); err != nil {
			return err
		}
		switch {
		case o.Err != nil:
			if firstErr == nil {
				firstErr = o.Err
			}
		case !o.Record.Result.Verdict.Accepted():
			rejected++
		}
	}

	if firstErr != nil {
		return firstErr
	}
	if rejected > 0 {
		return fmt.Errorf("%w: %d of %d inputs", ErrNotAccepted, rejected, len(outcomes))
	}
	return nil
}

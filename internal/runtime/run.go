package runtime

import (
	"github.com/WizardOfMenlo/turing-machine/pkg/domain"
	"github.com/WizardOfMenlo/turing-machine/pkg/program"
	"github.com/WizardOfMenlo/turing-machine/pkg/table"
	"github.com/WizardOfMenlo/turing-machine/pkg/tape"
)

// run is the configuration of one in-progress execution.
// It is owned by a single goroutine and discarded when the run halts.
type run struct {
	prog  *program.Program
	mode  domain.Mode
	limit uint64

	tape     *tape.Tape[table.SymbolID]
	state    table.StateID
	steps    uint64
	exceeded bool

	// next is the transition found by the last check.
	next table.Action
}

type applied struct {
	from   table.StateID
	read   table.SymbolID
	action table.Action
}

func newRun(prog *program.Program, input []table.SymbolID, limit uint64, mode domain.Mode) *run {
	t := tape.New(table.BlankID)
	t.Load(input)
	return &run{
		prog:  prog,
		mode:  mode,
		limit: limit,
		tape:  t,
		state: prog.Start(),
	}
}

// check classifies the current configuration. Zero means the run continues.
func (r *run) check() domain.VerdictKind {
	if r.exceeded {
		return domain.VerdictStepLimitExceeded
	}
	switch r.prog.Role(r.state) {
	case domain.RoleAccept:
		return domain.VerdictAccept
	case domain.RoleReject:
		return domain.VerdictReject
	}

	action, ok := r.prog.Lookup(r.state, r.tape.ReadHead())
	if !ok {
		if r.mode == domain.ModeCompat {
			return domain.VerdictReject
		}
		return domain.VerdictUndefined
	}
	r.next = action
	return 0
}

// apply fires the transition found by check.
func (r *run) apply() applied {
	a := applied{from: r.state, read: r.tape.ReadHead(), action: r.next}
	r.tape.WriteHead(r.next.Write)
	r.tape.Move(r.next.Move)
	r.state = r.next.Next
	r.steps++
	if r.steps > r.limit {
		r.exceeded = true
	}
	return a
}

func (r *run) verdict(kind domain.VerdictKind) domain.Verdict {
	return domain.Verdict{
		Kind:   kind,
		State:  r.prog.StateName(r.state),
		Symbol: r.prog.Symbol(r.tape.ReadHead()),
		Head:   r.tape.Head(),
		Steps:  r.steps,
	}
}

func (r *run) result(kind domain.VerdictKind) *domain.Result {
	offset, cells := r.tape.Snapshot()
	return &domain.Result{
		Verdict: r.verdict(kind),
		Tape:    domain.TapeSnapshot{Offset: offset, Cells: r.prog.Decode(cells)},
		Steps:   r.steps,
	}
}

func (r *run) snapshot(kind domain.VerdictKind, radius int) domain.Snapshot {
	offset, cells := r.tape.Window(radius)
	s := domain.Snapshot{
		Step:   r.steps,
		State:  r.prog.StateName(r.state),
		Head:   r.tape.Head(),
		Symbol: r.prog.Symbol(r.tape.ReadHead()),
		Window: domain.TapeSnapshot{Offset: offset, Cells: r.prog.Decode(cells)},
	}
	if kind != 0 {
		v := r.verdict(kind)
		s.Verdict = &v
	}
	return s
}

/*
Package turing loads and runs deterministic single-tape Turing machines.

A machine is described in a small line-oriented text format:

	states 3
	start start
	alphabet 1 0
	accept +
	reject -
	start 0 accept 0 R

The first line is a sanity header giving the number of distinct states. The
start line names the start state. The alphabet line lists the tape symbols;
the blank "_" is implicit and never listed. Two-token lines mark accept (+)
and reject (-) states, and five-token lines are transitions:
state, read symbol, next state, written symbol, and a move of L or R.

# Loading

Loading parses the text and validates it in one step. Parse errors carry a
line number; validation reports every defect at once (duplicate transitions,
undeclared states or symbols, start-state problems, terminal states with
outgoing rules). A Program that loads successfully is immutable and may be
shared by any number of concurrent runs.

# Running

A run halts with a Verdict: Accept, Reject, Undefined (no transition for the
current state and symbol), StepLimitExceeded, or Canceled when the context
ends. Verdicts are data, not errors. In compat mode a missing transition is
folded into Reject instead of Undefined.

	eng := turing.New(turing.WithMode(domain.ModeCompat), turing.WithStepLimit(10_000))
	prog, err := eng.LoadFile("machine.tm")
	if err != nil {
		log.Fatal(err)
	}
	res, err := eng.RunString(ctx, prog, "0110#0110")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(res.Verdict)

Trace exposes the same run as a lazy sequence of snapshots for debugging.
*/
package turing

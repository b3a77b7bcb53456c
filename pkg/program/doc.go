/*
Package program holds the immutable, validated form of a machine description.

A Program resolves every state label and tape symbol to a dense integer index
at load time, so the execution engine dispatches with slice lookups instead of
string comparisons. Once built, a Program is read-only and may be shared by any
number of concurrent runs.

Programs are normally produced by the validator after all well-formedness
checks pass. Builder is exported for callers that assemble machines in code:

	b := program.NewBuilder("flip")
	b.State("q0", domain.RoleStart)
	b.State("qa", domain.RoleAccept)
	b.State("qr", domain.RoleReject)
	b.Symbol("0")
	b.Rule("q0", "0", "qa", "1", domain.MoveRight)
	prog, err := b.Build()
*/
package program

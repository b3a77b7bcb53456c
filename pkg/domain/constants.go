package domain

// Reserved tokens of the description format.
const (
	// KeywordStates introduces the state-count sanity header ("states 48").
	KeywordStates = "states"

	// KeywordStart names the unique start state ("start q0").
	KeywordStart = "start"

	// KeywordAlphabet declares the tape alphabet ("alphabet 2 a b").
	KeywordAlphabet = "alphabet"

	// MarkerAccept tags a state as accepting ("qa +").
	MarkerAccept = "+"

	// MarkerReject tags a state as rejecting ("qr -").
	MarkerReject = "-"
)

// DefaultStepLimit is the step budget used when the caller does not pick one.
const DefaultStepLimit uint64 = 1_000_000

// DefaultTraceWindow is the number of cells shown on each side of the head in a Snapshot.
const DefaultTraceWindow = 8

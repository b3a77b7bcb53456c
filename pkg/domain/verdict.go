package domain

import (
	"fmt"
	"strings"
)

// VerdictKind is the terminal classification of a run.
type VerdictKind uint8

const (
	// VerdictAccept: the machine entered an accept-role state.
	VerdictAccept VerdictKind = iota + 1
	// VerdictReject: the machine entered a reject-role state, or hit a
	// missing transition in compatibility mode.
	VerdictReject
	// VerdictUndefined: no transition for (state, symbol) in strict mode.
	VerdictUndefined
	// VerdictStepLimitExceeded: the step budget ran out.
	VerdictStepLimitExceeded
	// VerdictCanceled: the caller's context was cancelled mid-run.
	VerdictCanceled
)

var verdictNames = map[VerdictKind]string{
	VerdictAccept:            "accept",
	VerdictReject:            "reject",
	VerdictUndefined:         "undefined",
	VerdictStepLimitExceeded: "step_limit_exceeded",
	VerdictCanceled:          "canceled",
}

func (k VerdictKind) String() string {
	if name, ok := verdictNames[k]; ok {
		return name
	}
	return fmt.Sprintf("VerdictKind(%d)", uint8(k))
}

// MarshalText encodes the kind by name so JSON payloads stay readable.
// The zero kind (no verdict yet) encodes as an empty string.
func (k VerdictKind) MarshalText() ([]byte, error) {
	if k == 0 {
		return []byte{}, nil
	}
	name, ok := verdictNames[k]
	if !ok {
		return nil, fmt.Errorf("unknown verdict kind %d", uint8(k))
	}
	return []byte(name), nil
}

// UnmarshalText decodes a kind from its name.
func (k *VerdictKind) UnmarshalText(text []byte) error {
	s := strings.ToLower(string(text))
	if s == "" {
		*k = 0
		return nil
	}
	for kind, name := range verdictNames {
		if name == s {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown verdict kind %q", s)
}

// Verdict is the terminal outcome of a run. It is ordinary data, never an error.
type Verdict struct {
	Kind  VerdictKind `json:"kind"`
	State string      `json:"state"`
	// Symbol is the symbol under the head when the machine halted.
	// For VerdictUndefined it is the symbol with no transition.
	Symbol Symbol `json:"symbol"`
	Head   int    `json:"head"`
	Steps  uint64 `json:"steps"`
}

// Accepted reports whether the run ended in an accept-role state.
func (v Verdict) Accepted() bool {
	return v.Kind == VerdictAccept
}

func (v Verdict) String() string {
	switch v.Kind {
	case VerdictUndefined:
		return fmt.Sprintf("undefined(%s, %s) at head %d after %d steps", v.State, v.Symbol, v.Head, v.Steps)
	default:
		return fmt.Sprintf("%s in state %s at head %d after %d steps", v.Kind, v.State, v.Head, v.Steps)
	}
}

// Result bundles the verdict with the final tape and the number of steps taken.
type Result struct {
	Verdict Verdict      `json:"verdict"`
	Tape    TapeSnapshot `json:"tape"`
	Steps   uint64       `json:"steps"`
}

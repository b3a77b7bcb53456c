package domain

import (
	"fmt"
	"strings"
)

// Mode selects how the engine treats a (state, symbol) pair with no declared transition.
// It is fixed for the whole run.
type Mode uint8

const (
	// ModeStrict halts with an Undefined verdict naming the missing pair.
	ModeStrict Mode = iota
	// ModeCompat folds a missing transition into Reject (implicit reject).
	ModeCompat
)

// ParseMode accepts "strict" or "compat" (also "compatibility").
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "strict":
		return ModeStrict, nil
	case "compat", "compatibility":
		return ModeCompat, nil
	default:
		return ModeStrict, fmt.Errorf("unknown mode %q (expected strict or compat)", s)
	}
}

func (m Mode) String() string {
	if m == ModeCompat {
		return "compat"
	}
	return "strict"
}

// HeaderPolicy selects how a state-count header that disagrees with the
// states actually seen is reported.
type HeaderPolicy uint8

const (
	// HeaderLenient records the mismatch as a warning.
	HeaderLenient HeaderPolicy = iota
	// HeaderStrict turns the mismatch into a parse error.
	HeaderStrict
)

// ParseHeaderPolicy accepts "lenient" or "strict".
func ParseHeaderPolicy(s string) (HeaderPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lenient":
		return HeaderLenient, nil
	case "strict":
		return HeaderStrict, nil
	default:
		return HeaderLenient, fmt.Errorf("unknown header policy %q (expected lenient or strict)", s)
	}
}

func (p HeaderPolicy) String() string {
	if p == HeaderStrict {
		return "strict"
	}
	return "lenient"
}

// MarshalText encodes the mode by name.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText decodes a mode by name.
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

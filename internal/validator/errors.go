package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/WizardOfMenlo/turing-machine/pkg/domain"
)

// DefectKind classifies a validation failure.
type DefectKind int

const (
	DefectStartState DefectKind = iota + 1
	DefectUnknownState
	DefectDuplicateTransition
	DefectUnknownSymbol
	DefectTerminalTransition
	DefectRoleConflict
	DefectMissingAccept
	DefectMissingReject
)

var defectNames = map[DefectKind]string{
	DefectStartState:          "start-state",
	DefectUnknownState:        "unknown-state",
	DefectDuplicateTransition: "duplicate-transition",
	DefectUnknownSymbol:       "unknown-symbol",
	DefectTerminalTransition:  "terminal-transition",
	DefectRoleConflict:        "role-conflict",
	DefectMissingAccept:       "missing-accept",
	DefectMissingReject:       "missing-reject",
}

func (k DefectKind) String() string {
	if s, ok := defectNames[k]; ok {
		return s
	}
	return fmt.Sprintf("DefectKind(%d)", int(k))
}

// MarshalText encodes the kind by name.
func (k DefectKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Defect is a single problem found in a description.
// Line is zero when the defect concerns the description as a whole.
type Defect struct {
	Kind    DefectKind `json:"kind"`
	Line    int        `json:"line,omitempty"`
	Message string     `json:"message"`
}

func (d Defect) String() string {
	if d.Line == 0 {
		return fmt.Sprintf("%s: %s", d.Kind, d.Message)
	}
	return fmt.Sprintf("line %d: %s: %s", d.Line, d.Kind, d.Message)
}

// ValidationError carries every defect found in one pass.
type ValidationError struct {
	Defects []Defect
}

func (e *ValidationError) Error() string {
	if len(e.Defects) == 1 {
		return fmt.Sprintf("%s: %s", domain.ErrInvalidProgram, e.Defects[0])
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %d defects:\n", domain.ErrInvalidProgram, len(e.Defects))
	for i, d := range e.Defects {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, d)
	}
	return sb.String()
}

func (e *ValidationError) Unwrap() error {
	return domain.ErrInvalidProgram
}

// Has reports whether at least one defect of the given kind was found.
func (e *ValidationError) Has(kind DefectKind) bool {
	for _, d := range e.Defects {
		if d.Kind == kind {
			return true
		}
	}
	return false
}

// Defects returns the defects carried by err, or nil if err is not a *ValidationError.
func Defects(err error) []Defect {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Defects
	}
	return nil
}

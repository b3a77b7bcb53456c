package cli

import (
	"errors"

	"github.com/WizardOfMenlo/turing-machine/pkg/domain"
	"github.com/WizardOfMenlo/turing-machine/pkg/runner"
)

// Process exit codes.
const (
	ExitAccepted    = 0
	ExitNotAccepted = 1
	ExitInvalid     = 2
	ExitIO          = 3
)

// ErrNotAccepted is returned by run-like commands when the machine halted
// without accepting. The verdict itself has already been printed.
var ErrNotAccepted = errors.New("input not accepted")

// ExitCode maps a command error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitAccepted
	case errors.Is(err, ErrNotAccepted):
		return ExitNotAccepted
	case errors.Is(err, domain.ErrParse),
		errors.Is(err, domain.ErrInvalidProgram),
		errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrMachineNotFound),
		errors.Is(err, runner.ErrInvalidRequest),
		errors.Is(err, ErrConfig),
		errors.Is(err, ErrUsage):
		return ExitInvalid
	default:
		return ExitIO
	}
}

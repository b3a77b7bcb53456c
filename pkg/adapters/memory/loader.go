package memory

import (
	"fmt"
	"sort"

	"github.com/WizardOfMenlo/turing-machine/pkg/domain"
)

// Loader implements ports.MachineLoader using an in-memory map.
type Loader struct {
	machines map[string][]byte
}

// NewLoader creates a loader from raw description texts keyed by name.
func NewLoader(data map[string]string) *Loader {
	machines := make(map[string][]byte, len(data))
	for k, v := range data {
		machines[k] = []byte(v)
	}
	return &Loader{machines: machines}
}

// GetMachine returns the raw description of the named machine.
func (l *Loader) GetMachine(name string) ([]byte, error) {
	content, ok := l.machines[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrMachineNotFound, name)
	}
	return content, nil
}

// ListMachines returns all machine names.
func (l *Loader) ListMachines() ([]string, error) {
	keys := make([]string, 0, len(l.machines))
	for k := range l.machines {
		keys = append(keys, k)
	}
	sort.Strings(keys) // Deterministic order
	return keys, nil
}

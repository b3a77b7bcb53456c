package ports

// MachineLoader defines where named machine descriptions come from.
type MachineLoader interface {
	// GetMachine returns the raw description text of the named machine.
	// It returns an error wrapping domain.ErrMachineNotFound for unknown names.
	GetMachine(name string) ([]byte, error)

	// ListMachines returns the names of all available machines, sorted.
	ListMachines() ([]string, error)
}

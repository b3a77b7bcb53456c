package tests

import (
	"errors"
	"testing"

	"github.com/WizardOfMenlo/turing-machine/pkg/domain"
	"github.com/WizardOfMenlo/turing-machine/pkg/ports"
)

// MachineLoaderContractTest is a reusable test suite that verifies if an adapter complies with ports.MachineLoader.
func MachineLoaderContractTest(t *testing.T, loader ports.MachineLoader, setupData map[string][]byte) {
	t.Helper()

	t.Run("GetMachine_Success", func(t *testing.T) {
		for name, expected := range setupData {
			content, err := loader.GetMachine(name)
			if err != nil {
				t.Fatalf("unexpected error getting machine %s: %v", name, err)
			}
			if string(content) != string(expected) {
				t.Errorf("content mismatch for %s. got %q, want %q", name, content, expected)
			}
		}
	})

	t.Run("GetMachine_NotFound", func(t *testing.T) {
		_, err := loader.GetMachine("non-existent-machine")
		if !errors.Is(err, domain.ErrMachineNotFound) {
			t.Errorf("expected ErrMachineNotFound, got %v", err)
		}
	})

	t.Run("ListMachines", func(t *testing.T) {
		names, err := loader.ListMachines()
		if err != nil {
			t.Fatalf("unexpected error listing machines: %v", err)
		}
		if len(names) != len(setupData) {
			t.Errorf("expected %d machines, got %d", len(setupData), len(names))
		}
		for i := 1; i < len(names); i++ {
			if names[i-1] > names[i] {
				t.Errorf("names not sorted: %v", names)
				break
			}
		}
		for name := range setupData {
			found := false
			for _, n := range names {
				if n == name {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("machine %s missing from list", name)
			}
		}
	})
}

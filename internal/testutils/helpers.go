package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/WizardOfMenlo/turing-machine/internal/fixtures"
	"github.com/stretchr/testify/require"
)

// SetupMachineDir creates a temporary directory holding one <name>.tm file
// per entry and returns its absolute path. It fails the test immediately on error.
func SetupMachineDir(t *testing.T, machines map[string]string) string {
	t.Helper()

	absPath, err := filepath.Abs(t.TempDir())
	require.NoError(t, err, "Failed to get absolute path for temp dir")

	for name, text := range machines {
		path := filepath.Join(absPath, name+".tm")
		require.NoError(t, os.WriteFile(path, []byte(text), 0o644), "Failed to write %s", path)
	}
	return absPath
}

// ReferenceMachines returns the fixtures most tests load by name.
func ReferenceMachines() map[string]string {
	return map[string]string{
		"compare": fixtures.Compare48,
		"tiny":    fixtures.TinyAccept,
	}
}

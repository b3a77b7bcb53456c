package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/WizardOfMenlo/turing-machine/pkg/adapters/file"
	"github.com/WizardOfMenlo/turing-machine/pkg/domain"
	"github.com/WizardOfMenlo/turing-machine/pkg/ports"
	"github.com/WizardOfMenlo/turing-machine/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ ports.RunResultStore = (*file.Store)(nil)
	_ ports.MachineLoader  = (*file.Loader)(nil)
)

func TestStore_Contract(t *testing.T) {
	ports.RunResultStoreContract(t, file.NewStore(t.TempDir()))
}

func TestStore_ListMissingDir(t *testing.T) {
	store := file.NewStore(filepath.Join(t.TempDir(), "absent"))
	ids, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestStore_RejectsPathIDs(t *testing.T) {
	store := file.NewStore(t.TempDir())
	err := store.Save(context.Background(), &domain.RunRecord{ID: "../escape"})
	assert.Error(t, err)

	_, err = store.Load(context.Background(), "")
	assert.Error(t, err)
}

func TestLoader_Contract(t *testing.T) {
	dir := t.TempDir()
	setup := map[string][]byte{
		"tiny":    []byte("states 1\n"),
		"compare": []byte("states 48\n"),
	}
	for name, data := range setup {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name+file.Ext), data, 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("ignored"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.tm"), 0o755))

	tests.MachineLoaderContractTest(t, file.NewLoader(dir), setup)
}

func TestLoader_FS(t *testing.T) {
	loader := file.NewLoaderFS(fstest.MapFS{
		"a.tm": {Data: []byte("states 1\n")},
	})
	data, err := loader.GetMachine("a")
	require.NoError(t, err)
	assert.Equal(t, "states 1\n", string(data))

	_, err = loader.GetMachine("../a")
	assert.ErrorIs(t, err, domain.ErrMachineNotFound)
}

package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/WizardOfMenlo/turing-machine/pkg/domain"
)

// Ext is the file extension of machine descriptions.
const Ext = ".tm"

// Loader implements ports.MachineLoader over a directory of *.tm files.
// A machine's name is its file name without the extension.
type Loader struct {
	fsys fs.FS
}

// NewLoader serves descriptions from dir.
func NewLoader(dir string) *Loader {
	return NewLoaderFS(os.DirFS(dir))
}

// NewLoaderFS serves descriptions from any fs.FS (embed.FS, fstest.MapFS).
func NewLoaderFS(fsys fs.FS) *Loader {
	return &Loader{fsys: fsys}
}

// GetMachine reads <name>.tm.
func (l *Loader) GetMachine(name string) ([]byte, error) {
	if !fs.ValidPath(name) || strings.Contains(name, "/") {
		return nil, fmt.Errorf("%w: invalid name %q", domain.ErrMachineNotFound, name)
	}
	data, err := fs.ReadFile(l.fsys, name+Ext)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrMachineNotFound, name)
		}
		return nil, fmt.Errorf("failed to read machine %s: %w", name, err)
	}
	return data, nil
}

// ListMachines returns the names of all *.tm files at the top level.
func (l *Loader) ListMachines() ([]string, error) {
	entries, err := fs.ReadDir(l.fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to list machines: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), Ext) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), Ext))
	}
	sort.Strings(names)
	return names, nil
}

package middleware

import "github.com/WizardOfMenlo/turing-machine/pkg/ports"

// Middleware allows wrapping a RunResultStore to add behavior.
type Middleware func(ports.RunResultStore) ports.RunResultStore

// Chain wraps store with mws. The first middleware is the outermost one,
// so it sees records first on Save and last on Load.
func Chain(store ports.RunResultStore, mws ...Middleware) ports.RunResultStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}

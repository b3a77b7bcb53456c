package ports

import (
	"context"

	"github.com/WizardOfMenlo/turing-machine/pkg/domain"
)

// RunResultStore defines the interface for persisting finished runs.
type RunResultStore interface {
	// Save persists a run record under rec.ID, replacing any previous record.
	Save(ctx context.Context, rec *domain.RunRecord) error

	// Load retrieves a run record.
	// Returns domain.ErrRunNotFound if the record does not exist.
	Load(ctx context.Context, id string) (*domain.RunRecord, error)

	// Delete removes a run record. Deleting a missing record is not an error.
	Delete(ctx context.Context, id string) error

	// List returns the IDs of stored records.
	List(ctx context.Context) ([]string, error)
}

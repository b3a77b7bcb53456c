package ports

import (
	"context"
	"testing"
	"time"

	"github.com/WizardOfMenlo/turing-machine/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contractRecord(id string) *domain.RunRecord {
	return &domain.RunRecord{
		ID:        id,
		Program:   "contract.tm",
		Input:     "01#01",
		Mode:      domain.ModeCompat,
		StepLimit: 1000,
		Result: domain.Result{
			Verdict: domain.Verdict{Kind: domain.VerdictAccept, State: "acc", Symbol: domain.Blank, Head: 0, Steps: 24},
			Tape:    domain.TapeSnapshot{Offset: -1, Cells: []domain.Symbol{"_", "x", "#"}},
			Steps:   24,
		},
		StartedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Duration:  3 * time.Millisecond,
	}
}

// RunResultStoreContract runs a suite of tests to verify that a RunResultStore
// implementation adheres to the interface contract.
func RunResultStoreContract(t *testing.T, store RunResultStore) {
	ctx := context.Background()
	runID := "contract-run-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		rec := contractRecord(runID)
		require.NoError(t, store.Save(ctx, rec), "Save should not return error")

		loaded, err := store.Load(ctx, runID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, rec.Program, loaded.Program)
		assert.Equal(t, rec.Input, loaded.Input)
		assert.Equal(t, rec.Mode, loaded.Mode)
		assert.Equal(t, rec.Result, loaded.Result)
		assert.True(t, rec.StartedAt.Equal(loaded.StartedAt))
		assert.Equal(t, rec.Duration, loaded.Duration)
	})

	t.Run("Load returns a copy", func(t *testing.T) {
		loaded, err := store.Load(ctx, runID)
		require.NoError(t, err)
		loaded.Result.Tape.Cells[0] = "z"

		again, err := store.Load(ctx, runID)
		require.NoError(t, err)
		assert.Equal(t, domain.Blank, again.Result.Tape.Cells[0])
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+runID)
		assert.ErrorIs(t, err, domain.ErrRunNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, contractRecord(runID)))

		require.NoError(t, store.Delete(ctx, runID), "Delete should not return error")

		_, err := store.Load(ctx, runID)
		assert.ErrorIs(t, err, domain.ErrRunNotFound, "Load after Delete should return ErrRunNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := runID + "-1"
		id2 := runID + "-2"
		require.NoError(t, store.Save(ctx, contractRecord(id1)))
		require.NoError(t, store.Save(ctx, contractRecord(id2)))
		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}

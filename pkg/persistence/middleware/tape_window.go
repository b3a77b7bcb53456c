package middleware

import (
	"context"

	"github.com/WizardOfMenlo/turing-machine/pkg/domain"
	"github.com/WizardOfMenlo/turing-machine/pkg/ports"
)

type tapeWindowMiddleware struct {
	next   ports.RunResultStore
	radius int
}

// NewTapeWindowMiddleware keeps only the cells within radius of the final
// head position when a record is saved. Offsets are preserved, so
// TapeSnapshot.At still answers for the kept cells. The caller's record
// is not modified.
func NewTapeWindowMiddleware(radius int) Middleware {
	if radius < 0 {
		radius = 0
	}
	return func(next ports.RunResultStore) ports.RunResultStore {
		return &tapeWindowMiddleware{next: next, radius: radius}
	}
}

func (m *tapeWindowMiddleware) Save(ctx context.Context, rec *domain.RunRecord) error {
	clipped := *rec
	clipped.Result.Tape = clip(rec.Result.Tape, rec.Result.Verdict.Head, m.radius)
	return m.next.Save(ctx, &clipped)
}

func (m *tapeWindowMiddleware) Load(ctx context.Context, id string) (*domain.RunRecord, error) {
	return m.next.Load(ctx, id)
}

func (m *tapeWindowMiddleware) Delete(ctx context.Context, id string) error {
	return m.next.Delete(ctx, id)
}

func (m *tapeWindowMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

// clip returns a copy of t restricted to [head-radius, head+radius].
func clip(t domain.TapeSnapshot, head, radius int) domain.TapeSnapshot {
	lo := max(head-radius, t.Offset)
	hi := min(head+radius+1, t.Offset+len(t.Cells))
	if lo >= hi {
		return domain.TapeSnapshot{Offset: head, Cells: []domain.Symbol{domain.Blank}}
	}
	cells := make([]domain.Symbol, hi-lo)
	copy(cells, t.Cells[lo-t.Offset:hi-t.Offset])
	return domain.TapeSnapshot{Offset: lo, Cells: cells}
}

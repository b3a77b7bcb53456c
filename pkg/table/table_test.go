package table_test

import (
	"errors"
	"testing"

	"github.com/WizardOfMenlo/turing-machine/pkg/domain"
	"github.com/WizardOfMenlo/turing-machine/pkg/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_InsertAndLookup(t *testing.T) {
	tbl := table.New(3, 2)

	require.NoError(t, tbl.Insert(0, 1, table.Action{Next: 1, Write: 1, Move: domain.MoveRight}))
	require.NoError(t, tbl.Insert(0, table.BlankID, table.Action{Next: 2, Write: 0, Move: domain.MoveLeft}))

	act, ok := tbl.Lookup(0, 1)
	require.True(t, ok)
	assert.Equal(t, table.StateID(1), act.Next)
	assert.Equal(t, domain.MoveRight, act.Move)

	_, ok = tbl.Lookup(1, 1)
	assert.False(t, ok)

	_, ok = tbl.Lookup(7, 0)
	assert.False(t, ok, "out of range keys are simply absent")

	assert.Equal(t, 2, tbl.Len())
	assert.True(t, tbl.HasOutgoing(0))
	assert.False(t, tbl.HasOutgoing(2))
}

func TestTable_DuplicateInsertIsLoud(t *testing.T) {
	tbl := table.New(2, 2)
	first := table.Action{Next: 1, Write: 1, Move: domain.MoveRight}
	require.NoError(t, tbl.Insert(0, 1, first))

	err := tbl.Insert(0, 1, table.Action{Next: 0, Write: 0, Move: domain.MoveLeft})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDuplicateTransition))

	var dup *table.DuplicateError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, table.StateID(0), dup.State)
	assert.Equal(t, table.SymbolID(1), dup.Symbol)

	act, ok := tbl.Lookup(0, 1)
	require.True(t, ok)
	assert.Equal(t, first, act, "the first transition must survive")
	assert.Equal(t, 1, tbl.Len())
}

func TestTable_InsertOutOfRange(t *testing.T) {
	tbl := table.New(1, 1)
	assert.Error(t, tbl.Insert(1, 0, table.Action{}))
	assert.Error(t, tbl.Insert(0, 0, table.Action{Next: 4}))
}

func TestTable_EachOrder(t *testing.T) {
	tbl := table.New(2, 3)
	require.NoError(t, tbl.Insert(1, 2, table.Action{Move: domain.MoveRight}))
	require.NoError(t, tbl.Insert(0, 1, table.Action{Move: domain.MoveRight}))
	require.NoError(t, tbl.Insert(1, 0, table.Action{Move: domain.MoveLeft}))

	var keys [][2]int
	tbl.Each(func(s table.StateID, sym table.SymbolID, _ table.Action) bool {
		keys = append(keys, [2]int{int(s), int(sym)})
		return true
	})
	assert.Equal(t, [][2]int{{0, 1}, {1, 0}, {1, 2}}, keys)

	count := 0
	tbl.Each(func(table.StateID, table.SymbolID, table.Action) bool {
		count++
		return false
	})
	assert.Equal(t, 1, count)
}

func TestTable_RowsAllocatedOnInsert(t *testing.T) {
	// A dense layout would need billions of cells here.
	tbl := table.New(1<<20, 1<<16-1)
	last := table.SymbolID(1<<16 - 2)
	require.NoError(t, tbl.Insert(1<<20-1, last, table.Action{Next: 0, Write: last, Move: domain.MoveLeft}))

	act, ok := tbl.Lookup(1<<20-1, last)
	require.True(t, ok)
	assert.Equal(t, last, act.Write)
	assert.True(t, tbl.HasOutgoing(1<<20-1))
	assert.False(t, tbl.HasOutgoing(0))
	assert.Equal(t, 1, tbl.Len())

	allocs := testing.AllocsPerRun(10, func() {
		tbl.Lookup(1<<20-1, last)
		tbl.Lookup(3, 7)
	})
	assert.Zero(t, allocs)
}

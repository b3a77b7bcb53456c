package domain

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerdictKind_JSON(t *testing.T) {
	v := Verdict{Kind: VerdictStepLimitExceeded, State: "loop", Symbol: Blank, Head: 3, Steps: 11}
	data, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"step_limit_exceeded","state":"loop","symbol":"_","head":3,"steps":11}`, string(data))

	var back Verdict
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, v, back)

	var k VerdictKind
	assert.Error(t, k.UnmarshalText([]byte("maybe")))
	require.NoError(t, k.UnmarshalText([]byte("ACCEPT")))
	assert.Equal(t, VerdictAccept, k)

	_, err = VerdictKind(42).MarshalText()
	assert.Error(t, err)
	assert.Equal(t, "VerdictKind(42)", VerdictKind(42).String())

	text, err := VerdictKind(0).MarshalText()
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestVerdict_String(t *testing.T) {
	tests := []struct {
		v    Verdict
		want string
	}{
		{Verdict{Kind: VerdictAccept, State: "acc", Steps: 84}, "accept in state acc at head 0 after 84 steps"},
		{Verdict{Kind: VerdictReject, State: "rej", Head: 7, Steps: 21}, "reject in state rej at head 7 after 21 steps"},
		{Verdict{Kind: VerdictUndefined, State: "000C", Symbol: "1", Head: 4, Steps: 20}, "undefined(000C, 1) at head 4 after 20 steps"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.v.String())
	}
	assert.True(t, Verdict{Kind: VerdictAccept}.Accepted())
	assert.False(t, Verdict{Kind: VerdictCanceled}.Accepted())
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"strict", ModeStrict, false},
		{" Compat ", ModeCompat, false},
		{"compatibility", ModeCompat, false},
		{"", ModeStrict, true},
		{"lax", ModeStrict, true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	data, err := json.Marshal(struct {
		Mode Mode `json:"mode"`
	}{ModeCompat})
	require.NoError(t, err)
	assert.JSONEq(t, `{"mode":"compat"}`, string(data))

	var m Mode
	require.NoError(t, m.UnmarshalText([]byte("compat")))
	assert.Equal(t, ModeCompat, m)
	assert.Error(t, m.UnmarshalText([]byte("nope")))
}

func TestParseHeaderPolicy(t *testing.T) {
	p, err := ParseHeaderPolicy("STRICT")
	require.NoError(t, err)
	assert.Equal(t, HeaderStrict, p)
	assert.Equal(t, "strict", p.String())

	p, err = ParseHeaderPolicy("lenient")
	require.NoError(t, err)
	assert.Equal(t, "lenient", p.String())

	_, err = ParseHeaderPolicy("loose")
	assert.Error(t, err)
}

func TestMoveAndRole(t *testing.T) {
	m, err := ParseMove("L")
	require.NoError(t, err)
	assert.Equal(t, MoveLeft, m)
	assert.Equal(t, "R", MoveRight.String())
	_, err = ParseMove("l")
	assert.Error(t, err)

	r, err := ParseRoleMarker("+")
	require.NoError(t, err)
	assert.True(t, r.IsTerminal())
	r, err = ParseRoleMarker("-")
	require.NoError(t, err)
	assert.Equal(t, RoleReject, r)
	_, err = ParseRoleMarker("*")
	assert.Error(t, err)
	assert.False(t, RoleStart.IsTerminal())
}

func TestSymbols(t *testing.T) {
	syms := SplitSymbols(" 10\n1#\t0 ")
	assert.Equal(t, []Symbol{"1", "0", "1", "#", "0"}, syms)
	assert.Equal(t, "101#0", JoinSymbols(syms))
	assert.Empty(t, SplitSymbols("   "))
	assert.True(t, Blank.IsBlank())
	assert.False(t, Symbol("0").IsBlank())
}

func TestTapeSnapshot(t *testing.T) {
	s := TapeSnapshot{Offset: -2, Cells: SplitSymbols("__x1_")}
	assert.Equal(t, Symbol("x"), s.At(0))
	assert.Equal(t, Symbol("1"), s.At(1))
	assert.Equal(t, Blank, s.At(-3))
	assert.Equal(t, Blank, s.At(10))
	assert.Equal(t, "__x1_", s.String())
	assert.Equal(t, "x1", s.Trimmed())

	assert.Equal(t, "_", TapeSnapshot{Cells: SplitSymbols("___")}.Trimmed())
	assert.Equal(t, "_", TapeSnapshot{}.Trimmed())
}

func TestLifecycleHooks_Merge(t *testing.T) {
	var calls []string
	a := LifecycleHooks{
		OnRunStart: func(context.Context, *RunEvent) { calls = append(calls, "a.start") },
		OnStep:     func(context.Context, *StepEvent) { calls = append(calls, "a.step") },
	}
	b := LifecycleHooks{
		OnRunStart: func(context.Context, *RunEvent) { calls = append(calls, "b.start") },
		OnHalt:     func(context.Context, *RunEvent) { calls = append(calls, "b.halt") },
	}

	merged := a.Merge(b)
	ctx := context.Background()
	merged.OnRunStart(ctx, &RunEvent{})
	merged.OnStep(ctx, &StepEvent{})
	merged.OnHalt(ctx, &RunEvent{})
	assert.Equal(t, []string{"a.start", "b.start", "a.step", "b.halt"}, calls)

	empty := LifecycleHooks{}.Merge(LifecycleHooks{})
	assert.Nil(t, empty.OnRunStart)
	assert.Nil(t, empty.OnStep)
	assert.Nil(t, empty.OnHalt)
}

func TestRunIDContext(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, RunIDFromContext(ctx))
	assert.Equal(t, "r-1", RunIDFromContext(ContextWithRunID(ctx, "r-1")))
}

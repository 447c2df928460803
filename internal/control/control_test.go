package control_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/gradtape/internal/autodiff"
	"github.com/born-ml/gradtape/internal/autodiff/ops"
	"github.com/born-ml/gradtape/internal/control"
)

func newTape() *autodiff.Tape {
	tape := autodiff.NewTape(autodiff.Config{})
	tape.StartRecording()
	return tape
}

func gradOf(t *testing.T, tape *autodiff.Tape, y, x autodiff.Var) float64 {
	t.Helper()
	adj, err := tape.Backward(autodiff.Seed{Var: y, Cotangent: 1})
	require.NoError(t, err)
	return adj.Of(x)
}

func lastTag(t *testing.T, tape *autodiff.Tape) int {
	t.Helper()
	entries := tape.Entries()
	require.NotEmpty(t, entries)
	tagged, ok := entries[len(entries)-1].(ops.Tagged)
	require.True(t, ok, "last entry is not tagged")
	return tagged.Branch()
}

func TestIf_RunsOnlyTakenBranch(t *testing.T) {
	tests := []struct {
		name    string
		x       float64
		wantTag int
		want    float64
		grad    float64
	}{
		{"then", 2, control.Then, 8, 3},
		{"else", -2, control.Else, 4, -4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tape := newTape()
			x := tape.Leaf(tt.x)
			var ran []string

			y := control.If(x.Value() > 0,
				func() autodiff.Var { ran = append(ran, "then"); return x.MulConst(3).AddConst(2) },
				func() autodiff.Var { ran = append(ran, "else"); return x.Square() },
			)

			assert.Len(t, ran, 1)
			assert.Equal(t, tt.want, y.Value())
			assert.Equal(t, tt.wantTag, lastTag(t, tape))
			assert.Equal(t, tt.grad, gradOf(t, tape, y, x))
		})
	}
}

func TestIf_ConstantBranchIsNotTraced(t *testing.T) {
	tape := newTape()
	x := tape.Leaf(-1)
	y := control.If(x.Value() > 0,
		func() autodiff.Var { return x },
		func() autodiff.Var { return autodiff.Const(0) },
	)

	assert.True(t, y.IsConstant())
	assert.Zero(t, tape.NumOps())
}

func TestSelect(t *testing.T) {
	tape := newTape()
	a, b := tape.Leaf(2), tape.Leaf(5)

	y := control.Select(a.Value() > b.Value(), a.MulConst(2), b.Square())
	assert.Equal(t, 25.0, y.Value())
	assert.Equal(t, control.Else, lastTag(t, tape))

	adj, err := tape.Backward(autodiff.Seed{Var: y, Cotangent: 1})
	require.NoError(t, err)
	assert.Zero(t, adj.Of(a), "unselected operand receives nothing")
	assert.Equal(t, 10.0, adj.Of(b))
}

func TestSelect_MixedConstant(t *testing.T) {
	tape := newTape()
	x := tape.Leaf(4)

	y := control.Select(true, x, autodiff.Const(100))
	assert.Equal(t, 1.0, gradOf(t, tape, y, x))
}

type state struct {
	Pos, Vel autodiff.Var
}

func TestBranch_StructState(t *testing.T) {
	tape := newTape()
	x := tape.Leaf(3)
	s := state{Pos: x, Vel: x.MulConst(2)}

	got := control.Branch(s.Vel.Value() > 5,
		func() state { return state{Pos: s.Pos.Add(s.Vel), Vel: s.Vel} },
		func() state { return s },
	)

	assert.Equal(t, 9.0, got.Pos.Value())
	assert.Equal(t, 3.0, gradOf(t, tape, got.Pos, x))
}

// TestRepeat_MatchesUnrolled checks that a loop of N iterations has the
// same value and gradient as the same body written out N times.
func TestRepeat_MatchesUnrolled(t *testing.T) {
	body := func(_ int, s autodiff.Var) autodiff.Var {
		return s.MulConst(1.01).AddConst(0.5)
	}

	for _, n := range []int{1, 8, 100} {
		loopTape := newTape()
		x := loopTape.Leaf(0.3)
		looped := control.Repeat(n, x, body)

		flatTape := newTape()
		u := flatTape.Leaf(0.3)
		unrolled := u
		for i := 0; i < n; i++ {
			unrolled = body(i, unrolled)
		}

		assert.Equal(t, unrolled.Value(), looped.Value(), "N=%d", n)
		assert.Equal(t, flatTape.NumOps(), loopTape.NumOps(), "N=%d", n)

		want := math.Pow(1.01, float64(n))
		assert.InDelta(t, want, gradOf(t, loopTape, looped, x), 1e-9, "N=%d", n)
		assert.InDelta(t, want, gradOf(t, flatTape, unrolled, u), 1e-9, "N=%d", n)
	}
}

func TestRepeat_PassesIndex(t *testing.T) {
	tape := newTape()
	x := tape.Leaf(1)
	// s_i+1 = s_i * (i+1), so the result is x * n!.
	y := control.Repeat(5, x, func(i int, s autodiff.Var) autodiff.Var {
		return s.MulConst(float64(i + 1))
	})

	assert.Equal(t, 120.0, y.Value())
	assert.Equal(t, 120.0, gradOf(t, tape, y, x))
}

func TestWhile_DynamicCount(t *testing.T) {
	tape := newTape()
	x := tape.Leaf(3)
	iterations := 0

	y := control.While(x,
		func(s autodiff.Var) bool { return s.Value() < 100 },
		func(s autodiff.Var) autodiff.Var { iterations++; return s.MulConst(2) },
	)

	// 3 -> 6 -> 12 -> 24 -> 48 -> 96 -> 192
	assert.Equal(t, 6, iterations)
	assert.Equal(t, 192.0, y.Value())
	assert.Equal(t, 64.0, gradOf(t, tape, y, x))
}

func TestWhile_BoundedByTraceLimit(t *testing.T) {
	tape := autodiff.NewTape(autodiff.Config{MaxEntries: 50})
	tape.StartRecording()

	err := func() (err error) {
		defer autodiff.Recover(&err)
		control.While(tape.Leaf(1),
			func(autodiff.Var) bool { return true },
			func(s autodiff.Var) autodiff.Var { return s.AddConst(1) },
		)
		return nil
	}()
	assert.ErrorIs(t, err, autodiff.ErrTraceLimit)
}

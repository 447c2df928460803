package building

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/diff/fd"

	"github.com/born-ml/gradtape/internal/autodiff"
	"github.com/born-ml/gradtape/internal/differentiable"
	"github.com/born-ml/gradtape/internal/grad"
	"github.com/born-ml/gradtape/internal/tangent"
)

func leaf(t *testing.T, v tangent.Vector, path string) float64 {
	t.Helper()
	x, err := tangent.At(v, path)
	require.NoError(t, err)
	s, ok := x.(tangent.Scalar)
	require.True(t, ok, "%s is not a scalar", path)
	return float64(s)
}

func TestSimulate_Reference(t *testing.T) {
	p := DefaultParams(33.3)

	pred := Simulate(p)
	assert.InDelta(t, 37.97974213, pred.Value(), 1e-6)
	assert.InDelta(t, 10.63497513, FullPipe(p).Value(), 1e-6)
	assert.True(t, pred.IsConstant())
}

func TestFullPipe_StartingTempGradient(t *testing.T) {
	p := DefaultParams(33.3)

	value, g, err := grad.ValueAndGradient(FullPipe, p)
	require.NoError(t, err)
	assert.InDelta(t, 10.63497513, value, 1e-6)
	assert.Equal(t, 20, g.Len())
	assert.InDelta(t, 0.8725142, leaf(t, g, "startingTemp"), 1e-5)

	// The initial slab temperature is overwritten by startingTemp.
	assert.Zero(t, leaf(t, g, "slab.temp"))
	assert.Zero(t, leaf(t, g, "quanta.power"))
}

func TestFullPipe_LossSignFlipsBelowGroundTruth(t *testing.T) {
	p := DefaultParams(0)

	value, g, err := grad.ValueAndGradient(FullPipe, p)
	require.NoError(t, err)
	assert.InDelta(t, 8.92501917, Simulate(p).Value(), 1e-6)
	assert.InDelta(t, GroundTruth-8.92501917, value, 1e-6)
	assert.Less(t, leaf(t, g, "startingTemp"), 0.0)
}

// TestFullPipe_MatchesFiniteDifferences compares every leaf of the gradient
// against central differences. Leaves span six orders of magnitude, so each
// is perturbed relative to its own value: the derivative with respect to a
// multiplier s_i at 1 is x_i * dL/dx_i.
func TestFullPipe_MatchesFiniteDifferences(t *testing.T) {
	p := DefaultParams(33.3)

	g, err := grad.Gradient(FullPipe, p)
	require.NoError(t, err)
	primal, err := differentiable.TangentOf(p)
	require.NoError(t, err)
	x := primal.Leaves()
	zero, err := differentiable.ZeroOf(p)
	require.NoError(t, err)

	scaled := func(s []float64) float64 {
		delta := make([]float64, len(x))
		for i := range x {
			delta[i] = x[i] * (s[i] - 1)
		}
		d, err := tangent.FromLeaves(zero, delta)
		require.NoError(t, err)
		q := p
		require.NoError(t, differentiable.Move(&q, d))
		return FullPipe(q).Value()
	}

	ones := make([]float64, len(x))
	for i := range ones {
		ones[i] = 1
	}
	want := fd.Gradient(nil, scaled, ones, &fd.Settings{Formula: fd.Central, Step: 1e-6})

	paths, err := differentiable.PathsOf(p)
	require.NoError(t, err)
	for i, gi := range g.Leaves() {
		got := gi * x[i]
		assert.InDelta(t, want[i], got, 1e-4*math.Max(1, math.Abs(want[i])), paths[i])
	}
}

type loadInput struct {
	Floor  Slab
	Tube   Tube
	Quanta Quanta
}

// TestComputeLoadPower_StructPullback pulls a cotangent of ones back through
// a struct-valued result. The absorbed and delivered power cancel, so only
// the pass-through quanta fields receive gradient.
func TestComputeLoadPower_StructPullback(t *testing.T) {
	in := loadInput{Floor: DefaultSlab(), Tube: DefaultTube(), Quanta: DefaultQuanta()}

	out, pullback, err := grad.ValueAndPullback(func(in loadInput) QuantaAndPower {
		return ComputeLoadPower(in.Floor, in.Tube, in.Quanta)
	}, in)
	require.NoError(t, err)
	assert.InDelta(t, -out.Power.Value(), out.Quanta.Power.Value(), 1e-12)
	assert.Greater(t, out.Power.Value(), 0.0, "hot water heats the slab")

	ones, err := Ones(out)
	require.NoError(t, err)
	assert.Equal(t, 6, ones.Len())

	g, err := pullback(ones)
	require.NoError(t, err)

	for _, path := range []string{"floor.temp", "floor.area", "tube.diameter", "tube.resistivity", "quanta.power"} {
		assert.InDelta(t, 0, leaf(t, g, path), 1e-9, path)
	}
	for _, path := range []string{"quanta.temp", "quanta.flow", "quanta.density", "quanta.cp"} {
		assert.InDelta(t, 1, leaf(t, g, path), 1e-9, path)
	}
}

func TestUpdateQuanta_ResetsPower(t *testing.T) {
	q := DefaultQuanta()
	q.Power = autodiff.Const(2637.162)

	got := UpdateQuanta(q)
	// 2637.162 W * 0.1 s into 0.06309 kg of water
	assert.InDelta(t, 60+263.7162/4180/0.06309, got.Temp.Value(), 1e-9)
	assert.Zero(t, got.Power.Value())
	assert.Equal(t, q.Flow.Value(), got.Flow.Value())
}

func TestUpdateSourceTank_ConservesEnergy(t *testing.T) {
	tq := UpdateSourceTank(DefaultTank(), DefaultQuanta())

	// Power drawn by the quanta equals the tank's energy loss.
	tank := DefaultTank()
	massPerTime := 0.0006309 * 1000
	wantPower := (70.0 - 60.0) * massPerTime * 4180
	assert.InDelta(t, wantPower, tq.Quanta.Power.Value(), 1e-9)
	assert.InDelta(t, tank.Temp.Value()+wantPower*DTime/4180/(0.0757082*1000), tq.Tank.Temp.Value(), 1e-9)
}

func TestFullPipe_RespectToStartingTemp(t *testing.T) {
	g, err := grad.Gradient(FullPipe, DefaultParams(33.3), grad.WithRespectTo("startingTemp"))
	require.NoError(t, err)

	assert.InDelta(t, 0.8725142, leaf(t, g, "startingTemp"), 1e-5)
	assert.Zero(t, leaf(t, g, "tube.diameter"))
	assert.InDelta(t, 0.8725142, tangent.Norm(g), 1e-5)
}

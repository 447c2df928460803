package tangent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-12

func sampleStruct(a, b, c, d float64) Struct {
	inner := NewStruct([]string{"temp", "area"}, []Vector{Scalar(c), Scalar(d)})
	return NewStruct(
		[]string{"x", "y", "slab"},
		[]Vector{Scalar(a), Tuple{Scalar(b), Scalar(-b)}, inner},
	)
}

func TestScalar_Laws(t *testing.T) {
	samples := []Scalar{0, 1, -2.5, 3e-7, 1e9}
	for _, a := range samples {
		sum, err := a.Zero().Add(a)
		require.NoError(t, err)
		assert.Equal(t, Vector(a), sum, "zero + t")

		sum, err = a.Add(a.Zero())
		require.NoError(t, err)
		assert.Equal(t, Vector(a), sum, "t + zero")

		for _, b := range samples {
			ab, err := a.Add(b)
			require.NoError(t, err)
			ba, err := b.Add(a)
			require.NoError(t, err)
			assert.True(t, ApproxEqual(ab, ba, tol), "%v + %v", a, b)
		}
	}
}

func TestStruct_Laws(t *testing.T) {
	a := sampleStruct(1, 2, 3, 4)
	b := sampleStruct(-0.5, 0.25, 10, 1e-3)
	c := sampleStruct(7, -7, 0.1, 0.2)

	sum, err := a.Zero().Add(a)
	require.NoError(t, err)
	assert.True(t, ApproxEqual(sum, a, tol))

	ab, err := a.Add(b)
	require.NoError(t, err)
	ba, err := b.Add(a)
	require.NoError(t, err)
	assert.True(t, ApproxEqual(ab, ba, tol))

	abC, err := ab.Add(c)
	require.NoError(t, err)
	bc, err := b.Add(c)
	require.NoError(t, err)
	aBC, err := a.Add(bc)
	require.NoError(t, err)
	assert.True(t, ApproxEqual(abC, aBC, 1e-9))
}

func TestStruct_Zero(t *testing.T) {
	z := sampleStruct(1, 2, 3, 4).Zero()
	assert.Equal(t, 5, z.Len())
	for _, leaf := range z.Leaves() {
		assert.Zero(t, leaf)
	}
}

func TestAdd_ShapeMismatch(t *testing.T) {
	_, err := Scalar(1).Add(Tuple{Scalar(1)})
	assert.ErrorIs(t, err, ErrShapeMismatch)

	_, err = Tuple{Scalar(1)}.Add(Tuple{Scalar(1), Scalar(2)})
	assert.ErrorIs(t, err, ErrShapeMismatch)

	other := NewStruct([]string{"z"}, []Vector{Scalar(1)})
	_, err = NewStruct([]string{"x"}, []Vector{Scalar(1)}).Add(other)
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestLeavesRoundTrip(t *testing.T) {
	s := sampleStruct(1, 2, 3, 4)
	assert.Equal(t, []float64{1, 2, -2, 3, 4}, s.Leaves())

	back, err := FromLeaves(s.Zero(), s.Leaves())
	require.NoError(t, err)
	assert.True(t, ApproxEqual(s, back, 0))

	_, err = FromLeaves(s, []float64{1})
	assert.ErrorIs(t, err, ErrShapeMismatch)
	_, err = FromLeaves(Scalar(0), []float64{1, 2})
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestScaleAndMap(t *testing.T) {
	s := sampleStruct(1, 2, 3, 4)
	assert.InDeltaSlice(t, []float64{-0.1, -0.2, 0.2, -0.3, -0.4}, s.Scale(-0.1).Leaves(), tol)

	sq := Map(s, func(x float64) float64 { return x * x })
	assert.Equal(t, []float64{1, 4, 4, 9, 16}, sq.Leaves())

	diff, err := Map2(s, sq, func(x, y float64) float64 { return y - x })
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 2, 6, 6, 12}, diff.Leaves())

	_, err = Map2(s, Scalar(1), func(x, y float64) float64 { return x })
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestAt(t *testing.T) {
	s := sampleStruct(1, 2, 3, 4)

	v, err := At(s, "slab.area")
	require.NoError(t, err)
	assert.Equal(t, Scalar(4), v)

	v, err = At(s, "y[1]")
	require.NoError(t, err)
	assert.Equal(t, Scalar(-2), v)

	v, err = At(s, "")
	require.NoError(t, err)
	assert.Equal(t, Vector(s), v)

	_, err = At(s, "slab.mass")
	assert.ErrorIs(t, err, ErrNoSuchPath)
	_, err = At(s, "y[5]")
	assert.ErrorIs(t, err, ErrNoSuchPath)
	_, err = At(s, "x.deeper")
	assert.ErrorIs(t, err, ErrNoSuchPath)
}

func TestSplitPath(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "[2]", "c"}, SplitPath("a.b[2].c"))
	assert.Equal(t, []string{"[0]", "[1]"}, SplitPath("[0][1]"))
	assert.Empty(t, SplitPath(""))
}

func TestNormAndSum(t *testing.T) {
	assert.InDelta(t, 5.0, Norm(Tuple{Scalar(3), Scalar(4)}), tol)
	assert.Zero(t, Norm(Tuple{}))

	total, err := Sum(Scalar(1), Scalar(2), Scalar(3.5))
	require.NoError(t, err)
	assert.Equal(t, Scalar(6.5), total)

	none, err := Sum()
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestString(t *testing.T) {
	assert.Equal(t, "{x: 1, y: [2, -2], slab: {temp: 3, area: 4}}", sampleStruct(1, 2, 3, 4).String())
}

package registry

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func double(args []float64) (float64, Pullback) {
	return 2 * args[0], func(ct float64) []float64 { return []float64{2 * ct} }
}

func TestKey_String(t *testing.T) {
	assert.Equal(t, "sqrt(float64)", Key{Name: "sqrt", Arity: 1}.String())
	assert.Equal(t, "min(float64, float64)", Key{Name: "min", Arity: 2}.String())
}

func TestRegisterAndLookup(t *testing.T) {
	r := New()
	key := Key{Name: "double", Arity: 1}
	require.NoError(t, r.Register(key, double))

	vjp, ok := r.Lookup(key)
	require.True(t, ok)
	value, pb := vjp([]float64{3})
	assert.Equal(t, 6.0, value)
	assert.Equal(t, []float64{10}, pb(5))

	_, ok = r.Lookup(Key{Name: "double", Arity: 2})
	assert.False(t, ok, "arity is part of the key")
}

func TestRegister_Duplicate(t *testing.T) {
	r := New()
	key := Key{Name: "double", Arity: 1}
	require.NoError(t, r.Register(key, double))

	replacement := func(args []float64) (float64, Pullback) { return 0, nil }
	err := r.Register(key, replacement)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateRegistration)

	var dup *DuplicateRegistrationError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, key, dup.Key)
	assert.Contains(t, err.Error(), "double(float64)")

	// The original registration survives.
	vjp, _ := r.Lookup(key)
	value, _ := vjp([]float64{1})
	assert.Equal(t, 2.0, value)
}

func TestRegister_Invalid(t *testing.T) {
	r := New()
	assert.ErrorIs(t, r.Register(Key{Arity: 1}, double), ErrInvalidKey)
	assert.ErrorIs(t, r.Register(Key{Name: "x"}, double), ErrInvalidKey)
	assert.ErrorIs(t, r.Register(Key{Name: "x", Arity: 1}, nil), ErrInvalidKey)
	assert.Zero(t, r.Len())
}

func TestSeal(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(Key{Name: "a", Arity: 1}, double))
	r.Seal()
	r.Seal()
	assert.True(t, r.Sealed())

	err := r.Register(Key{Name: "b", Arity: 1}, double)
	assert.ErrorIs(t, err, ErrRegistrySealed)

	_, ok := r.Lookup(Key{Name: "a", Arity: 1})
	assert.True(t, ok, "lookups keep working after sealing")
}

func TestMustRegister_Panics(t *testing.T) {
	r := New()
	r.MustRegister(Key{Name: "a", Arity: 1}, double)
	assert.Panics(t, func() { r.MustRegister(Key{Name: "a", Arity: 1}, double) })
}

func TestKeys_Sorted(t *testing.T) {
	r := New()
	for _, k := range []Key{{"sin", 1}, {"max", 2}, {"exp", 1}, {"max", 1}} {
		require.NoError(t, r.Register(k, double))
	}
	assert.Equal(t, []Key{{"exp", 1}, {"max", 1}, {"max", 2}, {"sin", 1}}, r.Keys())
}

func TestLookup_ConcurrentReaders(t *testing.T) {
	r := New()
	key := Key{Name: "double", Arity: 1}
	require.NoError(t, r.Register(key, double))
	r.Seal()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				if _, ok := r.Lookup(key); !ok {
					t.Error("lookup failed")
					return
				}
			}
		}()
	}
	wg.Wait()
}

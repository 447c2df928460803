package parallel

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFor(t *testing.T) {
	cfg := DefaultConfig()

	var counter int64
	n := 1000

	For(n, func(_ int) {
		atomic.AddInt64(&counter, 1)
	}, cfg)

	assert.Equal(t, int64(n), counter)
}

func TestFor_Sequential(t *testing.T) {
	cfg := Config{Enabled: false}

	order := make([]int, 0, 10)
	For(10, func(i int) {
		order = append(order, i)
	}, cfg)

	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, order)
}

func TestFor_SmallChunk(t *testing.T) {
	// Small work units fall back to sequential.
	cfg := Config{Enabled: true, NumWorkers: 4, MinChunkSize: 64}

	seen := make([]bool, 10)
	For(10, func(i int) {
		seen[i] = true
	}, cfg)

	for i, ok := range seen {
		assert.True(t, ok, "index %d not visited", i)
	}
}

func TestForErr(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 4, MinChunkSize: 1}

	results := make([]int, 100)
	err := ForErr(context.Background(), len(results), func(_ context.Context, i int) error {
		results[i] = i * i
		return nil
	}, cfg)

	require.NoError(t, err)
	for i, r := range results {
		assert.Equal(t, i*i, r)
	}
}

func TestForErr_FirstErrorWins(t *testing.T) {
	errBoom := errors.New("boom")

	for _, cfg := range []Config{
		{Enabled: false},
		{Enabled: true, NumWorkers: 3, MinChunkSize: 1},
	} {
		var calls int64
		err := ForErr(context.Background(), 50, func(_ context.Context, i int) error {
			atomic.AddInt64(&calls, 1)
			if i == 7 {
				return errBoom
			}
			return nil
		}, cfg)

		assert.ErrorIs(t, err, errBoom)
		if !cfg.Enabled {
			assert.Equal(t, int64(8), calls, "sequential run stops at the failing item")
		}
	}
}

func TestForErr_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := ForErr(ctx, 10, func(context.Context, int) error {
		t.Error("f called after cancellation")
		return nil
	}, Config{Enabled: false})
	assert.ErrorIs(t, err, context.Canceled)
}

package engine

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vm6502q/Eratosthenes/internal/dispatch"
	"github.com/vm6502q/Eratosthenes/internal/num"
	"github.com/vm6502q/Eratosthenes/internal/resource"
	"github.com/vm6502q/Eratosthenes/internal/wheel"
	"github.com/vm6502q/Eratosthenes/testutil"
)

func newTestEngine(t *testing.T, cfg Config) *Engine {
	t.Helper()
	if cfg.Dispatcher == nil {
		cfg.Dispatcher = dispatch.New(4)
		t.Cleanup(cfg.Dispatcher.Close)
	}
	e, err := New(cfg)
	require.NoError(t, err)
	return e
}

func toUint64s(t *testing.T, primes []num.Nat) []uint64 {
	t.Helper()
	if len(primes) == 0 {
		return nil // match the reference sieve's empty result
	}
	out := make([]uint64, len(primes))
	for i, p := range primes {
		v, ok := p.Uint64()
		require.True(t, ok)
		out[i] = v
	}
	return out
}

func TestNewValidation(t *testing.T) {
	d := dispatch.New(1)
	defer d.Close()

	_, err := New(Config{})
	assert.Error(t, err, "dispatcher is required")

	_, err = New(Config{Dispatcher: d, WheelOrder: 1})
	assert.Error(t, err)
	_, err = New(Config{Dispatcher: d, WheelOrder: 6})
	assert.Error(t, err)
	_, err = New(Config{Dispatcher: d, SegmentBytes: -1})
	assert.Error(t, err)

	_, err = New(Config{Dispatcher: d})
	assert.NoError(t, err)
}

func TestSieveMatchesReference(t *testing.T) {
	want := testutil.ReferenceSieve(10000)

	for order := 2; order <= wheel.MaxOrder; order++ {
		t.Run(fmt.Sprintf("order %d", order), func(t *testing.T) {
			e := newTestEngine(t, Config{WheelOrder: order})
			primes, err := e.Sieve(t.Context(), num.FromUint64(10000))
			require.NoError(t, err)
			assert.Equal(t, want, toUint64s(t, primes))
		})
	}
}

func TestSieveSmallBounds(t *testing.T) {
	e := newTestEngine(t, Config{})
	for n := uint64(0); n <= 150; n++ {
		primes, err := e.Sieve(t.Context(), num.FromUint64(n))
		require.NoError(t, err)
		require.Equal(t, testutil.ReferenceSieve(n), toUint64s(t, primes), "n=%d", n)
	}
}

func TestCountMatchesSieve(t *testing.T) {
	e := newTestEngine(t, Config{})
	for _, n := range []uint64{0, 1, 2, 7, 11, 100, 1000, 10000} {
		count, err := e.Count(t.Context(), num.FromUint64(n))
		require.NoError(t, err)
		assert.Equal(t, testutil.ReferenceCount(n), count, "n=%d", n)
	}
}

func TestSegmentedMatchesReference(t *testing.T) {
	// 64-byte windows force many segments for this range.
	e := newTestEngine(t, Config{SegmentBytes: 64})

	primes, err := e.SegmentedSieve(t.Context(), num.FromUint64(50000))
	require.NoError(t, err)
	assert.Equal(t, testutil.ReferenceSieve(50000), toUint64s(t, primes))

	count, err := e.SegmentedCount(t.Context(), num.FromUint64(50000))
	require.NoError(t, err)
	assert.Equal(t, testutil.ReferenceCount(50000), count)
}

func TestSegmentedSmallBounds(t *testing.T) {
	// Bounds below one window fall through to the plain sieve; nothing
	// may be lost at the boundary.
	e := newTestEngine(t, Config{SegmentBytes: 64})
	for n := uint64(0); n <= 150; n++ {
		primes, err := e.SegmentedSieve(t.Context(), num.FromUint64(n))
		require.NoError(t, err)
		require.Equal(t, testutil.ReferenceSieve(n), toUint64s(t, primes), "n=%d", n)
	}
}

func TestSegmentedWindowSizeIndependence(t *testing.T) {
	want := testutil.ReferenceSieve(20000)
	for _, segBytes := range []int64{1, 16, 64, 1024, DefaultSegmentBytes} {
		e := newTestEngine(t, Config{SegmentBytes: segBytes})
		primes, err := e.SegmentedSieve(t.Context(), num.FromUint64(20000))
		require.NoError(t, err)
		require.Equal(t, want, toUint64s(t, primes), "segment bytes %d", segBytes)
	}
}

func TestSegmentedMaximalSegmentation(t *testing.T) {
	// One-byte windows degenerate to eight slots each; marking must be
	// idempotent across thousands of windows.
	e := newTestEngine(t, Config{SegmentBytes: 1})
	count, err := e.SegmentedCount(t.Context(), num.FromUint64(100_000))
	require.NoError(t, err)
	assert.Equal(t, testutil.ReferenceCount(100_000), count)
}

func TestTrialDivisionMatchesReference(t *testing.T) {
	e := newTestEngine(t, Config{})
	for _, n := range []uint64{0, 1, 2, 3, 7, 8, 11, 100, 2000} {
		primes, err := e.TrialDivision(t.Context(), num.FromUint64(n))
		require.NoError(t, err)
		require.Equal(t, testutil.ReferenceSieve(n), toUint64s(t, primes), "n=%d", n)
	}
}

func TestMemoryLimit(t *testing.T) {
	t.Run("full sieve exceeds", func(t *testing.T) {
		rc := resource.NewController(resource.Config{MemoryLimitBytes: 1024})
		e := newTestEngine(t, Config{Resources: rc})

		_, err := e.Sieve(t.Context(), num.FromUint64(1_000_000))
		assert.ErrorIs(t, err, resource.ErrMemoryLimitExceeded)
		assert.Equal(t, int64(0), rc.MemoryUsage())
	})

	t.Run("segmented fits window by window", func(t *testing.T) {
		// The limit holds one window plus the bootstrap sieve, never the
		// full range.
		rc := resource.NewController(resource.Config{MemoryLimitBytes: 1024})
		e := newTestEngine(t, Config{SegmentBytes: 256, Resources: rc})

		count, err := e.SegmentedCount(t.Context(), num.FromUint64(200_000))
		require.NoError(t, err)
		assert.Equal(t, testutil.ReferenceCount(200_000), count)
		assert.Equal(t, int64(0), rc.MemoryUsage())
	})
}

func TestContextCancellation(t *testing.T) {
	e := newTestEngine(t, Config{SegmentBytes: 64})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Sieve(ctx, num.FromUint64(1_000_000))
	assert.ErrorIs(t, err, context.Canceled)

	_, err = e.SegmentedSieve(ctx, num.FromUint64(100_000))
	assert.ErrorIs(t, err, context.Canceled)

	_, err = e.TrialDivision(ctx, num.FromUint64(1_000_000))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSharedDispatcher(t *testing.T) {
	// Two engines over one pool, used in sequence.
	d := dispatch.New(4)
	defer d.Close()

	a := newTestEngine(t, Config{Dispatcher: d, WheelOrder: 2})
	b := newTestEngine(t, Config{Dispatcher: d, WheelOrder: 3})

	want := testutil.ReferenceSieve(10000)
	pa, err := a.Sieve(t.Context(), num.FromUint64(10000))
	require.NoError(t, err)
	pb, err := b.Sieve(t.Context(), num.FromUint64(10000))
	require.NoError(t, err)

	assert.Equal(t, want, toUint64s(t, pa))
	assert.Equal(t, want, toUint64s(t, pb))
}

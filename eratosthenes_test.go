package eratosthenes

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vm6502q/Eratosthenes/testutil"
)

func newTestGenerator(t *testing.T, optFns ...Option) *Generator {
	t.Helper()
	gen, err := New(optFns...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = gen.Close() })
	return gen
}

func TestNew(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		gen, err := New()
		require.NoError(t, err)
		assert.NoError(t, gen.Close())
	})

	t.Run("invalid wheel order", func(t *testing.T) {
		_, err := New(WithWheelOrder(1))
		assert.ErrorIs(t, err, ErrInvalidWheelOrder)
		_, err = New(WithWheelOrder(17))
		assert.ErrorIs(t, err, ErrInvalidWheelOrder)
	})

	t.Run("invalid segment size", func(t *testing.T) {
		_, err := New(WithSegmentBytes(-1))
		assert.Error(t, err)
	})
}

func TestSieve(t *testing.T) {
	gen := newTestGenerator(t)

	primes, err := gen.Sieve(t.Context(), big.NewInt(1000))
	require.NoError(t, err)
	assert.Equal(t, testutil.Bigs(testutil.ReferenceSieve(1000)), primes)

	count, err := gen.Count(t.Context(), big.NewInt(1000))
	require.NoError(t, err)
	assert.Equal(t, uint64(168), count.Uint64())
}

func TestSegmented(t *testing.T) {
	gen := newTestGenerator(t, WithSegmentBytes(64))

	primes, err := gen.SegmentedSieve(t.Context(), big.NewInt(30000))
	require.NoError(t, err)
	assert.Equal(t, testutil.Bigs(testutil.ReferenceSieve(30000)), primes)

	count, err := gen.SegmentedCount(t.Context(), big.NewInt(30000))
	require.NoError(t, err)
	assert.Equal(t, testutil.ReferenceCount(30000), count.Uint64())
}

func TestTrialDivision(t *testing.T) {
	gen := newTestGenerator(t)

	primes, err := gen.TrialDivision(t.Context(), big.NewInt(500))
	require.NoError(t, err)
	assert.Equal(t, testutil.Bigs(testutil.ReferenceSieve(500)), primes)
}

func TestInvalidBounds(t *testing.T) {
	gen := newTestGenerator(t)

	t.Run("negative", func(t *testing.T) {
		_, err := gen.Sieve(t.Context(), big.NewInt(-1))
		assert.ErrorIs(t, err, ErrNegativeBound)
		_, err = gen.CountDecimal(t.Context(), "-5")
		assert.ErrorIs(t, err, ErrNegativeBound)
	})

	t.Run("nil", func(t *testing.T) {
		_, err := gen.Sieve(t.Context(), nil)
		var invalid *InvalidBoundError
		assert.ErrorAs(t, err, &invalid)
	})

	t.Run("malformed decimal", func(t *testing.T) {
		for _, s := range []string{"", "abc", "12x", "1.5"} {
			_, err := gen.SieveDecimal(t.Context(), s)
			var invalid *InvalidBoundError
			require.ErrorAs(t, err, &invalid, "input %q", s)
			assert.Equal(t, s, invalid.Input)
		}
	})
}

func TestDecimal(t *testing.T) {
	gen := newTestGenerator(t, WithSegmentBytes(64))

	primes, err := gen.SieveDecimal(t.Context(), "100")
	require.NoError(t, err)
	assert.Equal(t, testutil.Strings(testutil.ReferenceSieve(100)), primes)

	count, err := gen.CountDecimal(t.Context(), "1000")
	require.NoError(t, err)
	assert.Equal(t, "168", count)

	segmented, err := gen.SegmentedSieveDecimal(t.Context(), "10000")
	require.NoError(t, err)
	assert.Equal(t, testutil.Strings(testutil.ReferenceSieve(10000)), segmented)

	segCount, err := gen.SegmentedCountDecimal(t.Context(), "10000")
	require.NoError(t, err)
	assert.Equal(t, "1229", segCount)

	trial, err := gen.TrialDivisionDecimal(t.Context(), "100")
	require.NoError(t, err)
	assert.Equal(t, testutil.Strings(testutil.ReferenceSieve(100)), trial)
}

func TestMemoryLimit(t *testing.T) {
	gen := newTestGenerator(t, WithMemoryLimit(256))

	_, err := gen.Sieve(t.Context(), big.NewInt(1_000_000))
	assert.ErrorIs(t, err, ErrMemoryLimitExceeded)
}

func TestVariantAgreement(t *testing.T) {
	// All generation paths must produce the same primes, here on the
	// widest supported wheel.
	gen := newTestGenerator(t, WithSegmentBytes(128), WithWheelOrder(5))

	n := big.NewInt(20000)
	sieved, err := gen.Sieve(t.Context(), n)
	require.NoError(t, err)
	segmented, err := gen.SegmentedSieve(t.Context(), n)
	require.NoError(t, err)
	trial, err := gen.TrialDivision(t.Context(), n)
	require.NoError(t, err)

	assert.Equal(t, sieved, segmented)
	assert.Equal(t, sieved, trial)
}

func TestCloseNil(t *testing.T) {
	var gen *Generator
	assert.NoError(t, gen.Close())
}

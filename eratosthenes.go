package eratosthenes

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/vm6502q/Eratosthenes/internal/dispatch"
	"github.com/vm6502q/Eratosthenes/internal/engine"
	"github.com/vm6502q/Eratosthenes/internal/num"
	"github.com/vm6502q/Eratosthenes/internal/resource"
	"github.com/vm6502q/Eratosthenes/internal/wheel"
)

// Generator computes prime numbers up to arbitrary-precision bounds.
//
// A Generator owns a worker pool for parallel composite marking; Close
// releases it. Methods are safe for concurrent use: invocations are
// serialized over the shared pool, so concurrent calls queue rather
// than interleave.
type Generator struct {
	mu     sync.Mutex
	engine *engine.Engine
	pool   *dispatch.Dispatcher
	logger *Logger
}

// New creates a Generator.
func New(optFns ...Option) (*Generator, error) {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.wheelOrder < 2 || opts.wheelOrder > wheel.MaxOrder {
		return nil, fmt.Errorf("%w: %d (supported range [2, %d])", ErrInvalidWheelOrder, opts.wheelOrder, wheel.MaxOrder)
	}

	logger := opts.logger
	if logger == nil {
		logger = NoopLogger()
	}

	var resources *resource.Controller
	if opts.memoryLimit > 0 {
		resources = resource.NewController(resource.Config{
			MemoryLimitBytes: opts.memoryLimit,
		})
	}

	pool := dispatch.New(opts.parallelism)
	eng, err := engine.New(engine.Config{
		WheelOrder:   opts.wheelOrder,
		SegmentBytes: opts.segmentBytes,
		Dispatcher:   pool,
		Resources:    resources,
		Logger:       logger.Logger,
	})
	if err != nil {
		pool.Close()
		return nil, err
	}

	return &Generator{
		engine: eng,
		pool:   pool,
		logger: logger.WithWheelOrder(opts.wheelOrder),
	}, nil
}

// Close stops the worker pool after outstanding work drains. The
// Generator must not be used afterwards.
func (g *Generator) Close() error {
	if g == nil {
		return nil
	}
	g.pool.Close()
	return nil
}

// Sieve returns all primes <= n in increasing order.
func (g *Generator) Sieve(ctx context.Context, n *big.Int) ([]*big.Int, error) {
	bound, err := boundFromBig(n)
	if err != nil {
		return nil, err
	}
	primes, err := g.listOp(ctx, "sieve", bound, g.engine.Sieve)
	if err != nil {
		return nil, err
	}
	return toBigs(primes), nil
}

// Count returns the number of primes <= n.
func (g *Generator) Count(ctx context.Context, n *big.Int) (*big.Int, error) {
	bound, err := boundFromBig(n)
	if err != nil {
		return nil, err
	}
	count, err := g.countOp(ctx, "count", bound, g.engine.Count)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetUint64(count), nil
}

// SegmentedSieve returns all primes <= n, processing the range in
// cache-sized windows. Output is identical to Sieve for every n.
func (g *Generator) SegmentedSieve(ctx context.Context, n *big.Int) ([]*big.Int, error) {
	bound, err := boundFromBig(n)
	if err != nil {
		return nil, err
	}
	primes, err := g.listOp(ctx, "segmented_sieve", bound, g.engine.SegmentedSieve)
	if err != nil {
		return nil, err
	}
	return toBigs(primes), nil
}

// SegmentedCount returns the number of primes <= n without ever holding
// a bit array for the full range.
func (g *Generator) SegmentedCount(ctx context.Context, n *big.Int) (*big.Int, error) {
	bound, err := boundFromBig(n)
	if err != nil {
		return nil, err
	}
	count, err := g.countOp(ctx, "segmented_count", bound, g.engine.SegmentedCount)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetUint64(count), nil
}

// TrialDivision returns all primes <= n by serial trial division. It is
// far slower than Sieve but allocates no bit arrays; it exists as the
// obviously-correct reference.
func (g *Generator) TrialDivision(ctx context.Context, n *big.Int) ([]*big.Int, error) {
	bound, err := boundFromBig(n)
	if err != nil {
		return nil, err
	}
	primes, err := g.listOp(ctx, "trial_division", bound, g.engine.TrialDivision)
	if err != nil {
		return nil, err
	}
	return toBigs(primes), nil
}

// SieveDecimal is Sieve over decimal strings.
func (g *Generator) SieveDecimal(ctx context.Context, n string) ([]string, error) {
	bound, err := boundFromDecimal(n)
	if err != nil {
		return nil, err
	}
	primes, err := g.listOp(ctx, "sieve", bound, g.engine.Sieve)
	if err != nil {
		return nil, err
	}
	return toStrings(primes), nil
}

// CountDecimal is Count over decimal strings.
func (g *Generator) CountDecimal(ctx context.Context, n string) (string, error) {
	bound, err := boundFromDecimal(n)
	if err != nil {
		return "", err
	}
	count, err := g.countOp(ctx, "count", bound, g.engine.Count)
	if err != nil {
		return "", err
	}
	return new(big.Int).SetUint64(count).String(), nil
}

// SegmentedSieveDecimal is SegmentedSieve over decimal strings.
func (g *Generator) SegmentedSieveDecimal(ctx context.Context, n string) ([]string, error) {
	bound, err := boundFromDecimal(n)
	if err != nil {
		return nil, err
	}
	primes, err := g.listOp(ctx, "segmented_sieve", bound, g.engine.SegmentedSieve)
	if err != nil {
		return nil, err
	}
	return toStrings(primes), nil
}

// SegmentedCountDecimal is SegmentedCount over decimal strings.
func (g *Generator) SegmentedCountDecimal(ctx context.Context, n string) (string, error) {
	bound, err := boundFromDecimal(n)
	if err != nil {
		return "", err
	}
	count, err := g.countOp(ctx, "segmented_count", bound, g.engine.SegmentedCount)
	if err != nil {
		return "", err
	}
	return new(big.Int).SetUint64(count).String(), nil
}

// TrialDivisionDecimal is TrialDivision over decimal strings.
func (g *Generator) TrialDivisionDecimal(ctx context.Context, n string) ([]string, error) {
	bound, err := boundFromDecimal(n)
	if err != nil {
		return nil, err
	}
	primes, err := g.listOp(ctx, "trial_division", bound, g.engine.TrialDivision)
	if err != nil {
		return nil, err
	}
	return toStrings(primes), nil
}

func (g *Generator) listOp(ctx context.Context, op string, bound num.Nat, f func(context.Context, num.Nat) ([]num.Nat, error)) ([]num.Nat, error) {
	start := time.Now()
	g.mu.Lock()
	primes, err := f(ctx, bound)
	g.mu.Unlock()
	g.logger.LogSieve(ctx, op, bound.String(), uint64(len(primes)), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return primes, nil
}

func (g *Generator) countOp(ctx context.Context, op string, bound num.Nat, f func(context.Context, num.Nat) (uint64, error)) (uint64, error) {
	start := time.Now()
	g.mu.Lock()
	count, err := f(ctx, bound)
	g.mu.Unlock()
	g.logger.LogSieve(ctx, op, bound.String(), count, time.Since(start), err)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func boundFromBig(n *big.Int) (num.Nat, error) {
	if n == nil {
		return num.Nat{}, &InvalidBoundError{Input: "<nil>"}
	}
	if n.Sign() < 0 {
		return num.Nat{}, ErrNegativeBound
	}
	bound, err := num.FromBig(n)
	if err != nil {
		return num.Nat{}, &InvalidBoundError{Input: n.String()}
	}
	return bound, nil
}

func boundFromDecimal(s string) (num.Nat, error) {
	b, ok := new(big.Int).SetString(strings.TrimSpace(s), 10)
	if !ok {
		return num.Nat{}, &InvalidBoundError{Input: s}
	}
	if b.Sign() < 0 {
		return num.Nat{}, ErrNegativeBound
	}
	bound, err := num.FromBig(b)
	if err != nil {
		return num.Nat{}, &InvalidBoundError{Input: s}
	}
	return bound, nil
}

func toBigs(primes []num.Nat) []*big.Int {
	out := make([]*big.Int, len(primes))
	for i, p := range primes {
		out[i] = p.Big()
	}
	return out
}

func toStrings(primes []num.Nat) []string {
	out := make([]string, len(primes))
	for i, p := range primes {
		out[i] = p.String()
	}
	return out
}

package eratosthenes

import (
	"github.com/vm6502q/Eratosthenes/internal/engine"
)

type options struct {
	wheelOrder   int
	segmentBytes int64
	parallelism  int
	memoryLimit  int64
	logger       *Logger
}

func defaultOptions() options {
	return options{
		wheelOrder:   engine.DefaultWheelOrder,
		segmentBytes: engine.DefaultSegmentBytes,
	}
}

// Option configures a Generator.
type Option func(*options)

// WithWheelOrder selects the storage wheel: the first order primes are
// excluded from the compacted bit array. Higher orders trade residue
// table size for density; order 3 (wheel over 2, 3, 5) is the default.
func WithWheelOrder(order int) Option {
	return func(o *options) {
		o.wheelOrder = order
	}
}

// WithSegmentBytes bounds the per-window bit array of the segmented
// variants. Purely a performance knob: any positive size produces
// identical results. Defaults to 2 MiB, sized near the L2 cache.
func WithSegmentBytes(bytes int64) Option {
	return func(o *options) {
		o.segmentBytes = bytes
	}
}

// WithParallelism sets the width of the marking worker pool. Values <= 0
// size the pool to the available hardware parallelism.
func WithParallelism(workers int) Option {
	return func(o *options) {
		o.parallelism = workers
	}
}

// WithMemoryLimit caps the total bytes held in sieve bit arrays.
// Operations that would exceed the cap fail with ErrMemoryLimitExceeded
// instead of allocating. 0 disables the limit.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.memoryLimit = bytes
	}
}

// WithLogger sets the structured logger. Defaults to NoopLogger.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

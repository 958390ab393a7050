// Package engine implements the Sieve of Eratosthenes over a compacted
// wheel index space with parallel composite marking, a cache-bounded
// segmented variant for arbitrarily large bounds, counting variants, and
// a serial trial-division fallback.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/vm6502q/Eratosthenes/internal/dispatch"
	"github.com/vm6502q/Eratosthenes/internal/resource"
	"github.com/vm6502q/Eratosthenes/internal/wheel"
)

const (
	// DefaultWheelOrder compacts storage by the wheel over 2, 3 and 5,
	// reducing the bit array to 4/15 of the odd numbers alone.
	DefaultWheelOrder = 3

	// DefaultSegmentBytes caps each window's bit array near the L2 cache.
	DefaultSegmentBytes = 2 << 20

	// enumOrder: candidate enumeration always runs on the mod-6 wheel;
	// further small primes are skipped by stepper registers instead of a
	// wider residue table.
	enumOrder = 2
)

var smallPrimes = [...]uint64{2, 3, 5, 7, 11, 13}

// Config assembles an Engine. Dispatcher is required; everything else
// has a usable default.
type Config struct {
	// WheelOrder selects the storage wheel: the first WheelOrder primes
	// are excluded from the compacted index space. Range [2, wheel.MaxOrder].
	WheelOrder int

	// SegmentBytes bounds the per-window bit array of the segmented
	// variants. Purely a performance knob: any positive size produces
	// identical results.
	SegmentBytes int64

	Dispatcher *dispatch.Dispatcher
	Resources  *resource.Controller
	Logger     *slog.Logger
}

// Engine computes primes up to a bound. Each invocation owns its bit
// arrays and prime lists, but the dispatcher's barrier is shared:
// invocations on the same dispatcher must not overlap, so callers
// serialize them (the public Generator does).
type Engine struct {
	storage *wheel.Wheel
	enum    *wheel.Wheel

	skip  []uint64 // enumeration skip primes, one stepper register each
	seeds []uint64 // primes the enumeration can never produce

	mainGuards []uint64 // storage base primes absent from the 4p/2p stride
	segGuards  []uint64 // storage base primes beyond 2, filtered per window mark

	segmentElems uint64

	dispatcher *dispatch.Dispatcher
	resources  *resource.Controller
	logger     *slog.Logger
	progress   *rate.Limiter
}

// New validates cfg and builds an Engine.
func New(cfg Config) (*Engine, error) {
	if cfg.Dispatcher == nil {
		return nil, errors.New("engine: dispatcher is required")
	}

	order := cfg.WheelOrder
	if order == 0 {
		order = DefaultWheelOrder
	}
	if order < 2 || order > wheel.MaxOrder {
		return nil, fmt.Errorf("engine: wheel order %d out of range [2, %d]", order, wheel.MaxOrder)
	}

	storage, err := wheel.New(order)
	if err != nil {
		return nil, err
	}
	enum, err := wheel.New(enumOrder)
	if err != nil {
		return nil, err
	}

	// Skip one prime past the storage wheel: its multiples have slots,
	// but skipping them during enumeration is cheaper than testing them.
	skip := smallPrimes[2 : order+1]
	if _, err := wheel.NewStepper(enum, skip); err != nil {
		return nil, err
	}

	segBytes := cfg.SegmentBytes
	if segBytes == 0 {
		segBytes = DefaultSegmentBytes
	}
	if segBytes < 0 {
		return nil, fmt.Errorf("engine: segment size %d bytes is not positive", segBytes)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	base := storage.BasePrimes()
	return &Engine{
		storage:      storage,
		enum:         enum,
		skip:         skip,
		seeds:        smallPrimes[:order+1],
		mainGuards:   base[2:],
		segGuards:    base[1:],
		segmentElems: uint64(segBytes) * 8,
		dispatcher:   cfg.Dispatcher,
		resources:    cfg.Resources,
		logger:       logger,
		progress:     rate.NewLimiter(rate.Every(time.Second), 1),
	}, nil
}

// newStepper returns a fresh candidate stepper. The configuration was
// validated in New, so failure here is a defect.
func (e *Engine) newStepper() *wheel.Stepper {
	st, err := wheel.NewStepper(e.enum, e.skip)
	if err != nil {
		panic(err)
	}
	return st
}

package eratosthenes

import (
	"errors"
	"fmt"

	"github.com/vm6502q/Eratosthenes/internal/resource"
)

var (
	// ErrNegativeBound is returned when a sieve bound is negative.
	ErrNegativeBound = errors.New("eratosthenes: negative bound")

	// ErrInvalidWheelOrder is returned by New when the configured wheel
	// order is outside the supported range.
	ErrInvalidWheelOrder = errors.New("eratosthenes: invalid wheel order")

	// ErrMemoryLimitExceeded is returned when a sieve bit array would
	// exceed the limit configured with WithMemoryLimit.
	ErrMemoryLimitExceeded = resource.ErrMemoryLimitExceeded
)

// InvalidBoundError is returned when a bound cannot be interpreted as a
// decimal natural number.
type InvalidBoundError struct {
	Input string
}

func (e *InvalidBoundError) Error() string {
	return fmt.Sprintf("eratosthenes: invalid bound %q", e.Input)
}

package wheel

import "fmt"

// Stepper walks the compacted index space of a wheel while additionally
// skipping indices whose numbers are multiples of a set of skip primes.
//
// Each skip prime q owns a rotating bit register of period q * Size():
// bit k is set when the number at distance k+1 from the current index is
// a multiple of q. Advancing consumes the low bit of every register and
// reinserts it at the top, so the registers stay phase-locked with the
// index without any modular arithmetic on the hot path. The combined
// pattern is periodic with the lcm of the register periods.
//
// A Stepper is deterministic: two steppers over the same wheel and skip
// primes produce identical index sequences, and Reset restores the
// initial state exactly.
type Stepper struct {
	wheel *Wheel
	regs  []skipRegister
	index uint64
}

type skipRegister struct {
	prime  uint64
	period uint
	init   uint64
	bits   uint64
}

// NewStepper returns a stepper positioned at index 1. Skip primes must be
// coprime to the wheel modulus and small enough for their register to fit
// one word (prime * wheel.Size() <= 64).
func NewStepper(w *Wheel, skipPrimes []uint64) (*Stepper, error) {
	s := &Stepper{wheel: w, index: 1}
	for _, q := range skipPrimes {
		if q == 0 || w.modulus%q == 0 {
			return nil, fmt.Errorf("wheel: skip prime %d overlaps wheel base", q)
		}
		period := uint(q * w.Size())
		if period > 64 {
			return nil, fmt.Errorf("wheel: skip prime %d needs a %d-bit register", q, period)
		}
		var bits uint64
		for k := uint(0); k < period; k++ {
			if w.Forward(s.index+1+uint64(k)).ModUint64(q) == 0 {
				bits |= 1 << k
			}
		}
		s.regs = append(s.regs, skipRegister{prime: q, period: period, init: bits, bits: bits})
	}
	return s, nil
}

// Current returns the index the stepper points at.
func (s *Stepper) Current() uint64 { return s.index }

// Next advances to the following non-skipped index and returns it.
func (s *Stepper) Next() uint64 {
	var inc uint64
	for {
		skipped := false
		for i := range s.regs {
			r := &s.regs[i]
			bit := r.bits & 1
			r.bits >>= 1
			if bit != 0 {
				r.bits |= 1 << (r.period - 1)
				skipped = true
			}
		}
		inc++
		if !skipped {
			break
		}
	}
	s.index += inc
	return s.index
}

// Reset restores the stepper to its initial index and register state.
func (s *Stepper) Reset() {
	s.index = 1
	for i := range s.regs {
		s.regs[i].bits = s.regs[i].init
	}
}

// Package wheel implements wheel factorization: the bidirectional mapping
// between natural numbers and the compacted index space that skips
// multiples of the first few primes, plus the increment generator that
// enumerates candidates while skipping further small primes.
package wheel

import (
	"fmt"
	"sort"

	"github.com/vm6502q/Eratosthenes/internal/num"
)

// smallPrimes bounds the supported wheel orders. Order 5 already yields a
// modulus of 2310 with 480 residues; beyond that the table stops paying
// for itself.
var smallPrimes = [...]uint64{2, 3, 5, 7, 11, 13}

// MaxOrder is the largest supported wheel order.
const MaxOrder = 5

// Wheel maps naturals onto the compacted index space of its base primes.
//
// Index i corresponds to the number residues[i mod L] + (i / L) * modulus,
// where L = len(residues). Index 0 corresponds to 1, which is never
// enumerated by the sieve; every number coprime to the modulus has exactly
// one index.
type Wheel struct {
	order    int
	primes   []uint64
	modulus  uint64
	residues []int // coprime residues in [1, modulus), strictly increasing
}

// New builds the wheel over the first order primes. order must be in
// [1, MaxOrder].
func New(order int) (*Wheel, error) {
	if order < 1 || order > MaxOrder {
		return nil, fmt.Errorf("wheel: order %d out of range [1, %d]", order, MaxOrder)
	}

	primes := smallPrimes[:order]
	modulus := uint64(1)
	for _, p := range primes {
		modulus *= p
	}

	var residues []int
	for r := uint64(1); r < modulus; r++ {
		coprime := true
		for _, p := range primes {
			if r%p == 0 {
				coprime = false
				break
			}
		}
		if coprime {
			residues = append(residues, int(r))
		}
	}

	return &Wheel{
		order:    order,
		primes:   append([]uint64(nil), primes...),
		modulus:  modulus,
		residues: residues,
	}, nil
}

// Order returns the number of base primes.
func (w *Wheel) Order() int { return w.order }

// Modulus returns the product of the base primes.
func (w *Wheel) Modulus() uint64 { return w.modulus }

// Size returns the number of residues per cycle (Euler totient of the
// modulus).
func (w *Wheel) Size() uint64 { return uint64(len(w.residues)) }

// BasePrimes returns the wheel's base primes in increasing order.
func (w *Wheel) BasePrimes() []uint64 {
	return append([]uint64(nil), w.primes...)
}

// Forward maps compacted index i to its natural number.
func (w *Wheel) Forward(i uint64) num.Nat {
	l := uint64(len(w.residues))
	cycle := num.FromUint64(i / l).MulUint64(w.modulus)
	return cycle.AddUint64(uint64(w.residues[i%l]))
}

// Backward maps n >= 1 to the index of the largest wheel number <= n.
// For wheel members it is the exact inverse of Forward, so
// Backward(Forward(i)) == i; for other n it is the floor map, which
// doubles as the compacted cardinality of the range [1, n].
//
// The index space must fit a machine word; anything larger could never be
// materialized, so an overflow here means broken index arithmetic.
func (w *Wheel) Backward(n num.Nat) uint64 {
	if n.IsZero() {
		return 0
	}
	l := uint64(len(w.residues))
	r := int(n.ModUint64(w.modulus))
	cycle := n.DivUint64(w.modulus)

	// Position of the largest residue <= r; -1 borrows from the
	// previous cycle (r smaller than every residue, e.g. a multiple of
	// the modulus).
	pos := sort.SearchInts(w.residues, r+1) - 1

	idx := cycle.MulUint64(l)
	if pos < 0 {
		idx = idx.SubUint64(1)
	} else {
		idx = idx.AddUint64(uint64(pos))
	}
	u, ok := idx.Uint64()
	if !ok {
		panic("wheel: compacted index overflows uint64")
	}
	return u
}

// Coprime reports whether n shares no factor with the wheel modulus.
func (w *Wheel) Coprime(n num.Nat) bool {
	for _, p := range w.primes {
		if n.ModUint64(p) == 0 {
			return false
		}
	}
	return true
}

// AlignDown returns the largest wheel member <= n. n must be >= 1.
func (w *Wheel) AlignDown(n num.Nat) num.Nat {
	return w.Forward(w.Backward(n))
}

// AlignUp returns the smallest wheel member >= n. n must be >= 1.
func (w *Wheel) AlignUp(n num.Nat) num.Nat {
	if w.Coprime(n) {
		return n
	}
	return w.Forward(w.Backward(n) + 1)
}

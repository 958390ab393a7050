// Package testutil provides a reference prime generator for tests.
//
// ReferenceSieve is a deliberately naive odd-only Sieve of Eratosthenes:
// no wheel compaction, no segmentation, no concurrency. Tests compare
// the optimized engines against it rather than against hardcoded prime
// tables.
package testutil

import (
	"math/big"

	"github.com/bits-and-blooms/bitset"
)

// ReferenceSieve returns all primes <= n in increasing order.
func ReferenceSieve(n uint64) []uint64 {
	if n < 2 {
		return nil
	}
	primes := []uint64{2}
	if n < 3 {
		return primes
	}

	// Bit i represents the odd number 2i+1; index 0 (the unit) stays unused.
	composite := bitset.New(uint(n/2 + 1))
	for i := uint64(1); ; i++ {
		p := 2*i + 1
		if p*p > n {
			break
		}
		if composite.Test(uint(i)) {
			continue
		}
		for m := p * p; m <= n; m += 2 * p {
			composite.Set(uint(m / 2))
		}
	}
	for i := uint64(1); 2*i+1 <= n; i++ {
		if !composite.Test(uint(i)) {
			primes = append(primes, 2*i+1)
		}
	}
	return primes
}

// ReferenceCount returns the number of primes <= n.
func ReferenceCount(n uint64) uint64 {
	return uint64(len(ReferenceSieve(n)))
}

// Bigs converts a uint64 prime list to *big.Int for comparison against
// the public API.
func Bigs(primes []uint64) []*big.Int {
	out := make([]*big.Int, len(primes))
	for i, p := range primes {
		out[i] = new(big.Int).SetUint64(p)
	}
	return out
}

// Strings converts a uint64 prime list to decimal strings.
func Strings(primes []uint64) []string {
	out := make([]string, len(primes))
	for i, p := range primes {
		out[i] = new(big.Int).SetUint64(p).String()
	}
	return out
}

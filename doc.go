// Package eratosthenes generates prime numbers up to arbitrary-precision
// bounds with a bit-packed, wheel-factorized Sieve of Eratosthenes.
//
// The full-range sieve stores candidates in a compacted index space (a
// wheel over the first few primes), strikes composites on a parallel
// worker pool, and reads the surviving candidates back in order. A
// segmented variant processes the range in cache-sized windows so memory
// stays bounded for very large n, and counting variants walk the same
// machinery without materializing the primes. A serial trial-division
// fallback provides an obviously-correct reference.
//
// Basic usage:
//
//	gen, err := eratosthenes.New()
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer gen.Close()
//
//	primes, err := gen.Sieve(ctx, big.NewInt(100))
//
// Bounds beyond 64 bits work the same way, either as *big.Int or as
// decimal strings:
//
//	count, err := gen.SegmentedCountDecimal(ctx, "18446744073709551616")
package eratosthenes

// Package bitvec implements the bit-packed composite array shared by
// concurrent marking jobs.
//
// Bits only ever transition false -> true (a number, once known
// composite, stays composite), so marking is an atomic OR and concurrent
// writers never lose updates even when they land in the same word. Reads
// between barrier epochs are atomic loads.
package bitvec

import (
	"math/bits"
	"sync/atomic"
)

// Vector is a fixed-size bit vector. The zero bit state is "possibly
// prime", so a freshly allocated vector is directly usable.
type Vector struct {
	words []atomic.Uint64
	size  uint64
}

// BytesFor returns the heap footprint in bytes of a vector with the given
// number of bits, for memory accounting.
func BytesFor(size uint64) int64 {
	return int64((size + 63) / 64 * 8)
}

// New allocates a vector of size bits, all clear.
func New(size uint64) *Vector {
	return &Vector{
		words: make([]atomic.Uint64, (size+63)/64),
		size:  size,
	}
}

// Size returns the number of bits.
func (v *Vector) Size() uint64 { return v.size }

// Set marks bit i. Out-of-range indices are ignored.
func (v *Vector) Set(i uint64) {
	if i >= v.size {
		return
	}
	v.words[i>>6].Or(1 << (i & 63))
}

// Test reports whether bit i is set. Out-of-range indices read as clear.
func (v *Vector) Test(i uint64) bool {
	if i >= v.size {
		return false
	}
	return v.words[i>>6].Load()&(1<<(i&63)) != 0
}

// Count returns the number of set bits.
func (v *Vector) Count() uint64 {
	var n uint64
	for i := range v.words {
		n += uint64(bits.OnesCount64(v.words[i].Load()))
	}
	return n
}

// Package num provides the unsigned arbitrary-precision arithmetic used by
// the sieve engine.
//
// Nat keeps values in a single machine word for as long as they fit and
// promotes to math/big only on overflow, so the common case (bounds within
// 64 bits) never allocates. The same operation set is available on both
// representations: callers select the width implicitly by the magnitudes
// they feed in, not by build configuration.
package num

import (
	"errors"
	"math/big"
	"math/bits"
)

// ErrSyntax is returned by Parse for input that is not a decimal natural number.
var ErrSyntax = errors.New("num: invalid decimal natural number")

// Nat is an immutable non-negative integer.
//
// The zero value is 0 and ready to use. When big is nil the value is word;
// otherwise the value is big and guaranteed to exceed math.MaxUint64
// (operations renormalize, so a word-sized result is always word-backed).
type Nat struct {
	word uint64
	big  *big.Int
}

// FromUint64 returns v as a Nat.
func FromUint64(v uint64) Nat {
	return Nat{word: v}
}

// FromBig returns the value of b as a Nat. It returns ErrSyntax if b is
// negative. The returned Nat does not alias b.
func FromBig(b *big.Int) (Nat, error) {
	if b.Sign() < 0 {
		return Nat{}, ErrSyntax
	}
	return wrap(new(big.Int).Set(b)), nil
}

// Parse interprets s as a decimal natural number.
func Parse(s string) (Nat, error) {
	b, ok := new(big.Int).SetString(s, 10)
	if !ok || b.Sign() < 0 {
		return Nat{}, ErrSyntax
	}
	return wrap(b), nil
}

// wrap renormalizes a freshly computed big.Int. The argument must not be
// retained by the caller afterwards.
func wrap(b *big.Int) Nat {
	if b.IsUint64() {
		return Nat{word: b.Uint64()}
	}
	return Nat{big: b}
}

func (a Nat) toBig() *big.Int {
	if a.big != nil {
		return a.big
	}
	return new(big.Int).SetUint64(a.word)
}

// Uint64 returns the value as a uint64 and reports whether it fits.
func (a Nat) Uint64() (uint64, bool) {
	if a.big != nil {
		return 0, false
	}
	return a.word, true
}

// Big returns the value as a fresh big.Int that does not alias a.
func (a Nat) Big() *big.Int {
	if a.big != nil {
		return new(big.Int).Set(a.big)
	}
	return new(big.Int).SetUint64(a.word)
}

func (a Nat) String() string {
	if a.big != nil {
		return a.big.String()
	}
	return new(big.Int).SetUint64(a.word).String()
}

// IsZero reports whether a == 0.
func (a Nat) IsZero() bool {
	return a.big == nil && a.word == 0
}

// IsEven reports whether a is even.
func (a Nat) IsEven() bool {
	if a.big != nil {
		return a.big.Bit(0) == 0
	}
	return a.word&1 == 0
}

// Cmp compares a and b, returning -1, 0 or +1.
func (a Nat) Cmp(b Nat) int {
	switch {
	case a.big == nil && b.big == nil:
		switch {
		case a.word < b.word:
			return -1
		case a.word > b.word:
			return 1
		}
		return 0
	case a.big == nil:
		return -1 // canonical big values always exceed any word
	case b.big == nil:
		return 1
	}
	return a.big.Cmp(b.big)
}

// CmpUint64 compares a against the word v.
func (a Nat) CmpUint64(v uint64) int {
	return a.Cmp(Nat{word: v})
}

// Add returns a + b.
func (a Nat) Add(b Nat) Nat {
	if a.big == nil && b.big == nil {
		sum, carry := bits.Add64(a.word, b.word, 0)
		if carry == 0 {
			return Nat{word: sum}
		}
	}
	return wrap(new(big.Int).Add(a.toBig(), b.toBig()))
}

// AddUint64 returns a + v.
func (a Nat) AddUint64(v uint64) Nat {
	return a.Add(Nat{word: v})
}

// Sub returns a - b. The caller must guarantee a >= b; a negative
// difference means broken index arithmetic and panics.
func (a Nat) Sub(b Nat) Nat {
	if a.big == nil && b.big == nil {
		diff, borrow := bits.Sub64(a.word, b.word, 0)
		if borrow != 0 {
			panic("num: negative difference")
		}
		return Nat{word: diff}
	}
	d := new(big.Int).Sub(a.toBig(), b.toBig())
	if d.Sign() < 0 {
		panic("num: negative difference")
	}
	return wrap(d)
}

// SubUint64 returns a - v under the same contract as Sub.
func (a Nat) SubUint64(v uint64) Nat {
	return a.Sub(Nat{word: v})
}

// Mul returns a * b.
func (a Nat) Mul(b Nat) Nat {
	if a.big == nil && b.big == nil {
		hi, lo := bits.Mul64(a.word, b.word)
		if hi == 0 {
			return Nat{word: lo}
		}
	}
	return wrap(new(big.Int).Mul(a.toBig(), b.toBig()))
}

// MulUint64 returns a * v.
func (a Nat) MulUint64(v uint64) Nat {
	return a.Mul(Nat{word: v})
}

// Shl returns a << k.
func (a Nat) Shl(k uint) Nat {
	if a.big == nil {
		if k < 64 && a.word>>(64-k) == 0 || a.word == 0 || k == 0 {
			return Nat{word: a.word << k}
		}
	}
	return wrap(new(big.Int).Lsh(a.toBig(), k))
}

// Shr returns a >> k.
func (a Nat) Shr(k uint) Nat {
	if a.big == nil {
		if k >= 64 {
			return Nat{}
		}
		return Nat{word: a.word >> k}
	}
	return wrap(new(big.Int).Rsh(a.big, k))
}

// ModUint64 returns a mod m. m must be non-zero.
func (a Nat) ModUint64(m uint64) uint64 {
	if a.big == nil {
		return a.word % m
	}
	return new(big.Int).Mod(a.big, new(big.Int).SetUint64(m)).Uint64()
}

// DivUint64 returns floor(a / d). d must be non-zero.
func (a Nat) DivUint64(d uint64) Nat {
	if a.big == nil {
		return Nat{word: a.word / d}
	}
	return wrap(new(big.Int).Quo(a.big, new(big.Int).SetUint64(d)))
}

// Mod returns a mod b. b must be non-zero.
func (a Nat) Mod(b Nat) Nat {
	if a.big == nil && b.big == nil {
		return Nat{word: a.word % b.word}
	}
	return wrap(new(big.Int).Mod(a.toBig(), b.toBig()))
}

// Div returns floor(a / b). b must be non-zero.
func (a Nat) Div(b Nat) Nat {
	if a.big == nil && b.big == nil {
		return Nat{word: a.word / b.word}
	}
	return wrap(new(big.Int).Quo(a.toBig(), b.toBig()))
}

// Sqrt returns the floor square root of a.
//
// The word path bisects with overflow-checked squaring, so values near
// 2^64 stay exact.
func (a Nat) Sqrt() Nat {
	if a.big != nil {
		return wrap(new(big.Int).Sqrt(a.big))
	}
	if a.word < 2 {
		return Nat{word: a.word}
	}
	var start, end, ans uint64 = 1, a.word >> 1, 0
	for start <= end {
		mid := start + (end-start)>>1
		hi, sq := bits.Mul64(mid, mid)
		switch {
		case hi == 0 && sq == a.word:
			return Nat{word: mid}
		case hi == 0 && sq < a.word:
			start = mid + 1
			ans = mid
		default:
			end = mid - 1
		}
	}
	return Nat{word: ans}
}

package engine

import (
	"context"
	"fmt"

	"github.com/vm6502q/Eratosthenes/internal/bitvec"
	"github.com/vm6502q/Eratosthenes/internal/num"
)

// Sieve returns all primes <= n in increasing order.
func (e *Engine) Sieve(ctx context.Context, n num.Nat) ([]num.Nat, error) {
	var primes []num.Nat
	if err := e.sieve(ctx, n, func(p num.Nat) { primes = append(primes, p) }); err != nil {
		return nil, err
	}
	return primes, nil
}

// Count returns the number of primes <= n. It walks the same state
// machine as Sieve but materializes nothing.
func (e *Engine) Count(ctx context.Context, n num.Nat) (uint64, error) {
	var count uint64
	if err := e.sieve(ctx, n, func(num.Nat) { count++ }); err != nil {
		return 0, err
	}
	return count, nil
}

// emitSeeds emits the wheel's excluded primes that are <= n.
func (e *Engine) emitSeeds(n num.Nat, emit func(num.Nat)) {
	for _, p := range e.seeds {
		if n.CmpUint64(p) < 0 {
			return
		}
		emit(num.FromUint64(p))
	}
}

func (e *Engine) sieve(ctx context.Context, n num.Nat, emit func(num.Nat)) error {
	if n.CmpUint64(2) < 0 {
		return nil
	}
	if n.CmpUint64(e.seeds[len(e.seeds)-1]+2) < 0 {
		e.emitSeeds(n, emit)
		return nil
	}
	e.emitSeeds(n, emit)

	card := e.storage.Backward(n)
	bytes := bitvec.BytesFor(card + 1)
	if err := e.resources.AcquireMemory(bytes); err != nil {
		return fmt.Errorf("sieve bit array (%d bits): %w", card+1, err)
	}
	defer e.resources.ReleaseMemory(bytes)
	notPrime := bitvec.New(card + 1)

	// Marking runs asynchronously. Once every prime up to x has had its
	// multiples struck, candidates up to x*x can be trusted, so the
	// barrier boundary squares at each synchronization point.
	boundary := num.FromUint64(36)

	st := e.newStepper()
	o := st.Next()
	for {
		p := e.enum.Forward(o)
		if p.Mul(p).Cmp(n) > 0 {
			break
		}

		if boundary.Cmp(p) < 0 {
			e.dispatcher.Finish()
			if err := ctx.Err(); err != nil {
				return err
			}
			boundary = boundary.Mul(boundary)
		}

		if !notPrime.Test(e.storage.Backward(p)) {
			emit(p)
			e.markMultiples(n, p, notPrime)
		}
		o = st.Next()
	}

	e.dispatcher.Finish()
	if err := ctx.Err(); err != nil {
		return err
	}

	// Every factor <= sqrt(n) is marked by now; drain the remaining
	// candidates straight from the bit array.
	for drained := 0; ; drained++ {
		p := e.enum.Forward(o)
		if p.Cmp(n) > 0 {
			break
		}
		o = st.Next()
		if drained&8191 == 8191 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if notPrime.Test(e.storage.Backward(p)) {
			continue
		}
		emit(p)
	}
	return nil
}

// markMultiples dispatches the job that strikes every multiple of p from
// p*p up to n. The stride alternates 4p/2p so only multiples coprime to
// 2 and 3 are visited; multiples of the remaining storage base primes
// have no slot and are filtered by modulus.
func (e *Engine) markMultiples(n, p num.Nat, notPrime *bitvec.Vector) {
	storage, guards := e.storage, e.mainGuards
	e.dispatcher.Dispatch(func() {
		p2 := p.Shl(1)
		p4 := p.Shl(2)
		i := p.Mul(p)

		mark := func(i num.Nat) {
			for _, q := range guards {
				if i.ModUint64(q) == 0 {
					return
				}
			}
			notPrime.Set(storage.Backward(i))
		}

		// p is never a multiple of 3, so p mod 3 is 1 or 2. Remainder 2
		// takes a half iteration to phase into the 4p/2p cycle.
		if p.ModUint64(3) == 2 {
			mark(i)
			i = i.Add(p2)
			if i.Cmp(n) > 0 {
				return
			}
		}
		for {
			mark(i)
			i = i.Add(p4)
			if i.Cmp(n) > 0 {
				return
			}
			mark(i)
			i = i.Add(p2)
			if i.Cmp(n) > 0 {
				return
			}
		}
	})
}

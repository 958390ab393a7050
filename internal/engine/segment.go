package engine

import (
	"context"
	"fmt"
	"sort"

	"github.com/vm6502q/Eratosthenes/internal/bitvec"
	"github.com/vm6502q/Eratosthenes/internal/num"
)

// SegmentedSieve returns all primes <= n, processing the range in
// windows whose bit arrays stay within the configured segment budget.
// Output is identical to Sieve for every n.
func (e *Engine) SegmentedSieve(ctx context.Context, n num.Nat) ([]num.Nat, error) {
	var primes []num.Nat
	if err := e.segmented(ctx, n, func(p num.Nat) { primes = append(primes, p) }); err != nil {
		return nil, err
	}
	return primes, nil
}

// SegmentedCount returns the number of primes <= n in bounded space. It
// materializes nothing beyond the factor base itself.
func (e *Engine) SegmentedCount(ctx context.Context, n num.Nat) (uint64, error) {
	var count uint64
	if err := e.segmented(ctx, n, func(num.Nat) { count++ }); err != nil {
		return 0, err
	}
	return count, nil
}

func (e *Engine) segmented(ctx context.Context, n num.Nat, emit func(num.Nat)) error {
	if n.CmpUint64(2) < 0 {
		return nil
	}

	// Segmentation only pays once the full range outgrows one window.
	if e.storage.Backward(n) <= e.segmentElems {
		return e.sieve(ctx, n, emit)
	}

	// Align the bound to the wheel so the final window edge lands on a
	// mapped index.
	n = e.storage.AlignDown(n)

	// Primes up to sqrt(n)+1 suffice to sieve every window below n. The
	// factor base stops growing once it reaches this.
	sqrtnp1 := e.storage.AlignUp(n.Sqrt().AddUint64(1))

	practical := e.storage.Forward(e.segmentElems)
	if sqrtnp1.Cmp(practical) < 0 {
		practical = sqrtnp1
	}

	var factorBase []num.Nat
	if err := e.sieve(ctx, practical, func(p num.Nat) {
		factorBase = append(factorBase, p)
		emit(p)
	}); err != nil {
		return err
	}

	nCard := e.storage.Backward(n)
	low := e.storage.Backward(practical)
	skipFactors := e.storage.Order() // base primes have no multiples to strike

	for low < nCard {
		if err := ctx.Err(); err != nil {
			return err
		}

		high := low + e.segmentElems
		if high > nCard {
			high = nCard
		}
		fLo := e.storage.Forward(low)
		card := high - low

		// Only factor primes up to sqrt of the window top can own an
		// unmarked multiple inside the window.
		sqrtHigh := e.storage.Forward(high).Sqrt().AddUint64(1)
		cutoff := sort.Search(len(factorBase), func(i int) bool {
			return factorBase[i].Cmp(sqrtHigh) > 0
		})

		bytes := bitvec.BytesFor(card + 1)
		if err := e.resources.AcquireMemory(bytes); err != nil {
			return fmt.Errorf("segment window at index %d (%d bits): %w", low, card+1, err)
		}
		notPrime := bitvec.New(card + 1)

		for k := skipFactors; k < cutoff; k++ {
			e.markWindow(fLo, low, card, factorBase[k], notPrime)
		}
		e.dispatcher.Finish()

		// Slot 0 is the window base, emitted by the previous pass.
		for s := uint64(1); s <= card; s++ {
			if notPrime.Test(s) {
				continue
			}
			p := e.storage.Forward(low + s)
			if p.Cmp(sqrtnp1) <= 0 {
				factorBase = append(factorBase, p)
			}
			emit(p)
		}

		e.resources.ReleaseMemory(bytes)
		if e.progress.Allow() {
			e.logger.Debug("segment complete",
				"low", low,
				"high", high,
				"factors", cutoff,
			)
		}
		low += e.segmentElems
	}
	return nil
}

// markWindow dispatches the job that strikes p's multiples inside one
// window. Only odd multiples are walked; multiples of the remaining
// storage base primes have no slot and are filtered by modulus.
func (e *Engine) markWindow(fLo num.Nat, low, card uint64, p num.Nat, notPrime *bitvec.Vector) {
	storage, guards := e.storage, e.segGuards
	e.dispatcher.Dispatch(func() {
		p2 := p.Shl(1)

		// First odd multiple of p at or above the window base.
		i := fLo.Div(p).Mul(p)
		if i.Cmp(fLo) < 0 {
			i = i.Add(p)
		}
		if i.IsEven() {
			i = i.Add(p)
		}

		for {
			slot := storage.Backward(i) - low
			if slot > card {
				return
			}
			markable := true
			for _, q := range guards {
				if i.ModUint64(q) == 0 {
					markable = false
					break
				}
			}
			if markable {
				notPrime.Set(slot)
			}
			i = i.Add(p2)
		}
	})
}

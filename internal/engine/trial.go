package engine

import (
	"context"

	"github.com/vm6502q/Eratosthenes/internal/num"
)

// TrialDivision returns all primes <= n by serial wheel-skipping trial
// division. It produces the same prime set as Sieve for every n, in
// O(pi(n)) space with no shared state and no concurrency; it exists as
// the slow, obviously-correct fallback.
func (e *Engine) TrialDivision(ctx context.Context, n num.Nat) ([]num.Nat, error) {
	if n.CmpUint64(2) < 0 {
		return nil, nil
	}

	var known []num.Nat
	if n.CmpUint64(e.seeds[len(e.seeds)-1]+2) < 0 {
		e.emitSeeds(n, func(p num.Nat) { known = append(known, p) })
		return known, nil
	}
	for _, p := range e.seeds {
		known = append(known, num.FromUint64(p))
	}

	// Candidates arrive coprime to every seed prime, so division starts
	// past the seeds and stops at the candidate's square root.
	st := e.newStepper()
	o := st.Next()
	for checked := 0; ; checked++ {
		p := e.enum.Forward(o)
		if p.Cmp(n) > 0 {
			break
		}
		o = st.Next()

		if checked&1023 == 1023 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		sqrtP := p.Sqrt()
		composite := false
		for k := len(e.seeds); k < len(known); k++ {
			if known[k].Cmp(sqrtP) > 0 {
				break
			}
			if p.Mod(known[k]).IsZero() {
				composite = true
				break
			}
		}
		if !composite {
			known = append(known, p)
		}
	}
	return known, nil
}

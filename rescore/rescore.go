// Package rescore re-scores the enumerator's surviving 48-bit
// candidates against the whole acquisition set using the full-key
// leakage model, fanning the (thousands to tens of thousands of)
// per-candidate jobs out across a worker pool the same way rank fans
// out its 8 per-S-box jobs, and reducing by value to the
// highest-scoring candidate with a lowest-key tie-break.
package rescore

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/PierreFrn/hwsec/internal/hwsecerr"
	"github.com/PierreFrn/hwsec/pcc"
)

// Result is one candidate's final score.
type Result struct {
	Key   uint64
	Score float64
}

// FullKeyModel computes the per-acquisition leakage for a full 48-bit
// subkey hypothesis (leakage.TAFullKey or leakage.PAFullKey in
// production).
type FullKeyModel func(key uint64, ct uint64) int

// TA re-scores candidates against a scalar observation vector.
func TA(ctx context.Context, candidates []uint64, ciphertexts []uint64, observations []float64, model FullKeyModel) (Result, error) {
	return run(ctx, candidates, func(key uint64) (float64, error) {
		w := make([]float64, len(ciphertexts))
		for j, ct := range ciphertexts {
			w[j] = float64(model(key, ct))
		}
		return pcc.Scalar(observations, w)
	})
}

// PA re-scores candidates against the N x L focus-window matrix, the
// score for each candidate being the max PCC over the window.
func PA(ctx context.Context, candidates []uint64, ciphertexts []uint64, windows [][]float64, model FullKeyModel) (Result, error) {
	return run(ctx, candidates, func(key uint64) (float64, error) {
		w := make([]float64, len(ciphertexts))
		for j, ct := range ciphertexts {
			w[j] = float64(model(key, ct))
		}
		perSample, err := pcc.VectorReduce(windows, w)
		if err != nil {
			return 0, err
		}
		return windowMax(perSample), nil
	})
}

func run(ctx context.Context, candidates []uint64, score func(key uint64) (float64, error)) (Result, error) {
	if len(candidates) == 0 {
		return Result{}, hwsecerr.New(hwsecerr.BadInput, "no candidates to rescore")
	}

	results := make([]Result, len(candidates))
	g, ctx := errgroup.WithContext(ctx)
	var mu sync.Mutex
	checked := 0
	for i, key := range candidates {
		i, key := i, key
		g.Go(func() error {
			mu.Lock()
			checked++
			shouldCheckCtx := checked%256 == 0
			mu.Unlock()
			if shouldCheckCtx {
				if err := ctx.Err(); err != nil {
					return hwsecerr.New(hwsecerr.Cancelled, "rescoring cancelled")
				}
			}
			s, err := score(key)
			if err != nil {
				return err
			}
			results[i] = Result{Key: key, Score: s}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	best := results[0]
	for _, r := range results[1:] {
		if r.Score > best.Score || (r.Score == best.Score && r.Key < best.Key) {
			best = r
		}
	}
	return best, nil
}

// windowMax is the maximum signed PCC over a focus window, per
// original_source/pa/pa.py's plain max(pcc.pcc(...)).
func windowMax(xs []float64) float64 {
	best := xs[0]
	for _, v := range xs[1:] {
		if v > best {
			best = v
		}
	}
	return best
}

// Package rank scores every 6-bit subkey fragment for a single S-box
// against an acquisition set and returns the 64 candidates ordered by
// descending correlation, fanning the 8 independent S-box jobs out
// across a worker pool the way the teacher's CPA/DPA attacks fan their
// 16 AES key-byte jobs out across goroutines — generalized here to use
// golang.org/x/sync/errgroup so a single context cancellation aborts
// every in-flight S-box job at once.
package rank

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/PierreFrn/hwsec/internal/hwsecerr"
	"github.com/PierreFrn/hwsec/pcc"
)

// FragmentScore is one (fragment, score) entry of a per-S-box ranking.
type FragmentScore struct {
	Fragment uint64
	Score    float64
}

// SboxRanking is the 64 candidate fragments for one S-box, sorted by
// descending score; ties broken by ascending fragment.
type SboxRanking []FragmentScore

// TALeakageVector builds the N-length leakage vector for a TA fragment
// hypothesis: one call to model per acquisition, streamed rather than
// materialized into a full 64xN table, per the spec's O(N)-memory note.
type TALeakageVector func(frag uint64, sbox int, ciphertexts []uint64) []float64

// PALeakageMatrix builds the N-length leakage vector for a PA fragment
// hypothesis, to be scored against the N x L focus window.
type PALeakageMatrix func(frag uint64, sbox int, ciphertexts []uint64) []float64

// TA ranks all 8 S-boxes for a timing-attack acquisition set. model
// computes the per-acquisition leakage for one fragment/S-box/ciphertext
// triple (leakage.TALastRound in production).
func TA(ctx context.Context, ciphertexts []uint64, observations []float64, model func(frag uint64, sbox int, ct uint64) int) ([]SboxRanking, error) {
	rankings := make([]SboxRanking, 8)
	g, ctx := errgroup.WithContext(ctx)
	for s := 0; s < 8; s++ {
		s := s
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return hwsecerr.New(hwsecerr.Cancelled, "ranking cancelled before S-box %d", s)
			}
			ranking, err := rankSboxTA(ciphertexts, observations, s, model)
			if err != nil {
				return err
			}
			rankings[s] = ranking
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rankings, nil
}

func rankSboxTA(ciphertexts []uint64, observations []float64, sbox int, model func(frag uint64, sbox int, ct uint64) int) (SboxRanking, error) {
	n := len(ciphertexts)
	ranking := make(SboxRanking, 64)
	w := make([]float64, n)
	for frag := uint64(0); frag < 64; frag++ {
		for j, ct := range ciphertexts {
			w[j] = float64(model(frag, sbox, ct))
		}
		score, err := pcc.Scalar(observations, w)
		if err != nil {
			return nil, err
		}
		ranking[frag] = FragmentScore{Fragment: frag, Score: score}
	}
	sortRanking(ranking)
	return ranking, nil
}

// PA ranks all 8 S-boxes for a power-analysis acquisition set. windows
// is the N x L focus-window matrix; model computes the per-acquisition
// leakage for one fragment/S-box/ciphertext triple
// (leakage.PASingleSbox in production). Score is the max PCC over the L
// focus-window samples.
func PA(ctx context.Context, ciphertexts []uint64, windows [][]float64, model func(frag uint64, sbox int, ct uint64) int) ([]SboxRanking, error) {
	rankings := make([]SboxRanking, 8)
	g, ctx := errgroup.WithContext(ctx)
	for s := 0; s < 8; s++ {
		s := s
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return hwsecerr.New(hwsecerr.Cancelled, "ranking cancelled before S-box %d", s)
			}
			ranking, err := rankSboxPA(ciphertexts, windows, s, model)
			if err != nil {
				return err
			}
			rankings[s] = ranking
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rankings, nil
}

func rankSboxPA(ciphertexts []uint64, windows [][]float64, sbox int, model func(frag uint64, sbox int, ct uint64) int) (SboxRanking, error) {
	n := len(ciphertexts)
	ranking := make(SboxRanking, 64)
	w := make([]float64, n)
	for frag := uint64(0); frag < 64; frag++ {
		for j, ct := range ciphertexts {
			w[j] = float64(model(frag, sbox, ct))
		}
		perSample, err := pcc.VectorReduce(windows, w)
		if err != nil {
			return nil, err
		}
		ranking[frag] = FragmentScore{Fragment: frag, Score: windowMax(perSample)}
	}
	sortRanking(ranking)
	return ranking, nil
}

func sortRanking(r SboxRanking) {
	sort.SliceStable(r, func(i, j int) bool {
		if r[i].Score != r[j].Score {
			return r[i].Score > r[j].Score
		}
		return r[i].Fragment < r[j].Fragment
	})
}

// windowMax is the maximum signed PCC over a focus window, per
// original_source/pa/pa.py's plain max(pcc.pcc(...)) (not max of
// absolute value: a candidate whose window holds a strong negative
// correlation must not outrank one whose true positive peak is
// smaller).
func windowMax(xs []float64) float64 {
	best := xs[0]
	for _, v := range xs[1:] {
		if v > best {
			best = v
		}
	}
	return best
}

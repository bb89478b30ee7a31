// Package enumerate combines per-S-box rankings into a bounded set of
// full subkey candidates. The source this spec distills from expresses
// the search as eight textually-nested loops with a break-on-rejection
// inside each; this package re-architects that as a recursive odometer
// over the per-position admitted sets, parameterized by the number of
// positions so the same code serves both the 8-position 6-bit mode and
// the PA "big-number" 4-position 12-bit low-N mode.
package enumerate

import "github.com/PierreFrn/hwsec/rank"

// Params bundles the admission-rule tuning knobs. These are non-
// contractual defaults, not fixed constants (spec: "tuning knobs, not
// contracts").
type Params struct {
	Threshold float64 // T
	Step      float64 // sigma, in (0,1)
}

// Position is one S-box (or, in the PA big-number low-N mode, one
// super-S-box) ranking together with its bit offset in the emitted
// candidate and its field width in bits.
type Position struct {
	Ranking rank.SboxRanking
	Offset  uint // bit offset of this position's field
	Width   uint // bit width of this position's field
}

// Admit returns the prefix of ranking admitted under the rule: always
// admit rank 0; admit rank i>0 when
// ranking[0].Score/ranking[i].Score <= T + Step^(i-1).
// The rankings are monotone non-increasing in score, so the first
// rejection terminates admission for this position.
func Admit(ranking rank.SboxRanking, p Params) rank.SboxRanking {
	if len(ranking) == 0 {
		return nil
	}
	admitted := ranking[:1]
	top := ranking[0].Score
	for i := 1; i < len(ranking); i++ {
		if ranking[i].Score <= 0 {
			break
		}
		tolerance := p.Threshold + pow(p.Step, float64(i-1))
		if top/ranking[i].Score > tolerance {
			break
		}
		admitted = ranking[:i+1]
	}
	return admitted
}

func pow(base, exp float64) float64 {
	if exp == 0 {
		return 1
	}
	result := 1.0
	// step exponents used here are always small non-negative integers
	n := int(exp)
	for i := 0; i < n; i++ {
		result *= base
	}
	return result
}

// Candidates performs the odometer descent over positions, each
// pre-reduced to its admitted prefix via Admit, and emits every fully
// admitted combination as a 48-bit candidate with each position's
// fragment placed at [Offset, Offset+Width). Deterministic ordering
// (lexicographic in rank order per position) and no duplicates, since
// each odometer leaf is visited exactly once.
func Candidates(positions []Position, p Params) []uint64 {
	admitted := make([]rank.SboxRanking, len(positions))
	for i, pos := range positions {
		admitted[i] = Admit(pos.Ranking, p)
	}

	var out []uint64
	var descend func(idx int, acc uint64)
	descend = func(idx int, acc uint64) {
		if idx == len(positions) {
			out = append(out, acc)
			return
		}
		pos := positions[idx]
		for _, fs := range admitted[idx] {
			field := fs.Fragment << pos.Offset
			descend(idx+1, acc|field)
		}
	}
	descend(0, 0)
	return out
}

// ShortCircuit emits only the Cartesian product's single element built
// from each position's rank-0 fragment: the high-N fast path where the
// per-S-box top rank is overwhelmingly trusted and enumeration is
// skipped entirely.
func ShortCircuit(positions []Position) uint64 {
	var acc uint64
	for _, pos := range positions {
		if len(pos.Ranking) == 0 {
			continue
		}
		acc |= pos.Ranking[0].Fragment << pos.Offset
	}
	return acc
}

// StandardPositions builds the 8 6-bit-field positions (offsets 42,
// 36, ..., 0) for ordinary TA/PA ranking output, matching
// des.PlaceFragment's bit layout where S-box 0 occupies the top 6 bits
// of the 48-bit hypothesis and S-box 7 the bottom 6.
func StandardPositions(rankings []rank.SboxRanking) []Position {
	positions := make([]Position, len(rankings))
	for s, r := range rankings {
		positions[s] = Position{Ranking: r, Offset: uint(42 - 6*s), Width: 6}
	}
	return positions
}

// SuperSboxPositions builds the 4 12-bit-field positions (offsets 36,
// 24, 12, 0) for the PA big-number low-N mode, where adjacent S-box
// pairs (0,1), (2,3), (4,5), (6,7) are collapsed into one 4096-entry
// ranking each, in the same descending bit layout as StandardPositions.
func SuperSboxPositions(rankings []rank.SboxRanking) []Position {
	positions := make([]Position, len(rankings))
	for i, r := range rankings {
		positions[i] = Position{Ranking: r, Offset: uint(36 - 12*i), Width: 12}
	}
	return positions
}

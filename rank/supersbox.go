package rank

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/PierreFrn/hwsec/des"
	"github.com/PierreFrn/hwsec/internal/hwsecerr"
	"github.com/PierreFrn/hwsec/pcc"
)

// SuperSboxesPA ranks the 4 "super-S-boxes" used by the PA
// low-acquisition-count mode: each is a 12-bit fragment spanning two
// adjacent real S-boxes (2i, 2i+1), scored against the 8-bit mask
// covering both S-box-output nibbles at once. Grounded in
// original_source/pa/pa.py's process_keypart_weight /
// process_keypart_PCC pair (there misleadingly named "*_big_number" in
// spite of being the small-N path), generalized to use the
// InverseP-corrected bit ordering shared with PASingleSbox rather than
// pa.py's direct byte-aligned mask (equivalent once the difference is
// reordered into S-box-output bit order).
func SuperSboxesPA(ctx context.Context, ciphertexts []uint64, windows [][]float64) ([]SboxRanking, error) {
	rankings := make([]SboxRanking, 4)
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < 4; i++ {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return hwsecerr.New(hwsecerr.Cancelled, "ranking cancelled before super-S-box %d", i)
			}
			ranking, err := rankSuperSboxPA(ciphertexts, windows, i)
			if err != nil {
				return err
			}
			rankings[i] = ranking
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rankings, nil
}

func rankSuperSboxPA(ciphertexts []uint64, windows [][]float64, superIdx int) (SboxRanking, error) {
	ranking := make(SboxRanking, 4096)
	w := make([]float64, len(ciphertexts))
	mask := uint32(0xFF) << uint(24-8*superIdx)
	for frag := uint64(0); frag < 4096; frag++ {
		hyp := frag << uint(36-12*superIdx)
		for j, ct := range ciphertexts {
			state := des.IP(ct)
			l16 := des.RightHalf(state)
			sboxOut := des.Sboxes(des.E(l16) ^ hyp)
			l15 := des.LeftHalf(state) ^ des.P(sboxOut)
			diff := des.InverseP(l16 ^ l15)
			w[j] = float64(des.HammingWeight(uint64(diff & mask)))
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

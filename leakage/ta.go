// Package leakage implements the Hamming-weight leakage models the
// ranker and re-scorer hypothesize against observed timings (TA) or
// power samples (PA). Every function here is a pure function of a
// ciphertext and a key hypothesis: no branching on the key value beyond
// ordinary array/permutation indexing, so that the model itself cannot
// introduce a timing side-channel into the attack tool.
package leakage

import "github.com/PierreFrn/hwsec/des"

// TALastRound predicts the round-16 timing leakage under the hypothesis
// that S-box sbox's last-round subkey fragment is frag: the Hamming
// weight of that S-box's 4 output bits when only its own fragment of
// K16 is hypothesized (every other S-box position is left at zero,
// since TALastRound never inspects them).
func TALastRound(frag uint64, sbox int, ciphertext uint64) int {
	r16 := des.RightHalf(des.IP(ciphertext))
	hypothesis := des.PlaceFragment(frag, sbox)
	sboxOut := des.Sboxes(des.E(r16) ^ hypothesis)
	masked := sboxOut & des.SboxOutputMask(sbox)
	return des.HammingWeight(uint64(masked))
}

// TAFullKey predicts the round-sum timing leakage for re-scoring a full
// 48-bit last-round subkey hypothesis k16: the Hamming weight of the
// round-16 S-box output plus the Hamming weight of the round-15 S-box
// output, where k15 is derived from k16 by stepping the key schedule
// back one round. PC2 drops 8 key-schedule state bits, which InversePC2
// zero-fills, so the k15 bits that come from those positions are zero
// here rather than the key schedule's values.
func TAFullKey(k16 uint64, ciphertext uint64) int {
	k15 := des.PC2(des.RS(des.InversePC2(k16), -des.RoundShift(16)))

	state := des.IP(ciphertext)
	r16 := des.RightHalf(state)
	l16 := des.LeftHalf(state)

	sbox16 := des.Sboxes(des.E(r16) ^ k16)
	weight := des.HammingWeight(uint64(sbox16))

	l15 := l16 ^ des.P(sbox16)
	sbox15 := des.Sboxes(des.E(l15) ^ k15)
	weight += des.HammingWeight(uint64(sbox15))

	return weight
}

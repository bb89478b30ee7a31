package leakage

import "github.com/PierreFrn/hwsec/des"

// Note on naming: the reference power-analysis script names the two
// IP-output halves unusually — L16 is the *right* half and L15 is
// derived from the *left* half — because it targets L15 xor L16 as the
// leaking intermediate, not the round-16 S-box output directly. This
// file keeps that naming so the formulas below match spec section 4.1
// verbatim; it is the opposite convention from ta.go.

// PASingleSbox predicts, for S-box sbox under the 6-bit fragment
// hypothesis frag, the Hamming weight of that S-box's nibble of
// L15 xor L16 — the per-S-box ranking leakage for a power trace.
func PASingleSbox(frag uint64, sbox int, ciphertext uint64) int {
	state := des.IP(ciphertext)
	l16 := des.RightHalf(state)
	hypothesis := des.PlaceFragment(frag, sbox)
	sboxOut := des.Sboxes(des.E(l16) ^ hypothesis)
	l15 := des.LeftHalf(state) ^ des.P(sboxOut)

	// InverseP moves the difference back into pre-P (S-box output) bit
	// order so a contiguous nibble mask isolates one S-box.
	diff := des.InverseP(l16 ^ l15)
	masked := diff & des.SboxOutputMask(sbox)
	return des.HammingWeight(uint64(masked))
}

// PAFullKey predicts the full Hamming weight of L15 xor L16 under a
// complete 48-bit last-round subkey hypothesis k16 — the re-scoring
// leakage for a power trace.
func PAFullKey(k16 uint64, ciphertext uint64) int {
	state := des.IP(ciphertext)
	l16 := des.RightHalf(state)
	sboxOut := des.Sboxes(des.E(l16) ^ k16)
	l15 := des.LeftHalf(state) ^ des.P(sboxOut)
	return des.HammingWeight(uint64(l16 ^ l15))
}

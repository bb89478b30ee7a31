package des

import "testing"

func TestCheck(t *testing.T) {
	if !Check() {
		t.Fatal("Check() = false, want true")
	}
}

func TestIPFinalPermutationRoundTrip(t *testing.T) {
	const plain = 0x0123456789ABCDEF
	if got := fp(IP(plain)); got != plain {
		t.Errorf("fp(IP(x)) = %#x, want %#x", got, plain)
	}
}

func TestHalvesRoundTrip(t *testing.T) {
	const x = 0x0123456789ABCDEF
	l, r := LeftHalf(x), RightHalf(x)
	if got := Halves(l, r); got != x {
		t.Errorf("Halves(LeftHalf(x), RightHalf(x)) = %#x, want %#x", got, x)
	}
}

func TestPC2InversePC2RoundTrip(t *testing.T) {
	const k16 = uint64(0x123456ABCDEF)
	if got := PC2(InversePC2(k16)); got != k16 {
		t.Errorf("PC2(InversePC2(k)) = %#x, want %#x", got, k16)
	}
}

func TestRSNegation(t *testing.T) {
	const state = uint64(0x0123456789ABCDE) & ((1 << 56) - 1)
	for amount := -5; amount <= 5; amount++ {
		if got := RS(RS(state, amount), -amount); got != state {
			t.Errorf("RS(RS(state, %d), %d) = %#x, want %#x", amount, -amount, got, state)
		}
	}
}

func TestPInverseP(t *testing.T) {
	const x = uint32(0xDEADBEEF)
	if got := InverseP(P(x)); got != x {
		t.Errorf("InverseP(P(x)) = %#x, want %#x", got, x)
	}
	if got := P(InverseP(x)); got != x {
		t.Errorf("P(InverseP(x)) = %#x, want %#x", got, x)
	}
}

func TestKeyScheduleConsistency(t *testing.T) {
	const key = 0x133457799BBCDFF1
	ks := KeySchedule(key)
	derivedK15 := PC2(RS(InversePC2(ks[15]), -RoundShift(16)))
	if derivedK15 != ks[14] {
		t.Errorf("derived k15 = %#x, want %#x", derivedK15, ks[14])
	}
}

func TestPlaceFragmentSboxOutputMaskRoundTrip(t *testing.T) {
	for sbox := 0; sbox < 8; sbox++ {
		for frag := uint64(0); frag < 64; frag++ {
			placed := PlaceFragment(frag, sbox)
			shift := uint(42 - 6*sbox)
			if got := (placed >> shift) & 0x3F; got != frag {
				t.Fatalf("sbox %d frag %d: placed&extract = %d", sbox, frag, got)
			}
		}
	}
}

func TestHammingWeight(t *testing.T) {
	cases := []struct {
		x    uint64
		want int
	}{
		{0, 0},
		{1, 1},
		{0xFF, 8},
		{0xFFFFFFFFFFFFFFFF, 64},
	}
	for _, c := range cases {
		if got := HammingWeight(c.x); got != c.want {
			t.Errorf("HammingWeight(%#x) = %d, want %d", c.x, got, c.want)
		}
	}
}

func TestTargetBitSboxRange(t *testing.T) {
	for bit := 1; bit <= 32; bit++ {
		s := TargetBitSbox(bit)
		if s < 0 || s > 7 {
			t.Errorf("TargetBitSbox(%d) = %d, out of [0,8)", bit, s)
		}
	}
}

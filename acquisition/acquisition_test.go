package acquisition

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadTA(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ta.txt")
	content := "0x85e813540f0ab405 1.23\n0x0123456789abcdef 4.56\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	set, err := LoadTA(path, 2)
	if err != nil {
		t.Fatalf("LoadTA() error: %v", err)
	}
	if set.N() != 2 {
		t.Fatalf("N() = %d, want 2", set.N())
	}
	if set.Ciphertexts[0] != 0x85e813540f0ab405 {
		t.Errorf("Ciphertexts[0] = %#x", set.Ciphertexts[0])
	}
	if set.Timings[1] != 4.56 {
		t.Errorf("Timings[1] = %v, want 4.56", set.Timings[1])
	}
}

func TestLoadTAInsufficientAcquisitions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ta.txt")
	if err := os.WriteFile(path, []byte("0x1 1.0\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadTA(path, 5); err == nil {
		t.Fatal("expected error when file has fewer acquisitions than requested")
	}
}

func TestLoadTARejectsTooSmallN(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ta.txt")
	os.WriteFile(path, []byte("0x1 1.0\n"), 0644)
	if _, err := LoadTA(path, 1); err == nil {
		t.Fatal("expected BadInput error for n<2")
	}
}

func TestLoadPA(t *testing.T) {
	records := []paRecord{
		{Ciphertext: "0x85e813540f0ab405", Trace: []float64{1, 2, 3}},
		{Ciphertext: "0x0123456789abcdef", Trace: []float64{4, 5, 6}},
	}
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if err := json.NewEncoder(zw).Encode(records); err != nil {
		t.Fatal(err)
	}
	zw.Close()

	set, err := loadPAFrom(&buf, 2)
	if err != nil {
		t.Fatalf("loadPAFrom() error: %v", err)
	}
	if set.N() != 2 {
		t.Fatalf("N() = %d, want 2", set.N())
	}
	if set.SampleLength() != 3 {
		t.Fatalf("SampleLength() = %d, want 3", set.SampleLength())
	}
	if set.Ciphertexts[0] != 0x85e813540f0ab405 {
		t.Errorf("Ciphertexts[0] = %#x", set.Ciphertexts[0])
	}
}

func TestFocusWindow(t *testing.T) {
	set := &PASet{
		Traces: [][]float64{
			{0, 1, 2, 3, 4, 5},
			{10, 11, 12, 13, 14, 15},
		},
	}
	got := set.FocusWindow(2, 4)
	want := [][]float64{{2, 3}, {12, 13}}
	for i := range want {
		for j := range want[i] {
			if got[i][j] != want[i][j] {
				t.Fatalf("FocusWindow[%d][%d] = %v, want %v", i, j, got[i][j], want[i][j])
			}
		}
	}
}

func TestAverage(t *testing.T) {
	traces := [][]float64{
		{1, 2, 3},
		{3, 4, 5},
	}
	got := Average(traces)
	want := []float64{2, 3, 4}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Average()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestWritePlotArtifacts(t *testing.T) {
	dir := t.TempDir()
	prefix := filepath.Join(dir, "average")
	if err := WritePlotArtifacts(prefix, []float64{1, 2, 3}); err != nil {
		t.Fatalf("WritePlotArtifacts() error: %v", err)
	}
	if _, err := os.Stat(prefix + ".dat"); err != nil {
		t.Errorf("missing %s.dat: %v", prefix, err)
	}
	if _, err := os.Stat(prefix + ".cmd"); err != nil {
		t.Errorf("missing %s.cmd: %v", prefix, err)
	}
}

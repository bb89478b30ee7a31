package acquisition

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/PierreFrn/hwsec/internal/hwsecerr"
)

// paRecord is the on-disk JSON shape of a single power-analysis
// acquisition, gzip-wrapped the way the teacher's Capture type is.
type paRecord struct {
	Ciphertext string    `json:"ct"`
	Trace      []float64 `json:"trace"`
}

// PASet is an immutable, ordered power-analysis acquisition set: N
// ciphertexts each paired with an L-sample trace, all traces sharing
// the same length L.
type PASet struct {
	Ciphertexts []uint64
	Traces      [][]float64
}

// N is the number of acquisitions in the set.
func (s *PASet) N() int {
	return len(s.Ciphertexts)
}

// SampleLength is L, the shared per-acquisition trace length.
func (s *PASet) SampleLength() int {
	if len(s.Traces) == 0 {
		return 0
	}
	return len(s.Traces[0])
}

// FocusWindow returns the [lo,hi) sample slice of every trace,
// restricting subsequent correlation to the clock cycles where the
// targeted intermediate is computed.
func (s *PASet) FocusWindow(lo, hi int) [][]float64 {
	windows := make([][]float64, len(s.Traces))
	for i, trace := range s.Traces {
		windows[i] = trace[lo:hi]
	}
	return windows
}

// LoadPA reads exactly n acquisitions from a gzip+JSON power-trace
// capture file.
func LoadPA(path string, n int) (*PASet, error) {
	if n < 2 {
		return nil, hwsecerr.New(hwsecerr.BadInput, "invalid number of acquisitions: %d (shall be at least 2)", n)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, hwsecerr.New(hwsecerr.BadInput, "cannot open file %s: %v", path, err)
	}
	defer f.Close()

	return loadPAFrom(f, n)
}

func loadPAFrom(r io.Reader, n int) (*PASet, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, hwsecerr.New(hwsecerr.BadInput, "gzip reader failed: %v", err)
	}
	defer zr.Close()

	var records []paRecord
	if err := json.NewDecoder(zr).Decode(&records); err != nil {
		return nil, hwsecerr.New(hwsecerr.BadInput, "JSON decode failed: %v", err)
	}
	if len(records) < n {
		return nil, hwsecerr.New(hwsecerr.BadInput,
			"could not read %d acquisitions from capture: file contains %d", n, len(records))
	}

	set := &PASet{
		Ciphertexts: make([]uint64, n),
		Traces:      make([][]float64, n),
	}
	l := -1
	for i := 0; i < n; i++ {
		ct, err := parseHexUint64(records[i].Ciphertext)
		if err != nil {
			return nil, hwsecerr.New(hwsecerr.BadInput, "record %d: %v", i, err)
		}
		if l == -1 {
			l = len(records[i].Trace)
		} else if len(records[i].Trace) != l {
			return nil, hwsecerr.New(hwsecerr.ShapeMismatch,
				"record %d trace length %d, want %d", i, len(records[i].Trace), l)
		}
		set.Ciphertexts[i] = ct
		set.Traces[i] = records[i].Trace
	}
	return set, nil
}

func parseHexUint64(s string) (uint64, error) {
	var v uint64
	_, err := fmt.Sscanf(s, "0x%x", &v)
	if err != nil {
		_, err = fmt.Sscanf(s, "%x", &v)
	}
	if err != nil {
		return 0, fmt.Errorf("cannot parse ciphertext %q: %w", s, err)
	}
	return v, nil
}

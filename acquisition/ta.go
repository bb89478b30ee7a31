// Package acquisition loads the two on-disk acquisition formats the
// engine consumes (timing-attack text files, power-analysis gzip+JSON
// capture files) and emits the average-trace gnuplot artifacts the PA
// pipeline's Averaging state produces, mirroring the file-I/O idiom of
// the teacher's capture.go (gzip-wrapped JSON in, paired .dat/.cmd
// plotting files out) adapted to this module's two acquisition shapes.
package acquisition

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/PierreFrn/hwsec/internal/hwsecerr"
)

// TASet is an immutable, ordered timing-attack acquisition set: parallel
// ciphertext and timing sequences of equal length N >= 2.
type TASet struct {
	Ciphertexts []uint64
	Timings     []float64
}

// N is the number of acquisitions in the set.
func (s *TASet) N() int {
	return len(s.Ciphertexts)
}

// LoadTA reads exactly n acquisitions from a timing-attack data file:
// one "<ciphertext-hex> <timing-float>" pair per line, whitespace
// separated, as produced by the target program.
func LoadTA(path string, n int) (*TASet, error) {
	if n < 2 {
		return nil, hwsecerr.New(hwsecerr.BadInput, "invalid number of acquisitions: %d (shall be at least 2)", n)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, hwsecerr.New(hwsecerr.BadInput, "cannot open file %s: %v", path, err)
	}
	defer f.Close()

	set := &TASet{
		Ciphertexts: make([]uint64, 0, n),
		Timings:     make([]float64, 0, n),
	}

	scanner := bufio.NewScanner(f)
	for len(set.Ciphertexts) < n && scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, hwsecerr.New(hwsecerr.BadInput, "malformed acquisition line: %q", line)
		}
		ct, err := strconv.ParseUint(strings.TrimPrefix(fields[0], "0x"), 16, 64)
		if err != nil {
			return nil, hwsecerr.New(hwsecerr.BadInput, "cannot parse ciphertext %q: %v", fields[0], err)
		}
		t, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, hwsecerr.New(hwsecerr.BadInput, "cannot parse timing %q: %v", fields[1], err)
		}
		set.Ciphertexts = append(set.Ciphertexts, ct)
		set.Timings = append(set.Timings, t)
	}
	if err := scanner.Err(); err != nil {
		return nil, hwsecerr.New(hwsecerr.BadInput, "error reading %s: %v", path, err)
	}
	if len(set.Ciphertexts) != n {
		return nil, hwsecerr.New(hwsecerr.BadInput,
			"could not read %d acquisitions from %s: file contains %d", n, path, len(set.Ciphertexts))
	}
	return set, nil
}

// HexKey formats a value (a ciphertext or a recovered key) in the
// "0x..." hexadecimal form used both on-disk and on the CLI's final
// stdout line.
func HexKey(key uint64) string {
	return fmt.Sprintf("0x%x", key)
}

package acquisition

import (
	"bufio"
	"fmt"
	"os"

	"github.com/PierreFrn/hwsec/internal/hwsecerr"
)

// Average computes the sample-wise mean of a set of equal-length power
// traces, as the PA pipeline's Averaging state does before ranking
// begins.
func Average(traces [][]float64) []float64 {
	if len(traces) == 0 {
		return nil
	}
	l := len(traces[0])
	avg := make([]float64, l)
	for _, trace := range traces {
		for i, v := range trace {
			avg[i] += v
		}
	}
	n := float64(len(traces))
	for i := range avg {
		avg[i] /= n
	}
	return avg
}

// WritePlotArtifacts writes <prefix>.dat (one "<index> <value>" line
// per sample, space-separated) and <prefix>.cmd (a gnuplot command file that
// plots it), the two side files the PA pipeline produces once, before
// ranking, from the average trace. These are out of the core's
// contract per spec section 6; only their existence and naming are.
func WritePlotArtifacts(prefix string, avg []float64) error {
	datPath := prefix + ".dat"
	cmdPath := prefix + ".cmd"

	datFile, err := os.Create(datPath)
	if err != nil {
		return hwsecerr.New(hwsecerr.BadInput, "cannot create %s: %v", datPath, err)
	}
	defer datFile.Close()

	w := bufio.NewWriter(datFile)
	for i, v := range avg {
		if _, err := fmt.Fprintf(w, "%d %g\n", i, v); err != nil {
			return hwsecerr.New(hwsecerr.BadInput, "cannot write %s: %v", datPath, err)
		}
	}
	if err := w.Flush(); err != nil {
		return hwsecerr.New(hwsecerr.BadInput, "cannot write %s: %v", datPath, err)
	}

	cmdFile, err := os.Create(cmdPath)
	if err != nil {
		return hwsecerr.New(hwsecerr.BadInput, "cannot create %s: %v", cmdPath, err)
	}
	defer cmdFile.Close()

	_, err = fmt.Fprintf(cmdFile, "plot '%s' with lines title 'average power trace'\n", datPath)
	if err != nil {
		return hwsecerr.New(hwsecerr.BadInput, "cannot write %s: %v", cmdPath, err)
	}
	return nil
}

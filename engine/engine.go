// Package engine drives the six-state key-recovery pipeline: Loading,
// Averaging (PA only), Ranking, Enumerating, Rescoring, Reporting.
// Transitions are linear; each state's output feeds the next. A
// context.Context is threaded through every fan-out and checked
// between states so a wall-clock budget can abort the pipeline; a
// cancelled attack returns a Cancelled error and no partial result.
package engine

import (
	"context"

	"github.com/PierreFrn/hwsec/acquisition"
	"github.com/PierreFrn/hwsec/des"
	"github.com/PierreFrn/hwsec/enumerate"
	"github.com/PierreFrn/hwsec/internal/config"
	"github.com/PierreFrn/hwsec/internal/hwsecerr"
	"github.com/PierreFrn/hwsec/leakage"
	"github.com/PierreFrn/hwsec/rank"
	"github.com/PierreFrn/hwsec/rescore"
)

func selfTest() error {
	if !des.Check() {
		return hwsecerr.New(hwsecerr.SelfTestFailed, "DES primitives failed self-test")
	}
	return nil
}

func checkCancelled(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return hwsecerr.New(hwsecerr.Cancelled, "attack cancelled")
	}
	return nil
}

func publish(b *Broker, phase Phase, detail string) {
	if b == nil {
		return
	}
	b.Publish(Event{Phase: phase, Detail: detail})
}

// RunTA executes the timing-attack pipeline end to end against the
// acquisition file at path, using exactly n acquisitions. broker may be
// nil; if non-nil, a phase-transition Event is published as each state
// begins.
func RunTA(ctx context.Context, cfg *config.Config, path string, n int, broker *Broker) (Result, error) {
	publish(broker, Loading, path)
	if err := selfTest(); err != nil {
		return Result{}, err
	}

	set, err := acquisition.LoadTA(path, n)
	if err != nil {
		return Result{}, err
	}
	if err := checkCancelled(ctx); err != nil {
		return Result{}, err
	}

	publish(broker, Ranking, "")
	rankings, err := rank.TA(ctx, set.Ciphertexts, set.Timings, leakage.TALastRound)
	if err != nil {
		return Result{}, err
	}
	if err := checkCancelled(ctx); err != nil {
		return Result{}, err
	}

	publish(broker, Enumerating, "")
	positions := enumerate.StandardPositions(rankings)
	var candidates []uint64
	if set.N() >= cfg.FastPathMinN {
		candidates = []uint64{enumerate.ShortCircuit(positions)}
	} else {
		candidates = enumerate.Candidates(positions, enumerate.Params{
			Threshold: cfg.Threshold,
			Step:      cfg.StepTA,
		})
	}
	if err := checkCancelled(ctx); err != nil {
		return Result{}, err
	}

	publish(broker, Rescoring, "")
	best, err := rescore.TA(ctx, candidates, set.Ciphertexts, set.Timings, leakage.TAFullKey)
	if err != nil {
		return Result{}, err
	}

	publish(broker, Reporting, "")
	return Result{Key: best.Key}, nil
}

// RunPA executes the power-attack pipeline end to end against the
// acquisition file at path, using exactly n acquisitions. The average
// trace is written to <avgPrefix>.dat/.cmd before ranking, as spec.md
// section 6 requires.
func RunPA(ctx context.Context, cfg *config.Config, path string, n int, avgPrefix string, broker *Broker) (Result, error) {
	publish(broker, Loading, path)
	if err := selfTest(); err != nil {
		return Result{}, err
	}

	set, err := acquisition.LoadPA(path, n)
	if err != nil {
		return Result{}, err
	}
	if err := checkCancelled(ctx); err != nil {
		return Result{}, err
	}

	publish(broker, Averaging, avgPrefix)
	avg := acquisition.Average(set.Traces)
	if err := acquisition.WritePlotArtifacts(avgPrefix, avg); err != nil {
		return Result{}, err
	}
	if err := checkCancelled(ctx); err != nil {
		return Result{}, err
	}

	const focusLo, focusHi = 575, 625
	windows := set.FocusWindow(focusLo, focusHi)

	lowN := set.N() < cfg.FastPathMinN

	publish(broker, Ranking, "")
	var candidates []uint64
	if !lowN {
		rankings, err := rank.PA(ctx, set.Ciphertexts, windows, leakage.PASingleSbox)
		if err != nil {
			return Result{}, err
		}
		publish(broker, Enumerating, "")
		positions := enumerate.StandardPositions(rankings)
		candidates = []uint64{enumerate.ShortCircuit(positions)}
	} else {
		rankings, err := rank.SuperSboxesPA(ctx, set.Ciphertexts, windows)
		if err != nil {
			return Result{}, err
		}
		publish(broker, Enumerating, "")
		positions := enumerate.SuperSboxPositions(rankings)
		candidates = enumerate.Candidates(positions, enumerate.Params{
			Threshold: cfg.Threshold,
			Step:      cfg.StepPA,
		})
	}
	if err := checkCancelled(ctx); err != nil {
		return Result{}, err
	}

	publish(broker, Rescoring, "")
	best, err := rescore.PA(ctx, candidates, set.Ciphertexts, windows, leakage.PAFullKey)
	if err != nil {
		return Result{}, err
	}

	publish(broker, Reporting, "")
	return Result{Key: best.Key}, nil
}

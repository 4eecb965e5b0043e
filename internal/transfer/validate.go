package transfer

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/repotools/artsync/internal/clock"
)

// interProbeDelay paces validation probes. Validation is read-only and
// lighter than warming, so the pacing is fixed rather than configured.
const interProbeDelay = 50 * time.Millisecond

// ValidationReport is the result of one validation pass.
type ValidationReport struct {
	Total   int
	Present int
	Missing []string
	Errors  []Outcome
}

// Clean reports whether every path was found and no probe errored.
func (r *ValidationReport) Clean() bool {
	return len(r.Missing) == 0 && len(r.Errors) == 0
}

// Validator re-probes transferred paths against the target. It is
// read-only and safe to run any number of times; a single pass with no
// retries.
type Validator struct {
	Prober *Prober
	Clock  clock.Clock
	Logger zerolog.Logger
}

// Run probes every path once. A 2xx or 304 answer counts the path
// present, 404 counts it missing, anything else is recorded as a probe
// error without failing the pass. Cancellation stops the pass early
// with the counts gathered so far.
func (v *Validator) Run(ctx context.Context, paths []string) *ValidationReport {
	report := &ValidationReport{Total: len(paths)}

	for i, p := range paths {
		code, err := v.Prober.Probe(ctx, p)
		if err != nil && errors.Is(err, context.Canceled) {
			break
		}
		switch {
		case err == nil && (code/100 == 2 || code == http.StatusNotModified):
			report.Present++
		case err == nil && code == http.StatusNotFound:
			report.Missing = append(report.Missing, p)
			v.Logger.Warn().Str("path", p).Msg("missing from target")
		default:
			status, detail := Classify(code, err)
			report.Errors = append(report.Errors, Outcome{Path: p, Status: status, Detail: detail})
			v.Logger.Warn().Str("path", p).Str("reason", detail).Msg("probe error during validation")
		}

		if (i+1)%progressEvery == 0 {
			v.Logger.Info().
				Int("present", report.Present).
				Int("missing", len(report.Missing)).
				Msgf("validated %d/%d", i+1, report.Total)
		}
		if i < len(paths)-1 {
			if err := clock.Wait(ctx, v.Clock, interProbeDelay); err != nil {
				break
			}
		}
	}
	return report
}

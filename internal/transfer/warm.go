package transfer

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/repotools/artsync/internal/clock"
	"github.com/repotools/artsync/internal/inventory"
)

const (
	// defaultRate bounds probe frequency when no rate is configured.
	defaultRate = 5.0

	// progressEvery is the completion interval between progress log
	// lines.
	progressEvery = 50
)

// Warmer runs the cache-warm strategy: one paced HEAD probe per record
// against the target, sequentially. A failed probe marks that record
// failed and the run moves on; only cancellation stops it early.
type Warmer struct {
	Prober *Prober
	// Rate is the probe frequency in probes per second.
	Rate   float64
	Clock  clock.Clock
	Logger zerolog.Logger
}

// Run probes every record and returns the accumulated stats. On
// cancellation the in-flight record is discarded, so completed counts
// never exceed the records actually classified.
func (w *Warmer) Run(ctx context.Context, records []inventory.ArtifactRecord) *RunStats {
	stats := NewRunStats(len(records), w.Clock.Now())
	delay := w.interval()

	for i, rec := range records {
		code, err := w.Prober.Probe(ctx, rec.Path)
		if err != nil && errors.Is(err, context.Canceled) {
			break
		}
		status, detail := Classify(code, err)
		stats.Apply(Outcome{Path: rec.Path, Status: status, Detail: detail})

		if status == StatusSuccess {
			w.Logger.Info().Str("path", rec.Path).Msgf("[%d/%d] warmed", i+1, stats.Total)
		} else {
			w.Logger.Warn().Str("path", rec.Path).Str("reason", detail).Msgf("[%d/%d] probe failed", i+1, stats.Total)
		}
		if (i+1)%progressEvery == 0 {
			w.Logger.Info().
				Int("succeeded", stats.Succeeded).
				Int("failed", stats.Failed).
				Msgf("progress %d/%d", i+1, stats.Total)
		}

		if err := clock.Wait(ctx, w.Clock, delay); err != nil {
			break
		}
	}
	return stats
}

func (w *Warmer) interval() time.Duration {
	rate := w.Rate
	if rate <= 0 {
		rate = defaultRate
	}
	return time.Duration(float64(time.Second) / rate)
}

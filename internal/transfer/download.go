package transfer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/repotools/artsync/internal/clock"
	"github.com/repotools/artsync/internal/inventory"
)

// maxWorkers caps the download pool no matter what was configured.
const maxWorkers = 20

// Fetcher streams the content behind a download locator. A non-2xx
// response surfaces as a non-nil error with the status code set;
// transport failures report a zero code.
type Fetcher interface {
	Fetch(ctx context.Context, locator string) (io.ReadCloser, int, error)
}

// Downloader runs the parallel download strategy: a bounded worker
// pool streams every record to local disk while a single aggregating
// loop folds worker outcomes into the run stats.
type Downloader struct {
	Fetcher Fetcher
	// Root is the local directory downloads land under.
	Root string
	// Flatten drops directory structure and writes all files directly
	// into Root under their base name.
	Flatten bool
	Workers int
	Clock   clock.Clock
	Logger  zerolog.Logger
	// OnProgress, when set, is called after every completed record
	// from the aggregating goroutine.
	OnProgress func(completed, total int)
}

// Run downloads every record and returns the accumulated stats. A
// failed record never aborts the batch; cancellation stops feeding the
// pool and in-flight records cut short by it are discarded unrecorded.
func (d *Downloader) Run(ctx context.Context, records []inventory.ArtifactRecord) *RunStats {
	stats := NewRunStats(len(records), d.Clock.Now())
	workers := clampWorkers(d.Workers)
	d.Logger.Debug().Int("workers", workers).Int("records", stats.Total).Msg("starting download pool")

	jobs := make(chan inventory.ArtifactRecord)
	outcomes := make(chan Outcome)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for rec := range jobs {
				if outcome, ok := d.processOne(ctx, rec); ok {
					outcomes <- outcome
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, rec := range records {
			select {
			case jobs <- rec:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	for outcome := range outcomes {
		stats.Apply(outcome)
		d.logOutcome(outcome, stats)
		if d.OnProgress != nil {
			d.OnProgress(stats.Completed(), stats.Total)
		}
	}
	return stats
}

// processOne moves a single record to disk. The second return is false
// when the record was cut short by cancellation and must not be
// counted. Anything else that goes wrong, a panic included, comes back
// as a recorded failure so one bad record cannot take the batch down.
func (d *Downloader) processOne(ctx context.Context, rec inventory.ArtifactRecord) (outcome Outcome, record bool) {
	defer func() {
		if r := recover(); r != nil {
			outcome = Outcome{Path: rec.Path, Status: StatusOtherError, Detail: fmt.Sprintf("panic: %v", r)}
			record = true
		}
	}()

	dest := d.destination(rec)

	// Size agreement with an existing file short-circuits before any
	// network traffic.
	if rec.Size > 0 {
		if info, err := os.Stat(dest); err == nil && info.Size() == rec.Size {
			return Outcome{Path: rec.Path, Status: StatusAlreadyPresent}, true
		}
	}

	if rec.DownloadURL == "" {
		return Outcome{Path: rec.Path, Status: StatusOtherError, Detail: "record has no download location"}, true
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return Outcome{Path: rec.Path, Status: StatusOtherError, Detail: err.Error()}, true
	}

	body, code, err := d.Fetcher.Fetch(ctx, rec.DownloadURL)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return Outcome{}, false
		}
		if code != 0 {
			status, detail := classifyCode(code)
			return Outcome{Path: rec.Path, Status: status, Detail: detail}, true
		}
		status, detail := classifyTransport(err)
		return Outcome{Path: rec.Path, Status: status, Detail: detail}, true
	}
	defer body.Close()

	file, err := os.Create(dest)
	if err != nil {
		return Outcome{Path: rec.Path, Status: StatusOtherError, Detail: err.Error()}, true
	}
	written, copyErr := io.Copy(file, body)
	closeErr := file.Close()
	if copyErr != nil {
		if errors.Is(copyErr, context.Canceled) {
			return Outcome{}, false
		}
		status, detail := classifyTransport(copyErr)
		return Outcome{Path: rec.Path, Status: status, Detail: detail, Bytes: written}, true
	}
	if closeErr != nil {
		return Outcome{Path: rec.Path, Status: StatusOtherError, Detail: closeErr.Error(), Bytes: written}, true
	}

	// A short or long write is reported but the file stays on disk for
	// inspection.
	if rec.Size > 0 && written != rec.Size {
		return Outcome{
			Path:   rec.Path,
			Status: StatusSizeMismatch,
			Detail: fmt.Sprintf("wrote %d of %d bytes", written, rec.Size),
			Bytes:  written,
		}, true
	}
	return Outcome{Path: rec.Path, Status: StatusSuccess, Bytes: written}, true
}

func (d *Downloader) destination(rec inventory.ArtifactRecord) string {
	if d.Flatten {
		return filepath.Join(d.Root, path.Base(rec.Path))
	}
	return filepath.Join(d.Root, filepath.FromSlash(rec.Path))
}

func (d *Downloader) logOutcome(outcome Outcome, stats *RunStats) {
	if outcome.Failed() {
		d.Logger.Warn().
			Str("path", outcome.Path).
			Str("status", string(outcome.Status)).
			Str("reason", outcome.Detail).
			Msgf("[%d/%d] download failed", stats.Completed(), stats.Total)
	} else {
		d.Logger.Info().
			Str("path", outcome.Path).
			Str("status", string(outcome.Status)).
			Int64("bytes", outcome.Bytes).
			Msgf("[%d/%d] downloaded", stats.Completed(), stats.Total)
	}
	if stats.Completed()%progressEvery == 0 {
		d.Logger.Info().
			Int("succeeded", stats.Succeeded).
			Int("failed", stats.Failed).
			Int("skipped", stats.Skipped).
			Msgf("progress %d/%d", stats.Completed(), stats.Total)
	}
}

func clampWorkers(n int) int {
	if n < 1 {
		return 1
	}
	if n > maxWorkers {
		return maxWorkers
	}
	return n
}

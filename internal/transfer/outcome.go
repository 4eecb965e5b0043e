// Package transfer moves a reconciled inventory onto the target
// repository, either by warming the target's cache with paced probes
// or by downloading every artifact through a worker pool, and can
// validate the result afterwards.
package transfer

import "time"

// Status is the terminal classification of one record's transfer
// attempt.
type Status string

const (
	StatusSuccess        Status = "success"
	StatusAlreadyPresent Status = "already_present"
	StatusNotFound       Status = "not_found"
	StatusUnauthorized   Status = "unauthorized"
	StatusForbidden      Status = "forbidden"
	StatusTimeout        Status = "timeout"
	StatusSizeMismatch   Status = "size_mismatch"
	StatusOtherError     Status = "error"
)

// Outcome is the result of processing one record. Every record a run
// finishes produces exactly one outcome; cancelled records produce
// none.
type Outcome struct {
	Path   string
	Status Status
	Detail string
	Bytes  int64
}

// Failed reports whether the outcome counts against the run.
func (o Outcome) Failed() bool {
	return o.Status != StatusSuccess && o.Status != StatusAlreadyPresent
}

// RunStats accumulates outcomes over a run. It is mutated from a
// single goroutine only; worker pools funnel their outcomes through a
// channel to the aggregating loop.
type RunStats struct {
	Total     int
	Succeeded int
	Failed    int
	Skipped   int
	Bytes     int64
	Failures  []Outcome
	Start     time.Time
}

func NewRunStats(total int, start time.Time) *RunStats {
	return &RunStats{Total: total, Start: start}
}

func (s *RunStats) Apply(o Outcome) {
	switch o.Status {
	case StatusSuccess:
		s.Succeeded++
		s.Bytes += o.Bytes
	case StatusAlreadyPresent:
		s.Skipped++
	default:
		s.Failed++
		s.Failures = append(s.Failures, o)
	}
}

// Completed is the number of records that reached a terminal outcome.
// It stays at or below Total when a run is cut short.
func (s *RunStats) Completed() int {
	return s.Succeeded + s.Failed + s.Skipped
}

// SuccessRate is the percentage of all records that succeeded or were
// already present.
func (s *RunStats) SuccessRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Succeeded+s.Skipped) / float64(s.Total) * 100
}

func (s *RunStats) Elapsed(now time.Time) time.Duration {
	return now.Sub(s.Start)
}

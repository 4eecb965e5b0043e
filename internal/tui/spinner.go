package tui

import (
	"github.com/pterm/pterm"
)

// WithSpinner runs fn behind a spinner for waits with no per-record
// progress, like the connectivity gate. Disabled runs (non-TTY, quiet)
// call fn directly so console output stays machine-readable.
func WithSpinner(enabled bool, title string, fn func() error) error {
	if !enabled {
		return fn()
	}
	sp, err := pterm.DefaultSpinner.Start(title)
	if err != nil {
		return fn()
	}
	runErr := fn()
	if runErr != nil {
		sp.Fail()
		return runErr
	}
	sp.Success()
	return nil
}

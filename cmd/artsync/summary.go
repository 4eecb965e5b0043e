package main

import (
	"fmt"
	"time"

	"github.com/pterm/pterm"

	"github.com/repotools/artsync/internal/transfer"
	"github.com/repotools/artsync/util/common"
)

// maxFailuresShown bounds the failure listing in the console summary;
// the log file always has the full list.
const maxFailuresShown = 20

func printRunSummary(title string, stats *transfer.RunStats, now time.Time) {
	elapsed := stats.Elapsed(now)

	pterm.Println()
	pterm.DefaultSection.Println(title)
	pterm.Info.Printfln("Total:     %d", stats.Total)
	pterm.Success.Printfln("Succeeded: %d", stats.Succeeded)
	if stats.Skipped > 0 {
		pterm.Info.Printfln("Already present: %d", stats.Skipped)
	}
	if stats.Failed > 0 {
		pterm.Error.Printfln("Failed:    %d", stats.Failed)
		shown := stats.Failures
		if len(shown) > maxFailuresShown {
			shown = shown[:maxFailuresShown]
		}
		for _, f := range shown {
			pterm.Println("  " + f.Path + " (" + failureReason(f) + ")")
		}
		if rest := len(stats.Failures) - maxFailuresShown; rest > 0 {
			pterm.Println(fmt.Sprintf("  ... and %d more, see the log file", rest))
		}
	}
	if missed := stats.Total - stats.Completed(); missed > 0 {
		pterm.Warning.Printfln("Not attempted: %d (interrupted)", missed)
	}
	if stats.Bytes > 0 {
		pterm.Info.Printfln("Transferred: %s", common.GetSize(stats.Bytes))
	}
	pterm.Info.Printfln("Success rate: %.1f%%", stats.SuccessRate())
	if completed := stats.Completed(); completed > 0 && elapsed > 0 {
		pterm.Info.Printfln("Elapsed: %s (%.1f records/s)",
			elapsed.Round(time.Second), float64(completed)/elapsed.Seconds())
	}
	if logRun != nil && logRun.FilePath != "" {
		pterm.Info.Printfln("Full log: %s", logRun.FilePath)
	}
}

func failureReason(f transfer.Outcome) string {
	if f.Detail == "" {
		return string(f.Status)
	}
	return f.Detail
}

func printValidationReport(report *transfer.ValidationReport) {
	pterm.Println()
	pterm.DefaultSection.Println("Validation")
	pterm.Info.Printfln("Probed:  %d", report.Total)
	pterm.Success.Printfln("Present: %d", report.Present)
	if len(report.Missing) > 0 {
		pterm.Error.Printfln("Missing: %d", len(report.Missing))
		for _, p := range report.Missing {
			pterm.Println("  " + p)
		}
	}
	if len(report.Errors) > 0 {
		pterm.Warning.Printfln("Probe errors: %d", len(report.Errors))
		for _, e := range report.Errors {
			pterm.Println("  " + e.Path + " (" + e.Detail + ")")
		}
	}
	if report.Clean() {
		pterm.Success.Println("All paths present on target.")
	}
}

// Package progress wraps pterm progress bars for batch transfers.
package progress

import (
	"fmt"

	"github.com/pterm/pterm"

	"github.com/repotools/artsync/util/common"
)

// Bar tracks completed records of a batch. A nil Bar is a no-op, which
// lets quiet runs skip the display without branching at every call
// site.
type Bar struct {
	bar *pterm.ProgressbarPrinter
}

// StartBatch begins a record-counting bar. The title carries the total
// payload size when it is known.
func StartBatch(title string, total int, totalBytes int64) *Bar {
	if totalBytes > 0 {
		title = fmt.Sprintf("%s (%s)", title, common.GetSize(totalBytes))
	}
	pb, err := pterm.DefaultProgressbar.
		WithTitle(title).
		WithTotal(total).
		WithRemoveWhenDone(false).
		Start()
	if err != nil {
		return nil
	}
	return &Bar{bar: pb}
}

// Increment advances the bar by one record.
func (b *Bar) Increment() {
	if b == nil || b.bar == nil {
		return
	}
	b.bar.Increment()
}

// Stop finishes the bar.
func (b *Bar) Stop() {
	if b == nil || b.bar == nil {
		return
	}
	_, _ = b.bar.Stop()
}

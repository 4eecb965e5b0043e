// Package tui holds the interactive prompts.
package tui

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/repotools/artsync/internal/style"
)

// ConfirmRun shows an interactive prompt before a run that issues
// traffic against a repository. Returns true only on explicit
// confirmation.
func ConfirmRun(action, detail string) (bool, error) {
	var confirmed bool

	header := style.Warning.Render(fmt.Sprintf("%s  %s", style.WarningIcon(), action))
	fmt.Println(header)
	fmt.Println()

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Proceed?").
				Description(detail).
				Affirmative("Yes, start").
				Negative("No, abort").
				Value(&confirmed),
		),
	)

	if err := form.Run(); err != nil {
		return false, err
	}

	return confirmed, nil
}

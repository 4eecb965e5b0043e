// Package terminal provides TTY detection helpers. It centralises all
// "is this a terminal?" logic so commands make consistent decisions
// about colour and interactivity.
package terminal

import (
	"os"

	"golang.org/x/term"
)

// Info holds the resolved terminal state for the current process.
// Create one at startup via Detect() and pass it down.
type Info struct {
	// IsTerminal is true when stdout is connected to a TTY.
	IsTerminal bool
	// StderrIsTerminal is true when stderr is connected to a TTY.
	StderrIsTerminal bool
	// StdinIsTerminal is true when stdin is connected to a TTY, the
	// precondition for interactive prompts.
	StdinIsTerminal bool
	// ColorEnabled is true when ANSI colours should be emitted.
	ColorEnabled bool
}

// Detect inspects the environment and returns a populated Info.
// noColor is the user-supplied flag value; the NO_COLOR convention
// (https://no-color.org/) is honoured on top of it.
func Detect(noColor bool) Info {
	isTTY := term.IsTerminal(int(os.Stdout.Fd()))
	stderrTTY := term.IsTerminal(int(os.Stderr.Fd()))
	stdinTTY := term.IsTerminal(int(os.Stdin.Fd()))

	envNoColor := os.Getenv("NO_COLOR") != ""

	return Info{
		IsTerminal:       isTTY,
		StderrIsTerminal: stderrTTY,
		StdinIsTerminal:  stdinTTY,
		ColorEnabled:     isTTY && !noColor && !envNoColor,
	}
}

// IsCI returns true when a well-known CI environment variable is set.
func IsCI() bool {
	ciVars := []string{"CI", "GITHUB_ACTIONS", "JENKINS_URL", "GITLAB_CI", "CIRCLECI", "TRAVIS"}
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			return true
		}
	}
	return false
}

// Package config holds the flag and file configuration shared by every
// command.
package config

// GlobalFlags carries the values of the persistent flags. Commands
// read it after flag parsing; tests set it directly.
type GlobalFlags struct {
	ConfigFile string

	SourceURL      string
	SourceUsername string
	SourcePassword string

	TargetURL      string
	TargetUsername string
	TargetPassword string

	// Timeout in seconds for discovery and transfer requests.
	Timeout  int
	Insecure bool

	Debug   bool
	Quiet   bool
	NoColor bool
	Yes     bool
	LogFile string
}

// Global is the shared instance of GlobalFlags.
var Global = GlobalFlags{}

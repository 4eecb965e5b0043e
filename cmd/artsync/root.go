package main

import (
	"fmt"
	"time"

	"github.com/MakeNowJust/heredoc"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/repotools/artsync/config"
	"github.com/repotools/artsync/internal/runlog"
	"github.com/repotools/artsync/internal/style"
	"github.com/repotools/artsync/internal/terminal"
)

// version is set via ldflags during build
var version = "dev"

var (
	logRun   *runlog.Run
	termInfo terminal.Info
)

func closeRunLog() {
	if logRun != nil {
		_ = logRun.Close()
		logRun = nil
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "artsync",
		Short:         "Reconcile and transfer artifact inventories between repository managers",
		SilenceUsage:  true,
		SilenceErrors: true, //prevent duplicate printing of errors
		Long: heredoc.Doc(`
			artsync reads the full artifact inventory of a source repository,
			reconciles the listing endpoints into one deduplicated plan, and
			replays that plan against a target: either by warming the target's
			pull-through cache with paced probes or by downloading every
			artifact to local disk.

			Discovery is read-only and paced. Per-record failures are recorded
			and reported in the summary; they never abort a run.
		`),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			termInfo = terminal.Detect(config.Global.NoColor)
			style.Init(termInfo.ColorEnabled)
			if !termInfo.ColorEnabled {
				pterm.DisableColor()
			}

			switch cmd.CommandPath() {
			case "artsync version", "artsync help":
				return nil
			}

			if config.Global.ConfigFile != "" {
				file, err := config.LoadFile(config.Global.ConfigFile)
				if err != nil {
					return err
				}
				config.ApplyFile(cmd.Flags(), file)
			}

			logPath := config.Global.LogFile
			if logPath == "" {
				logPath = runlog.DefaultFilePath(time.Now())
			}
			run, err := runlog.Setup(runlog.Options{
				Quiet:    config.Global.Quiet,
				Debug:    config.Global.Debug,
				NoColor:  !termInfo.ColorEnabled,
				FilePath: logPath,
			})
			if err != nil {
				return err
			}
			logRun = run
			log.Logger = run.Logger
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&config.Global.ConfigFile, "config", "",
		"Path to a YAML config file with endpoint settings")
	flags.StringVar(&config.Global.SourceURL, "source-url", "",
		"Source repository manager base URL")
	flags.StringVar(&config.Global.SourceUsername, "source-user", "",
		"Source username for basic auth")
	flags.StringVar(&config.Global.SourcePassword, "source-password", "",
		"Source password (or set ARTSYNC_SOURCE_PASSWORD)")
	flags.StringVar(&config.Global.TargetURL, "target-url", "",
		"Target repository base URL")
	flags.StringVar(&config.Global.TargetUsername, "target-user", "",
		"Target username for basic auth")
	flags.StringVar(&config.Global.TargetPassword, "target-password", "",
		"Target password (or set ARTSYNC_TARGET_PASSWORD)")
	flags.IntVar(&config.Global.Timeout, "timeout", defaultTimeoutSeconds,
		"Request timeout in seconds for discovery and transfer")
	flags.BoolVar(&config.Global.Insecure, "insecure", false,
		"Skip TLS certificate verification")
	flags.BoolVar(&config.Global.Debug, "debug", false,
		"Enable debug logging")
	flags.BoolVarP(&config.Global.Quiet, "quiet", "q", false,
		"Only warnings and errors on the console; the log file keeps everything")
	flags.BoolVar(&config.Global.NoColor, "no-color", false,
		"Disable colour output (also respects NO_COLOR env)")
	flags.BoolVarP(&config.Global.Yes, "yes", "y", false,
		"Skip the confirmation prompt")
	flags.StringVar(&config.Global.LogFile, "log-file", "",
		"Run log path (default artsync-<timestamp>.log)")

	rootCmd.AddCommand(
		newSyncCmd(),
		newExportCmd(),
		newValidateCmd(),
		newReposCmd(),
		newCoordsCmd(),
		newTreeCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("artsync", version)
		},
	}
}

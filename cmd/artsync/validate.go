package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/MakeNowJust/heredoc"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/repotools/artsync/internal/clock"
	"github.com/repotools/artsync/internal/transfer"
)

type validateOptions struct {
	repository string
	targetRepo string
	pathsFile  string
	via        listMode
}

func newValidateCmd() *cobra.Command {
	var (
		pathsFile  string
		via        string
		targetRepo string
	)

	cmd := &cobra.Command{
		Use:   "validate <repository>",
		Short: "Verify that transferred artifacts are present on the target",
		Long: heredoc.Doc(`
			Validate re-probes each artifact path against the target, one
			paced HEAD request per path with a short timeout and no retries.
			It is read-only and safe to run any number of times.

			Paths come from a fresh source listing by default; --paths-file
			reads them from a newline-separated file instead, which avoids
			touching the source at all.

			The command exits non-zero when any path is missing or any probe
			errors.
		`),
		Example: heredoc.Doc(`
			# Re-list the source and check every path on the target
			artsync validate libs-release --target-url https://target.example.com

			# Check a fixed path list without touching the source
			artsync validate libs-release --paths-file paths.txt
		`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := parseListMode(via)
			if err != nil {
				return err
			}
			return runValidate(cmd.Context(), validateOptions{
				repository: args[0],
				targetRepo: targetRepo,
				pathsFile:  pathsFile,
				via:        mode,
			})
		},
	}

	cmd.Flags().StringVar(&pathsFile, "paths-file", "", "Newline-separated file of paths to check instead of re-listing the source")
	cmd.Flags().StringVar(&via, "via", string(listBoth), "Listing endpoints to use: assets, components or both")
	cmd.Flags().StringVar(&targetRepo, "target-repo", "", "Target repository name (defaults to the source name)")
	return cmd
}

func runValidate(parent context.Context, opts validateOptions) error {
	logger := runLogger(opts.repository)
	ctx, cancel := signalContext(parent, logger)
	defer cancel()

	targetRepo := opts.targetRepo
	if targetRepo == "" {
		targetRepo = opts.repository
	}
	prober, err := targetProber(targetRepo, validateProbeTimeout)
	if err != nil {
		return err
	}

	var paths []string
	if opts.pathsFile != "" {
		paths, err = readPathsFile(opts.pathsFile)
		if err != nil {
			return err
		}
	} else {
		source, err := sourceClient()
		if err != nil {
			return err
		}
		if err := checkConnectivity(ctx, source, logger); err != nil {
			return err
		}
		records, err := discoverRecords(ctx, source, opts.repository, opts.via, logger)
		if err != nil {
			return err
		}
		paths = make([]string, 0, len(records))
		for _, rec := range records {
			paths = append(paths, rec.Path)
		}
	}
	if len(paths) == 0 {
		pterm.Info.Println("Nothing to validate.")
		return nil
	}

	validator := &transfer.Validator{
		Prober: prober,
		Clock:  clock.Real(),
		Logger: logger,
	}
	report := validator.Run(ctx, paths)

	printValidationReport(report)
	if ctx.Err() != nil {
		return errInterrupted
	}
	if !report.Clean() {
		return fmt.Errorf("validation failed: %d missing, %d probe errors",
			len(report.Missing), len(report.Errors))
	}
	return nil
}

func readPathsFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read paths file: %w", err)
	}
	var paths []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		paths = append(paths, line)
	}
	return paths, nil
}

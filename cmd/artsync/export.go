package main

import (
	"context"
	"fmt"

	"github.com/MakeNowJust/heredoc"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/repotools/artsync/config"
	"github.com/repotools/artsync/internal/clock"
	"github.com/repotools/artsync/internal/inventory"
	"github.com/repotools/artsync/internal/transfer"
	"github.com/repotools/artsync/util/common"
	"github.com/repotools/artsync/util/common/progress"
)

type exportOptions struct {
	repository string
	dest       string
	flat       bool
	parallel   int
	warm       bool
	rate       float64
	via        listMode
	include    []string
	exclude    []string
	targetRepo string
}

func newExportCmd() *cobra.Command {
	var (
		dest       string
		flat       bool
		parallel   int
		warm       bool
		rate       float64
		via        string
		include    []string
		exclude    []string
		targetRepo string
	)

	cmd := &cobra.Command{
		Use:   "export <repository>",
		Short: "Download every artifact of a source repository to local disk",
		Long: heredoc.Doc(`
			Export lists the source repository and downloads every artifact
			through a bounded worker pool. By default the repository layout is
			mirrored under the destination directory; --flat writes all files
			directly into it instead.

			Files already present with the declared size are skipped without
			any request, so an interrupted export can simply be re-run.

			--warm follows a completed export with a cache-warm pass of the
			same paths against the target.
		`),
		Example: heredoc.Doc(`
			# Mirror libs-release into ./export with 8 workers
			artsync export libs-release --dest ./export --parallel 8 --yes

			# Download, then warm the target's cache with the same paths
			artsync export libs-release --warm \
			  --target-url https://target.example.com --yes
		`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := parseListMode(via)
			if err != nil {
				return err
			}
			return runExport(cmd.Context(), exportOptions{
				repository: args[0],
				dest:       dest,
				flat:       flat,
				parallel:   parallel,
				warm:       warm,
				rate:       rate,
				via:        mode,
				include:    include,
				exclude:    exclude,
				targetRepo: targetRepo,
			})
		},
	}

	cmd.Flags().StringVar(&dest, "dest", "./export", "Directory downloads land under")
	cmd.Flags().BoolVar(&flat, "flat", false, "Write all files directly into the destination directory")
	cmd.Flags().IntVar(&parallel, "parallel", defaultParallel, "Concurrent download workers (capped at 20)")
	cmd.Flags().BoolVar(&warm, "warm", false, "Warm the target's cache after the export completes")
	cmd.Flags().Float64Var(&rate, "rate", defaultRate, "Probes per second during the --warm pass")
	cmd.Flags().StringVar(&via, "via", string(listBoth), "Listing endpoints to use: assets, components or both")
	cmd.Flags().StringSliceVar(&include, "include", nil, "Glob patterns paths must match")
	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "Glob patterns that drop matching paths")
	cmd.Flags().StringVar(&targetRepo, "target-repo", "", "Target repository name for --warm (defaults to the source name)")
	return cmd
}

func runExport(parent context.Context, opts exportOptions) error {
	logger := runLogger(opts.repository)
	ctx, cancel := signalContext(parent, logger)
	defer cancel()

	source, err := sourceClient()
	if err != nil {
		return err
	}
	// Resolve the warm target before any download work so a missing
	// target URL fails fast.
	var prober *transfer.Prober
	if opts.warm {
		targetRepo := opts.targetRepo
		if targetRepo == "" {
			targetRepo = opts.repository
		}
		prober, err = targetProber(targetRepo, requestTimeout())
		if err != nil {
			return err
		}
	}
	filter, err := inventory.NewPathFilter(opts.include, opts.exclude)
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
	records = filter.Apply(records)
	if len(records) == 0 {
		pterm.Info.Println("No artifacts found to transfer.")
		return nil
	}

	var totalBytes int64
	for _, rec := range records {
		if rec.Size > 0 {
			totalBytes += rec.Size
		}
	}
	detail := fmt.Sprintf("%d artifacts", len(records))
	if totalBytes > 0 {
		detail = fmt.Sprintf("%d artifacts, %s declared", len(records), common.GetSize(totalBytes))
	}
	proceed, err := confirmStart(
		fmt.Sprintf("About to download %s into %s", detail, opts.dest),
		"Files already present with the declared size are skipped.")
	if err != nil {
		return err
	}
	if !proceed {
		pterm.Info.Println("Aborted.")
		return nil
	}

	var bar *progress.Bar
	if !config.Global.Quiet {
		bar = progress.StartBatch("Downloading "+opts.repository, len(records), totalBytes)
	}
	downloader := &transfer.Downloader{
		Fetcher: source,
		Root:    opts.dest,
		Flatten: opts.flat,
		Workers: opts.parallel,
		Clock:   clock.Real(),
		Logger:  logger,
		OnProgress: func(completed, total int) {
			bar.Increment()
		},
	}
	stats := downloader.Run(ctx, records)
	bar.Stop()

	printRunSummary("Export", stats, clock.Real().Now())
	if ctx.Err() != nil {
		return errInterrupted
	}

	if opts.warm {
		logger.Info().Int("records", len(records)).Msg("warming target cache with exported paths")
		warmer := &transfer.Warmer{
			Prober: prober,
			Rate:   opts.rate,
			Clock:  clock.Real(),
			Logger: logger,
		}
		warmStats := warmer.Run(ctx, records)
		printRunSummary("Cache warm", warmStats, clock.Real().Now())
		if ctx.Err() != nil {
			return errInterrupted
		}
	}
	return nil
}

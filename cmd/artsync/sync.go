package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/MakeNowJust/heredoc"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/repotools/artsync/config"
	"github.com/repotools/artsync/internal/clock"
	"github.com/repotools/artsync/internal/inventory"
	"github.com/repotools/artsync/internal/transfer"
)

type syncOptions struct {
	repository      string
	targetRepo      string
	rate            float64
	via             listMode
	include         []string
	exclude         []string
	byGAV           bool
	excludeSidecars bool
}

func newSyncCmd() *cobra.Command {
	var (
		rate            float64
		via             string
		include         []string
		exclude         []string
		byGAV           bool
		excludeSidecars bool
		targetRepo      string
	)

	cmd := &cobra.Command{
		Use:   "sync <repository>",
		Short: "Warm the target's cache with every artifact of a source repository",
		Long: heredoc.Doc(`
			Sync lists every artifact of the source repository, reconciles the
			listing endpoints into one deduplicated plan, and issues one paced
			HEAD probe per artifact against the target. A pull-through target
			fetches each probed artifact from its upstream, so a completed run
			leaves the target's cache warm.

			With --by-gav the plan is rebuilt from the distinct (group,
			artifact, version) coordinates via one filtered search per
			coordinate. That recovers artifacts whose paths changed across a
			migration but whose coordinates survived.
		`),
		Example: heredoc.Doc(`
			# Warm every artifact of libs-release on the target
			artsync sync libs-release \
			  --source-url https://nexus.example.com \
			  --target-url https://target.example.com --yes

			# Rebuild the plan from coordinates, ignoring checksum sidecars
			artsync sync libs-release --by-gav --exclude-sidecars
		`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := parseListMode(via)
			if err != nil {
				return err
			}
			return runSync(cmd.Context(), syncOptions{
				repository:      args[0],
				targetRepo:      targetRepo,
				rate:            rate,
				via:             mode,
				include:         include,
				exclude:         exclude,
				byGAV:           byGAV,
				excludeSidecars: excludeSidecars,
			})
		},
	}

	cmd.Flags().Float64Var(&rate, "rate", defaultRate, "Probes per second against the target")
	cmd.Flags().StringVar(&via, "via", string(listBoth), "Listing endpoints to use: assets, components or both")
	cmd.Flags().StringSliceVar(&include, "include", nil, "Glob patterns paths must match")
	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "Glob patterns that drop matching paths")
	cmd.Flags().BoolVar(&byGAV, "by-gav", false, "Rebuild the plan from distinct coordinates")
	cmd.Flags().BoolVar(&excludeSidecars, "exclude-sidecars", false, "Ignore checksum and metadata files when resolving coordinates")
	cmd.Flags().StringVar(&targetRepo, "target-repo", "", "Target repository name (defaults to the source name)")
	return cmd
}

func runSync(parent context.Context, opts syncOptions) error {
	logger := runLogger(opts.repository)
	ctx, cancel := signalContext(parent, logger)
	defer cancel()

	source, err := sourceClient()
	if err != nil {
		return err
	}
	targetRepo := opts.targetRepo
	if targetRepo == "" {
		targetRepo = opts.repository
	}
	prober, err := targetProber(targetRepo, requestTimeout())
	if err != nil {
		return err
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
	if opts.byGAV {
		coords := inventory.CollectCoordinates(records, opts.excludeSidecars)
		logger.Info().Int("coordinates", len(coords)).Msg("rebuilding plan from coordinates")
		records, err = inventory.CollectByCoordinates(ctx, source, opts.repository, coords, clock.Real(), logger)
		if err != nil {
			return err
		}
	}
	records = filter.Apply(records)
	if len(records) == 0 {
		pterm.Info.Println("No artifacts found to transfer.")
		return nil
	}

	target := fmt.Sprintf("%s/%s", strings.TrimSuffix(config.Global.TargetURL, "/"), targetRepo)
	proceed, err := confirmStart(
		fmt.Sprintf("About to probe %d artifacts against %s", len(records), target),
		"The target will pull every missing artifact from its upstream.")
	if err != nil {
		return err
	}
	if !proceed {
		pterm.Info.Println("Aborted.")
		return nil
	}

	warmer := &transfer.Warmer{
		Prober: prober,
		Rate:   opts.rate,
		Clock:  clock.Real(),
		Logger: logger,
	}
	stats := warmer.Run(ctx, records)

	printRunSummary("Cache warm", stats, clock.Real().Now())
	if ctx.Err() != nil {
		return errInterrupted
	}
	return nil
}

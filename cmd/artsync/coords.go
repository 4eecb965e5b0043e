package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/MakeNowJust/heredoc"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/repotools/artsync/internal/inventory"
)

type coordsOptions struct {
	repository      string
	via             listMode
	include         []string
	exclude         []string
	excludeSidecars bool
	output          string
}

func newCoordsCmd() *cobra.Command {
	var (
		via             string
		include         []string
		exclude         []string
		excludeSidecars bool
		output          string
	)

	cmd := &cobra.Command{
		Use:   "coords <repository>",
		Short: "List the distinct coordinates of a repository",
		Long: heredoc.Doc(`
			Coords lists the repository and resolves every artifact to its
			(group, artifact, version) coordinate, preferring the structured
			metadata the source attaches to maven2 assets and falling back to
			parsing the path. The distinct coordinates print sorted, one
			group:artifact:version per line.

			An --output file ending in .json switches to a JSON array of
			coordinate objects.
		`),
		Example: heredoc.Doc(`
			# Print coordinates to stdout
			artsync coords libs-release --source-url https://nexus.example.com

			# Write a JSON inventory, ignoring checksum sidecars
			artsync coords libs-release --exclude-sidecars --output coords.json
		`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := parseListMode(via)
			if err != nil {
				return err
			}
			return runCoords(cmd.Context(), coordsOptions{
				repository:      args[0],
				via:             mode,
				include:         include,
				exclude:         exclude,
				excludeSidecars: excludeSidecars,
				output:          output,
			})
		},
	}

	cmd.Flags().StringVar(&via, "via", string(listAssets), "Listing endpoints to use: assets, components or both")
	cmd.Flags().StringSliceVar(&include, "include", nil, "Glob patterns paths must match")
	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "Glob patterns that drop matching paths")
	cmd.Flags().BoolVar(&excludeSidecars, "exclude-sidecars", false, "Ignore checksum and metadata files when resolving coordinates")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write coordinates to this file instead of stdout (.json for a JSON array)")
	return cmd
}

func runCoords(parent context.Context, opts coordsOptions) error {
	logger := runLogger(opts.repository)
	ctx, cancel := signalContext(parent, logger)
	defer cancel()

	source, err := sourceClient()
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
	records = filter.Apply(records)

	coords := inventory.CollectCoordinates(records, opts.excludeSidecars)
	if len(coords) == 0 {
		pterm.Info.Println("No coordinates resolved.")
		return nil
	}
	logger.Info().Int("coordinates", len(coords)).Msg("coordinates resolved")
	return writeCoordinates(coords, opts.output)
}

func writeCoordinates(coords []inventory.Coordinate, output string) error {
	var buf bytes.Buffer
	if strings.HasSuffix(strings.ToLower(output), ".json") {
		type coordinateJSON struct {
			Group    string `json:"group"`
			Artifact string `json:"artifact"`
			Version  string `json:"version"`
		}
		list := make([]coordinateJSON, 0, len(coords))
		for _, c := range coords {
			list = append(list, coordinateJSON{Group: c.Group, Artifact: c.Artifact, Version: c.Version})
		}
		data, err := json.MarshalIndent(list, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode coordinates: %w", err)
		}
		buf.Write(data)
		buf.WriteByte('\n')
	} else {
		for _, c := range coords {
			buf.WriteString(c.String())
			buf.WriteByte('\n')
		}
	}

	if output == "" {
		_, err := os.Stdout.Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write coordinates: %w", err)
	}
	pterm.Success.Printfln("Wrote %d coordinates to %s", len(coords), output)
	return nil
}

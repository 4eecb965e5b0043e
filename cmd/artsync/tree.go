package main

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/MakeNowJust/heredoc"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/repotools/artsync/internal/inventory"
	"github.com/repotools/artsync/internal/tree"
)

type treeOptions struct {
	repository string
	via        listMode
	include    []string
	exclude    []string
	output     string
}

func newTreeCmd() *cobra.Command {
	var (
		via     string
		include []string
		exclude []string
		output  string
	)

	cmd := &cobra.Command{
		Use:   "tree <repository>",
		Short: "Render the repository's artifact paths as a tree",
		Long: heredoc.Doc(`
			Tree lists the repository and folds the artifact paths into a
			directory tree, rendered with box-drawing characters. Useful for
			eyeballing what a transfer would cover before starting one.
		`),
		Example: heredoc.Doc(`
			artsync tree libs-release --source-url https://nexus.example.com

			# Only the com/acme subtree, written to a file
			artsync tree libs-release --include 'com/acme/**' --output tree.txt
		`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := parseListMode(via)
			if err != nil {
				return err
			}
			return runTree(cmd.Context(), treeOptions{
				repository: args[0],
				via:        mode,
				include:    include,
				exclude:    exclude,
				output:     output,
			})
		},
	}

	cmd.Flags().StringVar(&via, "via", string(listAssets), "Listing endpoints to use: assets, components or both")
	cmd.Flags().StringSliceVar(&include, "include", nil, "Glob patterns paths must match")
	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "Glob patterns that drop matching paths")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the tree to this file instead of stdout")
	return cmd
}

func runTree(parent context.Context, opts treeOptions) error {
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
	if len(records) == 0 {
		pterm.Info.Println("No artifacts found.")
		return nil
	}

	paths := make([]string, 0, len(records))
	for _, rec := range records {
		paths = append(paths, rec.Path)
	}
	root := tree.Build(paths)

	var buf bytes.Buffer
	buf.WriteString(opts.repository + "\n")
	buf.WriteString(root.Render())
	buf.WriteString(fmt.Sprintf("\n%d artifacts\n", root.Leaves()))

	if opts.output == "" {
		_, err := os.Stdout.Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(opts.output, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write tree: %w", err)
	}
	pterm.Success.Printfln("Wrote tree of %d artifacts to %s", root.Leaves(), opts.output)
	return nil
}

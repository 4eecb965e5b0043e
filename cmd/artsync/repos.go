package main

import (
	"context"
	"sort"

	"github.com/MakeNowJust/heredoc"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/repotools/artsync/util/common/printer"
)

func newReposCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repos",
		Short: "List the repositories visible on the source",
		Long: heredoc.Doc(`
			Repos lists every repository the source exposes to the configured
			credentials, so you can pick the right name before starting a
			transfer.
		`),
		Example: heredoc.Doc(`
			artsync repos --source-url https://nexus.example.com
		`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepos(cmd.Context())
		},
	}
}

func runRepos(parent context.Context) error {
	logger := log.Logger
	ctx, cancel := signalContext(parent, logger)
	defer cancel()

	source, err := sourceClient()
	if err != nil {
		return err
	}
	if err := checkConnectivity(ctx, source, logger); err != nil {
		return err
	}

	repos, err := source.Repositories(ctx)
	if err != nil {
		return err
	}
	if len(repos) == 0 {
		pterm.Info.Println("No repositories visible to these credentials.")
		return nil
	}

	// maven2 repositories first; they are what the pipeline transfers.
	maven := 0
	sort.SliceStable(repos, func(i, j int) bool {
		mi, mj := repos[i].Format == "maven2", repos[j].Format == "maven2"
		if mi != mj {
			return mi
		}
		return repos[i].Name < repos[j].Name
	})

	rows := make([][]string, 0, len(repos))
	for _, repo := range repos {
		if repo.Format == "maven2" {
			maven++
		}
		online := "yes"
		if !repo.Online {
			online = "no"
		}
		rows = append(rows, []string{repo.Name, repo.Format, repo.Type, online, repo.URL})
	}
	if err := printer.Table([]string{"NAME", "FORMAT", "TYPE", "ONLINE", "URL"}, rows); err != nil {
		return err
	}
	pterm.Info.Printfln("%d repositories, %d maven2", len(repos), maven)
	return nil
}

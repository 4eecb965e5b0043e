package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"

	"github.com/repotools/artsync/config"
	"github.com/repotools/artsync/internal/clock"
	"github.com/repotools/artsync/internal/inventory"
	"github.com/repotools/artsync/internal/nexus"
	"github.com/repotools/artsync/internal/style"
	"github.com/repotools/artsync/internal/terminal"
	"github.com/repotools/artsync/internal/transfer"
	"github.com/repotools/artsync/internal/tui"
)

const (
	defaultTimeoutSeconds = 60
	defaultRate           = 5.0
	defaultParallel       = 4

	// validateProbeTimeout is deliberately shorter than the transfer
	// timeout; validation probes cached content and should answer fast.
	validateProbeTimeout = 10 * time.Second

	sourcePasswordEnv = "ARTSYNC_SOURCE_PASSWORD"
	targetPasswordEnv = "ARTSYNC_TARGET_PASSWORD"
)

var errInterrupted = errors.New("run interrupted before completion")

// runLogger tags every log line of one run.
func runLogger(repository string) zerolog.Logger {
	return log.Logger.With().
		Str("run_id", uuid.New().String()[:8]).
		Str("repository", repository).
		Logger()
}

// signalContext cancels the returned context on SIGINT or SIGTERM so
// the current record finishes and the partial summary still prints.
func signalContext(parent context.Context, logger zerolog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-quit:
			logger.Warn().Str("signal", sig.String()).Msg("interrupt received, stopping after the current record")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(quit)
	}()
	return ctx, cancel
}

func requestTimeout() time.Duration {
	seconds := config.Global.Timeout
	if seconds <= 0 {
		seconds = defaultTimeoutSeconds
	}
	return time.Duration(seconds) * time.Second
}

func resolvePassword(flagValue, envName, label string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if v := os.Getenv(envName); v != "" {
		return v, nil
	}
	if !termInfo.StdinIsTerminal {
		return "", nil
	}
	fmt.Fprintf(os.Stderr, "%s password: ", label)
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimSpace(string(raw)), nil
}

func sourceClient() (*nexus.Client, error) {
	if config.Global.SourceURL == "" {
		return nil, errors.New("source URL is required: pass --source-url or set source.url in the config file")
	}
	password := config.Global.SourcePassword
	if config.Global.SourceUsername != "" {
		var err error
		password, err = resolvePassword(password, sourcePasswordEnv, "source")
		if err != nil {
			return nil, err
		}
	}
	return nexus.New(nexus.Config{
		Endpoint: config.Global.SourceURL,
		Username: config.Global.SourceUsername,
		Password: password,
		Timeout:  requestTimeout(),
		Insecure: config.Global.Insecure,
	}), nil
}

func targetProber(repository string, timeout time.Duration) (*transfer.Prober, error) {
	if config.Global.TargetURL == "" {
		return nil, errors.New("target URL is required: pass --target-url or set target.url in the config file")
	}
	password := config.Global.TargetPassword
	if config.Global.TargetUsername != "" {
		var err error
		password, err = resolvePassword(password, targetPasswordEnv, "target")
		if err != nil {
			return nil, err
		}
	}
	return transfer.NewProber(transfer.ProbeConfig{
		Endpoint:   config.Global.TargetURL,
		Repository: repository,
		Username:   config.Global.TargetUsername,
		Password:   password,
		Timeout:    timeout,
		Insecure:   config.Global.Insecure,
	}), nil
}

// checkConnectivity gates every run on the source answering at all.
// Credential rejections are fatal; any other HTTP answer only warns,
// since some instances guard the status endpoint itself.
func checkConnectivity(ctx context.Context, client *nexus.Client, logger zerolog.Logger) error {
	var code int
	err := tui.WithSpinner(termInfo.IsTerminal && !config.Global.Quiet, "Contacting source", func() error {
		var statusErr error
		code, statusErr = client.Status(ctx)
		return statusErr
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, style.Hint("Is the source URL correct and the instance running?"))
		fmt.Fprintln(os.Stderr, style.Hint("Can this host reach it (VPN, proxy, firewall)?"))
		return fmt.Errorf("source unreachable at %s: %w", client.Endpoint(), err)
	}
	if code == http.StatusUnauthorized || code == http.StatusForbidden {
		return fmt.Errorf("source rejected the credentials (HTTP %d)", code)
	}
	if code != http.StatusOK {
		logger.Warn().Int("status", code).Msg("unexpected status from source, proceeding anyway")
		return nil
	}
	logger.Info().Str("endpoint", client.Endpoint()).Msg("connected to source")
	return nil
}

type listMode string

const (
	listAssets     listMode = "assets"
	listComponents listMode = "components"
	listBoth       listMode = "both"
)

func parseListMode(raw string) (listMode, error) {
	switch mode := listMode(raw); mode {
	case listAssets, listComponents, listBoth:
		return mode, nil
	}
	return "", fmt.Errorf("invalid --via value %q: want assets, components or both", raw)
}

// discoverRecords assembles the deduplicated inventory from the
// configured listing endpoints. A source that fails mid-listing
// contributes what it got; only cancellation or a completely empty
// failed discovery is fatal.
func discoverRecords(ctx context.Context, client *nexus.Client, repository string, mode listMode, logger zerolog.Logger) ([]inventory.ArtifactRecord, error) {
	var sources []inventory.Source
	if mode == listAssets || mode == listBoth {
		sources = append(sources, inventory.NewAssetSource(client, repository, clock.Real(), logger))
	}
	if mode == listComponents || mode == listBoth {
		sources = append(sources, inventory.NewComponentSource(client, repository, clock.Real(), logger))
	}

	inventories := make([]inventory.SourceInventory, 0, len(sources))
	var lastErr error
	for _, source := range sources {
		logger.Info().Str("via", source.Name()).Msg("listing repository")
		records, err := source.Records(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil, err
			}
			lastErr = err
			logger.Warn().Err(err).Str("via", source.Name()).Msg("listing incomplete, keeping partial inventory")
		}
		inventories = append(inventories, inventory.SourceInventory{Source: source.Name(), Records: records})
	}

	merged, discrepancies := inventory.Merge(inventories...)
	if len(discrepancies) > 0 {
		logger.Warn().Int("paths", len(discrepancies)).Msg("listing endpoints disagree, run with --debug for the full list")
		for _, d := range discrepancies {
			logger.Debug().Str("path", d.Path).Str("only_in", d.Source).Msg("discrepancy")
		}
	}
	if len(merged) == 0 && lastErr != nil {
		return nil, fmt.Errorf("could not list repository %s: %w", repository, lastErr)
	}
	logger.Info().Int("records", len(merged)).Msg("inventory assembled")
	return merged, nil
}

// confirmStart gates runs that issue traffic. Declining is a clean
// stop, not an error; non-interactive sessions must opt in with --yes.
func confirmStart(action, detail string) (bool, error) {
	if config.Global.Yes {
		return true, nil
	}
	if !termInfo.StdinIsTerminal {
		hint := "pass --yes to run without a prompt"
		if terminal.IsCI() {
			hint = "pass --yes in CI pipelines"
		}
		return false, fmt.Errorf("confirmation required in a non-interactive session: %s", hint)
	}
	ok, err := tui.ConfirmRun(action, detail)
	if err != nil {
		return false, fmt.Errorf("confirmation prompt failed: %w", err)
	}
	return ok, nil
}

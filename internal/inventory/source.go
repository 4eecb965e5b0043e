package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/repotools/artsync/internal/clock"
	"github.com/repotools/artsync/internal/nexus"
)

const (
	// interPageDelay paces pagination so discovery never hammers the
	// source instance.
	interPageDelay = 200 * time.Millisecond

	// progressEvery is the record interval between progress log lines
	// during discovery.
	progressEvery = 50
)

// Source produces the full artifact inventory of one repository. A
// Source that fails mid-pagination returns the records accumulated so
// far together with the error, so callers can tolerate a partial
// listing when another source covers the gap.
type Source interface {
	Name() string
	Records(ctx context.Context) ([]ArtifactRecord, error)
}

// NewAssetSource lists a repository through the flat per-asset search
// endpoint.
func NewAssetSource(client *nexus.Client, repository string, clk clock.Clock, logger zerolog.Logger) Source {
	return &assetSource{
		client:     client,
		repository: repository,
		clk:        clk,
		logger:     logger.With().Str("source", "assets").Str("repository", repository).Logger(),
	}
}

type assetSource struct {
	client     *nexus.Client
	repository string
	clk        clock.Clock
	logger     zerolog.Logger
}

func (s *assetSource) Name() string { return "assets" }

func (s *assetSource) Records(ctx context.Context) ([]ArtifactRecord, error) {
	var records []ArtifactRecord
	token := ""
	for page := 1; ; page++ {
		result, err := s.client.SearchAssets(ctx, s.repository, token)
		if err != nil {
			return records, fmt.Errorf("asset page %d: %w", page, err)
		}
		for _, asset := range result.Items {
			if asset.Path == "" {
				continue
			}
			records = append(records, recordFromAsset(asset))
			if len(records)%progressEvery == 0 {
				s.logger.Info().Int("records", len(records)).Msg("discovery progress")
			}
		}
		s.logger.Debug().Int("page", page).Int("items", len(result.Items)).Msg("fetched asset page")
		if result.ContinuationToken == "" {
			return records, nil
		}
		token = result.ContinuationToken
		if err := clock.Wait(ctx, s.clk, interPageDelay); err != nil {
			return records, err
		}
	}
}

// NewComponentSource lists a repository through the component endpoint
// and flattens each component into its member assets.
func NewComponentSource(client *nexus.Client, repository string, clk clock.Clock, logger zerolog.Logger) Source {
	return &componentSource{
		client:     client,
		repository: repository,
		clk:        clk,
		logger:     logger.With().Str("source", "components").Str("repository", repository).Logger(),
	}
}

type componentSource struct {
	client     *nexus.Client
	repository string
	clk        clock.Clock
	logger     zerolog.Logger
}

func (s *componentSource) Name() string { return "components" }

func (s *componentSource) Records(ctx context.Context) ([]ArtifactRecord, error) {
	var records []ArtifactRecord
	token := ""
	for page := 1; ; page++ {
		result, err := s.client.Components(ctx, s.repository, token)
		if err != nil {
			return records, fmt.Errorf("component page %d: %w", page, err)
		}
		for _, component := range result.Items {
			for _, asset := range component.Assets {
				if asset.Path == "" {
					continue
				}
				records = append(records, recordFromComponentAsset(component, asset))
				if len(records)%progressEvery == 0 {
					s.logger.Info().Int("records", len(records)).Msg("discovery progress")
				}
			}
		}
		s.logger.Debug().Int("page", page).Int("components", len(result.Items)).Msg("fetched component page")
		if result.ContinuationToken == "" {
			return records, nil
		}
		token = result.ContinuationToken
		if err := clock.Wait(ctx, s.clk, interPageDelay); err != nil {
			return records, err
		}
	}
}

func recordFromAsset(asset nexus.Asset) ArtifactRecord {
	rec := ArtifactRecord{
		Path:        asset.Path,
		DownloadURL: asset.DownloadURL,
		Size:        asset.FileSize,
		Repository:  asset.Repository,
		Format:      asset.Format,
		ContentType: asset.ContentType,
		Checksums:   asset.Checksum,
	}
	if m := asset.Maven2; m != nil {
		rec.Metadata = &Coordinate{Group: m.GroupID, Artifact: m.ArtifactID, Version: m.Version}
	}
	return rec
}

func recordFromComponentAsset(component nexus.Component, asset nexus.Asset) ArtifactRecord {
	rec := recordFromAsset(asset)
	if rec.Repository == "" {
		rec.Repository = component.Repository
	}
	if rec.Format == "" {
		rec.Format = component.Format
	}
	// Component-level coordinates back-fill assets that carry none of
	// their own.
	if rec.Metadata == nil && component.Group != "" && component.Name != "" && component.Version != "" {
		rec.Metadata = &Coordinate{Group: component.Group, Artifact: component.Name, Version: component.Version}
	}
	return rec
}

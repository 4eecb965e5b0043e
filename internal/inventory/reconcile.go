package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/repotools/artsync/internal/clock"
	"github.com/repotools/artsync/internal/nexus"
)

// interQueryDelay paces the per-coordinate searches of coordinate-driven
// collection.
const interQueryDelay = 100 * time.Millisecond

// SourceInventory is the listing one source produced, possibly partial.
type SourceInventory struct {
	Source  string
	Records []ArtifactRecord
}

// Discrepancy flags a path that exactly one source reported, which
// usually means one listing endpoint is stale or was cut short.
type Discrepancy struct {
	Path   string
	Source string
}

// Merge deduplicates the union of several source inventories by path.
// The first record seen for a path wins and first-seen order is
// preserved, so re-running with identical inputs yields an identical
// plan. Discrepancies list the paths present in exactly one source,
// sorted by path; with fewer than two sources there is nothing to
// compare and the list is empty.
func Merge(inventories ...SourceInventory) ([]ArtifactRecord, []Discrepancy) {
	type occurrence struct {
		count  int
		source string
	}
	seen := make(map[string]occurrence)
	var merged []ArtifactRecord
	for _, inv := range inventories {
		counted := make(map[string]struct{}, len(inv.Records))
		for _, rec := range inv.Records {
			occ, dup := seen[rec.Path]
			if !dup {
				merged = append(merged, rec)
				seen[rec.Path] = occurrence{count: 1, source: inv.Source}
				counted[rec.Path] = struct{}{}
				continue
			}
			// A repeated path within one source is a duplicate, not
			// cross-source agreement.
			if _, same := counted[rec.Path]; same {
				continue
			}
			occ.count++
			seen[rec.Path] = occ
			counted[rec.Path] = struct{}{}
		}
	}

	var discrepancies []Discrepancy
	if len(inventories) > 1 {
		for path, occ := range seen {
			if occ.count == 1 {
				discrepancies = append(discrepancies, Discrepancy{Path: path, Source: occ.source})
			}
		}
		sort.Slice(discrepancies, func(i, j int) bool {
			return discrepancies[i].Path < discrepancies[j].Path
		})
	}
	return merged, discrepancies
}

// CollectByCoordinates resolves a set of coordinates back to concrete
// records by issuing one filtered component search per coordinate.
// Paths are deduplicated preserving first-seen order. A coordinate
// whose search fails is logged and skipped; only cancellation stops
// the whole collection, returning what was gathered so far.
func CollectByCoordinates(ctx context.Context, client *nexus.Client, repository string, coords []Coordinate, clk clock.Clock, logger zerolog.Logger) ([]ArtifactRecord, error) {
	seen := make(map[string]struct{})
	var records []ArtifactRecord
	for i, coord := range coords {
		logger.Info().
			Int("index", i+1).
			Int("total", len(coords)).
			Str("coordinate", coord.String()).
			Msg("searching assets for coordinate")

		filter := nexus.SearchFilter{Group: coord.Group, Name: coord.Artifact, Version: coord.Version}
		token := ""
		for {
			page, err := client.SearchComponents(ctx, repository, filter, token)
			if err != nil {
				if ctx.Err() != nil {
					return records, ctx.Err()
				}
				logger.Warn().Err(err).Str("coordinate", coord.String()).Msg("coordinate search failed, skipping")
				break
			}
			for _, component := range page.Items {
				for _, asset := range component.Assets {
					if asset.Path == "" {
						continue
					}
					if _, dup := seen[asset.Path]; dup {
						continue
					}
					seen[asset.Path] = struct{}{}
					records = append(records, recordFromComponentAsset(component, asset))
				}
			}
			if page.ContinuationToken == "" {
				break
			}
			token = page.ContinuationToken
		}

		if i < len(coords)-1 {
			if err := clock.Wait(ctx, clk, interQueryDelay); err != nil {
				return records, err
			}
		}
	}
	return records, nil
}

// Package inventory discovers the artifact inventory of a source
// repository, normalizes the differently shaped listing endpoints into
// one record stream, and reconciles records across sources.
package inventory

import "fmt"

// ArtifactRecord is one artifact at a repository-relative path. Path
// uniquely identifies a record within a reconciled set: two records
// with the same path from different sources are the same logical
// artifact and collapse to one.
type ArtifactRecord struct {
	// Path is repository-relative and slash-separated.
	Path string

	// DownloadURL is the absolute fetch location when the source
	// exposes one. Required for parallel download, unused by the
	// cache-warm strategy.
	DownloadURL string

	// Size is the declared byte count; zero or negative means unknown.
	Size int64

	Repository  string
	Format      string
	ContentType string
	Checksums   map[string]string

	// Metadata carries the structured coordinate reported by the
	// source, nil when absent. Resolution happens separately; see
	// ResolveCoordinate.
	Metadata *Coordinate
}

// Coordinate identifies a logical artifact family independent of the
// specific file within a version. Equality is by value.
type Coordinate struct {
	Group    string
	Artifact string
	Version  string
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%s:%s:%s", c.Group, c.Artifact, c.Version)
}

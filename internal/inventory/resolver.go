package inventory

import (
	"sort"
	"strings"
)

const maven2Format = "maven2"

var sidecarSuffixes = []string{".sha1", ".md5", ".sha256", ".sha512"}

// IsSidecar reports whether path names a checksum companion or a
// repository metadata descriptor rather than an artifact proper.
func IsSidecar(path string) bool {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, "maven-metadata.xml") {
		return true
	}
	for _, suffix := range sidecarSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}

// ResolveCoordinate derives the (group, artifact, version) triple for
// one record. Structured metadata wins when the record carries the
// maven2 format tag and all three fields are populated; otherwise the
// repository path is parsed. When excludeSidecars is set, checksum and
// metadata-descriptor paths never yield a path-derived coordinate.
// The second return is false when no coordinate can be determined.
func ResolveCoordinate(rec ArtifactRecord, excludeSidecars bool) (Coordinate, bool) {
	if strings.EqualFold(rec.Format, maven2Format) && rec.Metadata != nil {
		m := *rec.Metadata
		if m.Group != "" && m.Artifact != "" && m.Version != "" {
			return m, true
		}
	}
	if excludeSidecars && IsSidecar(rec.Path) {
		return Coordinate{}, false
	}
	return parsePathCoordinate(rec.Path)
}

// parsePathCoordinate recovers a coordinate from the conventional
// repository layout group/…/artifact/version/file. The last segment is
// the file name, the one before it the version, the one before that
// the artifact, and everything earlier joins with dots into the group.
func parsePathCoordinate(path string) (Coordinate, bool) {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	if len(segments) < 4 {
		return Coordinate{}, false
	}
	group := strings.Join(segments[:len(segments)-3], ".")
	if group == "" {
		return Coordinate{}, false
	}
	return Coordinate{
		Group:    group,
		Artifact: segments[len(segments)-3],
		Version:  segments[len(segments)-2],
	}, true
}

// CollectCoordinates resolves every record and returns the distinct
// coordinates sorted lexically. Records that yield no coordinate are
// skipped.
func CollectCoordinates(records []ArtifactRecord, excludeSidecars bool) []Coordinate {
	seen := make(map[Coordinate]struct{})
	var coords []Coordinate
	for _, rec := range records {
		coord, ok := ResolveCoordinate(rec, excludeSidecars)
		if !ok {
			continue
		}
		if _, dup := seen[coord]; dup {
			continue
		}
		seen[coord] = struct{}{}
		coords = append(coords, coord)
	}
	sort.Slice(coords, func(i, j int) bool {
		return coords[i].String() < coords[j].String()
	})
	return coords
}

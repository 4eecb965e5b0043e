package inventory

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

// PathFilter narrows an inventory by glob patterns matched against
// record paths. Patterns are slash-separated: `*` matches within one
// segment, `**` spans segments. Include patterns gate first (when any
// are set, a path must match one), exclude patterns veto after.
type PathFilter struct {
	include []glob.Glob
	exclude []glob.Glob
}

// NewPathFilter compiles the pattern lists. A pattern that does not
// compile fails the whole construction so bad flags surface before any
// network work starts.
func NewPathFilter(include, exclude []string) (*PathFilter, error) {
	compiled := func(patterns []string) ([]glob.Glob, error) {
		var globs []glob.Glob
		for _, pattern := range patterns {
			pattern = strings.TrimPrefix(strings.TrimSpace(pattern), "/")
			if pattern == "" {
				continue
			}
			g, err := glob.Compile(pattern, '/')
			if err != nil {
				return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
			}
			globs = append(globs, g)
		}
		return globs, nil
	}

	inc, err := compiled(include)
	if err != nil {
		return nil, err
	}
	exc, err := compiled(exclude)
	if err != nil {
		return nil, err
	}
	return &PathFilter{include: inc, exclude: exc}, nil
}

// Empty reports whether the filter passes everything through.
func (f *PathFilter) Empty() bool {
	return len(f.include) == 0 && len(f.exclude) == 0
}

// Match reports whether path survives the filter.
func (f *PathFilter) Match(path string) bool {
	path = strings.TrimPrefix(path, "/")
	if len(f.include) > 0 {
		matched := false
		for _, g := range f.include {
			if g.Match(path) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	for _, g := range f.exclude {
		if g.Match(path) {
			return false
		}
	}
	return true
}

// Apply returns the records whose paths survive the filter, preserving
// order.
func (f *PathFilter) Apply(records []ArtifactRecord) []ArtifactRecord {
	if f.Empty() {
		return records
	}
	filtered := make([]ArtifactRecord, 0, len(records))
	for _, rec := range records {
		if f.Match(rec.Path) {
			filtered = append(filtered, rec)
		}
	}
	return filtered
}

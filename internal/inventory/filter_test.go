package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathFilterMatch(t *testing.T) {
	tests := []struct {
		name    string
		include []string
		exclude []string
		path    string
		want    bool
	}{
		{
			name: "empty filter passes everything",
			path: "com/acme/lib/1.0/lib-1.0.jar",
			want: true,
		},
		{
			name:    "include gate",
			include: []string{"com/acme/**"},
			path:    "com/acme/lib/1.0/lib-1.0.jar",
			want:    true,
		},
		{
			name:    "include gate rejects others",
			include: []string{"com/acme/**"},
			path:    "org/other/lib/1.0/lib-1.0.jar",
			want:    false,
		},
		{
			name:    "single star stays within a segment",
			include: []string{"com/*/lib-1.0.jar"},
			path:    "com/acme/deep/lib-1.0.jar",
			want:    false,
		},
		{
			name:    "exclude veto",
			exclude: []string{"**/*.sha1"},
			path:    "com/acme/lib/1.0/lib-1.0.jar.sha1",
			want:    false,
		},
		{
			name:    "exclude applies after include",
			include: []string{"com/acme/**"},
			exclude: []string{"**/*-sources.jar"},
			path:    "com/acme/lib/1.0/lib-1.0-sources.jar",
			want:    false,
		},
		{
			name:    "leading slash normalized",
			include: []string{"/com/acme/**"},
			path:    "/com/acme/lib/1.0/lib-1.0.jar",
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, err := NewPathFilter(tt.include, tt.exclude)
			require.NoError(t, err)
			assert.Equal(t, tt.want, filter.Match(tt.path))
		})
	}
}

func TestPathFilterRejectsInvalidPattern(t *testing.T) {
	_, err := NewPathFilter([]string{"com/[acme/**"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid pattern")
}

func TestPathFilterApplyPreservesOrder(t *testing.T) {
	filter, err := NewPathFilter(nil, []string{"**/*.md5"})
	require.NoError(t, err)

	records := []ArtifactRecord{
		{Path: "a/1.jar"},
		{Path: "a/1.jar.md5"},
		{Path: "b/2.jar"},
	}

	filtered := filter.Apply(records)

	require.Len(t, filtered, 2)
	assert.Equal(t, "a/1.jar", filtered[0].Path)
	assert.Equal(t, "b/2.jar", filtered[1].Path)
}

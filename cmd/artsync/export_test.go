package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportMirrorsRepositoryLayout(t *testing.T) {
	source := newFakeSource(t, "libs-release", syncFixtures())
	dest := t.TempDir()

	err := execute(t,
		"export", "libs-release",
		"--source-url", source.URL,
		"--dest", dest,
		"--via", "assets",
		"--parallel", "2",
		"--quiet",
		"--yes",
	)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dest, "com", "acme", "widget", "1.0", "widget-1.0.jar"))
	require.NoError(t, err)
	assert.Equal(t, "jar-bytes", string(data))
	assert.FileExists(t, filepath.Join(dest, "org", "other", "lib", "2.1", "lib-2.1.jar"))
}

func TestExportFlatUsesBaseNames(t *testing.T) {
	source := newFakeSource(t, "libs-release", syncFixtures())
	dest := t.TempDir()

	err := execute(t,
		"export", "libs-release",
		"--source-url", source.URL,
		"--dest", dest,
		"--flat",
		"--via", "assets",
		"--quiet",
		"--yes",
	)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dest, "widget-1.0.jar"))
	assert.FileExists(t, filepath.Join(dest, "widget-1.0.pom"))
	assert.FileExists(t, filepath.Join(dest, "lib-2.1.jar"))
}

func TestExportSkipsFilesAlreadyPresent(t *testing.T) {
	source := newFakeSource(t, "libs-release", []fakeArtifact{
		{path: "com/acme/widget/1.0/widget-1.0.jar", content: "jar-bytes"},
		{path: "com/acme/widget/1.0/widget-1.0.pom", content: "pom"},
	})
	dest := t.TempDir()

	present := filepath.Join(dest, "com", "acme", "widget", "1.0", "widget-1.0.jar")
	require.NoError(t, os.MkdirAll(filepath.Dir(present), 0o755))
	require.NoError(t, os.WriteFile(present, []byte("jar-bytes"), 0o644))

	err := execute(t,
		"export", "libs-release",
		"--source-url", source.URL,
		"--dest", dest,
		"--via", "assets",
		"--quiet",
		"--yes",
	)
	require.NoError(t, err)

	assert.Equal(t, 0, source.downloadCount("com/acme/widget/1.0/widget-1.0.jar"))
	assert.Equal(t, 1, source.downloadCount("com/acme/widget/1.0/widget-1.0.pom"))
}

func TestExportWarmRunsSecondPhase(t *testing.T) {
	source := newFakeSource(t, "libs-release", syncFixtures())
	target := newTargetRecorder(t, nil)
	dest := t.TempDir()

	err := execute(t,
		"export", "libs-release",
		"--source-url", source.URL,
		"--target-url", target.URL,
		"--dest", dest,
		"--via", "assets",
		"--warm",
		"--rate", "1000",
		"--quiet",
		"--yes",
	)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dest, "com", "acme", "widget", "1.0", "widget-1.0.jar"))
	assert.Len(t, target.probed(), 3)
}

func TestExportWithWarmRequiresTargetURL(t *testing.T) {
	err := execute(t,
		"export", "libs-release",
		"--source-url", "http://source.invalid",
		"--warm",
		"--yes",
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "target URL is required")
}

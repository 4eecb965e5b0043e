package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePathsFile(t *testing.T, lines string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), "paths.txt")
	require.NoError(t, os.WriteFile(file, []byte(lines), 0o644))
	return file
}

func TestValidatePassesWhenAllPresent(t *testing.T) {
	target := newTargetRecorder(t, nil)
	pathsFile := writePathsFile(t, "com/acme/widget-1.0.jar\norg/other/lib-2.1.jar\n")

	err := execute(t,
		"validate", "libs-release",
		"--target-url", target.URL,
		"--paths-file", pathsFile,
	)
	require.NoError(t, err)
	assert.Len(t, target.probed(), 2)
}

func TestValidateFailsOnMissingPath(t *testing.T) {
	target := newTargetRecorder(t, map[string]int{
		"/libs-release/org/other/lib-2.1.jar": 404,
	})
	pathsFile := writePathsFile(t, "# exported paths\n\ncom/acme/widget-1.0.jar\norg/other/lib-2.1.jar\n")

	err := execute(t,
		"validate", "libs-release",
		"--target-url", target.URL,
		"--paths-file", pathsFile,
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed: 1 missing, 0 probe errors")
	assert.Len(t, target.probed(), 2)
}

func TestValidateRequiresTargetURL(t *testing.T) {
	err := execute(t, "validate", "libs-release", "--paths-file", "paths.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "target URL is required")
}

func TestValidateDiscoversPathsFromSource(t *testing.T) {
	source := newFakeSource(t, "libs-release", syncFixtures())
	target := newTargetRecorder(t, nil)

	err := execute(t,
		"validate", "libs-release",
		"--source-url", source.URL,
		"--target-url", target.URL,
		"--via", "assets",
	)
	require.NoError(t, err)
	assert.Len(t, target.probed(), 3)
}

func TestReadPathsFile(t *testing.T) {
	file := writePathsFile(t, "# header comment\n\n  com/a.jar  \ncom/b.jar\n\n")

	paths, err := readPathsFile(file)
	require.NoError(t, err)
	assert.Equal(t, []string{"com/a.jar", "com/b.jar"}, paths)
}

func TestReadPathsFileMissing(t *testing.T) {
	_, err := readPathsFile(filepath.Join(t.TempDir(), "absent.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read paths file")
}

package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func coordsFixtures() []fakeArtifact {
	return []fakeArtifact{
		{path: "com/acme/widget/1.0/widget-1.0.jar", content: "j", group: "com.acme", artifact: "widget", version: "1.0"},
		{path: "com/acme/widget/1.0/widget-1.0.pom", content: "p", group: "com.acme", artifact: "widget", version: "1.0"},
		{path: "org/other/lib/2.1/lib-2.1.jar", content: "l", group: "org.other", artifact: "lib", version: "2.1"},
	}
}

func TestCoordsWritesPlainLines(t *testing.T) {
	source := newFakeSource(t, "libs-release", coordsFixtures())
	out := filepath.Join(t.TempDir(), "coords.txt")

	err := execute(t,
		"coords", "libs-release",
		"--source-url", source.URL,
		"--output", out,
	)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "com.acme:widget:1.0\norg.other:lib:2.1\n", string(data))
}

func TestCoordsWritesJSONInventory(t *testing.T) {
	source := newFakeSource(t, "libs-release", coordsFixtures())
	out := filepath.Join(t.TempDir(), "coords.json")

	err := execute(t,
		"coords", "libs-release",
		"--source-url", source.URL,
		"--output", out,
	)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	var coords []struct {
		Group    string `json:"group"`
		Artifact string `json:"artifact"`
		Version  string `json:"version"`
	}
	require.NoError(t, json.Unmarshal(data, &coords))
	require.Len(t, coords, 2)
	assert.Equal(t, "com.acme", coords[0].Group)
	assert.Equal(t, "widget", coords[0].Artifact)
	assert.Equal(t, "1.0", coords[0].Version)
	assert.Equal(t, "org.other", coords[1].Group)
}

func TestCoordsEmptyRepository(t *testing.T) {
	source := newFakeSource(t, "libs-release", nil)

	err := execute(t, "coords", "libs-release", "--source-url", source.URL)
	require.NoError(t, err)
}

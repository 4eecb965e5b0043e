package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReposListsRepositories(t *testing.T) {
	source := newFakeSource(t, "libs-release", nil)

	err := execute(t, "repos", "--source-url", source.URL)
	require.NoError(t, err)
}

func TestReposRequiresSourceURL(t *testing.T) {
	err := execute(t, "repos")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "source URL is required")
}

func TestReposRejectsArguments(t *testing.T) {
	err := execute(t, "repos", "libs-release")
	require.Error(t, err)
}

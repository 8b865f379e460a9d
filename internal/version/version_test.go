package version

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetVersion(t *testing.T) {
	assert.NotEmpty(t, GetVersion())
}

func TestGetBaseVersion(t *testing.T) {
	original := Version
	defer func() { Version = original }()

	Version = "1.2.3+build.42"
	assert.Equal(t, "1.2.3", GetBaseVersion())

	Version = "not-a-version"
	assert.Equal(t, "not-a-version", GetBaseVersion())
}

func TestGetInfo(t *testing.T) {
	info, err := GetInfo()
	require.NoError(t, err)

	assert.Equal(t, Version, info.Version)
	assert.NotNil(t, info.SemVer)
	assert.Contains(t, info.Platform, "/")
	assert.True(t, strings.HasPrefix(info.GoVersion, "go"))
}

func TestGetInfo_InvalidVersion(t *testing.T) {
	original := Version
	defer func() { Version = original }()

	Version = "bogus"
	_, err := GetInfo()
	assert.Error(t, err)
}

func TestGetFormattedVersion(t *testing.T) {
	originalCommit := GitCommit
	defer func() { GitCommit = originalCommit }()

	GitCommit = "unknown"
	formatted := GetFormattedVersion()
	assert.Contains(t, formatted, "dotshell v"+Version)
	assert.NotContains(t, formatted, "commit")

	GitCommit = "0123456789abcdef"
	formatted = GetFormattedVersion()
	assert.Contains(t, formatted, "commit 0123456")
}

func TestGetDetailedVersion(t *testing.T) {
	detailed := GetDetailedVersion()
	assert.Contains(t, detailed, "Git Commit:")
	assert.Contains(t, detailed, "Platform:")
}

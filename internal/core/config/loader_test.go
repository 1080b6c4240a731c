package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "aws-tools.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("PROFILE_NAME", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultProfile, cfg.AWS.Profile)
	assert.Equal(t, "jsonl", cfg.Output.Format)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadEnvSubstitution(t *testing.T) {
	t.Setenv("TEST_AWS_REGION", "eu-west-1")

	path := writeConfig(t, `
aws:
  profile: production
  region: ${TEST_AWS_REGION}
output:
  format: table
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.AWS.Profile)
	assert.Equal(t, "eu-west-1", cfg.AWS.Region)
	assert.Equal(t, "table", cfg.Output.Format)
}

func TestLoadProfileEnvFallback(t *testing.T) {
	t.Setenv("PROFILE_NAME", "staging")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "staging", cfg.AWS.Profile)
}

func TestLoadMalformedYAML(t *testing.T) {
	path := writeConfig(t, "aws: [not a mapping")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

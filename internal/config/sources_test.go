package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSources(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sources.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadSources_Defaults(t *testing.T) {
	path := writeSources(t, `
sources:
  - name: zenodo
    endpoint: https://zenodo.org/oai2d
    metadata_prefix: oai_datacite
    set: user-x
    fulltext:
      enabled: true
      allowed_domains: [zenodo.org]
      max_mb: 10
  - name: minimal
    endpoint: https://example.org/oai
`)

	cfg, err := LoadSources(path)
	require.NoError(t, err)
	require.Len(t, cfg.Sources, 2)

	full, err := cfg.FindSource("zenodo")
	require.NoError(t, err)
	assert.Equal(t, "oai_datacite", full.MetadataPrefix)
	assert.Equal(t, 10, full.Fulltext.MaxMB)
	assert.True(t, full.Fulltext.Enabled)

	minimal, err := cfg.FindSource("minimal")
	require.NoError(t, err)
	assert.Equal(t, "oai_dc", minimal.MetadataPrefix, "metadata prefix defaults to oai_dc")
	assert.Equal(t, DefaultMaxMB, minimal.Fulltext.MaxMB, "size cap gets the default")
	assert.False(t, minimal.Fulltext.Enabled)
}

func TestLoadSources_Errors(t *testing.T) {
	_, err := LoadSources(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	path := writeSources(t, "sources: [not: {valid")
	_, err = LoadSources(path)
	require.Error(t, err)
}

func TestFindSource_NotFound(t *testing.T) {
	path := writeSources(t, `
sources:
  - name: zenodo
    endpoint: https://zenodo.org/oai2d
`)
	cfg, err := LoadSources(path)
	require.NoError(t, err)

	_, err = cfg.FindSource("nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSourceNotFound))
}

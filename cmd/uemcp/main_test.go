package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gimmeDG/UnrealEngine5-mcp/internal/config"
)

func TestApplyFlags_OnlyExplicitFlagsOverride(t *testing.T) {
	opts, fs, err := parseFlags([]string{"--stub", "/tmp/unreal.py", "--cache-backend", "sqlite", "-k", "12"})
	require.NoError(t, err)

	cfg := config.Default()
	cfg.Logging.Level = "debug"
	applyFlags(cfg, opts, fs)

	assert.Equal(t, "/tmp/unreal.py", cfg.StubPath)
	assert.Equal(t, "sqlite", cfg.Cache.Backend)
	assert.Equal(t, 12, cfg.Search.TopK)
	assert.Equal(t, "debug", cfg.Logging.Level, "unset flags keep the file/env value")
	assert.Equal(t, config.Default().Cache.Dir, cfg.Cache.Dir)
}

func TestApplyFlags_EnvBelowFlags(t *testing.T) {
	t.Setenv("RAG_TOP_K", "7")

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Search.TopK)

	opts, fs, err := parseFlags([]string{"--top-k", "3"})
	require.NoError(t, err)
	applyFlags(cfg, opts, fs)
	assert.Equal(t, 3, cfg.Search.TopK)
}

func TestParseFlags_Unknown(t *testing.T) {
	_, _, err := parseFlags([]string{"--no-such-flag"})
	assert.Error(t, err)
}

func TestRun_InvalidConfig(t *testing.T) {
	err := run([]string{"--stub", t.TempDir() + "/missing.py", "--cache-dir", t.TempDir()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gimmeDG/UnrealEngine5-mcp/internal/storage"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"UEMCP_STUB_PATH", "UEMCP_CACHE_DIR", "UEMCP_CACHE_BACKEND", "UEMCP_METRICS_ADDR",
		"UEMCP_BM25_K1", "UEMCP_BM25_B", "RAG_TOP_K", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}
}

func writeStub(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "unreal.py")
	require.NoError(t, os.WriteFile(path, []byte("class Actor:\n    pass\n"), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultTopK, cfg.Search.TopK)
	assert.Equal(t, 1.5, cfg.Search.BM25.K1)
	assert.Equal(t, 0.75, cfg.Search.BM25.B)
	assert.Equal(t, storage.BackendFile, cfg.Cache.Backend)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Empty(t, cfg.Metrics.Addr)
	assert.Empty(t, cfg.Warnings)
}

func TestLoad_YAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "uemcp.yaml")
	content := `
stubPath: /opt/unreal/unreal.py
cache:
  dir: /var/cache/uemcp
  backend: sqlite
search:
  topK: 10
  bm25:
    k1: 1.2
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/opt/unreal/unreal.py", cfg.StubPath)
	assert.Equal(t, "/var/cache/uemcp", cfg.Cache.Dir)
	assert.Equal(t, storage.BackendSQLite, cfg.Cache.Backend)
	assert.Equal(t, 10, cfg.Search.TopK)
	assert.Equal(t, 1.2, cfg.Search.BM25.K1)
	// Untouched nested fields keep their defaults
	assert.Equal(t, 0.75, cfg.Search.BM25.B)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoad_JSONC(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "uemcp.jsonc")
	content := `{
  // Cache next to the stub
  "cache": {"dir": "/tmp/uemcp"},
  "search": {"topK": 7,},
}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/uemcp", cfg.Cache.Dir)
	assert.Equal(t, 7, cfg.Search.TopK)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "uemcp.yaml")
	require.NoError(t, os.WriteFile(path, []byte("search:\n  topK: 10\n"), 0644))

	t.Setenv("RAG_TOP_K", "3")
	t.Setenv("UEMCP_CACHE_BACKEND", "sqlite")
	t.Setenv("UEMCP_BM25_B", "0.5")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("UEMCP_METRICS_ADDR", ":9090")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Search.TopK)
	assert.Equal(t, storage.BackendSQLite, cfg.Cache.Backend)
	assert.Equal(t, 0.5, cfg.Search.BM25.B)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, ":9090", cfg.Metrics.Addr)
}

func TestLoad_InvalidEnvKeepsDefault(t *testing.T) {
	clearEnv(t)
	t.Setenv("RAG_TOP_K", "lots")
	t.Setenv("UEMCP_BM25_K1", "fast")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultTopK, cfg.Search.TopK)
	assert.Equal(t, 1.5, cfg.Search.BM25.K1)
	require.Len(t, cfg.Warnings, 2)
	assert.Contains(t, cfg.Warnings[0], "RAG_TOP_K")
	assert.Contains(t, cfg.Warnings[1], "UEMCP_BM25_K1")
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("search: [unclosed"), 0644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	stub := writeStub(t)

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "missing stub", mutate: func(c *Config) { c.StubPath = "/nonexistent/unreal.py" }, wantErr: "not found"},
		{name: "stub is directory", mutate: func(c *Config) { c.StubPath = filepath.Dir(stub) }, wantErr: "directory"},
		{name: "unknown backend", mutate: func(c *Config) { c.Cache.Backend = "redis" }, wantErr: "unknown cache backend"},
		{name: "top_k too small", mutate: func(c *Config) { c.Search.TopK = 0 }, wantErr: "top_k"},
		{name: "top_k too large", mutate: func(c *Config) { c.Search.TopK = 51 }, wantErr: "top_k"},
		{name: "bad b", mutate: func(c *Config) { c.Search.BM25.B = 1.5 }, wantErr: "b must be"},
		{name: "empty cache dir", mutate: func(c *Config) { c.Cache.Dir = "" }, wantErr: "cache directory"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.StubPath = stub
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	cfg := Default()
	cfg.StubPath = ""
	cfg.Search.TopK = 100
	cfg.Cache.Backend = "nope"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stub path is required")
	assert.Contains(t, err.Error(), "top_k")
	assert.Contains(t, err.Error(), "unknown cache backend")
}

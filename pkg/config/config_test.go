package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mayankojhaa/AI-BABA-PROJECT/pkg/store"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseFull(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
logging:
  level: debug
store:
  backend: sqlite
  sqlite:
    path: advice.db
models:
  embedding:
    - name: local-tei
      base_url: http://localhost:8081/v1
      model: all-MiniLM-L6-v2
  zero_shot:
    - name: local-bart
      url: http://localhost:8082/classify
ensemble:
  keyword_weight: 0.3
transcription:
  base_url: http://localhost:9010
`)

	cfg, err := Parse(path)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, store.SQLiteBackend, cfg.Store.Backend)
	require.Len(t, cfg.Models.Embedding, 1)
	assert.Equal(t, "all-MiniLM-L6-v2", cfg.Models.Embedding[0].Model)
	require.Len(t, cfg.Models.ZeroShot, 1)

	w := cfg.Ensemble.Weights()
	assert.Equal(t, 0.3, w.Keyword)
	assert.Equal(t, 0.4, w.Embedding)
	assert.Equal(t, 0.4, w.ZeroShot)
	assert.Equal(t, "http://localhost:9010", cfg.Transcription.BaseURL)
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(writeConfig(t, `{}`))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, store.MemoryBackend, cfg.Store.Backend)
}

func TestParseRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"bad level":         "logging:\n  level: verbose\n",
		"missing sqlite":    "store:\n  backend: sqlite\n",
		"embedding no name": "models:\n  embedding:\n    - model: m\n",
		"zero_shot no url":  "models:\n  zero_shot:\n    - name: x\n",
		"negative weight":   "ensemble:\n  keyword_weight: -0.1\n",
		"all zero weights":  "ensemble:\n  keyword_weight: 0\n  embedding_weight: 0\n  zero_shot_weight: 0\n",
	}
	for name, content := range cases {
		_, err := Parse(writeConfig(t, content))
		assert.Error(t, err, name)
	}
}

func TestParseMissingFile(t *testing.T) {
	_, err := Parse(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, store.MemoryBackend, cfg.Store.Backend)
}

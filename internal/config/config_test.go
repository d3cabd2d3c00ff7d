package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.WebSocket.Address)
	assert.Equal(t, "/ws", cfg.Server.WebSocket.Path)
	assert.Equal(t, ":9090", cfg.Server.GRPC.Address)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 60*time.Second, cfg.Match.TurnTimeLimit)
	assert.Equal(t, 20, cfg.Match.DeckSize)
	assert.Equal(t, "easy", cfg.Match.Difficulty)
	assert.Equal(t, CatalogBuiltin, cfg.Catalog.Source)
	assert.Equal(t, int32(10), cfg.Database.MaxConns)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
server:
  websocket:
    address: ":7000"
    tick_interval: 250ms
logging:
  level: debug
  format: json
match:
  turn_time_limit: 90s
  difficulty: hard
  seed: 1234
catalog:
  source: file
  path: cards.yaml
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":7000", cfg.Server.WebSocket.Address)
	assert.Equal(t, 250*time.Millisecond, cfg.Server.WebSocket.TickInterval)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 90*time.Second, cfg.Match.TurnTimeLimit)
	assert.Equal(t, "hard", cfg.Match.Difficulty)
	assert.Equal(t, uint64(1234), cfg.Match.Seed)
	assert.Equal(t, "cards.yaml", cfg.Catalog.Path)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("FANTASY_LOGGING_LEVEL", "warn")
	t.Setenv("FANTASY_MATCH_DECK_SIZE", "12")
	t.Setenv("FANTASY_DATABASE_URL", "postgres://localhost/cards")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, 12, cfg.Match.DeckSize)
	assert.Equal(t, "postgres://localhost/cards", cfg.Database.URL)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"bad level", "logging:\n  level: loud\n", "logging.level"},
		{"bad format", "logging:\n  format: xml\n", "logging.format"},
		{"short turn", "match:\n  turn_time_limit: 500ms\n", "turn_time_limit"},
		{"bad deck", "match:\n  deck_size: 0\n", "deck_size"},
		{"file without path", "catalog:\n  source: file\n", "catalog.path"},
		{"postgres without url", "catalog:\n  source: postgres\n", "database.url"},
		{"unknown source", "catalog:\n  source: s3\n", "catalog.source"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "server: [unclosed"))
	assert.Error(t, err)
}

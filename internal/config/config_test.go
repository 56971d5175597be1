package config

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoadConfigDefaults(t *testing.T) {
	cm := NewConfigManager()
	require.NoError(t, cm.LoadConfig(""))

	cfg := cm.GetConfig()
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, filepath.Join("./data", "moviegraph.db"), cfg.Database.DatabasePath)
	assert.Equal(t, "/graphql", cfg.GraphQL.Path)
	assert.Equal(t, int64(1<<20), cfg.GraphQL.MaxBodyBytes)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoadConfigFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "moviegraph.yaml")
	writeFile(t, path, `
server:
  port: 9090
database:
  type: sqlite
  data_dir: /var/lib/moviegraph
graphql:
  path: /api/graphql
  max_depth: 5
logging:
  level: debug
modules:
  disabled: [system.catalog]
`)

	cm := NewConfigManager()
	require.NoError(t, cm.LoadConfig(path))

	cfg := cm.GetConfig()
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "/var/lib/moviegraph/moviegraph.db", cfg.Database.DatabasePath)
	assert.Equal(t, "/api/graphql", cfg.GraphQL.Path)
	assert.Equal(t, 5, cfg.GraphQL.MaxDepth)
	// untouched keys keep their defaults
	assert.Equal(t, 10, cfg.GraphQL.MaxParallelism)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, []string{"system.catalog"}, cfg.Modules.Disabled)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "moviegraph.json")
	writeFile(t, path, `{"server": {"port": 9090}, "logging": {"level": "warn"}}`)

	t.Setenv("MOVIEGRAPH_PORT", "7070")
	t.Setenv("DB_SLOW_THRESHOLD", "1s")
	t.Setenv("MOVIEGRAPH_DISABLED_MODULES", "a, b")

	cm := NewConfigManager()
	require.NoError(t, cm.LoadConfig(path))

	cfg := cm.GetConfig()
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, time.Second, cfg.Database.SlowThreshold)
	assert.Equal(t, []string{"a", "b"}, cfg.Modules.Disabled)
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{"bad port", "server:\n  port: 70000\n", "invalid server port"},
		{"bad database", "database:\n  type: oracle\n", "unsupported database type"},
		{"bad path", "graphql:\n  path: graphql\n", "graphql path"},
		{"bad body limit", "graphql:\n  max_body_bytes: 0\n", "max body bytes"},
		{"bad log format", "logging:\n  format: xml\n", "unsupported log format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "moviegraph.yaml")
			writeFile(t, path, tt.content)

			cm := NewConfigManager()
			err := cm.LoadConfig(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoadConfigMissingFileAndFormat(t *testing.T) {
	cm := NewConfigManager()
	assert.Error(t, cm.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")))

	path := filepath.Join(t.TempDir(), "moviegraph.toml")
	writeFile(t, path, "port = 1")
	err := cm.LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported config file format")
}

func TestWatchersNotifiedOnReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "moviegraph.yaml")
	writeFile(t, path, "logging:\n  level: info\n")

	cm := NewConfigManager()
	require.NoError(t, cm.LoadConfig(path))

	var oldLevel, newLevel string
	cm.AddWatcher(func(oldConfig, newConfig *Config) {
		oldLevel = oldConfig.Logging.Level
		newLevel = newConfig.Logging.Level
		// watchers may read the manager without deadlocking
		_ = cm.GetConfig()
	})

	writeFile(t, path, "logging:\n  level: debug\n")
	require.NoError(t, cm.Reload())

	assert.Equal(t, "info", oldLevel)
	assert.Equal(t, "debug", newLevel)
}

func TestGlobalLoadAndWatcher(t *testing.T) {
	path := filepath.Join(t.TempDir(), "moviegraph.yaml")
	writeFile(t, path, "logging:\n  level: warn\n")

	var stdlog bytes.Buffer
	log.SetOutput(&stdlog)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	require.NoError(t, Load(path))
	assert.Equal(t, "warn", Get().Logging.Level)
	assert.Empty(t, stdlog.String())

	var reloaded atomic.Value
	AddWatcher(func(_, newConfig *Config) {
		reloaded.Store(newConfig.Logging.Level)
	})

	writeFile(t, path, "logging:\n  level: error\n")
	require.NoError(t, GetConfigManager().Reload())
	assert.Equal(t, "error", reloaded.Load())
}

func TestDatabaseDSN(t *testing.T) {
	sqlite := DatabaseFullConfig{Type: "sqlite", DatabasePath: "/data/moviegraph.db"}
	assert.Equal(t, "/data/moviegraph.db?_foreign_keys=on", sqlite.DSN())

	memory := DatabaseFullConfig{Type: "sqlite", DatabasePath: "file::memory:?cache=shared"}
	assert.Equal(t, "file::memory:?cache=shared&_foreign_keys=on", memory.DSN())

	pg := DatabaseFullConfig{Type: "postgres", Host: "db", Username: "movie", Password: "s3cret", Database: "films"}
	assert.Equal(t, "postgres://movie:s3cret@db:5432/films?sslmode=disable", pg.DSN())

	explicit := DatabaseFullConfig{Type: "postgres", URL: "postgres://x@y/z"}
	assert.Equal(t, "postgres://x@y/z", explicit.DSN())
}

func TestFileWatcherReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "moviegraph.yaml")
	writeFile(t, path, "logging:\n  level: info\n")

	cm := NewConfigManager()
	require.NoError(t, cm.LoadConfig(path))

	var reloads atomic.Int32
	cm.AddWatcher(func(_, newConfig *Config) {
		if strings.EqualFold(newConfig.Logging.Level, "debug") {
			reloads.Add(1)
		}
	})

	fw, err := NewFileWatcher(cm, hclog.NewNullLogger(), 20*time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, fw.Start())
	t.Cleanup(func() { _ = fw.Stop() })

	writeFile(t, path, "logging:\n  level: debug\n")

	assert.Eventually(t, func() bool {
		return reloads.Load() > 0
	}, 5*time.Second, 20*time.Millisecond)
	assert.Equal(t, "debug", cm.GetConfig().Logging.Level)
}

func TestNewFileWatcherRequiresPath(t *testing.T) {
	_, err := NewFileWatcher(NewConfigManager(), hclog.NewNullLogger(), 0)
	assert.Error(t, err)
}

package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/fpsync/internal/pipeline"
)

func TestDefault(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)

	assert.Equal(t, pipeline.ModeLoad, cfg.Mode)
	assert.Equal(t, "fpsync.db", cfg.Database)
	assert.Equal(t, pipeline.PollConfig{InitialDelay: 3 * time.Second, Interval: 2 * time.Second}, cfg.Poll)
	assert.Equal(t, 32, cfg.CatalogCacheSize)
	assert.Equal(t, LogConfig{Level: slog.LevelInfo, Format: "text"}, cfg.Log)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fpsync.cue")
	src := `
mode: "save"
database: "/var/lib/fpsync/journal.db"
poll: {
	interval:     "500ms"
	max_attempts: 20
}
log: {
	level:  "debug"
	format: "json"
	file:   "/var/log/fpsync.log"
}
`
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, pipeline.ModeSave, cfg.Mode)
	assert.Equal(t, "/var/lib/fpsync/journal.db", cfg.Database)
	assert.Equal(t, 3*time.Second, cfg.Poll.InitialDelay, "unset fields keep their default")
	assert.Equal(t, 500*time.Millisecond, cfg.Poll.Interval)
	assert.Equal(t, 20, cfg.Poll.MaxAttempts)
	assert.Equal(t, slog.LevelDebug, cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "/var/log/fpsync.log", cfg.Log.File)
}

func TestLoad_EmptyPathIsDefault(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, pipeline.ModeLoad, cfg.Mode)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.cue"))
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unknown field", `colour: "red"`},
		{"unknown mode", `mode: "sync"`},
		{"negative attempts", `poll: max_attempts: -1`},
		{"zero cache", `catalog_cache_size: 0`},
		{"bad duration", `poll: interval: "soon"`},
		{"negative duration", `poll: initial_delay: "-1s"`},
		{"empty database", `database: ""`},
		{"syntax", `mode: `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("fpsync.cue", []byte(tt.src))
			assert.Error(t, err)
		})
	}
}

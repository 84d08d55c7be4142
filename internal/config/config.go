// Package config loads the fpsync configuration file.
//
// The file is CUE and is unified with an embedded schema, so it may omit
// any field and may not add unknown ones.
package config

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"

	"github.com/roach88/fpsync/internal/pipeline"
)

//go:embed schema.cue
var schemaCUE []byte

// Config is the resolved configuration.
type Config struct {
	Mode             pipeline.Mode
	Database         string
	Poll             pipeline.PollConfig
	CatalogCacheSize int
	Log              LogConfig
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  slog.Level
	Format string
	// File is empty for stderr.
	File string
}

// raw mirrors the schema; CUE decodes through json tags.
type raw struct {
	Mode     string `json:"mode"`
	Database string `json:"database"`
	Poll     struct {
		InitialDelay string `json:"initial_delay"`
		Interval     string `json:"interval"`
		MaxAttempts  int    `json:"max_attempts"`
	} `json:"poll"`
	CatalogCacheSize int `json:"catalog_cache_size"`
	Log              struct {
		Level  string `json:"level"`
		Format string `json:"format"`
		File   string `json:"file"`
	} `json:"log"`
}

// Default returns the schema defaults.
func Default() (*Config, error) {
	return Parse("", nil)
}

// Load reads and validates the file at path. An empty path yields the
// defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(path, data)
}

// Parse validates CUE source against the schema. filename is used in
// error positions only.
func Parse(filename string, data []byte) (*Config, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileBytes(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compiling config schema: %w", err)
	}
	v := schema.LookupPath(cue.ParsePath("#Config"))

	if len(data) > 0 {
		user := ctx.CompileBytes(data, cue.Filename(filename))
		if err := user.Err(); err != nil {
			return nil, fmt.Errorf("parsing config: %s", formatCUEError(err))
		}
		v = v.Unify(user)
	}
	if err := v.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %s", formatCUEError(err))
	}

	var r raw
	if err := v.Decode(&r); err != nil {
		return nil, fmt.Errorf("invalid config: %s", formatCUEError(err))
	}
	return r.resolve()
}

func (r raw) resolve() (*Config, error) {
	mode, err := pipeline.ParseMode(r.Mode)
	if err != nil {
		return nil, err
	}
	initial, err := time.ParseDuration(r.Poll.InitialDelay)
	if err != nil {
		return nil, fmt.Errorf("poll.initial_delay: %w", err)
	}
	interval, err := time.ParseDuration(r.Poll.Interval)
	if err != nil {
		return nil, fmt.Errorf("poll.interval: %w", err)
	}
	if initial < 0 || interval < 0 {
		return nil, fmt.Errorf("poll durations must not be negative")
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(r.Log.Level)); err != nil {
		return nil, fmt.Errorf("log.level: %w", err)
	}

	return &Config{
		Mode:     mode,
		Database: r.Database,
		Poll: pipeline.PollConfig{
			InitialDelay: initial,
			Interval:     interval,
			MaxAttempts:  r.Poll.MaxAttempts,
		},
		CatalogCacheSize: r.CatalogCacheSize,
		Log: LogConfig{
			Level:  level,
			Format: r.Log.Format,
			File:   r.Log.File,
		},
	}, nil
}

// formatCUEError flattens a CUE error list into one line per error, with
// positions.
func formatCUEError(err error) string {
	return cueerrors.Details(err, nil)
}

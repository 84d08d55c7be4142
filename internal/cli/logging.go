package cli

import (
	"io"
	"log/slog"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/roach88/fpsync/internal/config"
)

// Log file rotation limits.
const (
	logMaxSizeMB  = 10
	logMaxBackups = 3
	logMaxAgeDays = 28
)

var (
	logMu   sync.Mutex
	logFile io.Closer
)

// setupLogging installs the default slog logger. Verbose forces debug
// level. Logs go to stderr unless a log file is configured.
func setupLogging(cfg config.LogConfig, verbose bool, stderr io.Writer) error {
	logMu.Lock()
	defer logMu.Unlock()

	level := cfg.Level
	if verbose {
		level = slog.LevelDebug
	}

	w := stderr
	if cfg.File != "" {
		lj := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    logMaxSizeMB,
			MaxBackups: logMaxBackups,
			MaxAge:     logMaxAgeDays,
		}
		logFile = lj
		w = lj
	}

	slog.SetDefault(slog.New(newHandler(w, cfg.Format, level)))
	return nil
}

func newHandler(w io.Writer, format string, level slog.Level) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if format == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// closeLogging closes the rotating log file, if any.
func closeLogging() error {
	logMu.Lock()
	defer logMu.Unlock()
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}

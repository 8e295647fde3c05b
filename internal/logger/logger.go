// Package logger holds the process-wide structured logger.
package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

type Config struct {
	// Writer receives log records. When nil, records go to Dir/eulerlab.log
	// if Dir is set and to stderr otherwise.
	Writer io.Writer
	Dir    string
	Debug  bool
	JSON   bool
}

var (
	mu      sync.RWMutex
	global  = slog.New(slog.NewTextHandler(io.Discard, nil))
	logFile *os.File
)

// Setup installs the global logger. The returned cleanup closes the log
// file, if any, and restores the discarding logger.
func Setup(cfg Config) (func() error, error) {
	w := cfg.Writer
	var f *os.File
	if w == nil {
		switch {
		case cfg.Dir != "":
			if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
				return nil, err
			}
			var err error
			f, err = os.OpenFile(filepath.Join(cfg.Dir, "eulerlab.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
			if err != nil {
				return nil, err
			}
			w = f
		default:
			w = os.Stderr
		}
	}

	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && a.Value.Kind() == slog.KindTime {
				a.Value = slog.StringValue(a.Value.Time().UTC().Format(time.RFC3339Nano))
			}
			return a
		},
	}
	if cfg.Debug {
		opts.Level = slog.LevelDebug
		opts.AddSource = true
	}

	var h slog.Handler
	if cfg.JSON {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}

	mu.Lock()
	prev := logFile
	global = slog.New(h)
	logFile = f
	mu.Unlock()

	if prev != nil {
		if err := prev.Close(); err != nil {
			L().Warn("logger.close_previous", "err", err)
		}
	}

	L().Debug("logger.initialized", "debug", cfg.Debug, "json", cfg.JSON)

	cleanup := func() error {
		mu.Lock()
		defer mu.Unlock()

		var cerr error
		if logFile != nil {
			cerr = logFile.Close()
		}
		logFile = nil
		global = slog.New(slog.NewTextHandler(io.Discard, nil))
		return cerr
	}
	return cleanup, nil
}

func L() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return global
}

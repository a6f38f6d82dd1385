package options

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/calnotes/pkg/store"
)

// LogOptions
type LogOptions struct {
	Level string
}

func AddLogArgs(cmd *cobra.Command, o *LogOptions) {
	cmd.PersistentFlags().StringVar(&o.Level, "log-level", "",
		"Log level: debug, info, warn or error. Overrides log.level from config.")
}

// Logger builds a text logger writing to w at the configured level.
func (o *LogOptions) Logger(cfg *store.Config, w io.Writer) *slog.Logger {
	level := o.Level
	if level == "" && cfg != nil {
		level = cfg.Log.Level
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)}))
}

// FileLogger logs to cfg's log file so a full screen UI stays clean. The
// returned closer must be called on exit.
func (o *LogOptions) FileLogger(cfg *store.Config) (*slog.Logger, io.Closer, error) {
	path := cfg.Log.File
	if path == "" {
		path = filepath.Join(cfg.BasePath(), "calnotes.log")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return o.Logger(cfg, f), f, nil
}

// ParseLevel maps a level name to slog, defaulting to info.
func ParseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return l
}

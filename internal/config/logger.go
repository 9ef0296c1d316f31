package config

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

func NewLogger(cfg *Config) *slog.Logger {
	return NewFileLogger(os.Stdout, cfg)
}

// NewFileLogger writes to f, with color only when f is a terminal.
func NewFileLogger(f *os.File, cfg *Config) *slog.Logger {
	return newLogger(f, cfg, isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

func newLogger(w io.Writer, cfg *Config, color bool) *slog.Logger {
	var handler slog.Handler

	if cfg.IsProduction() {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	} else {
		handler = tint.NewHandler(w, &tint.Options{
			AddSource:  cfg.IsDevelopment(),
			Level:      slog.LevelDebug,
			TimeFormat: time.TimeOnly,
			NoColor:    !color,
		})
	}

	return slog.New(handler)
}

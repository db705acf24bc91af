// Package logger configures the global zerolog logger and bridges it to
// log/slog for the ledger library.
package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup initializes the global logger. Format is "console" or "json";
// anything else falls back to console.
func Setup(level, format string) error {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(lvl)

	var logger zerolog.Logger
	switch strings.ToLower(format) {
	case "json":
		logger = zerolog.New(os.Stderr)
	default:
		logger = zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		})
	}
	log.Logger = logger.With().Timestamp().Logger()
	return nil
}

// WithComponent returns a logger with a component field.
func WithComponent(component string) zerolog.Logger {
	return log.Logger.With().Str("component", component).Logger()
}

// Slog returns a *slog.Logger that forwards to the global zerolog
// logger. The ledger library logs through log/slog.
func Slog() *slog.Logger {
	return slog.New(slogBridge{logger: log.Logger})
}

// slogBridge adapts zerolog as an slog.Handler.
type slogBridge struct {
	logger zerolog.Logger
	attrs  []slog.Attr
}

func (b slogBridge) Enabled(_ context.Context, level slog.Level) bool {
	return toZerologLevel(level) >= zerolog.GlobalLevel()
}

func (b slogBridge) Handle(_ context.Context, rec slog.Record) error {
	ev := b.logger.WithLevel(toZerologLevel(rec.Level))
	for _, a := range b.attrs {
		ev = ev.Interface(a.Key, a.Value.Any())
	}
	rec.Attrs(func(a slog.Attr) bool {
		ev = ev.Interface(a.Key, a.Value.Any())
		return true
	})
	ev.Msg(rec.Message)
	return nil
}

func (b slogBridge) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(b.attrs)+len(attrs))
	merged = append(merged, b.attrs...)
	merged = append(merged, attrs...)
	return slogBridge{logger: b.logger, attrs: merged}
}

func (b slogBridge) WithGroup(name string) slog.Handler {
	return slogBridge{logger: b.logger.With().Str("group", name).Logger(), attrs: b.attrs}
}

func toZerologLevel(level slog.Level) zerolog.Level {
	switch {
	case level >= slog.LevelError:
		return zerolog.ErrorLevel
	case level >= slog.LevelWarn:
		return zerolog.WarnLevel
	case level >= slog.LevelInfo:
		return zerolog.InfoLevel
	default:
		return zerolog.DebugLevel
	}
}

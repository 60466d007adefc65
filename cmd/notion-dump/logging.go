package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	logger  = slog.Default()
	logSink *lumberjack.Logger
)

// setupLogging logs text to stderr (debug level with --debug) and, with --log-file, JSON at debug
// level to a rotated file as well.
func setupLogging() error {
	level := slog.LevelInfo
	if Debug {
		level = slog.LevelDebug
	}
	var handler slog.Handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})

	if LogFile != "" {
		logSink = &lumberjack.Logger{
			Filename:   LogFile,
			MaxSize:    20, // megabytes
			MaxBackups: 5,
			MaxAge:     30, // days
		}
		handler = teeHandler{handler, slog.NewJSONHandler(logSink, &slog.HandlerOptions{Level: slog.LevelDebug})}
	}

	logger = slog.New(handler).With(slog.String("app", "notion-dump"))
	slog.SetDefault(logger)
	return nil
}

func closeLogging() error {
	if logSink == nil {
		return nil
	}
	return logSink.Close()
}

// teeHandler sends every record to all of its handlers.
type teeHandler []slog.Handler

func (t teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range t {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (t teeHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range t {
		if h.Enabled(ctx, r.Level) {
			errs = append(errs, h.Handle(ctx, r.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (t teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(teeHandler, len(t))
	for i, h := range t {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (t teeHandler) WithGroup(name string) slog.Handler {
	out := make(teeHandler, len(t))
	for i, h := range t {
		out[i] = h.WithGroup(name)
	}
	return out
}

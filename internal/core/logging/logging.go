// Package logging configures the runtime loggers.
//
// The main logger writes JSON lines to a file and human-readable text to
// stderr. Token usage from the generation APIs goes to a separate file so
// spend can be audited without grepping the run log.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Runtime bundles the configured loggers and their file handles.
type Runtime struct {
	Logger *slog.Logger
	Usage  *UsageLogger

	closers []io.Closer
}

// Close closes the underlying log files.
func (r *Runtime) Close() error {
	var firstErr error
	for _, c := range r.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// New builds the logger runtime. logPath and usagePath parents are created
// as needed. verbose lowers the level to debug.
func New(logPath, usagePath string, verbose bool) (*Runtime, error) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return nil, err
	}

	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}

	handler := teeHandler{
		slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level}),
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}),
	}

	rt := &Runtime{
		Logger:  slog.New(handler),
		closers: []io.Closer{f},
	}

	if usagePath != "" {
		uf, err := os.OpenFile(usagePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			f.Close()
			return nil, err
		}
		rt.Usage = &UsageLogger{logger: slog.New(slog.NewJSONHandler(uf, nil))}
		rt.closers = append(rt.closers, uf)
	}

	return rt, nil
}

// teeHandler fans records out to every wrapped handler.
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
	var firstErr error
	for _, h := range t {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
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

// UsageLogger records token usage from the generation APIs.
type UsageLogger struct {
	logger *slog.Logger
}

// Record writes one usage line.
func (u *UsageLogger) Record(model string, promptTokens, completionTokens, totalTokens int) {
	if u == nil {
		return
	}
	u.logger.Info("usage",
		"model", model,
		"prompt_tokens", promptTokens,
		"completion_tokens", completionTokens,
		"total_tokens", totalTokens,
	)
}

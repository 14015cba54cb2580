// Package logging configures log/slog for the server: INFO and WARN go to
// stdout, ERROR and above to stderr, colored when the stream is a terminal,
// and optionally everything to a plain-text log file.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// ParseLevel parses debug, info, warn or error.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}

// levelRouter sends records below ERROR to stdout and the rest to stderr.
// When file is set every enabled record is also written there.
type levelRouter struct {
	level  slog.Leveler
	stdout slog.Handler
	stderr slog.Handler
	file   slog.Handler
}

func (lr *levelRouter) Enabled(_ context.Context, level slog.Level) bool {
	return level >= lr.level.Level()
}

func (lr *levelRouter) Handle(ctx context.Context, r slog.Record) error {
	h := lr.stdout
	if r.Level >= slog.LevelError {
		h = lr.stderr
	}
	err := h.Handle(ctx, r)
	if lr.file != nil {
		if ferr := lr.file.Handle(ctx, r.Clone()); err == nil {
			err = ferr
		}
	}
	return err
}

func (lr *levelRouter) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := &levelRouter{
		level:  lr.level,
		stdout: lr.stdout.WithAttrs(attrs),
		stderr: lr.stderr.WithAttrs(attrs),
	}
	if lr.file != nil {
		out.file = lr.file.WithAttrs(attrs)
	}
	return out
}

func (lr *levelRouter) WithGroup(name string) slog.Handler {
	out := &levelRouter{
		level:  lr.level,
		stdout: lr.stdout.WithGroup(name),
		stderr: lr.stderr.WithGroup(name),
	}
	if lr.file != nil {
		out.file = lr.file.WithGroup(name)
	}
	return out
}

// NewHandler builds the routing handler over the given writers. file may
// be nil.
func NewHandler(level slog.Level, stdout, stderr, file io.Writer) slog.Handler {
	lr := &levelRouter{
		level:  level,
		stdout: consoleHandler(stdout, level),
		stderr: consoleHandler(stderr, level),
	}
	if file != nil {
		lr.file = slog.NewTextHandler(file, &slog.HandlerOptions{Level: level})
	}
	return lr
}

func consoleHandler(w io.Writer, level slog.Level) slog.Handler {
	return tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.DateTime,
		NoColor:    !isTerminal(w),
	})
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Setup installs the default logger. If logPath is non-empty all records
// are also appended to that file. The returned function closes the file.
func Setup(level slog.Level, logPath string) (func(), error) {
	var (
		file    io.Writer
		cleanup = func() {}
	)
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		file = f
		cleanup = func() { f.Close() }
	}

	slog.SetDefault(slog.New(NewHandler(level, os.Stdout, os.Stderr, file)))
	return cleanup, nil
}

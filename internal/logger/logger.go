package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"
)

var (
	mu            sync.RWMutex
	defaultLogger = slog.New(slog.NewTextHandler(io.Discard, nil))
	logLevel      = new(slog.LevelVar)
)

// Init installs a logger writing to output, filtered by cfg.
// It may be called again to reconfigure; nil output discards everything.
func Init(cfg Config, output io.Writer) {
	if output == nil {
		output = io.Discard
	}
	cfg.process()
	logLevel.Set(cfg.level)

	opts := slog.HandlerOptions{
		Level:     logLevel,
		AddSource: true,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.SourceKey {
				if source, ok := a.Value.Any().(*slog.Source); ok && source != nil {
					source.File = filepath.Base(source.File)
				}
			}
			if a.Key == slog.TimeKey {
				a.Value = slog.StringValue(a.Value.Time().Format(time.TimeOnly))
			}
			return a
		},
	}
	handler := newFilteringHandler(slog.NewTextHandler(output, &opts), &cfg)

	mu.Lock()
	defaultLogger = slog.New(handler)
	mu.Unlock()

	// PC=0 keeps the init line out of package/file filters.
	r := slog.NewRecord(time.Now(), slog.LevelInfo, "Logger initialized", 0)
	r.AddAttrs(slog.String("level", cfg.level.String()))
	_ = handler.Handle(context.Background(), r)
}

// Open resolves cfg.LogFilePath ("-" means stderr), initialises the logger
// on it and returns a closer for the file.
func Open(cfg Config) (io.Closer, error) {
	if cfg.LogFilePath == "" || cfg.LogFilePath == "-" {
		Init(cfg, os.Stderr)
		return io.NopCloser(nil), nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.LogFilePath), 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(cfg.LogFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file %q: %w", cfg.LogFilePath, err)
	}
	Init(cfg, f)
	return f, nil
}

// SetLevel changes the minimum level without rebuilding the handler.
func SetLevel(name string) error {
	level, ok := ParseLevel(name)
	if !ok {
		return fmt.Errorf("unknown log level %q", name)
	}
	logLevel.Set(level)
	return nil
}

// logAtLevel creates and logs a record at the specified level, capturing the correct caller source.
func logAtLevel(level slog.Level, attrs []slog.Attr, format string, args ...any) {
	mu.RLock()
	l := defaultLogger
	mu.RUnlock()

	// Check level early to avoid overhead of Callers and Sprintf if disabled
	if !l.Enabled(context.Background(), level) {
		return
	}

	var pcs [1]uintptr
	// Skip runtime.Callers, logAtLevel and the exported wrapper.
	runtime.Callers(3, pcs[:])

	r := slog.NewRecord(time.Now(), level, fmt.Sprintf(format, args...), pcs[0])
	r.AddAttrs(attrs...)
	_ = l.Handler().Handle(context.Background(), r)
}

// Debugf logs a debug message using Printf-style formatting.
func Debugf(format string, args ...any) {
	logAtLevel(slog.LevelDebug, nil, format, args...)
}

// DebugTagf logs a debug message carrying a tag that can be filtered on.
func DebugTagf(tag, format string, args ...any) {
	logAtLevel(slog.LevelDebug, []slog.Attr{slog.String(tagKey, tag)}, format, args...)
}

// Infof logs an info message using Printf-style formatting.
func Infof(format string, args ...any) {
	logAtLevel(slog.LevelInfo, nil, format, args...)
}

// Warnf logs a warning message using Printf-style formatting.
func Warnf(format string, args ...any) {
	logAtLevel(slog.LevelWarn, nil, format, args...)
}

// Errorf logs an error message using Printf-style formatting.
func Errorf(format string, args ...any) {
	logAtLevel(slog.LevelError, nil, format, args...)
}

// Get retrieves the configured logger instance.
func Get() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return defaultLogger
}

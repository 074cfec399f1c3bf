package observability

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"

	"jobcards-parser/internal/config"
)

// Logger is a leveled key/value logger. Messages go to stderr and, when a
// log path is configured, to a size-rotated file.
type Logger struct {
	slog   *slog.Logger
	closer io.Closer
}

func NewLogger(cfg config.ObservabilityConfig) *Logger {
	var w io.Writer = os.Stderr
	var closer io.Closer

	if cfg.LogPath != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.LogPath,
			MaxSize:    cfg.LogMaxSizeMB,
			MaxBackups: cfg.LogMaxBackups,
			MaxAge:     cfg.LogMaxAgeDays,
		}
		w = io.MultiWriter(os.Stderr, rotator)
		closer = rotator
	}

	return newLogger(w, parseLevel(cfg.LogLevel), closer)
}

// NewWriterLogger logs to w only. Useful in tests.
func NewWriterLogger(w io.Writer, level string) *Logger {
	return newLogger(w, parseLevel(level), nil)
}

// Nop discards everything.
func Nop() *Logger {
	return newLogger(io.Discard, slog.LevelError, nil)
}

func newLogger(w io.Writer, level slog.Level, closer io.Closer) *Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return &Logger{slog: slog.New(handler), closer: closer}
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l *Logger) Debug(msg string, fields ...interface{}) {
	l.slog.Debug(msg, fields...)
}

func (l *Logger) Info(msg string, fields ...interface{}) {
	l.slog.Info(msg, fields...)
}

func (l *Logger) Warn(msg string, fields ...interface{}) {
	l.slog.Warn(msg, fields...)
}

func (l *Logger) Error(msg string, fields ...interface{}) {
	l.slog.Error(msg, fields...)
}

// With returns a logger that adds fields to every record.
func (l *Logger) With(fields ...interface{}) *Logger {
	return &Logger{slog: l.slog.With(fields...), closer: l.closer}
}

// Close flushes and closes the rotating file, if any.
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

// Package logger provides a zap-based application logger.
package logger

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level is the minimum level a Logger writes.
type Level = zapcore.Level

const (
	LevelDebug = zapcore.DebugLevel
	LevelInfo  = zapcore.InfoLevel
	LevelWarn  = zapcore.WarnLevel
	LevelError = zapcore.ErrorLevel
)

// TraceIDFn extracts a trace id from a context. It may return "".
type TraceIDFn func(ctx context.Context) string

// Logger writes JSON entries tagged with the service name and, when the
// context carries one, the trace id.
type Logger struct {
	sugar     *zap.SugaredLogger
	traceIDFn TraceIDFn
}

// New builds a Logger writing to w.
func New(w io.Writer, level Level, service string, traceIDFn TraceIDFn) *Logger {
	enc := zap.NewProductionEncoderConfig()
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(enc), zapcore.AddSync(w), level)
	z := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)).With(zap.String("service", service))
	return &Logger{sugar: z.Sugar(), traceIDFn: traceIDFn}
}

// ParseLevel maps "debug", "info", "warn" or "error" to a Level.
func ParseLevel(s string) (Level, error) {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(strings.ToLower(s))); err != nil {
		return LevelInfo, fmt.Errorf("parse log level %q: %w", s, err)
	}
	return l, nil
}

// Debug logs msg at debug level with key/value pairs.
func (l *Logger) Debug(ctx context.Context, msg string, kv ...any) {
	l.sugar.Debugw(msg, l.withTrace(ctx, kv)...)
}

// Info logs msg at info level with key/value pairs.
func (l *Logger) Info(ctx context.Context, msg string, kv ...any) {
	l.sugar.Infow(msg, l.withTrace(ctx, kv)...)
}

// Warn logs msg at warn level with key/value pairs.
func (l *Logger) Warn(ctx context.Context, msg string, kv ...any) {
	l.sugar.Warnw(msg, l.withTrace(ctx, kv)...)
}

// Error logs msg at error level with key/value pairs.
func (l *Logger) Error(ctx context.Context, msg string, kv ...any) {
	l.sugar.Errorw(msg, l.withTrace(ctx, kv)...)
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error { return l.sugar.Sync() }

func (l *Logger) withTrace(ctx context.Context, kv []any) []any {
	if l.traceIDFn == nil || ctx == nil {
		return kv
	}
	if id := l.traceIDFn(ctx); id != "" {
		return append(kv, "trace_id", id)
	}
	return kv
}

// Package logger provides prefixed, coloured console loggers backed by zap.
package logger

import (
	"fmt"
	"io"

	"github.com/beka-birhanu/gridbot/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger writes leveled messages under a coloured name, e.g. "[APP]".
type Logger struct {
	zl *zap.Logger
}

// New creates a logger named prefix, painted with colour, writing to w at
// the level in config.Envs.LogLevel.
func New(prefix, colour string, w io.Writer) (*Logger, error) {
	return NewWithLevel(prefix, colour, w, config.Envs.LogLevel)
}

// NewWithLevel is New with an explicit level ("debug", "info", "warn", "error").
func NewWithLevel(prefix, colour string, w io.Writer, level string) (*Logger, error) {
	if w == nil {
		return nil, fmt.Errorf("logger %s: nil writer", prefix)
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("logger %s: %w", prefix, err)
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	encCfg.EncodeName = func(name string, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(fmt.Sprintf("%s[%s]%s", colour, name, config.ColorReset))
	}
	encCfg.CallerKey = ""

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), lvl)
	return &Logger{zl: zap.New(core).Named(prefix)}, nil
}

// Debug logs per-step detail.
func (l *Logger) Debug(msg string) { l.zl.Debug(msg) }

// Info logs a routine event.
func (l *Logger) Info(msg string) { l.zl.Info(msg) }

// Warning logs a recoverable problem.
func (l *Logger) Warning(msg string) { l.zl.Warn(msg) }

// Error logs a failure.
func (l *Logger) Error(msg string) { l.zl.Error(msg) }

// Sync flushes buffered output.
func (l *Logger) Sync() error { return l.zl.Sync() }

package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the application logger. Development mode writes human-readable
// console output; otherwise JSON lines.
func New(level string, development bool) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var cfg zap.Config
	if development {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	return cfg.Build()
}

// Writer adapts a zap logger to io.Writer so line-oriented loggers
// (access logs) end up in the same sink.
type Writer struct {
	log *zap.Logger
}

// NewWriter returns a Writer logging at info level.
func NewWriter(log *zap.Logger) *Writer {
	return &Writer{log: log}
}

// Write logs p as one line.
func (w *Writer) Write(p []byte) (int, error) {
	msg := strings.TrimRight(string(p), "\r\n")
	if msg != "" {
		w.log.Info(msg)
	}
	return len(p), nil
}

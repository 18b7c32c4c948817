package commands

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/erraggy/oasmcp/parser"
)

// Log formats accepted by --log-format.
const (
	LogFormatConsole = "console"
	LogFormatJSON    = "json"
)

// newLogger builds a zap logger writing to w.
func newLogger(w io.Writer, level, format string) (*zap.Logger, error) {
	var lvl zapcore.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = zap.DebugLevel
	case "info":
		lvl = zap.InfoLevel
	case "warn", "warning":
		lvl = zap.WarnLevel
	case "error":
		lvl = zap.ErrorLevel
	default:
		return nil, fmt.Errorf("invalid log level '%s'. Valid levels: debug, info, warn, error", level)
	}

	var encoder zapcore.Encoder
	switch format {
	case LogFormatConsole:
		encoder = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	case LogFormatJSON:
		encoderConfig := zap.NewProductionEncoderConfig()
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	default:
		return nil, fmt.Errorf("invalid log format '%s'. Valid formats: %s, %s", format, LogFormatConsole, LogFormatJSON)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(w), zap.NewAtomicLevelAt(lvl))
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}

// ZapAdapter implements parser.Logger over a zap SugaredLogger, so slog-style
// key-value pairs become zap fields.
type ZapAdapter struct {
	logger *zap.SugaredLogger
}

// NewZapAdapter wraps logger. The caller frame is moved past the adapter.
func NewZapAdapter(logger *zap.Logger) *ZapAdapter {
	return &ZapAdapter{logger: logger.WithOptions(zap.AddCallerSkip(1)).Sugar()}
}

// Debug implements parser.Logger.
func (a *ZapAdapter) Debug(msg string, attrs ...any) { a.logger.Debugw(msg, attrs...) }

// Info implements parser.Logger.
func (a *ZapAdapter) Info(msg string, attrs ...any) { a.logger.Infow(msg, attrs...) }

// Warn implements parser.Logger.
func (a *ZapAdapter) Warn(msg string, attrs ...any) { a.logger.Warnw(msg, attrs...) }

// Error implements parser.Logger.
func (a *ZapAdapter) Error(msg string, attrs ...any) { a.logger.Errorw(msg, attrs...) }

// With implements parser.Logger.
func (a *ZapAdapter) With(attrs ...any) parser.Logger {
	return &ZapAdapter{logger: a.logger.With(attrs...)}
}

var _ parser.Logger = (*ZapAdapter)(nil)

package logger

import (
	"os"

	"github.com/samvad-hq/aliasclient/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the object-logging surface shared by internal packages.
type Logger interface {
	InfoObj(msg, key string, obj interface{})
	DebugObj(msg, key string, obj interface{})
	WarnObj(msg, key string, obj interface{})
	ErrorObj(msg, key string, obj interface{})
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) InfoObj(string, string, interface{})  {}
func (NopLogger) DebugObj(string, string, interface{}) {}
func (NopLogger) WarnObj(string, string, interface{})  {}
func (NopLogger) ErrorObj(string, string, interface{}) {}

// Package-level logger to be used across packages after Init.
var S *zap.SugaredLogger

// Init initializes a zap SugaredLogger using settings from config. Output goes to
// stderr so stdout stays free for response bodies.
func Init(cfg *config.Config) (Logger, error) {
	var level zapcore.Level
	switch cfg.LogLevel {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn", "warning":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.AddSync(zapcore.Lock(os.Stderr)),
		level,
	)

	S = newSugared(core, cfg.AppName)
	return &objLogger{}, nil
}

// newSugared skips one frame so callers of the package-level helpers are reported.
func newSugared(core zapcore.Core, appName string) *zap.SugaredLogger {
	logger := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1), zap.AddStacktrace(zapcore.ErrorLevel))
	return logger.Sugar().With("app", appName)
}

// Close flushes any buffered loggers.
func Close() error {
	if S == nil {
		return nil
	}
	return S.Sync()
}

// objLogger routes the Logger interface to S, reporting the caller of the interface method.
type objLogger struct{}

func (*objLogger) InfoObj(msg, key string, obj interface{}) {
	ifaceLogger().Info(msg, zap.Any(key, obj))
}

func (*objLogger) DebugObj(msg, key string, obj interface{}) {
	ifaceLogger().Debug(msg, zap.Any(key, obj))
}

func (*objLogger) WarnObj(msg, key string, obj interface{}) {
	ifaceLogger().Warn(msg, zap.Any(key, obj))
}

func (*objLogger) ErrorObj(msg, key string, obj interface{}) {
	ifaceLogger().Error(msg, zap.Any(key, obj))
}

func ifaceLogger() *zap.Logger {
	if S == nil {
		return zap.NewNop()
	}
	return S.Desugar()
}

// Minimal object logging helpers -------------------------------------------------
// These log the given object as a structured field named `key`.
func InfoObj(msg, key string, obj interface{}) {
	if S == nil {
		return
	}
	S.Desugar().Info(msg, zap.Any(key, obj))
}

func DebugObj(msg, key string, obj interface{}) {
	if S == nil {
		return
	}
	S.Desugar().Debug(msg, zap.Any(key, obj))
}

func WarnObj(msg, key string, obj interface{}) {
	if S == nil {
		return
	}
	S.Desugar().Warn(msg, zap.Any(key, obj))
}

func ErrorObj(msg, key string, obj interface{}) {
	if S == nil {
		return
	}
	S.Desugar().Error(msg, zap.Any(key, obj))
}

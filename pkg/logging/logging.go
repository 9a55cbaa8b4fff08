// Package logging wires the shared structured logger to a zap sink.
package logging

import (
	"encoding/json"
	"strings"

	"github.com/Gobusters/ectologger"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config controls log output
type Config struct {
	Level       string
	Environment string
}

// New builds the application logger. Structured messages are rendered
// through a zap production core so output is JSON lines compatible
// with the rest of the platform's log shipping.
func New(config Config) (ectologger.Logger, func(), error) {
	zapConfig := zap.NewProductionConfig()
	if strings.EqualFold(config.Environment, "local") {
		zapConfig = zap.NewDevelopmentConfig()
	}
	zapConfig.Level = zap.NewAtomicLevelAt(parseLevel(config.Level))

	zapLogger, err := zapConfig.Build(zap.WithCaller(false))
	if err != nil {
		return nil, nil, err
	}

	logger := ectologger.NewEctoLogger(func(msg ectologger.EctoLogMessage) {
		payload, err := json.Marshal(msg)
		if err != nil {
			zapLogger.Error("unencodable log message")
			return
		}
		zapLogger.Info(string(payload))
	})

	cleanup := func() {
		_ = zapLogger.Sync()
	}
	return logger, cleanup, nil
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Noop returns a logger that discards everything, for tests.
func Noop() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

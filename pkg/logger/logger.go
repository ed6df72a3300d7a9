// Package logger builds the zap.Logger every other package in this
// module takes as a constructor argument.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggerConfig controls the verbosity and encoding of a constructed
// logger.
type LoggerConfig struct {
	// Debug enables debug-level logging and a human-readable console
	// encoder; otherwise the logger emits JSON at info level and above.
	Debug bool
}

// NewLogger builds a zap.Logger per cfg. A nil cfg is equivalent to
// &LoggerConfig{Debug: false}.
func NewLogger(cfg *LoggerConfig) (*zap.Logger, error) {
	if cfg == nil {
		cfg = &LoggerConfig{}
	}

	if cfg.Debug {
		zapCfg := zap.NewDevelopmentConfig()
		zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		return zapCfg.Build()
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	return zapCfg.Build()
}

package logger

import (
	commonlogger "github.com/OrangesCloud/wealist-advanced-go-pkg/logger"
	"go.uber.org/zap"
)

// New builds a zap logger writing to stderr for the given level ("debug",
// "info", "warn", "error") and encoding ("json" or "console").
// Unknown levels fall back to info, unknown encodings to json.
func New(level, encoding string) (*zap.Logger, error) {
	if encoding != "console" {
		encoding = "json"
	}
	return commonlogger.New(commonlogger.Config{
		Level:      level,
		OutputPath: "stderr",
		Format:     encoding,
	})
}

// ForService tags every entry of logger with the service name
func ForService(logger *zap.Logger, service string) *zap.Logger {
	return commonlogger.WithService(logger, service)
}

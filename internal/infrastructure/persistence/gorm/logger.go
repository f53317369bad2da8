package gorm

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm/logger"
)

// LogWriter forwards GORM log lines to zap
type LogWriter struct {
	logger *zap.Logger
}

// Printf implements logger.Writer
func (w *LogWriter) Printf(format string, args ...interface{}) {
	w.logger.Info(fmt.Sprintf(format, args...))
}

// NewLogger creates a GORM logger backed by zap. Level is the application
// level name; GORM is one step quieter than the application.
func NewLogger(log *zap.Logger, level string, slowThreshold time.Duration) logger.Interface {
	return logger.New(
		&LogWriter{logger: log.Named("gorm")},
		logger.Config{
			SlowThreshold:             slowThreshold,
			LogLevel:                  LogLevel(level),
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

// LogLevel maps an application level name to a GORM level
func LogLevel(level string) logger.LogLevel {
	switch level {
	case "debug":
		return logger.Info
	case "info":
		return logger.Warn
	case "warn", "error":
		return logger.Error
	default:
		return logger.Silent
	}
}

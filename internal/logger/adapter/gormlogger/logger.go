// Package gormlogger routes gorm statements through the global zerolog logger.
package gormlogger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Logger implements gorm's logger.Interface on top of zerolog.
type Logger struct {
	level gormlogger.LogLevel
	slow  time.Duration
}

// New creates a Logger reporting errors and statements slower than slow.
// A zero slow disables slow statement reporting.
func New(slow time.Duration) *Logger {
	return &Logger{level: gormlogger.Warn, slow: slow}
}

// LogMode implements gorm's logger.Interface.
func (l *Logger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	n := *l
	n.level = level

	return &n
}

// Info implements gorm's logger.Interface.
func (l *Logger) Info(_ context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Info {
		log.Info().Str("component", "gorm").Msg(fmt.Sprintf(msg, data...))
	}
}

// Warn implements gorm's logger.Interface.
func (l *Logger) Warn(_ context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Warn {
		log.Warn().Str("component", "gorm").Msg(fmt.Sprintf(msg, data...))
	}
}

// Error implements gorm's logger.Interface.
func (l *Logger) Error(_ context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Error {
		log.Error().Str("component", "gorm").Msg(fmt.Sprintf(msg, data...))
	}
}

// Trace implements gorm's logger.Interface.
// Missing records are not failures: the callers map them to their own errors.
func (l *Logger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)

	switch {
	case err != nil && l.level >= gormlogger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		sql, rows := fc()
		log.Error().Err(err).Str("component", "gorm").Dur("elapsed", elapsed).Int64("rows", rows).Str("sql", sql).
			Msg("database statement failed")
	case l.slow > 0 && elapsed > l.slow && l.level >= gormlogger.Warn:
		sql, rows := fc()
		log.Warn().Str("component", "gorm").Dur("elapsed", elapsed).Int64("rows", rows).Str("sql", sql).
			Msg("slow database statement")
	case l.level >= gormlogger.Info:
		sql, rows := fc()
		log.Debug().Str("component", "gorm").Dur("elapsed", elapsed).Int64("rows", rows).Str("sql", sql).
			Msg("database statement")
	}
}

// Package logging builds the process logger and the gorm logger bridged
// onto it.
package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/lmittmann/tint"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mytheresa/ecommerce-back-end/app/config"
)

// New creates a slog logger writing to w in the configured format.
func New(cfg config.Log, w io.Writer) *slog.Logger {
	var handler slog.Handler

	if cfg.Format == config.LogFormatJSON {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:     cfg.Level,
			AddSource: cfg.AddSource,
		})
	} else {
		handler = tint.NewHandler(w, &tint.Options{
			Level:      cfg.Level,
			AddSource:  cfg.AddSource,
			TimeFormat: time.RFC3339,
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				if a.Value.Kind() == slog.KindAny {
					if _, ok := a.Value.Any().(error); ok {
						return tint.Attr(9, a)
					}
				}
				return a
			},
		})
	}

	return slog.New(newEnrichedHandler(handler))
}

// NewGormLogger routes gorm's messages through logger with the query
// context, so records carry the request id. SQL statements are only traced
// when cfg.SQL is set; slow queries and errors are always reported.
func NewGormLogger(cfg config.Log, logger *slog.Logger) gormlogger.Interface {
	level := gormlogger.Warn
	if cfg.SQL {
		level = gormlogger.Info
	}

	return gormLogger{
		logger:        logger.With(slog.String("component", "gorm")),
		level:         level,
		slowThreshold: 200 * time.Millisecond,
	}
}

type gormLogger struct {
	logger        *slog.Logger
	level         gormlogger.LogLevel
	slowThreshold time.Duration
}

func (l gormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	l.level = level
	return l
}

func (l gormLogger) Info(ctx context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Info {
		l.logger.InfoContext(ctx, fmt.Sprintf(msg, args...))
	}
}

func (l gormLogger) Warn(ctx context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Warn {
		l.logger.WarnContext(ctx, fmt.Sprintf(msg, args...))
	}
}

func (l gormLogger) Error(ctx context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Error {
		l.logger.ErrorContext(ctx, fmt.Sprintf(msg, args...))
	}
}

func (l gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	attrs := func() []any {
		sql, rows := fc()
		return []any{
			slog.String("sql", sql),
			slog.Int64("rows", rows),
			slog.Duration("elapsed", elapsed),
		}
	}

	switch {
	case err != nil && l.level >= gormlogger.Error && !errors.Is(err, gormlogger.ErrRecordNotFound):
		l.logger.ErrorContext(ctx, "sql query failed", append(attrs(), slog.Any("error", err))...)
	case l.slowThreshold != 0 && elapsed > l.slowThreshold && l.level >= gormlogger.Warn:
		l.logger.WarnContext(ctx, "slow sql query", append(attrs(), slog.Duration("threshold", l.slowThreshold))...)
	case l.level >= gormlogger.Info:
		l.logger.InfoContext(ctx, "sql query", attrs()...)
	}
}

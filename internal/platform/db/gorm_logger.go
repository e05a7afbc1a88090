package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// slowQueryThreshold 以上かかったクエリは警告として記録する
const slowQueryThreshold = 200 * time.Millisecond

// zapGormLogger は gorm のログを zap に流します。
// SQL はプレースホルダーのまま記録し、パスワードハッシュなどのバインド値は出力しません。
type zapGormLogger struct {
	logger *zap.Logger
	level  gormlogger.LogLevel
}

var (
	_ gormlogger.Interface = (*zapGormLogger)(nil)
	_ gorm.ParamsFilter    = (*zapGormLogger)(nil)
)

// NewGormLogger returns a gorm logger that writes warnings and errors to logger.
func NewGormLogger(logger *zap.Logger) gormlogger.Interface {
	return &zapGormLogger{logger: logger.Named("gorm"), level: gormlogger.Warn}
}

func (l *zapGormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	cp := *l
	cp.level = level
	return &cp
}

func (l *zapGormLogger) Info(_ context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Info {
		l.logger.Info(fmt.Sprintf(msg, args...))
	}
}

func (l *zapGormLogger) Warn(_ context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Warn {
		l.logger.Warn(fmt.Sprintf(msg, args...))
	}
}

func (l *zapGormLogger) Error(_ context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Error {
		l.logger.Error(fmt.Sprintf(msg, args...))
	}
}

// Trace はクエリ1件ごとに呼ばれます。
func (l *zapGormLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)

	switch {
	// レコード未検出は呼び出し側で ErrNotFound に変換される
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.level >= gormlogger.Error:
		sql, rows := fc()
		l.logger.Warn("query failed", zap.Error(err), zap.String("sql", sql),
			zap.Int64("rows", rows), zap.Duration("elapsed", elapsed))
	case elapsed > slowQueryThreshold && l.level >= gormlogger.Warn:
		sql, rows := fc()
		l.logger.Warn("slow query", zap.String("sql", sql),
			zap.Int64("rows", rows), zap.Duration("elapsed", elapsed))
	case l.level >= gormlogger.Info:
		sql, rows := fc()
		l.logger.Debug("query", zap.String("sql", sql),
			zap.Int64("rows", rows), zap.Duration("elapsed", elapsed))
	}
}

// ParamsFilter drops bind values so they never reach the log.
func (l *zapGormLogger) ParamsFilter(_ context.Context, sql string, _ ...interface{}) (string, []interface{}) {
	return sql, nil
}

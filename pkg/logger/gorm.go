package logger

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"gorm.io/gorm"
	glog "gorm.io/gorm/logger"
)

// Gorm adapts a slog.Logger to gorm's logger.Interface so ORM traffic shares
// the process-wide JSON log stream.
type Gorm struct {
	l             *slog.Logger
	slowThreshold time.Duration
	level         glog.LogLevel
}

// NewGorm wraps l for use as a GORM logger. Record-not-found is not logged;
// it is an expected outcome surfaced to callers as a domain error.
func NewGorm(l *slog.Logger) *Gorm {
	return &Gorm{l: l, slowThreshold: 200 * time.Millisecond, level: glog.Warn}
}

func (g *Gorm) LogMode(level glog.LogLevel) glog.Interface {
	out := *g
	out.level = level
	return &out
}

func (g *Gorm) Info(ctx context.Context, msg string, args ...any) {
	if g.level >= glog.Info {
		g.l.InfoContext(ctx, "gorm", "msg", msg, "args", args)
	}
}

func (g *Gorm) Warn(ctx context.Context, msg string, args ...any) {
	if g.level >= glog.Warn {
		g.l.WarnContext(ctx, "gorm", "msg", msg, "args", args)
	}
}

func (g *Gorm) Error(ctx context.Context, msg string, args ...any) {
	if g.level >= glog.Error {
		g.l.ErrorContext(ctx, "gorm", "msg", msg, "args", args)
	}
}

func (g *Gorm) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if g.level <= glog.Silent {
		return
	}
	elapsed := time.Since(begin)

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		sql, rows := fc()
		g.l.ErrorContext(ctx, "query failed", "err", err, "sql", sql, "rows", rows, "duration_ms", float64(elapsed.Milliseconds()))
	case g.slowThreshold > 0 && elapsed > g.slowThreshold:
		sql, rows := fc()
		g.l.WarnContext(ctx, "slow query", "sql", sql, "rows", rows, "duration_ms", float64(elapsed.Milliseconds()))
	}
}

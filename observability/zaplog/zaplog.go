// Package zaplog adapts a zap sugared logger to the observability.Logger
// interface used across the pipeline.
package zaplog

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/docuscan/aadhaarkit/observability"
)

// New builds a console-encoded zap logger at the given level ("debug",
// "info", "warn", "error"). Unknown levels default to info.
func New(level string) observability.Logger {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	z := zap.New(zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.AddSync(os.Stdout),
		zap.NewAtomicLevelAt(lvl),
	), zap.AddCaller(), zap.AddCallerSkip(1))
	return &logger{z: z.Sugar()}
}

type logger struct {
	z *zap.SugaredLogger
}

func (l *logger) Debug(msg string, fields ...observability.Field) { l.z.Debugw(msg, kv(fields)...) }
func (l *logger) Info(msg string, fields ...observability.Field)  { l.z.Infow(msg, kv(fields)...) }
func (l *logger) Warn(msg string, fields ...observability.Field)  { l.z.Warnw(msg, kv(fields)...) }
func (l *logger) Error(msg string, fields ...observability.Field) { l.z.Errorw(msg, kv(fields)...) }

func (l *logger) With(fields ...observability.Field) observability.Logger {
	return &logger{z: l.z.With(kv(fields)...)}
}

func kv(fields []observability.Field) []interface{} {
	out := make([]interface{}, 0, len(fields)*2)
	for _, f := range fields {
		out = append(out, f.Key(), f.Value())
	}
	return out
}

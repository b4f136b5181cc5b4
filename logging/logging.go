package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger = zap.NewNop().Sugar()

// Init replaces the process logger. Level is one of debug/info/warn/error,
// anything else falls back to info.
func Init(level string) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	conf := zap.NewProductionConfig()
	conf.Level = zap.NewAtomicLevelAt(lvl)
	conf.DisableStacktrace = true

	l, err := conf.Build()
	if err != nil {
		return err
	}
	logger = l.Sugar()
	return nil
}

func L() *zap.SugaredLogger {
	return logger
}

func Sync() {
	_ = logger.Sync()
}

package logger

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	once   sync.Once
	logger *zap.SugaredLogger
)

// Init builds the process-wide logger. It is safe to call more than once;
// only the first call takes effect.
func Init(level, file string) error {
	var initErr error
	once.Do(func() {
		cfg := zap.NewProductionConfig()
		cfg.InitialFields = map[string]interface{}{
			"service": "weather-logger",
		}
		cfg.OutputPaths = []string{"stderr"}
		cfg.ErrorOutputPaths = []string{"stderr"}
		if file != "" {
			cfg.OutputPaths = []string{file}
			cfg.ErrorOutputPaths = []string{file}
		}

		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			lvl = zapcore.InfoLevel
		}
		cfg.Level = zap.NewAtomicLevelAt(lvl)

		l, err := cfg.Build()
		if err != nil {
			initErr = err
			logger = fallback()
			return
		}
		logger = l.Sugar()
	})
	return initErr
}

func fallback() *zap.SugaredLogger {
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.Lock(os.Stderr),
		zapcore.InfoLevel,
	)
	return zap.New(core).Sugar()
}

func get() *zap.SugaredLogger {
	if logger == nil {
		_ = Init("info", "")
	}
	return logger
}

// With returns a child logger carrying the given key/value pairs,
// e.g. With("lookup_id", id).
func With(args ...interface{}) *zap.SugaredLogger {
	return get().With(args...)
}

func Info(message string, v ...interface{}) {
	get().Infof(message, v...)
}

func Warn(message string, v ...interface{}) {
	get().Warnf(message, v...)
}

func Error(message string, v ...interface{}) {
	get().Errorf(message, v...)
}

func Debug(message string, v ...interface{}) {
	get().Debugf(message, v...)
}

// Sync flushes buffered entries. Call it before the process exits.
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}

package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var zapLog = zap.NewNop()

// InitLogger builds the process-wide logger. Entries go to stderr and to every
// extra path given (typically a .log file next to the outputs).
func InitLogger(level zapcore.Level, paths ...string) error {

	config := zap.NewDevelopmentConfig()
	config.Level = zap.NewAtomicLevelAt(level)
	config.OutputPaths = append([]string{"stderr"}, paths...)
	config.ErrorOutputPaths = []string{"stderr"}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("Jan _2 15:04:05.000000000")
	encoderConfig.StacktraceKey = "" // to hide stacktrace info
	config.EncoderConfig = encoderConfig

	built, err := config.Build(zap.AddCallerSkip(1))
	if err != nil {
		return err
	}
	zapLog = built
	return nil
}

// ParseLevel maps a config string ("debug", "info", ...) to a zap level.
// Unknown strings fall back to info.
func ParseLevel(s string) zapcore.Level {
	lvl, err := zapcore.ParseLevel(s)
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

// L exposes the underlying logger for packages that need a *zap.Logger,
// like the HTTP middleware.
func L() *zap.Logger {
	return zapLog.WithOptions(zap.AddCallerSkip(-1))
}

func Info(message string, fields ...zap.Field) {
	zapLog.Info(message, fields...)
}

func Warn(message string, fields ...zap.Field) {
	zapLog.Warn(message, fields...)
}

func Debug(message string, fields ...zap.Field) {
	zapLog.Debug(message, fields...)
}

func Error(message string, fields ...zap.Field) {
	zapLog.Error(message, fields...)
}

func Fatal(message string, fields ...zap.Field) {
	zapLog.Fatal(message, fields...)
}

// Sync flushes any buffered log entries
func Sync() error {
	return zapLog.Sync()
}

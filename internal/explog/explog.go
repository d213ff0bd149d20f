// Package explog wraps zap so call sites pass a message plus loose
// key/value pairs ("err", err, "gameId", id), never a pre-built
// structured event. Rotation is delegated to lumberjack.
package explog

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures the rotating file sink. An empty FilePath logs to
// stderr only (the dev/test default).
type Options struct {
	FilePath   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Debug      bool
}

// Logger is the sugared, key/value-style logger every other package
// takes as a dependency.
type Logger struct {
	s *zap.SugaredLogger
}

// New builds a Logger per opt: JSON to the rotating file (if configured)
// and human-readable console output to stderr, both at the configured
// level.
func New(opt Options) (*Logger, error) {
	level := zapcore.InfoLevel
	if opt.Debug {
		level = zapcore.DebugLevel
	}

	consoleEncoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	cores := []zapcore.Core{
		zapcore.NewCore(consoleEncoder, zapcore.Lock(zapcore.AddSync(os.Stderr)), level),
	}
	if opt.FilePath != "" {
		rotator := &lumberjack.Logger{
			Filename:   opt.FilePath,
			MaxSize:    defaultInt(opt.MaxSizeMB, 100),
			MaxBackups: defaultInt(opt.MaxBackups, 5),
			MaxAge:     defaultInt(opt.MaxAgeDays, 28),
			Compress:   true,
		}
		jsonEncoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
		cores = append(cores, zapcore.NewCore(jsonEncoder, zapcore.AddSync(rotator), level))
	}

	core := zapcore.NewTee(cores...)
	logger := zap.New(core, zap.AddCaller())
	return &Logger{s: logger.Sugar()}, nil
}

// Info logs msg at info level with kv as alternating key/value pairs.
func (l *Logger) Info(msg string, kv ...interface{}) { l.s.Infow(msg, kv...) }

// Warn logs msg at warn level. internal/httpapi's import handlers use
// this for rejected games.
func (l *Logger) Warn(msg string, kv ...interface{}) { l.s.Warnw(msg, kv...) }

// Error logs msg at error level.
func (l *Logger) Error(msg string, kv ...interface{}) { l.s.Errorw(msg, kv...) }

// Sync flushes any buffered log entries; call on shutdown.
func (l *Logger) Sync() error { return l.s.Sync() }

func defaultInt(n, fallback int) int {
	if n <= 0 {
		return fallback
	}
	return n
}

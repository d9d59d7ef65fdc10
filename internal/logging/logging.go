// Package logging builds the application logger.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the logging surface used across packages. *zap.SugaredLogger satisfies it.
type Logger interface {
	Debugf(template string, args ...any)
	Infof(template string, args ...any)
	Warnf(template string, args ...any)
	Errorf(template string, args ...any)
	Debugw(msg string, keysAndValues ...any)
	Infow(msg string, keysAndValues ...any)
	Warnw(msg string, keysAndValues ...any)
	Errorw(msg string, keysAndValues ...any)
	Sync() error
}

type options struct {
	name    string
	dir     string
	level   string
	console bool
}

// Option configures New.
type Option func(*options)

// Name sets the log file base name.
func Name(name string) Option { return func(o *options) { o.name = name } }

// Dir sets the directory for rotated log files.
func Dir(dir string) Option { return func(o *options) { o.dir = dir } }

// Level sets the minimum level (debug, info, warn, error).
func Level(level string) Option { return func(o *options) { o.level = level } }

// Console mirrors log output to stderr.
func Console(enabled bool) Option { return func(o *options) { o.console = enabled } }

// New returns a JSON logger writing to a rotated file under the configured directory.
func New(opts ...Option) (*zap.SugaredLogger, error) {
	o := options{name: "tuispeak", level: "info"}
	for _, opt := range opts {
		opt(&o)
	}
	level, err := zapcore.ParseLevel(o.level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", o.level, err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewJSONEncoder(encCfg)

	var cores []zapcore.Core
	if o.dir != "" {
		if err := os.MkdirAll(o.dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		rotator := &lumberjack.Logger{
			Filename:   filepath.Join(o.dir, o.name+".log"),
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
		}
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(rotator), level))
	}
	if o.console {
		consoleEnc := zapcore.NewConsoleEncoder(encCfg)
		cores = append(cores, zapcore.NewCore(consoleEnc, zapcore.Lock(os.Stderr), level))
	}
	if len(cores) == 0 {
		return zap.NewNop().Sugar(), nil
	}
	return zap.New(zapcore.NewTee(cores...)).Sugar().Named(o.name), nil
}

// NewNop returns a logger that discards everything.
func NewNop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

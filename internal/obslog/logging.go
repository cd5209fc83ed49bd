// Package obslog adapts the teacher's colored console logger to a
// structured zap backend, the way rpkirtr2's internal/logging package
// configures zap: console encoding, ISO8601 timestamps, level selected
// from a string. The ANSI banner/section art is kept for the example CLI
// binaries; the line-oriented Debug/Info/Warn/Error/Success calls now
// route through a *zap.SugaredLogger instead of the standard log package.
package obslog

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ANSI color codes, used only by the banner/section console art below.
const (
	colorReset  = "\033[0m"
	colorCyan   = "\033[36m"
	colorGreen  = "\033[32m"
)

// Logger wraps a *zap.SugaredLogger with the teacher's level-gated helper
// methods.
type Logger struct {
	z *zap.SugaredLogger
}

// New builds a Logger at the given level ("debug", "info", "warn",
// "error"; defaults to "info"), mirroring rpkirtr2/internal/logging.New.
func New(level string) *Logger {
	var zapLevel zapcore.Level
	switch strings.ToLower(level) {
	case "debug":
		zapLevel = zap.DebugLevel
	case "warn":
		zapLevel = zap.WarnLevel
	case "error":
		zapLevel = zap.ErrorLevel
	default:
		zapLevel = zap.InfoLevel
	}

	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      false,
		Encoding:         "console",
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "ts",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "caller",
			MessageKey:     "msg",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.CapitalColorLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
	}

	built, err := cfg.Build()
	if err != nil {
		panic("obslog: cannot initialize logger: " + err.Error())
	}
	return &Logger{z: built.Sugar()}
}

// Noop returns a Logger that discards everything, for use as a default
// when the caller doesn't want any output (e.g. in unit tests).
func Noop() *Logger {
	return &Logger{z: zap.NewNop().Sugar()}
}

func (l *Logger) Debug(format string, args ...interface{})   { l.z.Debugf(format, args...) }
func (l *Logger) Info(format string, args ...interface{})    { l.z.Infof(format, args...) }
func (l *Logger) Warn(format string, args ...interface{})    { l.z.Warnf(format, args...) }
func (l *Logger) Error(format string, args ...interface{})   { l.z.Errorf(format, args...) }
func (l *Logger) Success(format string, args ...interface{}) { l.z.Infof("[OK] "+format, args...) }

// Fatal logs a fatal error and exits, matching the teacher's behavior.
func (l *Logger) Fatal(format string, args ...interface{}) {
	l.z.Errorf(format, args...)
	os.Exit(1)
}

// Section prints a console section header, kept verbatim from the
// teacher's banner art for the example CLI binaries.
func Section(title string) {
	border := strings.Repeat("═", 61)
	fmt.Printf("\n%s╔%s╗%s\n", colorCyan, border, colorReset)
	fmt.Printf("%s║%s %-57s %s║%s\n", colorCyan, colorReset, title, colorCyan, colorReset)
	fmt.Printf("%s╚%s╝%s\n\n", colorCyan, border, colorReset)
}

// Banner prints the application banner.
func Banner(title, version string) {
	fmt.Printf("%s== %s ==%s  (v%s)\n", colorGreen, title, colorReset, version)
}

package common

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/lni/dragonboat/v4/logger"
)

// loggerNames lists every package logger. Each package declares
// `var plog = logger.GetLogger(<name>)`.
var loggerNames = []string{"nodetree", "object", "csav", "cnodes", "cli"}

var levelLabels = map[logger.LogLevel]string{
	logger.DEBUG:   "DEBUG",
	logger.INFO:    "INFO",
	logger.WARNING: "WARN",
	logger.ERROR:   "ERROR",
}

// lineLogger is a logger.ILogger writing one "LEVEL | pkg | message" line per call.
type lineLogger struct {
	pkg   string
	level logger.LogLevel
	out   *log.Logger
}

// NewLogger returns a package logger writing to w at level WARNING.
func NewLogger(pkg string, w io.Writer) logger.ILogger {
	return &lineLogger{pkg: pkg, level: logger.WARNING, out: log.New(w, "", log.Ltime)}
}

// CreateLogger is the logger.Factory installed by InitLoggers. Diagnostics go
// to stderr, stdout is reserved for dumps.
func CreateLogger(pkg string) logger.ILogger {
	return NewLogger(pkg, os.Stderr)
}

func (l *lineLogger) SetLevel(level logger.LogLevel) { l.level = level }

func (l *lineLogger) Debugf(format string, args ...any)   { l.emit(logger.DEBUG, format, args) }
func (l *lineLogger) Infof(format string, args ...any)    { l.emit(logger.INFO, format, args) }
func (l *lineLogger) Warningf(format string, args ...any) { l.emit(logger.WARNING, format, args) }
func (l *lineLogger) Errorf(format string, args ...any)   { l.emit(logger.ERROR, format, args) }

func (l *lineLogger) Panicf(format string, args ...any) {
	panic(fmt.Sprintf(format, args...))
}

func (l *lineLogger) emit(level logger.LogLevel, format string, args []any) {
	if level > l.level {
		return
	}
	l.out.Printf("%-5s | %-8s | %s", levelLabels[level], l.pkg, fmt.Sprintf(format, args...))
}

// ParseLogLevel converts a level name to a logger.LogLevel.
func ParseLogLevel(level string) (logger.LogLevel, error) {
	for lvl, label := range levelLabels {
		if strings.EqualFold(level, label) {
			return lvl, nil
		}
	}
	if strings.EqualFold(level, "warning") {
		return logger.WARNING, nil
	}
	return 0, fmt.Errorf("invalid log level: %s. must be one of debug, info, warn, error", level)
}

// InitLoggers installs CreateLogger and sets the level of every package logger.
func InitLoggers(level string) error {
	lvl, err := ParseLogLevel(level)
	if err != nil {
		return err
	}
	logger.SetLoggerFactory(CreateLogger)
	for _, name := range loggerNames {
		logger.GetLogger(name).SetLevel(lvl)
	}
	return nil
}

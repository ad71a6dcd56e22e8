package observability

import (
	"fmt"
	"log"
	"os"
	"strings"
)

type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	With(fields ...Field) Logger
}

type Field interface {
	Key() string
	Value() interface{}
}

type stringField struct{ key, val string }

func (f stringField) Key() string        { return f.key }
func (f stringField) Value() interface{} { return f.val }

type intField struct {
	key string
	val int
}

func (f intField) Key() string        { return f.key }
func (f intField) Value() interface{} { return f.val }

type int64Field struct {
	key string
	val int64
}

func (f int64Field) Key() string        { return f.key }
func (f int64Field) Value() interface{} { return f.val }

type errorField struct {
	key string
	err error
}

func (f errorField) Key() string        { return f.key }
func (f errorField) Value() interface{} { return f.err }

func String(key, value string) Field      { return stringField{key, value} }
func Int(key string, value int) Field     { return intField{key, value} }
func Int64(key string, value int64) Field { return int64Field{key, value} }
func Error(key string, err error) Field   { return errorField{key, err} }

type NopLogger struct{}

func (NopLogger) Debug(string, ...Field) {}
func (NopLogger) Info(string, ...Field)  {}
func (NopLogger) Warn(string, ...Field)  {}
func (NopLogger) Error(string, ...Field) {}
func (NopLogger) With(...Field) Logger   { return NopLogger{} }

// StderrLogger writes one line per event to standard error. It is the
// default logger for the command-line tool.
type StderrLogger struct {
	MinLevel Level
	bound    []Field
	l        *log.Logger
}

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func NewStderrLogger(min Level) *StderrLogger {
	return &StderrLogger{MinLevel: min, l: log.New(os.Stderr, "", log.LstdFlags)}
}

func (s *StderrLogger) emit(lvl Level, name, msg string, fields []Field) {
	if lvl < s.MinLevel {
		return
	}
	var b strings.Builder
	b.WriteString(name)
	b.WriteByte(' ')
	b.WriteString(msg)
	for _, f := range s.bound {
		fmt.Fprintf(&b, " %s=%v", f.Key(), f.Value())
	}
	for _, f := range fields {
		fmt.Fprintf(&b, " %s=%v", f.Key(), f.Value())
	}
	s.l.Print(b.String())
}

func (s *StderrLogger) Debug(msg string, fields ...Field) { s.emit(LevelDebug, "DEBUG", msg, fields) }
func (s *StderrLogger) Info(msg string, fields ...Field)  { s.emit(LevelInfo, "INFO", msg, fields) }
func (s *StderrLogger) Warn(msg string, fields ...Field)  { s.emit(LevelWarn, "WARN", msg, fields) }
func (s *StderrLogger) Error(msg string, fields ...Field) { s.emit(LevelError, "ERROR", msg, fields) }

func (s *StderrLogger) With(fields ...Field) Logger {
	bound := make([]Field, 0, len(s.bound)+len(fields))
	bound = append(bound, s.bound...)
	bound = append(bound, fields...)
	return &StderrLogger{MinLevel: s.MinLevel, bound: bound, l: s.l}
}

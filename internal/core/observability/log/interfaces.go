package log

import (
	"fmt"
	"time"
)

// Log is the structured logger handed to every component.
type Log interface {
	Log(level Level, msg string, fields ...Field)

	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	Fatal(msg string, fields ...Field)

	// With and Named derive a child sharing the parent's level.
	With(fields ...Field) Log
	Named(name string) Log
	Sync() error

	SetLevel(level Level)
	GetLevel() Level
}

// Level is a logging priority. Higher levels are more important.
type Level uint8

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

// Field is one typed key/value pair attached to an entry.
type Field struct {
	Key   string
	Type  FieldType
	Value any
}

type FieldType uint8

const (
	UnknownType FieldType = iota
	DurationType
	Float32Type
	IntType
	StringType
	StringerType
	Uint64Type
	ErrorType
)

func Duration(key string, val time.Duration) Field {
	return Field{Key: key, Type: DurationType, Value: val}
}

func Float32(key string, val float32) Field { return Field{Key: key, Type: Float32Type, Value: val} }
func Int(key string, val int) Field         { return Field{Key: key, Type: IntType, Value: val} }
func String(key, val string) Field          { return Field{Key: key, Type: StringType, Value: val} }
func Uint64(key string, val uint64) Field   { return Field{Key: key, Type: Uint64Type, Value: val} }

// Stringer defers String() until the entry is actually written.
func Stringer(key string, val fmt.Stringer) Field {
	return Field{Key: key, Type: StringerType, Value: val}
}

// Error attaches err under the "error" key.
func Error(err error) Field {
	return Field{Key: "error", Type: ErrorType, Value: err}
}

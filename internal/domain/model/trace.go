package model

import "time"

// LogTrace is an error reported by a frontend client.
type LogTrace struct {
	ID          int64
	MachineName string
	Logged      time.Time
	Level       TraceLevel
	Message     string
}

// TraceLevel is the severity of a frontend trace.
type TraceLevel string

const (
	TraceLevelDebug TraceLevel = "DEBUG"
	TraceLevelInfo  TraceLevel = "INFO"
	TraceLevelWarn  TraceLevel = "WARN"
	TraceLevelError TraceLevel = "ERROR"
	TraceLevelFatal TraceLevel = "FATAL"
)

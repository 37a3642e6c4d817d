package types

type RunMode string

const (
	// ModeAPI is the mode for running the API server
	ModeAPI RunMode = "api"
	// ModeScheduler is the mode for running the monthly scheduler loop
	ModeScheduler RunMode = "scheduler"
)

type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
)

package constants

// Level is the log level attached to a worker record. The worker emits a
// fifth level, "summary", for records that carry measurement payloads.
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
	LevelDebug   Level = "debug"
	LevelSummary Level = "summary"
)

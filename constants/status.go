package constants

// StageStatus is the derived state of one pipeline stage. It is recomputed
// from the record history on every reconstruction and never stored.
type StageStatus string

// Stable values (serialized as-is in API responses).
const (
	StageIdle    StageStatus = "idle"    // no records yet, or skipped
	StageRunning StageStatus = "running" // current stage with records, run still open
	StageDone    StageStatus = "done"    // stage completed
	StageError   StageStatus = "error"   // stage has at least one error record
)

package logstream

import (
	"encoding/json"

	"github.com/hendrikb/pipeline-monitor/internal/entity"
)

// WrapperMessage marks a passthrough record whose real payload is a
// serialized record inside data.output. The worker-side plumbing wraps any
// stdout line that is not already a structured log this way.
const WrapperMessage = "Python Output"

// Normalize canonicalizes one raw record. Wrapper records are replaced by
// their parsed inner record, inheriting the wrapper's timestamp and stage
// where the inner record lacks them. Unwrapping runs to a fixed point, so
// normalizing an already-normalized record is a no-op. A wrapper whose
// payload does not parse is emitted as-is; records are never dropped.
func Normalize(rec entity.LogRecord) entity.LogRecord {
	for {
		inner, ok := unwrap(rec)
		if !ok {
			break
		}
		rec = inner
	}
	if len(rec.Data) == 0 {
		rec.Data = nil
	}
	return rec
}

// NormalizeAll applies Normalize to every record in ingestion order.
func NormalizeAll(recs []entity.LogRecord) []entity.LogRecord {
	out := make([]entity.LogRecord, 0, len(recs))
	for _, rec := range recs {
		out = append(out, Normalize(rec))
	}
	return out
}

func unwrap(rec entity.LogRecord) (entity.LogRecord, bool) {
	if rec.Message != WrapperMessage {
		return rec, false
	}
	payload, ok := rec.DataString("output")
	if !ok {
		return rec, false
	}
	var inner entity.LogRecord
	if err := json.Unmarshal([]byte(payload), &inner); err != nil {
		return rec, false
	}
	if inner.Message == "" {
		return rec, false
	}
	if inner.Timestamp == "" {
		inner.Timestamp = rec.Timestamp
	}
	if inner.Stage == "" {
		inner.Stage = rec.Stage
	}
	return inner, true
}

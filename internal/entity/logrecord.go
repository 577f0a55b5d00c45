package entity

import (
	"encoding/json"

	"github.com/hendrikb/pipeline-monitor/constants"
)

// LogRecord is one unit of the worker's log stream. Records are immutable
// once ingested; Data is an open map whose schema depends on (level, message).
type LogRecord struct {
	Level     constants.Level `json:"level"`
	Message   string          `json:"message"`
	Data      map[string]any  `json:"data,omitempty"`
	Timestamp string          `json:"timestamp,omitempty"`
	Stage     string          `json:"stage,omitempty"`
}

// UnmarshalJSON accepts both "stage" and the worker's legacy "step" key.
// A data field that is not a JSON object is coerced away instead of
// failing the record; the message and its classification survive.
func (r *LogRecord) UnmarshalJSON(b []byte) error {
	type plain LogRecord
	aux := struct {
		*plain
		Data json.RawMessage `json:"data,omitempty"`
		Step string          `json:"step,omitempty"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	if len(aux.Data) > 0 {
		var m map[string]any
		if err := json.Unmarshal(aux.Data, &m); err == nil {
			r.Data = m
		}
	}
	if r.Stage == "" {
		r.Stage = aux.Step
	}
	return nil
}

// DataString returns Data[key] if it is a string.
func (r LogRecord) DataString(key string) (string, bool) {
	if r.Data == nil {
		return "", false
	}
	s, ok := r.Data[key].(string)
	return s, ok
}

// DataNumber returns Data[key] if it is numeric. JSON decoding yields
// float64 for all numbers, so that is the only case checked.
func (r LogRecord) DataNumber(key string) (float64, bool) {
	if r.Data == nil {
		return 0, false
	}
	f, ok := r.Data[key].(float64)
	return f, ok
}

// HasData reports whether the record carries a non-empty payload.
func (r LogRecord) HasData() bool {
	return len(r.Data) > 0
}

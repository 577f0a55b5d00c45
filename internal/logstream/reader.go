package logstream

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hendrikb/pipeline-monitor/constants"
	"github.com/hendrikb/pipeline-monitor/internal/entity"
)

// maxLineBytes caps a single log line; stitched-image payloads stay far
// below this, anything larger is worker misbehavior.
const maxLineBytes = 1 << 20

// ReadHistory reads the persisted newline-delimited JSON log store and
// returns the normalized record history. A missing file is an empty
// history, not an error.
func ReadHistory(path string) ([]entity.LogRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log store: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads one record per line from r. Unparsable lines are kept as
// debug-level passthrough records carrying the raw text; the fold never
// aborts on a bad line.
func Decode(r io.Reader) ([]entity.LogRecord, error) {
	var recs []entity.LogRecord
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var rec entity.LogRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			rec = entity.LogRecord{
				Level:   constants.LevelDebug,
				Message: "Unparsable line",
				Data:    map[string]any{"raw": line},
			}
		}
		recs = append(recs, Normalize(rec))
	}
	if err := sc.Err(); err != nil {
		return recs, fmt.Errorf("scan log store: %w", err)
	}
	return recs, nil
}

// Append persists one raw record line to the store. The stored line is the
// record's canonical JSON encoding, one record per line.
func Append(path string, rec entity.LogRecord) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log store: %w", err)
	}
	defer f.Close()
	if _, err := f.Write(append(b, '\n')); err != nil {
		return fmt.Errorf("append record: %w", err)
	}
	return nil
}

package logstream

import "github.com/hendrikb/pipeline-monitor/internal/entity"

// Run is a maximal contiguous slice of the record history, closed by a
// terminal sentinel or left open if the worker is still writing.
type Run struct {
	Records []entity.LogRecord `json:"records"`
	Closed  bool               `json:"closed"`
}

// SplitRuns walks the full (normalized) history and closes a run at every
// record whose message isSentinel reports as terminal. A trailing non-empty
// buffer becomes an open run. The empty history yields no runs.
func SplitRuns(history []entity.LogRecord, isSentinel func(string) bool) []Run {
	var runs []Run
	var current []entity.LogRecord
	for _, rec := range history {
		current = append(current, rec)
		if isSentinel(rec.Message) {
			runs = append(runs, Run{Records: current, Closed: true})
			current = nil
		}
	}
	if len(current) > 0 {
		runs = append(runs, Run{Records: current})
	}
	return runs
}

// SelectLatest picks the run to surface: the last one, unless that run is
// nothing but the exit-code echo of the run before it, in which case the
// previous run is preferred. Selecting from an already-selected single run
// returns it unchanged; no runs yield an empty open run.
func SelectLatest(runs []Run) Run {
	if len(runs) == 0 {
		return Run{}
	}
	last := runs[len(runs)-1]
	if len(runs) > 1 && isExitEcho(last) {
		return runs[len(runs)-2]
	}
	return last
}

// isExitEcho reports whether a run carries no stage content of its own:
// exactly one record whose only payload is the worker's exit-code marker.
// A record carrying anything besides exitCode is real stage content and
// stands as its own run.
func isExitEcho(run Run) bool {
	if len(run.Records) != 1 {
		return false
	}
	rec := run.Records[0]
	if len(rec.Data) != 1 {
		return false
	}
	_, ok := rec.Data["exitCode"]
	return ok
}

package pipeline

import (
	"github.com/hendrikb/pipeline-monitor/constants"
	"github.com/hendrikb/pipeline-monitor/internal/entity"
	"github.com/hendrikb/pipeline-monitor/internal/logstream"
)

// StageState is the derived view of one stage within the selected run.
type StageState struct {
	ID      StageID               `json:"id"`
	Title   string                `json:"title"`
	Status  constants.StageStatus `json:"status"`
	Records []entity.LogRecord    `json:"records"`
}

// PipelineState is a full reconstruction of one run. It is recomputed from
// the record history on every call and holds no hidden state.
type PipelineState struct {
	Stages       []StageState       `json:"stages"`
	CurrentIndex int                `json:"current_index"`
	Finished     bool               `json:"finished"`
	HasErrors    bool               `json:"has_errors"`
	Summary      entity.SummaryData `json:"summary"`
}

// Reconstruct classifies the run's records, derives per-stage statuses and
// folds the summary. Identical inputs always yield identical outputs, so a
// bulk replay of a closed run matches what live streaming showed.
func Reconstruct(set *StageSet, run logstream.Run) PipelineState {
	n := set.Count()
	groups := make([][]entity.LogRecord, n)
	stageErr := make([]bool, n)
	closed := run.Closed

	cls := NewClassifier(set)
	for _, rec := range run.Records {
		idx := cls.Resolve(rec)
		groups[idx] = append(groups[idx], rec)
		if rec.Level == constants.LevelError {
			stageErr[idx] = true
		}
		if set.IsRunEnd(rec.Message) {
			closed = true
		}
	}

	current := cls.Running()
	if current == Unresolved {
		current = 0
	}

	hasErrors := false
	for _, e := range stageErr {
		hasErrors = hasErrors || e
	}

	stages := make([]StageState, n)
	for i, st := range set.Stages {
		stages[i] = StageState{
			ID:      st.ID,
			Title:   st.Title,
			Status:  stageStatus(i, groups, stageErr, current, closed, hasErrors),
			Records: groups[i],
		}
	}

	return PipelineState{
		Stages:       stages,
		CurrentIndex: current,
		Finished:     closed,
		HasErrors:    hasErrors,
		Summary:      BuildSummary(set, run.Records),
	}
}

// stageStatus applies the derivation rules in priority order. A stage with
// zero records stays idle even when the run has finished: it was skipped,
// not run.
func stageStatus(i int, groups [][]entity.LogRecord, stageErr []bool, current int, closed, hasErrors bool) constants.StageStatus {
	hasRecords := len(groups[i]) > 0

	if stageErr[i] {
		return constants.StageError
	}
	if closed && !hasErrors && hasRecords {
		return constants.StageDone
	}
	if hasRecords && laterHasRecords(i, groups) {
		// The pipeline advanced past this stage, so it must have finished.
		return constants.StageDone
	}
	if i == current && hasRecords && !closed {
		return constants.StageRunning
	}
	return constants.StageIdle
}

func laterHasRecords(i int, groups [][]entity.LogRecord) bool {
	for j := i + 1; j < len(groups); j++ {
		if len(groups[j]) > 0 {
			return true
		}
	}
	return false
}

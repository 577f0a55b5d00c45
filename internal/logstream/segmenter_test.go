package logstream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hendrikb/pipeline-monitor/internal/entity"
)

const endMsg = "✅ Pipeline abgeschlossen"

func isEnd(message string) bool { return message == endMsg }

func msg(m string) entity.LogRecord { return entity.LogRecord{Message: m} }

func TestSplitRunsClosesOnSentinel(t *testing.T) {
	history := []entity.LogRecord{msg("a"), msg("b"), msg(endMsg), msg("c")}

	runs := SplitRuns(history, isEnd)

	require.Len(t, runs, 2)
	assert.True(t, runs[0].Closed)
	assert.Len(t, runs[0].Records, 3)
	assert.False(t, runs[1].Closed)
	assert.Len(t, runs[1].Records, 1)
}

func TestSelectLatestPrefersTrailingOpenRun(t *testing.T) {
	history := []entity.LogRecord{msg("a"), msg("b"), msg(endMsg), msg("c")}

	run := SelectLatest(SplitRuns(history, isEnd))

	require.Len(t, run.Records, 1)
	assert.Equal(t, "c", run.Records[0].Message)
	assert.False(t, run.Closed)
}

func TestSelectLatestFoldsExitEchoBackward(t *testing.T) {
	echo := entity.LogRecord{Message: endMsg, Data: map[string]any{"exitCode": 0.0}}
	history := []entity.LogRecord{msg("a"), msg("b"), msg(endMsg), echo}

	run := SelectLatest(SplitRuns(history, isEnd))

	require.Len(t, run.Records, 3)
	assert.Equal(t, endMsg, run.Records[2].Message)
	assert.True(t, run.Closed)
}

func TestSelectLatestKeepsEchoWithStagePayload(t *testing.T) {
	// The trailing record carries an exit code plus real payload, so it is
	// a run of its own, not an echo to fold away.
	rec := entity.LogRecord{Message: "item 1: Rewe | | |", Data: map[string]any{
		"exitCode": 0.0,
		"name":     "Rewe",
	}}
	history := []entity.LogRecord{msg("a"), msg(endMsg), rec}

	run := SelectLatest(SplitRuns(history, isEnd))

	require.Len(t, run.Records, 1)
	assert.Equal(t, "item 1: Rewe | | |", run.Records[0].Message)
	assert.False(t, run.Closed)
}

func TestSelectLatestKeepsSoleExitEchoRun(t *testing.T) {
	// With nothing before it there is no run to fold back onto.
	echo := entity.LogRecord{Message: endMsg, Data: map[string]any{"exitCode": 1.0}}

	run := SelectLatest(SplitRuns([]entity.LogRecord{echo}, isEnd))

	require.Len(t, run.Records, 1)
	assert.True(t, run.Closed)
}

func TestSegmentationIsIdempotent(t *testing.T) {
	history := []entity.LogRecord{msg("a"), msg("b"), msg(endMsg)}
	first := SelectLatest(SplitRuns(history, isEnd))
	second := SelectLatest(SplitRuns(first.Records, isEnd))
	assert.Equal(t, first, second)
}

func TestSplitRunsEmptyHistory(t *testing.T) {
	assert.Empty(t, SplitRuns(nil, isEnd))

	run := SelectLatest(nil)
	assert.Empty(t, run.Records)
	assert.False(t, run.Closed)
}

func TestSplitRunsNoSentinelIsFullyOpen(t *testing.T) {
	history := []entity.LogRecord{msg("a"), msg("b")}
	runs := SplitRuns(history, isEnd)
	require.Len(t, runs, 1)
	assert.False(t, runs[0].Closed)
	assert.Len(t, runs[0].Records, 2)
}

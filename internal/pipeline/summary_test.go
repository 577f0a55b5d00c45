package pipeline

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hendrikb/pipeline-monitor/constants"
	"github.com/hendrikb/pipeline-monitor/internal/entity"
)

func summaryRec(message string, data map[string]any) entity.LogRecord {
	return entity.LogRecord{Level: constants.LevelSummary, Message: message, Data: data}
}

func infoRec(message string, data map[string]any) entity.LogRecord {
	return entity.LogRecord{Level: constants.LevelInfo, Message: message, Data: data}
}

func TestBuildSummaryWindowGeometry(t *testing.T) {
	set := DefaultStageSet()
	sum := BuildSummary(set, []entity.LogRecord{
		summaryRec(MsgWindow, map[string]any{"x": 10.0, "y": 20.0, "width": 1280.0, "height": 960.0}),
	})

	require.NotNil(t, sum.Window)
	assert.Equal(t, 10.0, sum.Window.X)
	assert.Equal(t, 960.0, sum.Window.Height)
}

func TestBuildSummaryWindowRejectsNonNumeric(t *testing.T) {
	set := DefaultStageSet()
	sum := BuildSummary(set, []entity.LogRecord{
		summaryRec(MsgWindow, map[string]any{"x": 10.0, "width": 1280.0}),
		// Second record with garbage must not clobber the good values.
		summaryRec(MsgWindow, map[string]any{"x": "oops", "width": math.NaN(), "y": 5.0}),
	})

	require.NotNil(t, sum.Window)
	assert.Equal(t, 10.0, sum.Window.X)
	assert.Equal(t, 1280.0, sum.Window.Width)
	assert.Equal(t, 5.0, sum.Window.Y)
}

func TestBuildSummaryStitchedImage(t *testing.T) {
	set := DefaultStageSet()
	sum := BuildSummary(set, []entity.LogRecord{
		summaryRec(MsgStitched, map[string]any{"width": 800.0, "height": 12000.0, "filesize_mb": 4.2}),
	})

	require.NotNil(t, sum.Stitched)
	assert.Equal(t, 800.0, sum.Stitched.Width)
	require.NotNil(t, sum.Stitched.FilesizeMB)
	assert.Equal(t, 4.2, *sum.Stitched.FilesizeMB)
	assert.True(t, strings.HasPrefix(sum.Stitched.ImageURL, "/api/process/media/"+MediaStitched+"?ts="))
}

func TestBuildSummaryStitchedFilesizeOptional(t *testing.T) {
	set := DefaultStageSet()
	sum := BuildSummary(set, []entity.LogRecord{
		summaryRec(MsgStitched, map[string]any{"width": 800.0, "height": 12000.0}),
	})
	require.NotNil(t, sum.Stitched)
	assert.Nil(t, sum.Stitched.FilesizeMB)
}

func TestBuildSummaryBoxPreviewCapped(t *testing.T) {
	boxes := make([]any, 0, 8)
	for i := 0; i < 8; i++ {
		boxes = append(boxes, map[string]any{"x": float64(i), "y": 0.0, "w": 10.0, "h": 10.0})
	}
	set := DefaultStageSet()
	sum := BuildSummary(set, []entity.LogRecord{
		summaryRec(MsgBoxes, map[string]any{"count": 8.0, "boxes": boxes}),
	})

	require.NotNil(t, sum.Boxes)
	assert.Equal(t, 8, sum.Boxes.Count, "count reflects the full set")
	assert.Len(t, sum.Boxes.Boxes, 5, "preview is capped")
	assert.Equal(t, 4.0, sum.Boxes.Boxes[4].X)
}

func TestBuildSummaryBoxSkipsMalformedEntries(t *testing.T) {
	set := DefaultStageSet()
	sum := BuildSummary(set, []entity.LogRecord{
		summaryRec(MsgBoxes, map[string]any{"count": 3.0, "boxes": []any{
			map[string]any{"x": 1.0, "y": 2.0, "w": 3.0, "h": 4.0},
			map[string]any{"x": 1.0, "y": 2.0, "w": 3.0}, // missing h
			"not a box",
			map[string]any{"x": 5.0, "y": 6.0, "w": 7.0, "h": 8.0},
		}}),
	})

	require.NotNil(t, sum.Boxes)
	require.Len(t, sum.Boxes.Boxes, 2)
	assert.Equal(t, 1.0, sum.Boxes.Boxes[0].X)
	assert.Equal(t, 5.0, sum.Boxes.Boxes[1].X)
}

func TestBuildSummaryBoxesBorrowOCRImageURL(t *testing.T) {
	set := DefaultStageSet()

	// Boxes first, OCR done later: the done fold backfills the URL.
	sum := BuildSummary(set, []entity.LogRecord{
		summaryRec(MsgBoxes, map[string]any{"count": 2.0}),
		infoRec(MsgOCRDone, map[string]any{"total_items": 2.0}),
	})
	require.NotNil(t, sum.Boxes)
	assert.True(t, strings.HasPrefix(sum.Boxes.ImageURL, "/api/process/media/"+MediaOCRResult))

	// OCR done first, boxes later: the boxes fold borrows the URL.
	sum = BuildSummary(set, []entity.LogRecord{
		infoRec(MsgOCRDone, map[string]any{"total_items": 2.0}),
		summaryRec(MsgBoxes, map[string]any{"count": 2.0}),
	})
	require.NotNil(t, sum.Boxes)
	assert.True(t, strings.HasPrefix(sum.Boxes.ImageURL, "/api/process/media/"+MediaOCRResult))
}

func TestBuildSummaryFirstDateTrimmed(t *testing.T) {
	set := DefaultStageSet()
	sum := BuildSummary(set, []entity.LogRecord{
		infoRec(MsgFirstDate, map[string]any{"date": "  21.07  "}),
	})

	require.NotNil(t, sum.OCR)
	assert.Equal(t, "21.07", sum.OCR.FirstDate)
	assert.True(t, sum.OCR.FirstDateFound)
}

func TestBuildSummaryFirstDateEmptyNotFound(t *testing.T) {
	set := DefaultStageSet()
	sum := BuildSummary(set, []entity.LogRecord{
		infoRec(MsgFirstDate, map[string]any{"date": "   "}),
	})

	require.NotNil(t, sum.OCR)
	assert.False(t, sum.OCR.FirstDateFound)
}

func TestBuildSummaryItemFromData(t *testing.T) {
	set := DefaultStageSet()
	sum := BuildSummary(set, []entity.LogRecord{
		infoRec("item 3: Rewe | Lebensmittel | -12,50€ |", map[string]any{
			"name": "Rewe", "category": "Lebensmittel", "price": "-12,50€", "tag": "", "date": "21.07",
		}),
	})

	require.NotNil(t, sum.OCR)
	require.Len(t, sum.OCR.Items, 1)
	item := sum.OCR.Items[0]
	assert.Equal(t, 3, item.Index)
	assert.Equal(t, "Rewe", item.Name)
	assert.Equal(t, "-12,50€", item.Price)
	assert.Equal(t, "21.07", item.Date)
}

func TestBuildSummaryItemFallsBackToMessageLayout(t *testing.T) {
	set := DefaultStageSet()
	sum := BuildSummary(set, []entity.LogRecord{
		infoRec("item 1:  dm Drogerie | Drogerie | -8,95€ | Haushalt", nil),
	})

	require.NotNil(t, sum.OCR)
	require.Len(t, sum.OCR.Items, 1)
	item := sum.OCR.Items[0]
	assert.Equal(t, 1, item.Index)
	assert.Equal(t, "dm Drogerie", item.Name)
	assert.Equal(t, "Drogerie", item.Category)
	assert.Equal(t, "-8,95€", item.Price)
	assert.Equal(t, "Haushalt", item.Tag)
}

func TestBuildSummaryItemsDedupeAndSort(t *testing.T) {
	set := DefaultStageSet()
	sum := BuildSummary(set, []entity.LogRecord{
		infoRec("item 2: B | | |", nil),
		infoRec("item 1: A | | |", nil),
		infoRec("item 2: B-corrected | | |", nil),
	})

	require.NotNil(t, sum.OCR)
	require.Len(t, sum.OCR.Items, 2)
	assert.Equal(t, "A", sum.OCR.Items[0].Name)
	assert.Equal(t, "B-corrected", sum.OCR.Items[1].Name)
}

func TestBuildSummaryItemWithoutIndexIgnored(t *testing.T) {
	set := DefaultStageSet()
	sum := BuildSummary(set, []entity.LogRecord{
		infoRec("item without number", nil),
	})
	assert.Nil(t, sum.OCR)
}

func TestBuildSummaryRunEndCapturesExitCode(t *testing.T) {
	set := DefaultStageSet()

	sum := BuildSummary(set, []entity.LogRecord{
		infoRec(MsgRunFailed, map[string]any{"exitCode": 2.0}),
	})
	require.NotNil(t, sum.Run)
	assert.True(t, sum.Run.Finished)
	require.NotNil(t, sum.Run.ExitCode)
	assert.Equal(t, 2, *sum.Run.ExitCode)

	sum = BuildSummary(set, []entity.LogRecord{infoRec(MsgRunDone, nil)})
	require.NotNil(t, sum.Run)
	assert.True(t, sum.Run.Finished)
	assert.Nil(t, sum.Run.ExitCode)
}

func TestBuildSummaryUnknownRecordsAreNoOps(t *testing.T) {
	set := DefaultStageSet()
	sum := BuildSummary(set, []entity.LogRecord{
		infoRec("🚀 Pipeline gestartet", nil),
		{Level: constants.LevelDebug, Message: "Unparsable line", Data: map[string]any{"raw": "x"}},
	})
	assert.Equal(t, entity.SummaryData{}, sum)
}

func TestBuildSummaryOCRDoneTotals(t *testing.T) {
	set := DefaultStageSet()
	sum := BuildSummary(set, []entity.LogRecord{
		infoRec("item 1: A | | |", nil),
		infoRec(MsgOCRDone, map[string]any{"total_items": 14.0}),
	})

	require.NotNil(t, sum.OCR)
	require.NotNil(t, sum.OCR.TotalItems)
	assert.Equal(t, 14, *sum.OCR.TotalItems)
	assert.Len(t, sum.OCR.Items, 1, "items survive the done fold")
}

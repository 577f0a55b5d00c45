package pipeline

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/hendrikb/pipeline-monitor/constants"
	"github.com/hendrikb/pipeline-monitor/internal/entity"
)

// Logical names of the worker's static result images. The core never reads
// their bytes; it only hands out cache-busted references.
const (
	MediaStitched  = "stitched.png"
	MediaOCRResult = "ocr_result.png"
)

// boxPreviewCap bounds the bounding-box preview kept in the summary.
const boxPreviewCap = 5

// MediaURL builds a cache-busted reference to a named result image. The
// timestamp is fold-time wall clock, so two folds of the same history may
// differ here; the URL always points at the same underlying resource.
func MediaURL(name string) string {
	return fmt.Sprintf("/api/process/media/%s?ts=%d", name, time.Now().UnixMilli())
}

// BuildSummary left-folds the selected run's records into a fresh summary.
// Only exact (level, message) pairs from the known set contribute;
// everything else is a no-op for the summary but still counted elsewhere.
func BuildSummary(set *StageSet, records []entity.LogRecord) entity.SummaryData {
	var sum entity.SummaryData
	for _, rec := range records {
		foldRecord(&sum, set, rec)
	}
	return sum
}

func foldRecord(sum *entity.SummaryData, set *StageSet, rec entity.LogRecord) {
	switch rec.Level {
	case constants.LevelSummary:
		switch rec.Message {
		case MsgWindow:
			foldWindow(sum, rec)
		case MsgStitched:
			foldStitched(sum, rec)
		case MsgBoxes:
			foldBoxes(sum, rec)
		}
	case constants.LevelInfo:
		switch rec.Message {
		case MsgFirstDate:
			foldFirstDate(sum, rec)
		case MsgOCRDone:
			foldOCRDone(sum, rec)
		}
	}

	if strings.HasPrefix(rec.Message, ItemMsgPrefix) {
		foldItem(sum, rec)
	}
	if set.IsRunEnd(rec.Message) {
		foldRunEnd(sum, rec)
	}
}

// foldWindow writes the captured window geometry, numeric fields only.
// A non-numeric value keeps whatever was stored before; a good value is
// never overwritten by garbage.
func foldWindow(sum *entity.SummaryData, rec entity.LogRecord) {
	w := entity.WindowGeometry{}
	if sum.Window != nil {
		w = *sum.Window
	}
	setNum := func(dst *float64, key string) {
		if v, ok := rec.DataNumber(key); ok && !math.IsNaN(v) {
			*dst = v
		}
	}
	setNum(&w.X, "x")
	setNum(&w.Y, "y")
	setNum(&w.Width, "width")
	setNum(&w.Height, "height")
	sum.Window = &w
}

func foldStitched(sum *entity.SummaryData, rec entity.LogRecord) {
	st := entity.StitchedImage{ImageURL: MediaURL(MediaStitched)}
	if v, ok := rec.DataNumber("width"); ok {
		st.Width = v
	}
	if v, ok := rec.DataNumber("height"); ok {
		st.Height = v
	}
	if v, ok := rec.DataNumber("filesize_mb"); ok {
		st.FilesizeMB = &v
	}
	sum.Stitched = &st
}

// foldBoxes stores the box count and a capped preview of well-formed
// entries. Malformed entries are skipped, not error-worthy. The image URL
// is borrowed from the OCR result summary once that has arrived.
func foldBoxes(sum *entity.SummaryData, rec entity.LogRecord) {
	b := entity.BoxSummary{}
	if sum.Boxes != nil {
		b = *sum.Boxes
	}
	if v, ok := rec.DataNumber("count"); ok {
		b.Count = int(v)
	}
	if raw, ok := rec.Data["boxes"].([]any); ok {
		var boxes []entity.BoxDetail
		for _, e := range raw {
			if len(boxes) == boxPreviewCap {
				break
			}
			if box, ok := parseBox(e); ok {
				boxes = append(boxes, box)
			}
		}
		b.Boxes = boxes
	}
	if b.ImageURL == "" && sum.OCR != nil {
		b.ImageURL = sum.OCR.ResultImageURL
	}
	sum.Boxes = &b
}

func parseBox(v any) (entity.BoxDetail, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return entity.BoxDetail{}, false
	}
	var box entity.BoxDetail
	for key, dst := range map[string]*float64{"x": &box.X, "y": &box.Y, "w": &box.W, "h": &box.H} {
		f, ok := m[key].(float64)
		if !ok || math.IsNaN(f) {
			return entity.BoxDetail{}, false
		}
		*dst = f
	}
	return box, true
}

func foldFirstDate(sum *entity.SummaryData, rec entity.LogRecord) {
	ocr := entity.OCRSummary{}
	if sum.OCR != nil {
		ocr = *sum.OCR
	}
	date, _ := rec.DataString("date")
	date = strings.TrimSpace(date)
	ocr.FirstDate = date
	ocr.FirstDateFound = date != ""
	sum.OCR = &ocr
}

func foldOCRDone(sum *entity.SummaryData, rec entity.LogRecord) {
	ocr := entity.OCRSummary{}
	if sum.OCR != nil {
		ocr = *sum.OCR
	}
	if v, ok := rec.DataNumber("total_items"); ok {
		total := int(v)
		ocr.TotalItems = &total
	}
	ocr.ResultImageURL = MediaURL(MediaOCRResult)
	sum.OCR = &ocr
	if sum.Boxes != nil {
		sum.Boxes.ImageURL = ocr.ResultImageURL
	}
}

// foldItem records one extracted line item. The index comes from the
// message; an item already stored at that index is replaced, and the list
// stays sorted by index.
func foldItem(sum *entity.SummaryData, rec entity.LogRecord) {
	index, rest, ok := parseItemMessage(rec.Message)
	if !ok {
		return
	}
	item := entity.OCRItem{Index: index}
	if rec.HasData() {
		item.Name, _ = rec.DataString("name")
		item.Category, _ = rec.DataString("category")
		item.Price, _ = rec.DataString("price")
		item.Tag, _ = rec.DataString("tag")
		item.Date, _ = rec.DataString("date")
	}
	if item.Name == "" && rest != "" {
		// Fall back to the message's "name | category | price | tag" layout.
		parts := strings.Split(rest, "|")
		get := func(i int) string {
			if i < len(parts) {
				return strings.TrimSpace(parts[i])
			}
			return ""
		}
		item.Name = get(0)
		item.Category = get(1)
		item.Price = get(2)
		item.Tag = get(3)
	}

	ocr := entity.OCRSummary{}
	if sum.OCR != nil {
		ocr = *sum.OCR
	}
	items := append([]entity.OCRItem(nil), ocr.Items...)
	replaced := false
	for i := range items {
		if items[i].Index == index {
			items[i] = item
			replaced = true
			break
		}
	}
	if !replaced {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Index < items[j].Index })
	ocr.Items = items
	sum.OCR = &ocr
}

// parseItemMessage splits "item 3:  Rewe | Lebensmittel | -12,50€ | " into
// its index and remainder.
func parseItemMessage(msg string) (int, string, bool) {
	rest := strings.TrimPrefix(msg, ItemMsgPrefix)
	i := 0
	for i < len(rest) && rest[i] >= '0' && rest[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, "", false
	}
	index := 0
	for _, c := range rest[:i] {
		index = index*10 + int(c-'0')
	}
	rest = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(rest[i:]), ":"))
	return index, rest, true
}

func foldRunEnd(sum *entity.SummaryData, rec entity.LogRecord) {
	out := entity.RunOutcome{Finished: true}
	if sum.Run != nil {
		out = *sum.Run
		out.Finished = true
	}
	if v, ok := rec.DataNumber("exitCode"); ok {
		code := int(v)
		out.ExitCode = &code
	}
	sum.Run = &out
}

package pipeline

import "regexp"

// StageID identifies one phase of the external worker pipeline.
type StageID string

const (
	StageCapture StageID = "capture"
	StageStitch  StageID = "stitch"
	StageOCR     StageID = "ocr"
)

// Known (level, message) pairs the summary fold and the classifier react
// to. These are the worker's literal log messages; wording changes land
// here, not in the algorithms.
const (
	MsgRunDone    = "✅ Pipeline abgeschlossen"
	MsgRunFailed  = "❌ Pipeline mit Fehler beendet"
	MsgWindow     = "🖥️ Finanzguru-Fenster"
	MsgStitched   = "🧩 Zusammengesetztes Bild"
	MsgBoxes      = "📦 Transaktionsboxen"
	MsgFirstDate  = "📅 Erstes Datum erkannt"
	MsgOCRDone    = "✅ OCR Pipeline abgeschlossen"
	ItemMsgPrefix = "item "
)

// StageConfig owns everything the classifier knows about one stage. Its
// position in StageSet.Stages is its index. Matchers probe the record
// message; SummaryMessages are exact message literals for summary-level
// records; ErrorProbes run against error payload text.
type StageConfig struct {
	ID              StageID
	Title           string
	Matchers        []*regexp.Regexp
	SummaryMessages []string
	ErrorProbes     []*regexp.Regexp
}

// StageSet is the classification configuration: the fixed, ordered stages
// and the terminal sentinel messages that close a run. The ordering is
// total and never changes at runtime.
type StageSet struct {
	Stages  []StageConfig
	RunEnds map[string]struct{}
}

// Count returns the number of stages.
func (s *StageSet) Count() int { return len(s.Stages) }

// IndexOf maps an explicit stage tag to its index, -1 when unknown.
func (s *StageSet) IndexOf(id StageID) int {
	for i, st := range s.Stages {
		if st.ID == id {
			return i
		}
	}
	return -1
}

// IsRunEnd reports whether message is a terminal sentinel.
func (s *StageSet) IsRunEnd(message string) bool {
	if message == "" {
		return false
	}
	_, ok := s.RunEnds[message]
	return ok
}

// Clamp forces an index into the valid stage range.
func (s *StageSet) Clamp(index int) int {
	if index < 0 {
		return 0
	}
	if index >= len(s.Stages) {
		return len(s.Stages) - 1
	}
	return index
}

// DefaultStageSet reproduces the observed worker vocabulary: three stages,
// German message fragments, emoji markers.
func DefaultStageSet() *StageSet {
	return &StageSet{
		Stages: []StageConfig{
			{
				ID:    StageCapture,
				Title: "Screenshots aufnehmen & croppen",
				Matchers: []*regexp.Regexp{
					regexp.MustCompile(`(?i)capture`),
					regexp.MustCompile(`(?i)screenshot`),
					regexp.MustCompile(`(?i)shot_`),
					regexp.MustCompile(`(?i)scroll`),
					regexp.MustCompile(`(?i)cropp`),
					regexp.MustCompile(`(?i)crop`),
					regexp.MustCompile(`✂️`),
					regexp.MustCompile(`📸`),
					regexp.MustCompile(`(?i)fenster`),
				},
				SummaryMessages: []string{MsgWindow},
				ErrorProbes:     []*regexp.Regexp{regexp.MustCompile(`(?i)capture`)},
			},
			{
				ID:    StageStitch,
				Title: "Scroll-Sequenz zusammenfügen",
				Matchers: []*regexp.Regexp{
					regexp.MustCompile(`(?i)stitch`),
					regexp.MustCompile(`(?i)zusammen`),
					regexp.MustCompile(`(?i)match score`),
					regexp.MustCompile(`(?i)template`),
					regexp.MustCompile(`(?i)stitched`),
					regexp.MustCompile(`🧩`),
					regexp.MustCompile(`🔗`),
				},
				SummaryMessages: []string{MsgStitched},
				ErrorProbes:     []*regexp.Regexp{regexp.MustCompile(`(?i)stitch`)},
			},
			{
				ID:    StageOCR,
				Title: "OCR & Analyse",
				Matchers: []*regexp.Regexp{
					regexp.MustCompile(`(?i)ocr`),
					regexp.MustCompile(`(?i)transaktions`),
					regexp.MustCompile(`(?i)item`),
					regexp.MustCompile(`(?i)datum`),
					regexp.MustCompile(`(?i)pipeline abgeschlossen`),
					regexp.MustCompile(`📅`),
					regexp.MustCompile(`📦`),
					regexp.MustCompile(`✅`),
				},
				SummaryMessages: []string{MsgBoxes},
				ErrorProbes:     []*regexp.Regexp{regexp.MustCompile(`(?i)ocr`)},
			},
		},
		RunEnds: map[string]struct{}{
			MsgRunDone:   {},
			MsgRunFailed: {},
		},
	}
}

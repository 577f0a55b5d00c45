package entity

// SummaryData accumulates the measurements the worker reports while a run
// progresses. Each section is optional and only ever written by the summary
// fold; callers treat the whole value as read-only.
type SummaryData struct {
	Window   *WindowGeometry `json:"window,omitempty"`
	Stitched *StitchedImage  `json:"stitched,omitempty"`
	Boxes    *BoxSummary     `json:"boxes,omitempty"`
	OCR      *OCRSummary     `json:"ocr,omitempty"`
	Run      *RunOutcome     `json:"run,omitempty"`
}

// WindowGeometry is the captured application window, in screen pixels.
type WindowGeometry struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// StitchedImage describes the composite built from the scroll sequence.
type StitchedImage struct {
	Width      float64  `json:"width"`
	Height     float64  `json:"height"`
	FilesizeMB *float64 `json:"filesize_mb,omitempty"`
	ImageURL   string   `json:"image_url,omitempty"`
}

// BoxDetail is one detected transaction bounding box.
type BoxDetail struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// BoxSummary holds the box count and a capped preview of the first boxes.
type BoxSummary struct {
	Count    int         `json:"count"`
	Boxes    []BoxDetail `json:"boxes"`
	ImageURL string      `json:"image_url,omitempty"`
}

// OCRItem is one extracted line item as the worker reported it, raw fields
// untouched. Index is the 1-based position parsed from the record message.
type OCRItem struct {
	Index    int    `json:"index"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Price    string `json:"price"`
	Tag      string `json:"tag"`
	Date     string `json:"date"`
}

// OCRSummary collects totals and per-item fields from the OCR phase.
type OCRSummary struct {
	TotalItems     *int      `json:"total_items,omitempty"`
	FirstDate      string    `json:"first_date,omitempty"`
	FirstDateFound bool      `json:"first_date_found"`
	ResultImageURL string    `json:"result_image_url,omitempty"`
	Items          []OCRItem `json:"items,omitempty"`
}

// RunOutcome records how the run ended, when it has.
type RunOutcome struct {
	Finished bool `json:"finished"`
	ExitCode *int `json:"exit_code,omitempty"`
}

package reconcile

import (
	"regexp"
	"strconv"
	"time"
)

// isoDate is the wire format for reconciled dates.
const isoDate = "2006-01-02"

var dayMonthPattern = regexp.MustCompile(`(\d{1,2})\.(\d{1,2})`)

// ParseDateWithYear extracts a "day.month" pattern from raw OCR text and
// combines it with the supplied year. Impossible calendar dates (31.02 and
// friends) return nil instead of rolling over into the next month.
func ParseDateWithYear(raw string, year int) *string {
	m := dayMonthPattern.FindStringSubmatch(raw)
	if m == nil {
		return nil
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	if day < 1 || month < 1 || month > 12 {
		return nil
	}

	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if d.Year() != year || d.Month() != time.Month(month) || d.Day() != day {
		return nil
	}
	iso := d.Format(isoDate)
	return &iso
}

package reconcile

import (
	"strconv"
	"strings"

	"github.com/hendrikb/pipeline-monitor/constants"
)

// ParsedPrice is the outcome of interpreting one OCR price string.
// Amount is always the non-negative magnitude; the sign lives in Type.
type ParsedPrice struct {
	Amount float64
	Type   constants.TxType
	OK     bool
}

// minusRunes covers both the ASCII hyphen-minus and U+2212, which the OCR
// engine is whitelisted to emit.
const minusRunes = "-−"

// ParsePrice interprets locale-formatted OCR price text such as "-12,50€".
// A literal minus anywhere in the string signals negative intent, "," is
// the decimal separator, "." a thousands separator to drop. Unparseable
// text degrades to a zero amount instead of failing.
func ParsePrice(raw string) ParsedPrice {
	s := strings.TrimSpace(raw)
	minus := strings.ContainsAny(s, minusRunes)

	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ',':
			b.WriteByte('.')
		}
	}

	num := b.String()
	v, err := strconv.ParseFloat(num, 64)
	if num == "" || err != nil {
		t := constants.TxIncome
		if minus {
			t = constants.TxExpense
		}
		return ParsedPrice{Amount: 0, Type: t}
	}

	t := constants.TxIncome
	if minus || v < 0 {
		t = constants.TxExpense
	}
	if v < 0 {
		v = -v
	}
	return ParsedPrice{Amount: v, Type: t, OK: true}
}

package entity

import "github.com/hendrikb/pipeline-monitor/constants"

// RawItem is one extracted entry as delivered by the OCR result store.
// Every field is optional free text; nothing here is trusted.
type RawItem struct {
	Name     string `json:"name,omitempty"`
	Category string `json:"category,omitempty"`
	Price    string `json:"price,omitempty"`
	Tag      string `json:"tag,omitempty"`
	Date     string `json:"date,omitempty"`
}

// EditableItem is a user-editable import candidate built from a RawItem.
// ID is stable for the lifetime of one load; the whole set is rebuilt on
// every reload of the raw source.
type EditableItem struct {
	ID         string           `json:"id"`
	Index      int              `json:"index"`
	Include    bool             `json:"include"`
	Name       string           `json:"name"`
	Category   string           `json:"category"`
	Tag        string           `json:"tag"`
	DateRaw    string           `json:"date_raw"`
	DateISO    *string          `json:"date_iso"`
	DateEdited bool             `json:"date_edited"`
	PriceRaw   string           `json:"price_raw"`
	PriceInput string           `json:"price_input"`
	PriceValue float64          `json:"price_value"`
	Type       constants.TxType `json:"type"`
	Error      string           `json:"error,omitempty"`
}

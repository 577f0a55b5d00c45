package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/hendrikb/pipeline-monitor/constants"
)

// Transaction is a confirmed line item as persisted by the commit store.
type Transaction struct {
	ID          uuid.UUID        `json:"id"`
	Date        time.Time        `json:"date"`
	Name        string           `json:"name"`
	Category    string           `json:"category"`
	Tag         string           `json:"tag"`
	Type        constants.TxType `json:"type"`
	Price       float64          `json:"price"`
	Description string           `json:"description"`
	CreatedAt   time.Time        `json:"created_at"`
}

// TxStats summarizes the stored transactions for the dashboard.
type TxStats struct {
	IncomeTotal  float64 `json:"income_total"`
	ExpenseTotal float64 `json:"expense_total"`
	Balance      float64 `json:"balance"`
	Count        int     `json:"count"`
}

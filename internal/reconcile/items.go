package reconcile

import (
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hendrikb/pipeline-monitor/internal/common"
	"github.com/hendrikb/pipeline-monitor/internal/entity"
)

// Row-level problems surfaced to the reviewer. A problem row renders as
// visibly incomplete and is excluded from import; it never fails the load.
const (
	ProblemNameMissing  = "name is missing"
	ProblemPriceMissing = "price is missing or unreadable"
	ProblemDateMissing  = "no valid date recognized"
)

// Reconciler turns raw extracted entries into editable import candidates.
type Reconciler struct {
	logger *slog.Logger
}

func NewReconciler(logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{logger: logger}
}

// BuildItems converts raw items into editable candidates, one per raw item,
// independently. IDs are stable for the lifetime of this load; the whole
// set is rebuilt wholesale on the next reload.
func (r *Reconciler) BuildItems(raw []entity.RawItem, year int) []entity.EditableItem {
	items := make([]entity.EditableItem, 0, len(raw))
	for i, src := range raw {
		price := ParsePrice(src.Price)
		item := entity.EditableItem{
			ID:         uuid.NewString(),
			Index:      i,
			Include:    true,
			Name:       strings.TrimSpace(src.Name),
			Category:   strings.TrimSpace(src.Category),
			Tag:        strings.TrimSpace(src.Tag),
			DateRaw:    src.Date,
			DateISO:    ParseDateWithYear(src.Date, year),
			PriceRaw:   src.Price,
			PriceInput: strings.TrimSpace(src.Price),
			PriceValue: price.Amount,
			Type:       price.Type,
		}
		item.Error = rowProblem(item)
		items = append(items, item)
	}
	r.logger.Debug("reconcile.build", "raw", len(raw), "year", year)
	return items
}

// ApplyYear re-derives DateISO from DateRaw under a new year for every item
// the user has not edited directly. The dateEdited latch is one-way: an
// edited date is never overwritten by re-derivation.
func (r *Reconciler) ApplyYear(items []entity.EditableItem, year int) []entity.EditableItem {
	for i := range items {
		if items[i].DateEdited {
			continue
		}
		items[i].DateISO = ParseDateWithYear(items[i].DateRaw, year)
		items[i].Error = rowProblem(items[i])
	}
	return items
}

// SetDate applies a direct user edit and latches dateEdited.
func SetDate(item *entity.EditableItem, value string) {
	if value == "" {
		item.DateISO = nil
	} else {
		v := value
		item.DateISO = &v
	}
	item.DateEdited = true
	item.Error = rowProblem(*item)
}

// Importable reports whether an item passes every commit eligibility check.
func Importable(item entity.EditableItem) bool {
	return item.Include &&
		strings.TrimSpace(item.Name) != "" &&
		item.PriceValue > 0 &&
		item.DateISO != nil &&
		item.Type != ""
}

// ImportableItems filters the batch down to commit-eligible items.
// Ineligible rows are simply excluded, never an error.
func ImportableItems(items []entity.EditableItem) []entity.EditableItem {
	var out []entity.EditableItem
	for _, item := range items {
		if Importable(item) {
			out = append(out, item)
		}
	}
	return out
}

// ToTransactions materializes importable items for the commit interface.
// Items whose date no longer parses are skipped defensively.
func ToTransactions(items []entity.EditableItem) []entity.Transaction {
	now := time.Now().UTC()
	txs := make([]entity.Transaction, 0, len(items))
	for _, item := range items {
		if item.DateISO == nil {
			continue
		}
		date, err := time.Parse(isoDate, *item.DateISO)
		if err != nil {
			continue
		}
		txs = append(txs, entity.Transaction{
			ID:          uuid.New(),
			Date:        date,
			Name:        strings.TrimSpace(item.Name),
			Category:    strings.TrimSpace(item.Category),
			Tag:         strings.TrimSpace(item.Tag),
			Type:        item.Type,
			Price:       item.PriceValue,
			Description: strings.TrimSpace(item.Name),
			CreatedAt:   now,
		})
	}
	return txs
}

// ValidateBatch rejects a submission with zero importable items. This is
// the only reconciler condition surfaced as a user-facing error.
func ValidateBatch(items []entity.EditableItem) error {
	if len(ImportableItems(items)) == 0 {
		return common.NewAppError("NO_IMPORTABLE_ITEMS", "no importable items selected", common.ErrValidation)
	}
	return nil
}

// rowProblem names the first missing field that keeps a row from being
// importable, or "" for a complete row.
func rowProblem(item entity.EditableItem) string {
	switch {
	case strings.TrimSpace(item.Name) == "":
		return ProblemNameMissing
	case item.PriceValue <= 0:
		return ProblemPriceMissing
	case item.DateISO == nil:
		return ProblemDateMissing
	}
	return ""
}

package ports

import (
	"context"

	"tradeJournalBot/internal/domain"
)

// Canonical column titles of the journal store. Row 1 of the backing sheet
// carries exactly these, in this order; UpdateFields is addressed by them.
const (
	FieldID         = "ID"
	FieldTimestamp  = "Timestamp"
	FieldMarket     = "Market"
	FieldStyle      = "Style"
	FieldDirection  = "Direction"
	FieldTicker     = "Ticker"
	FieldEntry      = "Entry"
	FieldStopLoss   = "SL"
	FieldRisk       = "Risk%"
	FieldChart      = "Chart"
	FieldReason     = "Reason"
	FieldTakeProfit = "TP"
	FieldStatus     = "Status"
	FieldPnLR       = "PnL_R"
	FieldNote       = "Note"
)

// Header is the canonical column order of the journal store.
var Header = []string{
	FieldID, FieldTimestamp, FieldMarket, FieldStyle, FieldDirection,
	FieldTicker, FieldEntry, FieldStopLoss, FieldRisk, FieldChart,
	FieldReason, FieldTakeProfit, FieldStatus, FieldPnLR, FieldNote,
}

// TradeFilter narrows a ScanAll to trades in a given status.
// The zero value matches every trade.
type TradeFilter struct {
	Status domain.Status
}

// TradeRepository defines the interface for storing and retrieving journal
// entries. Implementations assign ids by current store size (row count
// including the header), matching the historical sheet layout.
type TradeRepository interface {
	// Append persists a new trade, assigns its id and returns it.
	// The caller must have validated all required fields.
	Append(ctx context.Context, trade *domain.Trade) (int64, error)
	// FindByID retrieves a trade by id. Returns ErrNotFound when absent.
	FindByID(ctx context.Context, id int64) (*domain.Trade, error)
	// UpdateFields applies a sparse set of field updates, keyed by the
	// canonical column titles above. Unknown keys are silently skipped
	// (compatibility behavior). Multi-field updates are best-effort: fields
	// already written are not rolled back if a later one fails.
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error
	// ScanAll returns trades in store order, optionally pre-filtered.
	ScanAll(ctx context.Context, filter TradeFilter) ([]*domain.Trade, error)
}

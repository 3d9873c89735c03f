package domain

import "time"

// Trade is a single journal entry. The repository is the sole owner of trade
// state; callers always re-read through the repository rather than caching.
type Trade struct {
	ID          int64     // Unique identifier, assigned by the store at creation
	Timestamp   time.Time // Creation time in the journal's local timezone, immutable
	Market      Market    // Venue class, chosen at creation
	Style       Style     // Trading style, chosen at creation
	Direction   Direction // BUY or SELL, chosen at creation
	Ticker      string    // Instrument symbol, uppercase-normalized
	Entry       float64   // Entry price level
	StopLoss    float64   // Stop-loss price level, mutable via move-SL
	RiskPercent float64   // Account percentage at risk; 0 means free risk
	Chart       string    // Image reference or chart URL, optional
	Reason      string    // Rationale for taking the trade, mutable
	TakeProfit  float64   // Take-profit level, 0 until set
	Status      Status    // Pending at creation; Closed/Cancelled are terminal
	PnLR        float64   // Realized result in R; meaningful only when Closed
	Note        string    // Append-only log of partial-close annotations
}

// IsPending reports whether the trade is still open.
func (t *Trade) IsPending() bool {
	return t.Status == StatusPending
}

// IsTerminal reports whether the trade has reached a final status.
func (t *Trade) IsTerminal() bool {
	return t.Status == StatusClosed || t.Status == StatusCancelled
}

// IsBreakeven reports whether the trade closed flat. Breakeven is represented
// as a Closed trade with zero PnL, not as a separate status.
func (t *Trade) IsBreakeven() bool {
	return t.Status == StatusClosed && t.PnLR == 0
}

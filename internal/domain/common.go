package domain

// Market identifies which venue class a trade was taken in.
type Market string

const (
	MarketCommodities Market = "Commodities"
	MarketCurrencies  Market = "Currencies"
	MarketStockVN     Market = "StockVN"
	MarketStockUS     Market = "StockUS"
)

// IsValid reports whether the market is one of the known venue classes.
func (m Market) IsValid() bool {
	switch m {
	case MarketCommodities, MarketCurrencies, MarketStockVN, MarketStockUS:
		return true
	}
	return false
}

// Style identifies the trading style a trade was taken with.
type Style string

const (
	StyleSwing      Style = "Swing"
	StyleDaytrading Style = "Daytrading"
	StyleScalping   Style = "Scalping"
)

// IsValid reports whether the style is one of the known trading styles.
func (s Style) IsValid() bool {
	switch s {
	case StyleSwing, StyleDaytrading, StyleScalping:
		return true
	}
	return false
}

// Direction represents the side of a trade (BUY or SELL).
type Direction string

const (
	Buy  Direction = "BUY"
	Sell Direction = "SELL"
)

// IsValid reports whether the direction is BUY or SELL.
func (d Direction) IsValid() bool {
	return d == Buy || d == Sell
}

// Status represents the lifecycle state of a trade.
// Transitions are one-way: Pending -> Closed or Pending -> Cancelled.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusClosed    Status = "Closed"
	StatusCancelled Status = "Cancelled"
)

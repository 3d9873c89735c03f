package analytics

import (
	"math"
	"time"

	"tradeJournalBot/internal/domain"
)

// unknownKey groups trades whose category field is empty.
const unknownKey = "Unknown"

// Stats summarises the closed trades of a reporting window.
// Breakeven trades are Closed trades with zero PnL; they count toward
// TotalTrades but toward neither Wins nor Losses.
type Stats struct {
	WinRate    float64 // wins / closed * 100, 1 decimal, 0 when no closed trades
	TotalPnLR  float64 // sum of PnL in R over closed trades, 2 decimals
	TotalTrades int
	Wins       int
	Losses     int
	Breakevens int
}

// Category selects the trade field used for grouped breakdowns.
type Category string

const (
	ByMarket Category = "Market"
	ByStyle  Category = "Style"
)

// ComputeStats aggregates win rate and PnL over the closed trades whose
// timestamp falls inside [start, end]. A zero start or end leaves that bound
// open. Empty input yields the zero Stats; there is no division by zero.
func ComputeStats(trades []*domain.Trade, start, end time.Time) Stats {
	var st Stats
	var total float64

	for _, t := range filterClosed(trades, start, end) {
		st.TotalTrades++
		total += t.PnLR
		switch {
		case t.PnLR > 0:
			st.Wins++
		case t.PnLR < 0:
			st.Losses++
		default:
			st.Breakevens++
		}
	}

	st.TotalPnLR = round2(total)
	if st.TotalTrades > 0 {
		st.WinRate = round1(float64(st.Wins) / float64(st.TotalTrades) * 100)
	}
	return st
}

// ComputeStatsByCategory computes the same aggregate per distinct value of
// the chosen category field over the filtered closed trades. Trades with an
// empty category value group under "Unknown". Every observed value appears
// as exactly one key.
func ComputeStatsByCategory(trades []*domain.Trade, cat Category, start, end time.Time) map[string]Stats {
	groups := make(map[string][]*domain.Trade)
	for _, t := range filterClosed(trades, start, end) {
		key := categoryKey(t, cat)
		groups[key] = append(groups[key], t)
	}

	result := make(map[string]Stats, len(groups))
	for key, group := range groups {
		result[key] = ComputeStats(group, time.Time{}, time.Time{})
	}
	return result
}

func categoryKey(t *domain.Trade, cat Category) string {
	var key string
	switch cat {
	case ByStyle:
		key = string(t.Style)
	default:
		key = string(t.Market)
	}
	if key == "" {
		return unknownKey
	}
	return key
}

func filterClosed(trades []*domain.Trade, start, end time.Time) []*domain.Trade {
	closed := make([]*domain.Trade, 0, len(trades))
	for _, t := range trades {
		if t.Status != domain.StatusClosed {
			continue
		}
		if !start.IsZero() && t.Timestamp.Before(start) {
			continue
		}
		if !end.IsZero() && t.Timestamp.After(end) {
			continue
		}
		closed = append(closed, t)
	}
	return closed
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

package analytics

import "tradeJournalBot/internal/domain"

// RiskBucket accumulates exposure for one category value.
type RiskBucket struct {
	Risk  float64 // summed Risk%, 2 decimals
	Count int
}

// OpenRisk is the exposure snapshot across all pending trades.
type OpenRisk struct {
	Total    float64 // summed Risk% over pending trades, 2 decimals
	Count    int
	ByMarket map[string]RiskBucket
	ByStyle  map[string]RiskBucket
	Trades   []*domain.Trade // the pending trades, in store scan order
}

// ComputeOpenRisk aggregates current exposure over the pending trades.
// With no pending trades all sums are zero, the maps are empty and Trades
// is an empty slice, so callers can always range without nil checks.
func ComputeOpenRisk(trades []*domain.Trade) OpenRisk {
	r := OpenRisk{
		ByMarket: make(map[string]RiskBucket),
		ByStyle:  make(map[string]RiskBucket),
		Trades:   make([]*domain.Trade, 0),
	}

	var total float64
	for _, t := range trades {
		if !t.IsPending() {
			continue
		}
		r.Count++
		total += t.RiskPercent
		r.Trades = append(r.Trades, t)

		addBucket(r.ByMarket, categoryKey(t, ByMarket), t.RiskPercent)
		addBucket(r.ByStyle, categoryKey(t, ByStyle), t.RiskPercent)
	}

	r.Total = round2(total)
	for key, b := range r.ByMarket {
		b.Risk = round2(b.Risk)
		r.ByMarket[key] = b
	}
	for key, b := range r.ByStyle {
		b.Risk = round2(b.Risk)
		r.ByStyle[key] = b
	}
	return r
}

func addBucket(m map[string]RiskBucket, key string, riskPercent float64) {
	b := m[key]
	b.Risk += riskPercent
	b.Count++
	m[key] = b
}

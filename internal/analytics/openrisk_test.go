package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tradeJournalBot/internal/domain"
)

func pendingTrade(id int64, market domain.Market, style domain.Style, risk float64) *domain.Trade {
	return &domain.Trade{
		ID:          id,
		Market:      market,
		Style:       style,
		Status:      domain.StatusPending,
		RiskPercent: risk,
	}
}

func TestComputeOpenRisk(t *testing.T) {
	t.Run("no pending trades", func(t *testing.T) {
		r := ComputeOpenRisk(nil)
		assert.Equal(t, 0.0, r.Total)
		assert.Equal(t, 0, r.Count)
		assert.NotNil(t, r.ByMarket)
		assert.NotNil(t, r.ByStyle)
		assert.NotNil(t, r.Trades)
		assert.Empty(t, r.Trades)
	})

	t.Run("sums risk across pending trades", func(t *testing.T) {
		trades := []*domain.Trade{
			pendingTrade(1, domain.MarketCommodities, domain.StyleSwing, 1),
			pendingTrade(2, domain.MarketCommodities, domain.StyleScalping, 0.5),
			pendingTrade(3, domain.MarketCurrencies, domain.StyleSwing, 2),
		}
		r := ComputeOpenRisk(trades)
		assert.Equal(t, 3.5, r.Total)
		assert.Equal(t, 3, r.Count)

		assert.Equal(t, RiskBucket{Risk: 1.5, Count: 2}, r.ByMarket["Commodities"])
		assert.Equal(t, RiskBucket{Risk: 2, Count: 1}, r.ByMarket["Currencies"])
		assert.Equal(t, RiskBucket{Risk: 3, Count: 2}, r.ByStyle["Swing"])
		assert.Equal(t, RiskBucket{Risk: 0.5, Count: 1}, r.ByStyle["Scalping"])
	})

	t.Run("ignores closed and cancelled trades", func(t *testing.T) {
		trades := []*domain.Trade{
			pendingTrade(1, domain.MarketCommodities, domain.StyleSwing, 1),
			{ID: 2, Status: domain.StatusClosed, RiskPercent: 5, PnLR: 1},
			{ID: 3, Status: domain.StatusCancelled, RiskPercent: 5},
		}
		r := ComputeOpenRisk(trades)
		assert.Equal(t, 1.0, r.Total)
		assert.Equal(t, 1, r.Count)
		assert.Len(t, r.Trades, 1)
	})

	t.Run("free risk trades stay in the count", func(t *testing.T) {
		trades := []*domain.Trade{
			pendingTrade(1, domain.MarketCommodities, domain.StyleSwing, 0),
		}
		r := ComputeOpenRisk(trades)
		assert.Equal(t, 0.0, r.Total)
		assert.Equal(t, 1, r.Count)
	})

	t.Run("preserves scan order", func(t *testing.T) {
		trades := []*domain.Trade{
			pendingTrade(3, domain.MarketCommodities, domain.StyleSwing, 1),
			pendingTrade(1, domain.MarketCurrencies, domain.StyleSwing, 1),
			pendingTrade(7, domain.MarketStockUS, domain.StyleSwing, 1),
		}
		r := ComputeOpenRisk(trades)
		ids := make([]int64, 0, len(r.Trades))
		for _, tr := range r.Trades {
			ids = append(ids, tr.ID)
		}
		assert.Equal(t, []int64{3, 1, 7}, ids)
	})
}

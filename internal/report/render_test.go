package report

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"tradeJournalBot/internal/analytics"
	"tradeJournalBot/internal/domain"
)

func TestStats(t *testing.T) {
	st := analytics.Stats{
		WinRate:     33.3,
		TotalPnLR:   1.0,
		TotalTrades: 3,
		Wins:        1,
		Losses:      1,
		Breakevens:  1,
	}

	got := Stats("Today", st)
	assert.Equal(t, "REPORT TODAY\n\nWinrate: 33.3%\n1W-1L-1BE\nTotal PnL: 1R\nTrades: 3\n", got)
}

func TestStatsEmptyPeriod(t *testing.T) {
	got := Stats("This Week", analytics.Stats{})
	assert.Contains(t, got, "REPORT THIS WEEK")
	assert.Contains(t, got, "Winrate: 0%")
	assert.Contains(t, got, "0W-0L-0BE")
	assert.Contains(t, got, "Trades: 0")
}

func TestCategoryBreakdown(t *testing.T) {
	t.Run("keys are sorted", func(t *testing.T) {
		groups := map[string]analytics.Stats{
			"Currencies":  {WinRate: 50, TotalPnLR: 0.5, TotalTrades: 2},
			"Commodities": {WinRate: 100, TotalPnLR: 2, TotalTrades: 1},
		}
		got := CategoryBreakdown("By market", groups)
		assert.Contains(t, got, "BY MARKET")
		first := strings.Index(got, "Commodities")
		second := strings.Index(got, "Currencies")
		assert.True(t, first >= 0 && first < second, "expected Commodities before Currencies:\n%s", got)
		assert.Contains(t, got, "- Commodities: 100% WR, +2.00R (1 trades)")
		assert.Contains(t, got, "- Currencies: 50% WR, +0.50R (2 trades)")
	})

	t.Run("negative pnl keeps its sign", func(t *testing.T) {
		groups := map[string]analytics.Stats{
			"Swing": {WinRate: 0, TotalPnLR: -1.5, TotalTrades: 1},
		}
		got := CategoryBreakdown("By style", groups)
		assert.Contains(t, got, "- Swing: 0% WR, -1.50R (1 trades)")
	})

	t.Run("no groups", func(t *testing.T) {
		got := CategoryBreakdown("By market", nil)
		assert.Contains(t, got, "No closed trades in this period.")
	})
}

func openRiskFixture(n int) analytics.OpenRisk {
	trades := make([]*domain.Trade, 0, n)
	for i := 1; i <= n; i++ {
		trades = append(trades, &domain.Trade{
			ID:          int64(i),
			Ticker:      fmt.Sprintf("T%d", i),
			Direction:   domain.Buy,
			Entry:       100,
			StopLoss:    95,
			RiskPercent: 1,
			Status:      domain.StatusPending,
		})
	}
	return analytics.OpenRisk{
		Total:    float64(n),
		Count:    n,
		ByMarket: map[string]analytics.RiskBucket{"Commodities": {Risk: float64(n), Count: n}},
		ByStyle:  map[string]analytics.RiskBucket{"Swing": {Risk: float64(n), Count: n}},
		Trades:   trades,
	}
}

func TestOpenRisk(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 4, 5, 0, time.UTC)

	t.Run("empty snapshot", func(t *testing.T) {
		got := OpenRisk(analytics.OpenRisk{}, now)
		assert.Contains(t, got, "OPEN RISK")
		assert.Contains(t, got, "No open positions")
		assert.Contains(t, got, "TOTAL RISK: 0%")
		assert.Contains(t, got, "Updated: 15:04:05")
	})

	t.Run("buckets and details", func(t *testing.T) {
		got := OpenRisk(openRiskFixture(2), now)
		assert.Contains(t, got, "TOTAL RISK: 2%")
		assert.Contains(t, got, "Open trades: 2")
		assert.Contains(t, got, "BY MARKET:")
		assert.Contains(t, got, "  - Commodities: 2% (2)")
		assert.Contains(t, got, "BY STYLE:")
		assert.Contains(t, got, "1. T1 BUY @ 100")
		assert.Contains(t, got, "   SL: 95 | Risk: 1%")
		assert.NotContains(t, got, "more")
	})

	t.Run("details capped", func(t *testing.T) {
		got := OpenRisk(openRiskFixture(13), now)
		assert.Contains(t, got, "10. T10 BUY @ 100")
		assert.NotContains(t, got, "11. T11")
		assert.Contains(t, got, "... and 3 more")
	})

	t.Run("refresh timestamp changes the body", func(t *testing.T) {
		r := openRiskFixture(1)
		first := OpenRisk(r, now)
		second := OpenRisk(r, now.Add(time.Second))
		assert.NotEqual(t, first, second)
	})
}

func TestScheduledOpenRisk(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 30, 0, 0, time.UTC)
	got := ScheduledOpenRisk(openRiskFixture(1), now)
	assert.Contains(t, got, "OPEN RISK REPORT")
	assert.Contains(t, got, "10/03/2026 - 12:30 UTC")
	assert.Contains(t, got, "TOTAL RISK: 1%")
	assert.NotContains(t, got, "Updated:")
}

package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradeJournalBot/internal/analytics"
	"tradeJournalBot/internal/domain"
	"tradeJournalBot/internal/ports"
)

// Mock implementations
type mockLogger struct {
	debugMsgs []string
	infoMsgs  []string
	warnMsgs  []string
	errorMsgs []string
}

func (m *mockLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {
	m.debugMsgs = append(m.debugMsgs, msg)
}

func (m *mockLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{}) {
	m.infoMsgs = append(m.infoMsgs, msg)
}

func (m *mockLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{}) {
	m.warnMsgs = append(m.warnMsgs, msg)
}

func (m *mockLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
	m.errorMsgs = append(m.errorMsgs, msg)
}

// fakeRepo is an in-memory TradeRepository with the same row-count id
// semantics as the real stores: the first record gets id 1, and ids follow
// the record count.
type fakeRepo struct {
	trades    []*domain.Trade
	appendErr error
	findErr   error
	updateErr error
	scanErr   error
}

func (r *fakeRepo) Append(ctx context.Context, trade *domain.Trade) (int64, error) {
	if r.appendErr != nil {
		return 0, r.appendErr
	}
	id := int64(len(r.trades) + 1)
	stored := *trade
	stored.ID = id
	r.trades = append(r.trades, &stored)
	return id, nil
}

func (r *fakeRepo) FindByID(ctx context.Context, id int64) (*domain.Trade, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, t := range r.trades {
		if t.ID == id {
			copy := *t
			return &copy, nil
		}
	}
	return nil, ports.ErrNotFound
}

func (r *fakeRepo) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	for _, t := range r.trades {
		if t.ID != id {
			continue
		}
		for name, value := range fields {
			applyField(t, name, value)
		}
		return nil
	}
	return ports.ErrNotFound
}

func (r *fakeRepo) ScanAll(ctx context.Context, filter ports.TradeFilter) ([]*domain.Trade, error) {
	if r.scanErr != nil {
		return nil, r.scanErr
	}
	out := make([]*domain.Trade, 0, len(r.trades))
	for _, t := range r.trades {
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		copy := *t
		out = append(out, &copy)
	}
	return out, nil
}

func applyField(t *domain.Trade, name string, value interface{}) {
	switch name {
	case ports.FieldStatus:
		t.Status = value.(domain.Status)
	case ports.FieldPnLR:
		t.PnLR = value.(float64)
	case ports.FieldStopLoss:
		t.StopLoss = value.(float64)
	case ports.FieldRisk:
		t.RiskPercent = value.(float64)
	case ports.FieldTakeProfit:
		t.TakeProfit = value.(float64)
	case ports.FieldReason:
		t.Reason = value.(string)
	case ports.FieldNote:
		t.Note = value.(string)
	}
}

func newTestService(t *testing.T, repo *fakeRepo) *JournalService {
	t.Helper()
	svc, err := NewJournalService(&mockLogger{}, repo)
	require.NoError(t, err)
	return svc
}

func validRequest() CreateRequest {
	return CreateRequest{
		Market:    domain.MarketCommodities,
		Style:     domain.StyleSwing,
		Direction: domain.Buy,
		Ticker:    "xauusd",
		Entry:     "2650",
		StopLoss:  "2640",
		Risk:      "1",
		Reason:    "Support retest",
	}
}

func TestNewJournalService(t *testing.T) {
	_, err := NewJournalService(nil, &fakeRepo{})
	assert.Error(t, err)

	_, err = NewJournalService(&mockLogger{}, nil)
	assert.Error(t, err)

	svc, err := NewJournalService(&mockLogger{}, &fakeRepo{})
	require.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestCreateTrade(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a pending trade with uppercased ticker", func(t *testing.T) {
		repo := &fakeRepo{}
		svc := newTestService(t, repo)

		trade, err := svc.CreateTrade(ctx, validRequest())
		require.NoError(t, err)
		assert.Equal(t, int64(1), trade.ID)
		assert.Equal(t, "XAUUSD", trade.Ticker)
		assert.Equal(t, domain.StatusPending, trade.Status)
		assert.Equal(t, 2650.0, trade.Entry)
		assert.Equal(t, 2640.0, trade.StopLoss)
		assert.Equal(t, 1.0, trade.RiskPercent)
		assert.False(t, trade.Timestamp.IsZero())
	})

	t.Run("assigns sequential ids", func(t *testing.T) {
		repo := &fakeRepo{}
		svc := newTestService(t, repo)

		for want := int64(1); want <= 5; want++ {
			trade, err := svc.CreateTrade(ctx, validRequest())
			require.NoError(t, err)
			assert.Equal(t, want, trade.ID)
		}
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		repo := &fakeRepo{}
		svc := newTestService(t, repo)

		tests := []struct {
			name   string
			mutate func(*CreateRequest)
		}{
			{"unknown market", func(r *CreateRequest) { r.Market = "Crypto" }},
			{"unknown style", func(r *CreateRequest) { r.Style = "Position" }},
			{"bad direction", func(r *CreateRequest) { r.Direction = "LONG" }},
			{"empty ticker", func(r *CreateRequest) { r.Ticker = "  " }},
			{"bad entry", func(r *CreateRequest) { r.Entry = "abc" }},
			{"bad stop", func(r *CreateRequest) { r.StopLoss = "1,5" }},
			{"bad risk", func(r *CreateRequest) { r.Risk = "one" }},
			{"negative risk", func(r *CreateRequest) { r.Risk = "-1" }},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				req := validRequest()
				tt.mutate(&req)
				_, err := svc.CreateTrade(ctx, req)
				assert.ErrorIs(t, err, ports.ErrValidation)
			})
		}
		assert.Empty(t, repo.trades, "no trade should be stored on validation failure")
	})
}

func TestCloseTrade(t *testing.T) {
	ctx := context.Background()

	t.Run("stores the result exactly as entered", func(t *testing.T) {
		repo := &fakeRepo{}
		svc := newTestService(t, repo)
		trade, err := svc.CreateTrade(ctx, validRequest())
		require.NoError(t, err)

		pnl, err := svc.CloseTrade(ctx, trade.ID, "2.5")
		require.NoError(t, err)
		assert.Equal(t, 2.5, pnl)

		stored, err := svc.Trade(ctx, trade.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusClosed, stored.Status)
		assert.Equal(t, 2.5, stored.PnLR)
	})

	t.Run("negative result", func(t *testing.T) {
		repo := &fakeRepo{}
		svc := newTestService(t, repo)
		trade, err := svc.CreateTrade(ctx, validRequest())
		require.NoError(t, err)

		pnl, err := svc.CloseTrade(ctx, trade.ID, "-1")
		require.NoError(t, err)
		assert.Equal(t, -1.0, pnl)
	})

	t.Run("rejects a non-numeric result", func(t *testing.T) {
		repo := &fakeRepo{}
		svc := newTestService(t, repo)
		trade, err := svc.CreateTrade(ctx, validRequest())
		require.NoError(t, err)

		_, err = svc.CloseTrade(ctx, trade.ID, "two")
		assert.ErrorIs(t, err, ports.ErrValidation)
	})

	t.Run("rejects closing a closed trade", func(t *testing.T) {
		repo := &fakeRepo{}
		svc := newTestService(t, repo)
		trade, err := svc.CreateTrade(ctx, validRequest())
		require.NoError(t, err)

		_, err = svc.CloseTrade(ctx, trade.ID, "1")
		require.NoError(t, err)
		_, err = svc.CloseTrade(ctx, trade.ID, "2")
		assert.ErrorIs(t, err, ports.ErrTradeNotOpen)
	})

	t.Run("unknown id", func(t *testing.T) {
		svc := newTestService(t, &fakeRepo{})
		_, err := svc.CloseTrade(ctx, 42, "1")
		assert.ErrorIs(t, err, ports.ErrNotFound)
	})
}

func TestCloseBreakeven(t *testing.T) {
	ctx := context.Background()
	repo := &fakeRepo{}
	svc := newTestService(t, repo)
	trade, err := svc.CreateTrade(ctx, validRequest())
	require.NoError(t, err)

	require.NoError(t, svc.CloseBreakeven(ctx, trade.ID))

	stored, err := svc.Trade(ctx, trade.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusClosed, stored.Status)
	assert.Equal(t, 0.0, stored.PnLR)
	assert.True(t, stored.IsBreakeven())
}

func TestMoveStopLoss(t *testing.T) {
	ctx := context.Background()

	t.Run("recalculates risk proportionally", func(t *testing.T) {
		repo := &fakeRepo{}
		svc := newTestService(t, repo)
		trade, err := svc.CreateTrade(ctx, validRequest()) // entry 2650, SL 2640, risk 1%
		require.NoError(t, err)

		newRisk, err := svc.MoveStopLoss(ctx, trade.ID, "2645")
		require.NoError(t, err)
		assert.Equal(t, 0.5, newRisk)

		stored, err := svc.Trade(ctx, trade.ID)
		require.NoError(t, err)
		assert.Equal(t, 2645.0, stored.StopLoss)
		assert.Equal(t, 0.5, stored.RiskPercent)
		assert.Equal(t, domain.StatusPending, stored.Status)
	})

	t.Run("stop at entry yields free risk", func(t *testing.T) {
		repo := &fakeRepo{}
		svc := newTestService(t, repo)
		trade, err := svc.CreateTrade(ctx, validRequest())
		require.NoError(t, err)

		newRisk, err := svc.MoveStopLoss(ctx, trade.ID, "2650")
		require.NoError(t, err)
		assert.Equal(t, 0.0, newRisk)
	})

	t.Run("consecutive moves compound from the stored risk", func(t *testing.T) {
		repo := &fakeRepo{}
		svc := newTestService(t, repo)
		trade, err := svc.CreateTrade(ctx, validRequest())
		require.NoError(t, err)

		_, err = svc.MoveStopLoss(ctx, trade.ID, "2645") // risk 0.5
		require.NoError(t, err)
		newRisk, err := svc.MoveStopLoss(ctx, trade.ID, "2647.5")
		require.NoError(t, err)
		assert.Equal(t, 0.25, newRisk)
	})

	t.Run("rejects a terminal trade", func(t *testing.T) {
		repo := &fakeRepo{}
		svc := newTestService(t, repo)
		trade, err := svc.CreateTrade(ctx, validRequest())
		require.NoError(t, err)
		require.NoError(t, svc.CancelTrade(ctx, trade.ID))

		_, err = svc.MoveStopLoss(ctx, trade.ID, "2645")
		assert.ErrorIs(t, err, ports.ErrTradeNotOpen)
	})
}

func TestSetTakeProfit(t *testing.T) {
	ctx := context.Background()
	repo := &fakeRepo{}
	svc := newTestService(t, repo)
	trade, err := svc.CreateTrade(ctx, validRequest())
	require.NoError(t, err)

	tp, err := svc.SetTakeProfit(ctx, trade.ID, "2680")
	require.NoError(t, err)
	assert.Equal(t, 2680.0, tp)

	stored, err := svc.Trade(ctx, trade.ID)
	require.NoError(t, err)
	assert.Equal(t, 2680.0, stored.TakeProfit)
	assert.Equal(t, domain.StatusPending, stored.Status)
}

func TestPartialClose(t *testing.T) {
	ctx := context.Background()

	t.Run("appends a note line and keeps the trade pending", func(t *testing.T) {
		repo := &fakeRepo{}
		svc := newTestService(t, repo)
		trade, err := svc.CreateTrade(ctx, validRequest())
		require.NoError(t, err)

		require.NoError(t, svc.PartialClose(ctx, trade.ID, "50", "1.2"))

		stored, err := svc.Trade(ctx, trade.ID)
		require.NoError(t, err)
		assert.Equal(t, "Closed 50%: +1.2R", stored.Note)
		assert.Equal(t, domain.StatusPending, stored.Status)
	})

	t.Run("successive partials accumulate", func(t *testing.T) {
		repo := &fakeRepo{}
		svc := newTestService(t, repo)
		trade, err := svc.CreateTrade(ctx, validRequest())
		require.NoError(t, err)

		require.NoError(t, svc.PartialClose(ctx, trade.ID, "50", "1.2"))
		require.NoError(t, svc.PartialClose(ctx, trade.ID, "25", "-0.5"))

		stored, err := svc.Trade(ctx, trade.ID)
		require.NoError(t, err)
		assert.Equal(t, "Closed 50%: +1.2R\nClosed 25%: -0.5R", stored.Note)
	})

	t.Run("rejects malformed numbers", func(t *testing.T) {
		repo := &fakeRepo{}
		svc := newTestService(t, repo)
		trade, err := svc.CreateTrade(ctx, validRequest())
		require.NoError(t, err)

		assert.ErrorIs(t, svc.PartialClose(ctx, trade.ID, "half", "1"), ports.ErrValidation)
		assert.ErrorIs(t, svc.PartialClose(ctx, trade.ID, "50", "+one"), ports.ErrValidation)
	})
}

func TestEditReason(t *testing.T) {
	ctx := context.Background()
	repo := &fakeRepo{}
	svc := newTestService(t, repo)
	trade, err := svc.CreateTrade(ctx, validRequest())
	require.NoError(t, err)

	require.NoError(t, svc.EditReason(ctx, trade.ID, "Breakout confirmed"))

	stored, err := svc.Trade(ctx, trade.ID)
	require.NoError(t, err)
	assert.Equal(t, "Breakout confirmed", stored.Reason)

	assert.ErrorIs(t, svc.EditReason(ctx, trade.ID, "   "), ports.ErrValidation)
}

func TestCancelTrade(t *testing.T) {
	ctx := context.Background()
	repo := &fakeRepo{}
	svc := newTestService(t, repo)
	trade, err := svc.CreateTrade(ctx, validRequest())
	require.NoError(t, err)

	require.NoError(t, svc.CancelTrade(ctx, trade.ID))

	stored, err := svc.Trade(ctx, trade.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, stored.Status)
	assert.Equal(t, 0.0, stored.PnLR)

	// A cancelled trade rejects every further mutation.
	assert.ErrorIs(t, svc.CancelTrade(ctx, trade.ID), ports.ErrTradeNotOpen)
	_, err = svc.CloseTrade(ctx, trade.ID, "1")
	assert.ErrorIs(t, err, ports.ErrTradeNotOpen)
}

func TestPendingTrades(t *testing.T) {
	ctx := context.Background()
	repo := &fakeRepo{}
	svc := newTestService(t, repo)

	first, err := svc.CreateTrade(ctx, validRequest())
	require.NoError(t, err)
	second, err := svc.CreateTrade(ctx, validRequest())
	require.NoError(t, err)
	_, err = svc.CloseTrade(ctx, first.ID, "1")
	require.NoError(t, err)

	pending, err := svc.PendingTrades(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, second.ID, pending[0].ID)
}

func TestStatsAndOpenRisk(t *testing.T) {
	ctx := context.Background()
	repo := &fakeRepo{}
	svc := newTestService(t, repo)

	for i := 0; i < 3; i++ {
		_, err := svc.CreateTrade(ctx, validRequest())
		require.NoError(t, err)
	}
	_, err := svc.CloseTrade(ctx, 1, "2")
	require.NoError(t, err)
	_, err = svc.CloseTrade(ctx, 2, "-1")
	require.NoError(t, err)

	stats, err := svc.Stats(ctx, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalTrades)
	assert.Equal(t, 1, stats.Wins)
	assert.Equal(t, 1, stats.Losses)
	assert.Equal(t, 1.0, stats.TotalPnLR)
	assert.Equal(t, 50.0, stats.WinRate)

	byMarket, err := svc.StatsByCategory(ctx, analytics.ByMarket, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 2, byMarket["Commodities"].TotalTrades)

	risk, err := svc.OpenRisk(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, risk.Count)
	assert.Equal(t, 1.0, risk.Total)
}

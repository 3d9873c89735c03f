package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"tradeJournalBot/internal/analytics"
	"tradeJournalBot/internal/domain"
	"tradeJournalBot/internal/ports"
	"tradeJournalBot/internal/risk"
)

// JournalService orchestrates trade lifecycle operations and reporting reads
// against the trade repository. It holds no record state of its own: every
// operation re-reads through the repository, which is the source of truth.
type JournalService struct {
	logger ports.Logger
	repo   ports.TradeRepository
	now    func() time.Time
}

// NewJournalService creates the application service.
func NewJournalService(logger ports.Logger, repo ports.TradeRepository) (*JournalService, error) {
	if logger == nil || repo == nil {
		return nil, fmt.Errorf("missing required dependencies for JournalService")
	}
	return &JournalService{
		logger: logger,
		repo:   repo,
		now:    time.Now,
	}, nil
}

// CreateRequest carries the validated primitives collected by the front-end
// for a new trade. Numeric values arrive as text and are parsed here; a
// malformed number fails with ErrValidation so the caller can re-prompt.
type CreateRequest struct {
	Market    domain.Market
	Style     domain.Style
	Direction domain.Direction
	Ticker    string
	Entry     string
	StopLoss  string
	Risk      string
	Chart     string
	Reason    string
}

// CreateTrade validates the request, persists a new Pending trade and
// returns it with its assigned id.
func (s *JournalService) CreateTrade(ctx context.Context, req CreateRequest) (*domain.Trade, error) {
	if !req.Market.IsValid() {
		return nil, fmt.Errorf("market %q is not a known market: %w", req.Market, ports.ErrValidation)
	}
	if !req.Style.IsValid() {
		return nil, fmt.Errorf("style %q is not a known style: %w", req.Style, ports.ErrValidation)
	}
	if !req.Direction.IsValid() {
		return nil, fmt.Errorf("direction %q must be BUY or SELL: %w", req.Direction, ports.ErrValidation)
	}

	ticker := strings.ToUpper(strings.TrimSpace(req.Ticker))
	if ticker == "" {
		return nil, fmt.Errorf("ticker must not be empty: %w", ports.ErrValidation)
	}

	entry, err := parseNumber("entry", req.Entry)
	if err != nil {
		return nil, err
	}
	stopLoss, err := parseNumber("stop-loss", req.StopLoss)
	if err != nil {
		return nil, err
	}
	riskPercent, err := parseNumber("risk", req.Risk)
	if err != nil {
		return nil, err
	}
	if riskPercent < 0 {
		return nil, fmt.Errorf("risk must not be negative, got %v: %w", riskPercent, ports.ErrValidation)
	}

	trade := &domain.Trade{
		Timestamp:   s.now(),
		Market:      req.Market,
		Style:       req.Style,
		Direction:   req.Direction,
		Ticker:      ticker,
		Entry:       entry,
		StopLoss:    stopLoss,
		RiskPercent: riskPercent,
		Chart:       req.Chart,
		Reason:      req.Reason,
		Status:      domain.StatusPending,
	}

	id, err := s.repo.Append(ctx, trade)
	if err != nil {
		s.logger.Error(ctx, err, "Failed to append trade", map[string]interface{}{"ticker": ticker})
		return nil, err
	}
	trade.ID = id
	s.logger.Info(ctx, "Trade created", map[string]interface{}{
		"tradeID": id, "ticker": ticker, "direction": trade.Direction, "risk": riskPercent,
	})
	return trade, nil
}

// CloseTrade closes a pending trade with the given signed R result.
// The value is stored exactly as entered.
func (s *JournalService) CloseTrade(ctx context.Context, id int64, pnlText string) (float64, error) {
	pnl, err := parseNumber("pnl", pnlText)
	if err != nil {
		return 0, err
	}
	if _, err := s.openTrade(ctx, id); err != nil {
		return 0, err
	}
	err = s.repo.UpdateFields(ctx, id, map[string]interface{}{
		ports.FieldStatus: domain.StatusClosed,
		ports.FieldPnLR:   pnl,
	})
	if err != nil {
		return 0, err
	}
	s.logger.Info(ctx, "Trade closed", map[string]interface{}{"tradeID": id, "pnlR": pnl})
	return pnl, nil
}

// CloseBreakeven closes a pending trade flat: status Closed, PnL exactly 0.
func (s *JournalService) CloseBreakeven(ctx context.Context, id int64) error {
	if _, err := s.openTrade(ctx, id); err != nil {
		return err
	}
	err := s.repo.UpdateFields(ctx, id, map[string]interface{}{
		ports.FieldStatus: domain.StatusClosed,
		ports.FieldPnLR:   0.0,
	})
	if err != nil {
		return err
	}
	s.logger.Info(ctx, "Trade closed at breakeven", map[string]interface{}{"tradeID": id})
	return nil
}

// MoveStopLoss moves the stop of a pending trade and recalculates its risk,
// returning the new risk percentage (0 means the trade is now free risk).
func (s *JournalService) MoveStopLoss(ctx context.Context, id int64, newStopText string) (float64, error) {
	newStop, err := parseNumber("stop-loss", newStopText)
	if err != nil {
		return 0, err
	}
	trade, err := s.openTrade(ctx, id)
	if err != nil {
		return 0, err
	}

	newRisk := risk.Recalculate(trade.Entry, trade.StopLoss, newStop, trade.RiskPercent, trade.Direction)
	err = s.repo.UpdateFields(ctx, id, map[string]interface{}{
		ports.FieldStopLoss: newStop,
		ports.FieldRisk:     newRisk,
	})
	if err != nil {
		return 0, err
	}
	s.logger.Info(ctx, "Stop-loss moved", map[string]interface{}{
		"tradeID": id, "newStop": newStop, "newRisk": newRisk,
	})
	return newRisk, nil
}

// SetTakeProfit records a take-profit level on a pending trade.
func (s *JournalService) SetTakeProfit(ctx context.Context, id int64, tpText string) (float64, error) {
	tp, err := parseNumber("take-profit", tpText)
	if err != nil {
		return 0, err
	}
	if _, err := s.openTrade(ctx, id); err != nil {
		return 0, err
	}
	err = s.repo.UpdateFields(ctx, id, map[string]interface{}{ports.FieldTakeProfit: tp})
	if err != nil {
		return 0, err
	}
	s.logger.Info(ctx, "Take-profit set", map[string]interface{}{"tradeID": id, "takeProfit": tp})
	return tp, nil
}

// PartialClose records a partial close as an annotation on the trade's note
// log. The trade stays Pending.
func (s *JournalService) PartialClose(ctx context.Context, id int64, percentText, pnlText string) error {
	percent, err := parseNumber("percent", percentText)
	if err != nil {
		return err
	}
	pnl, err := parseNumber("pnl", pnlText)
	if err != nil {
		return err
	}
	trade, err := s.openTrade(ctx, id)
	if err != nil {
		return err
	}

	line := fmt.Sprintf("Closed %g%%: %+gR", percent, pnl)
	note := strings.TrimSpace(trade.Note + "\n" + line)
	err = s.repo.UpdateFields(ctx, id, map[string]interface{}{ports.FieldNote: note})
	if err != nil {
		return err
	}
	s.logger.Info(ctx, "Partial close recorded", map[string]interface{}{
		"tradeID": id, "percent": percent, "pnlR": pnl,
	})
	return nil
}

// EditReason overwrites the rationale of a pending trade.
func (s *JournalService) EditReason(ctx context.Context, id int64, reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return fmt.Errorf("reason must not be empty: %w", ports.ErrValidation)
	}
	if _, err := s.openTrade(ctx, id); err != nil {
		return err
	}
	return s.repo.UpdateFields(ctx, id, map[string]interface{}{ports.FieldReason: reason})
}

// CancelTrade marks a pending trade Cancelled. No PnL is recorded.
func (s *JournalService) CancelTrade(ctx context.Context, id int64) error {
	if _, err := s.openTrade(ctx, id); err != nil {
		return err
	}
	err := s.repo.UpdateFields(ctx, id, map[string]interface{}{
		ports.FieldStatus: domain.StatusCancelled,
	})
	if err != nil {
		return err
	}
	s.logger.Info(ctx, "Trade cancelled", map[string]interface{}{"tradeID": id})
	return nil
}

// Trade retrieves a single trade by id.
func (s *JournalService) Trade(ctx context.Context, id int64) (*domain.Trade, error) {
	return s.repo.FindByID(ctx, id)
}

// PendingTrades lists the currently open trades in store order.
func (s *JournalService) PendingTrades(ctx context.Context) ([]*domain.Trade, error) {
	return s.repo.ScanAll(ctx, ports.TradeFilter{Status: domain.StatusPending})
}

// Stats computes the aggregate statistics over closed trades inside
// [start, end]; zero bounds are open.
func (s *JournalService) Stats(ctx context.Context, start, end time.Time) (analytics.Stats, error) {
	trades, err := s.repo.ScanAll(ctx, ports.TradeFilter{})
	if err != nil {
		return analytics.Stats{}, err
	}
	return analytics.ComputeStats(trades, start, end), nil
}

// StatsByCategory computes the per-market or per-style breakdown over closed
// trades inside [start, end].
func (s *JournalService) StatsByCategory(ctx context.Context, cat analytics.Category, start, end time.Time) (map[string]analytics.Stats, error) {
	trades, err := s.repo.ScanAll(ctx, ports.TradeFilter{})
	if err != nil {
		return nil, err
	}
	return analytics.ComputeStatsByCategory(trades, cat, start, end), nil
}

// OpenRisk computes the current exposure snapshot over pending trades.
func (s *JournalService) OpenRisk(ctx context.Context) (analytics.OpenRisk, error) {
	trades, err := s.repo.ScanAll(ctx, ports.TradeFilter{Status: domain.StatusPending})
	if err != nil {
		return analytics.OpenRisk{}, err
	}
	return analytics.ComputeOpenRisk(trades), nil
}

// openTrade fetches a trade and enforces the one-way lifecycle: mutations
// are rejected once a trade is Closed or Cancelled.
func (s *JournalService) openTrade(ctx context.Context, id int64) (*domain.Trade, error) {
	trade, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if trade.IsTerminal() {
		return nil, fmt.Errorf("trade %d has status %s: %w", id, trade.Status, ports.ErrTradeNotOpen)
	}
	return trade, nil
}

func parseNumber(field, text string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a number: %w", field, text, ports.ErrValidation)
	}
	return v, nil
}

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"tradeJournalBot/internal/domain"
	"tradeJournalBot/internal/ports"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Repository implements ports.TradeRepository using SQLite.
type Repository struct {
	db     *sql.DB
	logger ports.Logger
}

// Config holds configuration for the SQLite repository.
type Config struct {
	DBPath string
	Logger ports.Logger
}

// columnByField maps the canonical journal column titles to table columns.
// UpdateFields keys outside this map are silently skipped, matching the
// historical sheet behavior.
var columnByField = map[string]string{
	ports.FieldTimestamp:  "timestamp",
	ports.FieldMarket:     "market",
	ports.FieldStyle:      "style",
	ports.FieldDirection:  "direction",
	ports.FieldTicker:     "ticker",
	ports.FieldEntry:      "entry",
	ports.FieldStopLoss:   "stop_loss",
	ports.FieldRisk:       "risk_percent",
	ports.FieldChart:      "chart",
	ports.FieldReason:     "reason",
	ports.FieldTakeProfit: "take_profit",
	ports.FieldStatus:     "status",
	ports.FieldPnLR:       "pnl_r",
	ports.FieldNote:       "note",
}

// NewRepository creates a new SQLite repository instance.
func NewRepository(cfg Config) (*Repository, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for SQLite repository")
	}
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = "./data/journal.db"
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		err = fmt.Errorf("failed to create data directory '%s': %w", filepath.Dir(dbPath), err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		err = fmt.Errorf("failed to open database at '%s': %w", dbPath, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		err = fmt.Errorf("failed to ping database at '%s': %w", dbPath, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	// The journal is single-writer; one connection is all SQLite needs here.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	repo := &Repository{db: db, logger: cfg.Logger}

	if err := repo.initializeSchema(context.Background()); err != nil {
		db.Close()
		err = fmt.Errorf("failed to initialize database schema: %w", err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}
	cfg.Logger.Info(context.Background(), "SQLite journal store ready", map[string]interface{}{"path": dbPath})

	return repo, nil
}

func (r *Repository) initializeSchema(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS trades (
		id INTEGER PRIMARY KEY,
		timestamp TIMESTAMP NOT NULL,
		market TEXT NOT NULL,
		style TEXT NOT NULL,
		direction TEXT NOT NULL,
		ticker TEXT NOT NULL,
		entry REAL NOT NULL,
		stop_loss REAL NOT NULL,
		risk_percent REAL NOT NULL,
		chart TEXT NOT NULL DEFAULT '',
		reason TEXT NOT NULL DEFAULT '',
		take_profit REAL DEFAULT NULL,
		status TEXT NOT NULL,
		pnl_r REAL DEFAULT NULL,
		note TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_trades_status ON trades (status);
	`
	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to execute schema initialization: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	if r.db != nil {
		r.logger.Info(context.Background(), "Closing SQLite journal store")
		return r.db.Close()
	}
	return nil
}

// Append persists a new trade. The id is assigned from the current row count
// plus one, mirroring the sheet layout where row 1 is the header and the
// first trade occupies row 2 with id 1.
func (r *Repository) Append(ctx context.Context, trade *domain.Trade) (int64, error) {
	var nextID int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) + 1 FROM trades`).Scan(&nextID); err != nil {
		return 0, fmt.Errorf("failed to determine next trade id: %w: %v", ports.ErrQueryFailed, err)
	}

	const query = `
	INSERT INTO trades (id, timestamp, market, style, direction, ticker, entry,
	                    stop_loss, risk_percent, chart, reason, take_profit, status, pnl_r, note)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NULL, ?, NULL, '')`

	_, err := r.db.ExecContext(ctx, query,
		nextID, trade.Timestamp, trade.Market, trade.Style, trade.Direction, trade.Ticker,
		trade.Entry, trade.StopLoss, trade.RiskPercent, trade.Chart, trade.Reason, trade.Status)
	if err != nil {
		return 0, fmt.Errorf("failed to insert trade %s: %w: %v", trade.Ticker, ports.ErrQueryFailed, err)
	}

	trade.ID = nextID
	r.logger.Debug(ctx, "Trade appended", map[string]interface{}{"tradeID": nextID, "ticker": trade.Ticker})
	return nextID, nil
}

// FindByID retrieves a trade by its id.
func (r *Repository) FindByID(ctx context.Context, id int64) (*domain.Trade, error) {
	const query = selectColumns + ` WHERE id = ?`

	trade, err := scanTrade(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("trade id %d: %w", id, ports.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query trade by id %d: %w: %v", id, ports.ErrQueryFailed, err)
	}
	return trade, nil
}

// UpdateFields applies a sparse set of field updates keyed by the canonical
// column titles. Each field is written as its own statement; earlier writes
// are not rolled back if a later one fails (best-effort contract). Unknown
// field names are skipped.
func (r *Repository) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	updated := false
	for _, name := range names {
		column, ok := columnByField[name]
		if !ok {
			r.logger.Debug(ctx, "Skipping unknown field name", map[string]interface{}{"field": name, "tradeID": id})
			continue
		}

		query := fmt.Sprintf("UPDATE trades SET %s = ? WHERE id = ?", column)
		result, err := r.db.ExecContext(ctx, query, normalizeValue(fields[name]), id)
		if err != nil {
			return fmt.Errorf("failed to update field %s for trade %d: %w: %v", name, id, ports.ErrUpdateFailed, err)
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected updating trade %d: %w: %v", id, ports.ErrUpdateFailed, err)
		}
		if rowsAffected == 0 {
			return fmt.Errorf("trade id %d not found for update: %w", id, ports.ErrNotFound)
		}
		updated = true
	}

	if updated {
		r.logger.Debug(ctx, "Trade updated", map[string]interface{}{"tradeID": id, "fields": names})
	}
	return nil
}

// ScanAll returns trades in id order, optionally filtered by status.
func (r *Repository) ScanAll(ctx context.Context, filter ports.TradeFilter) ([]*domain.Trade, error) {
	query := selectColumns
	args := make([]interface{}, 0, 1)
	if filter.Status != "" {
		query += ` WHERE status = ?`
		args = append(args, filter.Status)
	}
	query += ` ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to scan trades: %w: %v", ports.ErrQueryFailed, err)
	}
	defer rows.Close()

	trades := make([]*domain.Trade, 0)
	for rows.Next() {
		trade, err := scanTrade(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade row: %w: %v", ports.ErrQueryFailed, err)
		}
		trades = append(trades, trade)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trade rows: %w: %v", ports.ErrQueryFailed, err)
	}
	return trades, nil
}

const selectColumns = `
	SELECT id, timestamp, market, style, direction, ticker, entry, stop_loss,
	       risk_percent, chart, reason, take_profit, status, pnl_r, note
	FROM trades`

// scanner defines an interface compatible with *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanTrade(s scanner) (*domain.Trade, error) {
	t := &domain.Trade{}
	var market, style, direction, status string
	var takeProfit, pnlR sql.NullFloat64
	err := s.Scan(
		&t.ID, &t.Timestamp, &market, &style, &direction, &t.Ticker, &t.Entry,
		&t.StopLoss, &t.RiskPercent, &t.Chart, &t.Reason, &takeProfit, &status, &pnlR, &t.Note)
	if err != nil {
		return nil, err
	}
	t.Market = domain.Market(market)
	t.Style = domain.Style(style)
	t.Direction = domain.Direction(direction)
	t.Status = domain.Status(status)
	if takeProfit.Valid {
		t.TakeProfit = takeProfit.Float64
	}
	if pnlR.Valid {
		t.PnLR = pnlR.Float64
	}
	return t, nil
}

// normalizeValue converts domain enum values to plain strings so the driver
// binds them without reflection surprises.
func normalizeValue(v interface{}) interface{} {
	switch tv := v.(type) {
	case domain.Status:
		return string(tv)
	case domain.Market:
		return string(tv)
	case domain.Style:
		return string(tv)
	case domain.Direction:
		return string(tv)
	default:
		return v
	}
}

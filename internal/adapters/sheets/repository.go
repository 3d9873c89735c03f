// Package sheets implements ports.TradeRepository on a Google Sheets
// worksheet. Row 1 is the canonical header; each following row is one trade.
// Every read re-fetches the sheet, so the worksheet stays the single source
// of truth across bot restarts and manual edits.
package sheets

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"tradeJournalBot/internal/domain"
	"tradeJournalBot/internal/ports"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Repository implements ports.TradeRepository using the Sheets API.
type Repository struct {
	svc           *sheets.Service
	spreadsheetID string
	sheetName     string
	logger        ports.Logger
	loc           *time.Location
}

// Config holds configuration for the Sheets repository.
type Config struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsJSON []byte // resolved service-account key (see config.Load)
	Logger          ports.Logger
	Location        *time.Location
}

// NewRepository creates the Sheets-backed store and makes sure the header
// row exists before any other operation is allowed to run.
func NewRepository(ctx context.Context, cfg Config) (*Repository, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for Sheets repository")
	}
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet id is required: %w", ports.ErrConfigurationError)
	}
	sheetName := cfg.SheetName
	if sheetName == "" {
		sheetName = "Trades"
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}

	svc, err := sheets.NewService(ctx,
		option.WithCredentialsJSON(cfg.CredentialsJSON),
		option.WithScopes(sheets.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to build sheets client: %w: %v", ports.ErrConnectionFailed, err)
	}

	repo := &Repository{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		sheetName:     sheetName,
		logger:        cfg.Logger,
		loc:           loc,
	}

	if err := repo.ensureHeader(ctx); err != nil {
		return nil, err
	}
	cfg.Logger.Info(ctx, "Sheets journal store ready", map[string]interface{}{
		"spreadsheetID": cfg.SpreadsheetID, "sheet": sheetName,
	})
	return repo, nil
}

// ensureHeader writes the canonical header when the sheet is empty, or
// inserts it above existing rows when row 1 is not a header.
func (r *Repository) ensureHeader(ctx context.Context) error {
	values, err := r.fetchAll(ctx)
	if err != nil {
		return err
	}
	if len(values) > 0 && headerIsValid(values[0]) {
		return nil
	}

	if len(values) > 0 {
		// Data exists but row 1 is not the header: shift everything down first.
		sheetID, err := r.resolveSheetID(ctx)
		if err != nil {
			return err
		}
		_, err = r.svc.Spreadsheets.BatchUpdate(r.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
			Requests: []*sheets.Request{{
				InsertDimension: &sheets.InsertDimensionRequest{
					Range: &sheets.DimensionRange{
						SheetId:    sheetID,
						Dimension:  "ROWS",
						StartIndex: 0,
						EndIndex:   1,
					},
				},
			}},
		}).Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("failed to insert header row: %w: %v", ports.ErrUpdateFailed, err)
		}
	}

	_, err = r.svc.Spreadsheets.Values.Update(r.spreadsheetID, r.rowRange(1), &sheets.ValueRange{
		Values: [][]interface{}{headerRow()},
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to write header row: %w: %v", ports.ErrUpdateFailed, err)
	}
	r.logger.Info(ctx, "Header row created", map[string]interface{}{"sheet": r.sheetName})
	return nil
}

// Append persists a new trade. The id equals the current row count including
// the header, preserving the journal's historical id assignment.
func (r *Repository) Append(ctx context.Context, trade *domain.Trade) (int64, error) {
	values, err := r.fetchAll(ctx)
	if err != nil {
		return 0, err
	}
	nextID := int64(len(values))

	trade.ID = nextID
	_, err = r.svc.Spreadsheets.Values.Append(r.spreadsheetID, r.fullRange(), &sheets.ValueRange{
		Values: [][]interface{}{tradeToRow(trade)},
	}).ValueInputOption("USER_ENTERED").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("failed to append trade row: %w: %v", ports.ErrUpdateFailed, err)
	}

	r.logger.Debug(ctx, "Trade appended", map[string]interface{}{"tradeID": nextID, "ticker": trade.Ticker})
	return nextID, nil
}

// FindByID retrieves a trade by its id.
func (r *Repository) FindByID(ctx context.Context, id int64) (*domain.Trade, error) {
	values, err := r.fetchAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, row := range dataRows(values) {
		if cell(row, 0) == strconv.FormatInt(id, 10) {
			return rowToTrade(row, r.loc)
		}
	}
	return nil, fmt.Errorf("trade id %d: %w", id, ports.ErrNotFound)
}

// UpdateFields applies a sparse set of field updates addressed by column
// title. Titles missing from the header are skipped; cells already written
// stay written if a later cell update fails.
func (r *Repository) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	values, err := r.fetchAll(ctx)
	if err != nil {
		return err
	}
	if len(values) == 0 {
		return fmt.Errorf("sheet has no header row: %w", ports.ErrHeaderMalformed)
	}
	header := values[0]

	rowNum := 0 // 1-based sheet row of the target trade
	for i, row := range values[1:] {
		if cell(row, 0) == strconv.FormatInt(id, 10) {
			rowNum = i + 2
			break
		}
	}
	if rowNum == 0 {
		return fmt.Errorf("trade id %d not found for update: %w", id, ports.ErrNotFound)
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		col := columnIndex(header, name)
		if col < 0 {
			r.logger.Debug(ctx, "Skipping unknown field name", map[string]interface{}{"field": name, "tradeID": id})
			continue
		}
		cellRange := fmt.Sprintf("'%s'!%s%d", r.sheetName, columnLetter(col), rowNum)
		_, err := r.svc.Spreadsheets.Values.Update(r.spreadsheetID, cellRange, &sheets.ValueRange{
			Values: [][]interface{}{{cellValue(fields[name])}},
		}).ValueInputOption("USER_ENTERED").Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("failed to update field %s for trade %d: %w: %v", name, id, ports.ErrUpdateFailed, err)
		}
	}
	return nil
}

// ScanAll returns trades in sheet order, optionally filtered by status.
func (r *Repository) ScanAll(ctx context.Context, filter ports.TradeFilter) ([]*domain.Trade, error) {
	values, err := r.fetchAll(ctx)
	if err != nil {
		return nil, err
	}

	trades := make([]*domain.Trade, 0, len(values))
	for _, row := range dataRows(values) {
		trade, err := rowToTrade(row, r.loc)
		if err != nil {
			r.logger.Warn(ctx, "Skipping unparseable row", map[string]interface{}{"error": err.Error()})
			continue
		}
		if filter.Status != "" && trade.Status != filter.Status {
			continue
		}
		trades = append(trades, trade)
	}
	return trades, nil
}

func (r *Repository) fetchAll(ctx context.Context) ([][]interface{}, error) {
	resp, err := r.svc.Spreadsheets.Values.Get(r.spreadsheetID, r.fullRange()).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w: %v", r.sheetName, ports.ErrQueryFailed, err)
	}
	return resp.Values, nil
}

func (r *Repository) resolveSheetID(ctx context.Context) (int64, error) {
	meta, err := r.svc.Spreadsheets.Get(r.spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("failed to read spreadsheet metadata: %w: %v", ports.ErrQueryFailed, err)
	}
	for _, sheet := range meta.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == r.sheetName {
			return sheet.Properties.SheetId, nil
		}
	}
	return 0, fmt.Errorf("worksheet %q not found: %w", r.sheetName, ports.ErrNotFound)
}

func (r *Repository) fullRange() string {
	return fmt.Sprintf("'%s'!A:%s", r.sheetName, columnLetter(len(ports.Header)-1))
}

func (r *Repository) rowRange(rowNum int) string {
	return fmt.Sprintf("'%s'!A%d:%s%d", r.sheetName, rowNum, columnLetter(len(ports.Header)-1), rowNum)
}

func dataRows(values [][]interface{}) [][]interface{} {
	if len(values) <= 1 {
		return nil
	}
	return values[1:]
}

package sheets

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"tradeJournalBot/internal/domain"
	"tradeJournalBot/internal/ports"
)

// timestampLayout is the cell format used for the Timestamp column. It sorts
// lexicographically in temporal order, which the reporting date filters rely on.
const timestampLayout = "2006-01-02 15:04:05"

// tradeToRow converts a trade to a sheet row in canonical column order.
// Optional numeric cells (TP, PnL_R) render as empty strings until set.
func tradeToRow(t *domain.Trade) []interface{} {
	tp := ""
	if t.TakeProfit != 0 {
		tp = formatNumber(t.TakeProfit)
	}
	pnl := ""
	if t.Status == domain.StatusClosed {
		pnl = formatNumber(t.PnLR)
	}
	return []interface{}{
		strconv.FormatInt(t.ID, 10),
		t.Timestamp.Format(timestampLayout),
		string(t.Market),
		string(t.Style),
		string(t.Direction),
		t.Ticker,
		formatNumber(t.Entry),
		formatNumber(t.StopLoss),
		formatNumber(t.RiskPercent),
		t.Chart,
		t.Reason,
		tp,
		string(t.Status),
		pnl,
		t.Note,
	}
}

// rowToTrade parses one sheet row into a trade. Columns the row is too short
// to hold are treated as empty; empty numeric cells parse as zero, matching
// how the sheet leaves TP and PnL blank until written.
func rowToTrade(row []interface{}, loc *time.Location) (*domain.Trade, error) {
	id, err := strconv.ParseInt(cell(row, 0), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("row id %q is not an integer: %w", cell(row, 0), ports.ErrHeaderMalformed)
	}

	t := &domain.Trade{
		ID:        id,
		Market:    domain.Market(cell(row, 2)),
		Style:     domain.Style(cell(row, 3)),
		Direction: domain.Direction(cell(row, 4)),
		Ticker:    cell(row, 5),
		Chart:     cell(row, 9),
		Reason:    cell(row, 10),
		Status:    domain.Status(cell(row, 12)),
		Note:      cell(row, 14),
	}

	if raw := cell(row, 1); raw != "" {
		ts, err := time.ParseInLocation(timestampLayout, raw, loc)
		if err != nil {
			return nil, fmt.Errorf("row %d has malformed timestamp %q: %v", id, raw, err)
		}
		t.Timestamp = ts
	}

	t.Entry = parseNumericCell(cell(row, 6))
	t.StopLoss = parseNumericCell(cell(row, 7))
	t.RiskPercent = parseNumericCell(cell(row, 8))
	t.TakeProfit = parseNumericCell(cell(row, 11))
	t.PnLR = parseNumericCell(cell(row, 13))
	return t, nil
}

// headerIsValid checks row 1 for the canonical header. Only the first cell is
// required to match ("ID"), which is how the upstream journal detects an
// initialized sheet.
func headerIsValid(row []interface{}) bool {
	return len(row) > 0 && cell(row, 0) == ports.Header[0]
}

func headerRow() []interface{} {
	row := make([]interface{}, len(ports.Header))
	for i, name := range ports.Header {
		row[i] = name
	}
	return row
}

// columnIndex resolves a canonical field name against the actual header row.
// Returns -1 for names the header does not carry.
func columnIndex(header []interface{}, field string) int {
	for i := range header {
		if cell(header, i) == field {
			return i
		}
	}
	return -1
}

// columnLetter converts a zero-based column index to its A1 letter form.
func columnLetter(index int) string {
	letters := ""
	for index >= 0 {
		letters = string(rune('A'+index%26)) + letters
		index = index/26 - 1
	}
	return letters
}

func cell(row []interface{}, index int) string {
	if index >= len(row) {
		return ""
	}
	s, ok := row[index].(string)
	if !ok {
		return fmt.Sprintf("%v", row[index])
	}
	return strings.TrimSpace(s)
}

func parseNumericCell(raw string) float64 {
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return v
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// cellValue renders an UpdateFields value as a sheet cell.
func cellValue(v interface{}) string {
	switch tv := v.(type) {
	case string:
		return tv
	case domain.Status:
		return string(tv)
	case domain.Market:
		return string(tv)
	case domain.Style:
		return string(tv)
	case domain.Direction:
		return string(tv)
	case float64:
		return formatNumber(tv)
	case int:
		return strconv.Itoa(tv)
	case int64:
		return strconv.FormatInt(tv, 10)
	case time.Time:
		return tv.Format(timestampLayout)
	default:
		return fmt.Sprintf("%v", v)
	}
}

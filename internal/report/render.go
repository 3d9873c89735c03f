// Package report renders aggregate journal data as plain chat text.
// Rendering is presentation only; all numbers arrive already rounded from
// the analytics package.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"tradeJournalBot/internal/analytics"
)

// maxDetailTrades caps the per-trade listing in risk reports.
const maxDetailTrades = 10

// Stats renders a period summary, e.g. the "REPORT TODAY" view.
func Stats(periodLabel string, st analytics.Stats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "REPORT %s\n\n", strings.ToUpper(periodLabel))
	fmt.Fprintf(&b, "Winrate: %g%%\n", st.WinRate)
	fmt.Fprintf(&b, "%dW-%dL-%dBE\n", st.Wins, st.Losses, st.Breakevens)
	fmt.Fprintf(&b, "Total PnL: %gR\n", st.TotalPnLR)
	fmt.Fprintf(&b, "Trades: %d\n", st.TotalTrades)
	return b.String()
}

// CategoryBreakdown renders one line per category value, keys sorted for a
// stable message body.
func CategoryBreakdown(title string, groups map[string]analytics.Stats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", strings.ToUpper(title))
	b.WriteString(strings.Repeat("-", 20) + "\n\n")

	if len(groups) == 0 {
		b.WriteString("No closed trades in this period.\n")
		return b.String()
	}

	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		st := groups[key]
		fmt.Fprintf(&b, "- %s: %g%% WR, %+.2fR (%d trades)\n", key, st.WinRate, st.TotalPnLR, st.TotalTrades)
	}
	return b.String()
}

// OpenRisk renders the interactive open-risk view. The refresh timestamp is
// appended so consecutive refreshes never produce an identical message body.
func OpenRisk(r analytics.OpenRisk, now time.Time) string {
	var b strings.Builder
	b.WriteString("OPEN RISK\n\n")
	writeOpenRiskBody(&b, r)
	fmt.Fprintf(&b, "\nUpdated: %s\n", now.Format("15:04:05"))
	return b.String()
}

// ScheduledOpenRisk renders the pushed risk report with its report header.
func ScheduledOpenRisk(r analytics.OpenRisk, now time.Time) string {
	var b strings.Builder
	b.WriteString("OPEN RISK REPORT\n")
	fmt.Fprintf(&b, "%s\n\n", now.Format("02/01/2006 - 15:04 MST"))
	writeOpenRiskBody(&b, r)
	return b.String()
}

func writeOpenRiskBody(b *strings.Builder, r analytics.OpenRisk) {
	if r.Count == 0 {
		b.WriteString("No open positions\n")
		b.WriteString("TOTAL RISK: 0%\n")
		return
	}

	fmt.Fprintf(b, "TOTAL RISK: %g%%\n", r.Total)
	fmt.Fprintf(b, "Open trades: %d\n\n", r.Count)

	writeBuckets(b, "BY MARKET:", r.ByMarket)
	writeBuckets(b, "BY STYLE:", r.ByStyle)

	b.WriteString("DETAILS:\n")
	for i, t := range r.Trades {
		if i == maxDetailTrades {
			fmt.Fprintf(b, "... and %d more\n", len(r.Trades)-maxDetailTrades)
			break
		}
		fmt.Fprintf(b, "%d. %s %s @ %g\n", i+1, t.Ticker, t.Direction, t.Entry)
		fmt.Fprintf(b, "   SL: %g | Risk: %g%%\n", t.StopLoss, t.RiskPercent)
	}
}

func writeBuckets(b *strings.Builder, title string, buckets map[string]analytics.RiskBucket) {
	if len(buckets) == 0 {
		return
	}
	keys := make([]string, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	b.WriteString(title + "\n")
	for _, key := range keys {
		bucket := buckets[key]
		fmt.Fprintf(b, "  - %s: %g%% (%d)\n", key, bucket.Risk, bucket.Count)
	}
	b.WriteString("\n")
}

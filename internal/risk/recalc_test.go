package risk

import (
	"testing"

	"tradeJournalBot/internal/domain"
)

func TestRecalculate(t *testing.T) {
	tests := []struct {
		name    string
		entry   float64
		oldStop float64
		newStop float64
		oldRisk float64
		dir     domain.Direction
		want    float64
	}{
		{
			name:  "buy stop moved halfway to entry",
			entry: 2650, oldStop: 2640, newStop: 2645, oldRisk: 1,
			dir:  domain.Buy,
			want: 0.5,
		},
		{
			name:  "buy stop moved to entry is free risk",
			entry: 2650, oldStop: 2640, newStop: 2650, oldRisk: 1,
			dir:  domain.Buy,
			want: 0,
		},
		{
			name:  "buy stop above entry is free risk",
			entry: 2650, oldStop: 2640, newStop: 2655, oldRisk: 1,
			dir:  domain.Buy,
			want: 0,
		},
		{
			name:  "buy stop moved further away increases risk",
			entry: 100, oldStop: 95, newStop: 90, oldRisk: 1,
			dir:  domain.Buy,
			want: 2,
		},
		{
			name:  "sell stop moved halfway to entry",
			entry: 100, oldStop: 110, newStop: 105, oldRisk: 2,
			dir:  domain.Sell,
			want: 1,
		},
		{
			name:  "sell stop at entry is free risk",
			entry: 100, oldStop: 110, newStop: 100, oldRisk: 2,
			dir:  domain.Sell,
			want: 0,
		},
		{
			name:  "sell stop below entry is free risk",
			entry: 100, oldStop: 110, newStop: 98, oldRisk: 2,
			dir:  domain.Sell,
			want: 0,
		},
		{
			name:  "result rounded to two decimals",
			entry: 100, oldStop: 97, newStop: 98, oldRisk: 1,
			dir:  domain.Buy,
			want: 0.33,
		},
		{
			name:  "old stop on entry keeps old risk",
			entry: 100, oldStop: 100, newStop: 95, oldRisk: 1.5,
			dir:  domain.Buy,
			want: 1.5,
		},
		{
			name:  "unchanged stop keeps risk",
			entry: 100, oldStop: 95, newStop: 95, oldRisk: 0.75,
			dir:  domain.Buy,
			want: 0.75,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Recalculate(tt.entry, tt.oldStop, tt.newStop, tt.oldRisk, tt.dir)
			if got != tt.want {
				t.Errorf("Recalculate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRecalculateMonotonic(t *testing.T) {
	// Tightening the stop towards entry must never increase risk.
	entry, oldStop, oldRisk := 2650.0, 2640.0, 1.0
	prev := oldRisk
	for newStop := 2640.0; newStop <= 2650.0; newStop += 0.5 {
		got := Recalculate(entry, oldStop, newStop, oldRisk, domain.Buy)
		if got > prev {
			t.Fatalf("risk increased from %v to %v at stop %v", prev, got, newStop)
		}
		prev = got
	}
	if prev != 0 {
		t.Errorf("risk at entry should be 0, got %v", prev)
	}
}

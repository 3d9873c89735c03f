package risk

import (
	"math"

	"tradeJournalBot/internal/domain"
)

// Recalculate returns the risk percentage after a stop-loss move.
//
// Moving the stop to entry or beyond it in the trade's favor (at or above
// entry for BUY, at or below for SELL) locks the trade in: the result is
// exactly 0 ("free risk"). Otherwise risk scales with the stop distance:
//
//	newRisk = oldRisk * |entry - newStop| / |entry - oldStop|
//
// rounded to 2 decimal places. A degenerate old stop sitting exactly on
// entry would divide by zero, so the old risk is returned unchanged.
func Recalculate(entry, oldStop, newStop, oldRisk float64, dir domain.Direction) float64 {
	if dir == domain.Buy && newStop >= entry {
		return 0
	}
	if dir == domain.Sell && newStop <= entry {
		return 0
	}

	oldDistance := math.Abs(entry - oldStop)
	newDistance := math.Abs(entry - newStop)

	if oldDistance == 0 {
		return oldRisk
	}

	return math.Round(oldRisk*(newDistance/oldDistance)*100) / 100
}

package telegram

import "tradeJournalBot/internal/app"

// convState enumerates the steps of the three conversational flows.
type convState int

const (
	stateIdle convState = iota

	// New-trade flow
	stateNewMarket
	stateNewStyle
	stateNewDirection
	stateNewInputLine
	stateNewChart
	stateNewReason
	stateNewConfirm

	// Update flow
	stateUpdateSelect
	stateUpdateAction
	stateUpdateInput

	// Report flow
	stateReportPeriod
	stateReportDetail
)

// conversation holds only the fields collected so far for one chat. The core
// never sees this transient state; it receives the final validated payload
// when the user confirms. Abandoning a flow simply discards the object.
type conversation struct {
	state   convState
	draft   app.CreateRequest
	tradeID int64  // trade selected in the update flow
	action  string // pending update action awaiting numeric/text input
}

func (c *conversation) reset() {
	*c = conversation{}
}

// conv returns the conversation for a chat, creating it on first contact.
// The update loop is single-threaded, so no locking is needed here.
func (b *Bot) conv(chatID int64) *conversation {
	c, ok := b.conversations[chatID]
	if !ok {
		c = &conversation{}
		b.conversations[chatID] = c
	}
	return c
}

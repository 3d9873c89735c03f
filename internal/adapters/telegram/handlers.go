package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"tradeJournalBot/internal/analytics"
	"tradeJournalBot/internal/domain"
	"tradeJournalBot/internal/ports"
	"tradeJournalBot/internal/report"
)

const inputLineHint = "Format: Ticker Entry SL Risk\nExample: XAUUSD 2650 2640 1\n(risk without the % sign)"

// --- Message routing ---

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	if !b.isAdmin(chatID) {
		b.send(ctx, chatID, "This bot is private.", nil)
		return
	}

	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}

	conv := b.conv(chatID)
	switch conv.state {
	case stateNewInputLine:
		b.handleInputLine(ctx, chatID, conv, msg.Text)
	case stateNewChart:
		b.handleChart(ctx, chatID, conv, msg)
	case stateNewReason:
		b.handleReason(ctx, chatID, conv, msg.Text)
	case stateUpdateInput:
		b.handleUpdateInput(ctx, chatID, conv, msg.Text)
	default:
		menu := mainMenuKeyboard()
		b.send(ctx, chatID, "Trading Journal Bot\n\nChoose an action:", &menu)
	}
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	switch msg.Command() {
	case "start":
		b.conv(chatID).reset()
		menu := mainMenuKeyboard()
		b.send(ctx, chatID, "Trading Journal Bot\n\nChoose an action:", &menu)
	case "risk":
		b.sendOpenRisk(ctx, chatID)
	case "cancel":
		b.conv(chatID).reset()
		menu := mainMenuKeyboard()
		b.send(ctx, chatID, "Cancelled.", &menu)
	default:
		b.send(ctx, chatID, "Unknown command. Use /start.", nil)
	}
}

// --- Callback routing ---

func (b *Bot) handleCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	b.answerCallback(ctx, query.ID)

	if query.Message == nil {
		return
	}
	chatID := query.Message.Chat.ID
	messageID := query.Message.MessageID
	if !b.isAdmin(chatID) {
		return
	}

	conv := b.conv(chatID)
	data := query.Data

	switch {
	case data == "main_menu":
		conv.reset()
		b.edit(ctx, chatID, messageID, "Trading Journal Bot\n\nChoose an action:", mainMenuKeyboard())

	case data == "cancel":
		conv.reset()
		b.edit(ctx, chatID, messageID, "Cancelled.", mainMenuKeyboard())

	case data == "new_trade", data == "back_to_market":
		conv.reset()
		conv.state = stateNewMarket
		b.edit(ctx, chatID, messageID, "Step 1/6: choose the market:", marketKeyboard())

	case strings.HasPrefix(data, "market_"):
		market, ok := marketByKey[strings.TrimPrefix(data, "market_")]
		if !ok || conv.state != stateNewMarket {
			return
		}
		conv.draft.Market = market
		conv.state = stateNewStyle
		text := fmt.Sprintf("Market: %s\n\nStep 2/6: choose the trading style:", market)
		b.edit(ctx, chatID, messageID, text, styleKeyboard())

	case data == "back_to_style":
		conv.state = stateNewStyle
		text := fmt.Sprintf("Market: %s\n\nStep 2/6: choose the trading style:", conv.draft.Market)
		b.edit(ctx, chatID, messageID, text, styleKeyboard())

	case strings.HasPrefix(data, "style_"):
		style, ok := styleByKey[strings.TrimPrefix(data, "style_")]
		if !ok || conv.state != stateNewStyle {
			return
		}
		conv.draft.Style = style
		conv.state = stateNewDirection
		text := fmt.Sprintf("Market: %s\nStyle: %s\n\nStep 3/6: choose the direction:", conv.draft.Market, style)
		b.edit(ctx, chatID, messageID, text, directionKeyboard())

	case data == "dir_buy", data == "dir_sell":
		if conv.state != stateNewDirection {
			return
		}
		conv.draft.Direction = domain.Buy
		if data == "dir_sell" {
			conv.draft.Direction = domain.Sell
		}
		conv.state = stateNewInputLine
		text := fmt.Sprintf("Market: %s\nStyle: %s\nDirection: %s\n\nStep 4/6: enter the trade on one line.\n\n%s",
			conv.draft.Market, conv.draft.Style, conv.draft.Direction, inputLineHint)
		b.edit(ctx, chatID, messageID, text, cancelKeyboard())

	case data == "skip_chart":
		if conv.state != stateNewChart {
			return
		}
		conv.draft.Chart = ""
		conv.state = stateNewReason
		b.edit(ctx, chatID, messageID, "Chart skipped.\n\nStep 6/6: enter the reason for the trade:", cancelKeyboard())

	case data == "confirm_trade":
		if conv.state != stateNewConfirm {
			return
		}
		b.confirmTrade(ctx, chatID, messageID, conv)

	case data == "update_trade":
		conv.reset()
		b.showPendingList(ctx, chatID, messageID, conv)

	case strings.HasPrefix(data, "select_"):
		id, err := strconv.ParseInt(strings.TrimPrefix(data, "select_"), 10, 64)
		if err != nil {
			return
		}
		b.showTradeActions(ctx, chatID, messageID, conv, id)

	case strings.HasPrefix(data, "action_"):
		if conv.state != stateUpdateAction {
			return
		}
		b.startUpdateAction(ctx, chatID, messageID, conv, strings.TrimPrefix(data, "action_"))

	case data == "report":
		conv.reset()
		conv.state = stateReportPeriod
		b.edit(ctx, chatID, messageID, "Choose the reporting period:", periodKeyboard())

	case strings.HasPrefix(data, "period_"):
		b.showReport(ctx, chatID, messageID, conv, strings.TrimPrefix(data, "period_"))

	case strings.HasPrefix(data, "detail_"):
		b.showReportDetail(ctx, chatID, messageID, data)

	case data == "open_risk":
		b.showOpenRisk(ctx, chatID, messageID)
	}
}

// --- New-trade flow ---

func (b *Bot) handleInputLine(ctx context.Context, chatID int64, conv *conversation, text string) {
	parts := strings.Fields(text)
	if len(parts) != 4 {
		kb := cancelKeyboard()
		b.send(ctx, chatID, "Wrong format.\n\n"+inputLineHint, &kb)
		return
	}

	// Pre-check the numbers so the user is re-prompted at this step; the
	// service parses them again on confirm.
	for _, p := range parts[1:] {
		if _, err := strconv.ParseFloat(p, 64); err != nil {
			kb := cancelKeyboard()
			b.send(ctx, chatID, "Entry, SL and Risk must be numbers. Try again:", &kb)
			return
		}
	}

	conv.draft.Ticker = strings.ToUpper(parts[0])
	conv.draft.Entry = parts[1]
	conv.draft.StopLoss = parts[2]
	conv.draft.Risk = parts[3]
	conv.state = stateNewChart

	text = fmt.Sprintf("Ticker: %s\nEntry: %s\nSL: %s\nRisk: %s%%\n\nStep 5/6: send a chart image or a link:",
		conv.draft.Ticker, conv.draft.Entry, conv.draft.StopLoss, conv.draft.Risk)
	kb := skipChartKeyboard()
	b.send(ctx, chatID, text, &kb)
}

func (b *Bot) handleChart(ctx context.Context, chatID int64, conv *conversation, msg *tgbotapi.Message) {
	switch {
	case len(msg.Photo) > 0:
		// Telegram sends several resolutions; the last is the largest.
		photo := msg.Photo[len(msg.Photo)-1]
		conv.draft.Chart = "telegram_photo:" + photo.FileID
	case msg.Text != "":
		conv.draft.Chart = strings.TrimSpace(msg.Text)
	default:
		b.send(ctx, chatID, "Send an image or a link, or skip.", nil)
		return
	}

	conv.state = stateNewReason
	kb := cancelKeyboard()
	b.send(ctx, chatID, "Chart saved.\n\nStep 6/6: enter the reason for the trade:", &kb)
}

func (b *Bot) handleReason(ctx context.Context, chatID int64, conv *conversation, text string) {
	conv.draft.Reason = strings.TrimSpace(text)
	conv.state = stateNewConfirm

	d := conv.draft
	preview := fmt.Sprintf("TRADE PREVIEW\n\nMarket: %s\nStyle: %s\nDirection: %s\nTicker: %s\nEntry: %s\nSL: %s\nRisk: %s%%\nReason: %s\n",
		d.Market, d.Style, d.Direction, d.Ticker, d.Entry, d.StopLoss, d.Risk, d.Reason)
	if d.Chart != "" {
		preview += "Chart: attached\n"
	}
	kb := confirmKeyboard()
	b.send(ctx, chatID, preview+"\nSave this trade?", &kb)
}

func (b *Bot) confirmTrade(ctx context.Context, chatID int64, messageID int, conv *conversation) {
	trade, err := b.service.CreateTrade(ctx, conv.draft)
	if err != nil {
		b.logger.Error(ctx, err, "Failed to save trade")
		conv.reset()
		b.edit(ctx, chatID, messageID, "Could not save the trade. Please try again.", mainMenuKeyboard())
		return
	}

	conv.reset()
	text := fmt.Sprintf("Trade saved.\n\n%s %s\nEntry: %g | SL: %g\nRisk: %g%%\n\nTrade ID: #%d",
		trade.Ticker, trade.Direction, trade.Entry, trade.StopLoss, trade.RiskPercent, trade.ID)
	b.edit(ctx, chatID, messageID, text, mainMenuKeyboard())
}

// --- Update flow ---

func (b *Bot) showPendingList(ctx context.Context, chatID int64, messageID int, conv *conversation) {
	pending, err := b.service.PendingTrades(ctx)
	if err != nil {
		b.logger.Error(ctx, err, "Failed to list pending trades")
		b.edit(ctx, chatID, messageID, "Could not reach the journal store. Please try again.", mainMenuKeyboard())
		return
	}
	if len(pending) == 0 {
		b.edit(ctx, chatID, messageID, "No open trades.", mainMenuKeyboard())
		return
	}

	conv.state = stateUpdateSelect
	b.edit(ctx, chatID, messageID, "Choose the trade to update:", pendingTradesKeyboard(pending))
}

func (b *Bot) showTradeActions(ctx context.Context, chatID int64, messageID int, conv *conversation, id int64) {
	trade, err := b.service.Trade(ctx, id)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			b.edit(ctx, chatID, messageID, "Trade not found.", mainMenuKeyboard())
		} else {
			b.logger.Error(ctx, err, "Failed to load trade", map[string]interface{}{"tradeID": id})
			b.edit(ctx, chatID, messageID, "Could not reach the journal store. Please try again.", mainMenuKeyboard())
		}
		conv.reset()
		return
	}

	conv.tradeID = id
	conv.state = stateUpdateAction

	details := fmt.Sprintf("TRADE #%d\n\nMarket: %s\nStyle: %s\nDirection: %s\nTicker: %s\nEntry: %g\nSL: %g\nRisk: %g%%\nReason: %s\n\nChoose an action:",
		trade.ID, trade.Market, trade.Style, trade.Direction, trade.Ticker, trade.Entry, trade.StopLoss, trade.RiskPercent, trade.Reason)
	b.edit(ctx, chatID, messageID, details, actionKeyboard())
}

func (b *Bot) startUpdateAction(ctx context.Context, chatID int64, messageID int, conv *conversation, action string) {
	prompts := map[string]string{
		"win":        "Closing as a win.\n\nEnter the result in R (e.g. 2.5):",
		"loss":       "Closing as a loss.\n\nEnter the result in R (e.g. -1):",
		"movesl":     "Moving the stop-loss.\n\nEnter the new SL (e.g. 2655):",
		"settp":      "Setting the take-profit.\n\nEnter the TP (e.g. 2680):",
		"partial":    "Partial close.\n\nEnter: percent pnl\nExample: 50 1.2 (closed 50% for +1.2R)",
		"editreason": "Enter the new reason:",
	}

	switch action {
	case "be":
		if err := b.service.CloseBreakeven(ctx, conv.tradeID); err != nil {
			b.replyOperationError(ctx, chatID, messageID, conv, err)
			return
		}
		text := fmt.Sprintf("Trade #%d closed at breakeven.\nPnL: 0R", conv.tradeID)
		conv.reset()
		b.edit(ctx, chatID, messageID, text, mainMenuKeyboard())

	case "cancel":
		if err := b.service.CancelTrade(ctx, conv.tradeID); err != nil {
			b.replyOperationError(ctx, chatID, messageID, conv, err)
			return
		}
		text := fmt.Sprintf("Trade #%d cancelled.", conv.tradeID)
		conv.reset()
		b.edit(ctx, chatID, messageID, text, mainMenuKeyboard())

	default:
		prompt, ok := prompts[action]
		if !ok {
			return
		}
		conv.action = action
		conv.state = stateUpdateInput
		b.edit(ctx, chatID, messageID, prompt, cancelKeyboard())
	}
}

func (b *Bot) handleUpdateInput(ctx context.Context, chatID int64, conv *conversation, text string) {
	id := conv.tradeID
	var err error
	var reply string

	switch conv.action {
	case "win", "loss":
		var pnl float64
		pnl, err = b.service.CloseTrade(ctx, id, text)
		reply = fmt.Sprintf("Trade #%d closed: %+gR", id, pnl)

	case "movesl":
		var newRisk float64
		newRisk, err = b.service.MoveStopLoss(ctx, id, text)
		if newRisk == 0 {
			reply = fmt.Sprintf("SL moved to %s.\n\nFree risk!", strings.TrimSpace(text))
		} else {
			reply = fmt.Sprintf("SL moved to %s.\n\nNew risk: %g%%", strings.TrimSpace(text), newRisk)
		}

	case "settp":
		var tp float64
		tp, err = b.service.SetTakeProfit(ctx, id, text)
		reply = fmt.Sprintf("TP set: %g", tp)

	case "partial":
		parts := strings.Fields(text)
		if len(parts) != 2 {
			kb := cancelKeyboard()
			b.send(ctx, chatID, "Wrong format. Enter: percent pnl\nExample: 50 1.2", &kb)
			return
		}
		err = b.service.PartialClose(ctx, id, parts[0], parts[1])
		reply = fmt.Sprintf("Partial close recorded.\n\nTrade #%d remains open.", id)

	case "editreason":
		err = b.service.EditReason(ctx, id, text)
		reply = "Reason updated."

	default:
		conv.reset()
		return
	}

	if err != nil {
		if errors.Is(err, ports.ErrValidation) {
			kb := cancelKeyboard()
			b.send(ctx, chatID, "Invalid value. Try again:", &kb)
			return
		}
		b.logger.Error(ctx, err, "Update operation failed", map[string]interface{}{"tradeID": id, "action": conv.action})
		conv.reset()
		menu := mainMenuKeyboard()
		b.send(ctx, chatID, operationErrorText(err), &menu)
		return
	}

	conv.reset()
	menu := mainMenuKeyboard()
	b.send(ctx, chatID, reply, &menu)
}

func (b *Bot) replyOperationError(ctx context.Context, chatID int64, messageID int, conv *conversation, err error) {
	b.logger.Error(ctx, err, "Update operation failed", map[string]interface{}{"tradeID": conv.tradeID})
	conv.reset()
	b.edit(ctx, chatID, messageID, operationErrorText(err), mainMenuKeyboard())
}

func operationErrorText(err error) string {
	switch {
	case errors.Is(err, ports.ErrNotFound):
		return "Trade not found."
	case errors.Is(err, ports.ErrTradeNotOpen):
		return "That trade is already closed or cancelled."
	default:
		return "Operation failed. Please try again."
	}
}

// --- Report flow ---

// periodRange resolves a report period key to an inclusive time window and
// its display label.
func periodRange(period string, now time.Time) (time.Time, time.Time, string) {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch period {
	case "week":
		daysBack := (int(now.Weekday()) + 6) % 7 // week starts on Monday
		return midnight.AddDate(0, 0, -daysBack), now, "This Week"
	case "month":
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), now, "This Month"
	default:
		return midnight, now, "Today"
	}
}

func (b *Bot) showReport(ctx context.Context, chatID int64, messageID int, conv *conversation, period string) {
	if period == "custom" {
		conv.reset()
		b.edit(ctx, chatID, messageID, "Custom date ranges are not supported.", mainMenuKeyboard())
		return
	}

	start, end, label := periodRange(period, time.Now().In(b.loc))
	stats, err := b.service.Stats(ctx, start, end)
	if err != nil {
		b.logger.Error(ctx, err, "Failed to compute stats")
		conv.reset()
		b.edit(ctx, chatID, messageID, "Could not reach the journal store. Please try again.", mainMenuKeyboard())
		return
	}

	conv.state = stateReportDetail
	b.edit(ctx, chatID, messageID, report.Stats(label, stats), detailKeyboard(period))
}

func (b *Bot) showReportDetail(ctx context.Context, chatID int64, messageID int, data string) {
	// data is detail_<category>_<period>
	parts := strings.SplitN(data, "_", 3)
	if len(parts) != 3 {
		return
	}
	cat := analytics.ByMarket
	title := "By market"
	if parts[1] == "style" {
		cat = analytics.ByStyle
		title = "By style"
	}

	start, end, _ := periodRange(parts[2], time.Now().In(b.loc))
	groups, err := b.service.StatsByCategory(ctx, cat, start, end)
	if err != nil {
		b.logger.Error(ctx, err, "Failed to compute category stats")
		b.edit(ctx, chatID, messageID, "Could not reach the journal store. Please try again.", mainMenuKeyboard())
		return
	}

	b.edit(ctx, chatID, messageID, report.CategoryBreakdown(title, groups), backToReportKeyboard())
}

// --- Open risk ---

func (b *Bot) showOpenRisk(ctx context.Context, chatID int64, messageID int) {
	risk, err := b.service.OpenRisk(ctx)
	if err != nil {
		b.logger.Error(ctx, err, "Failed to compute open risk")
		b.edit(ctx, chatID, messageID, "Could not reach the journal store. Please try again.", backToMenuKeyboard())
		return
	}
	b.edit(ctx, chatID, messageID, report.OpenRisk(risk, time.Now().In(b.loc)), openRiskKeyboard())
}

func (b *Bot) sendOpenRisk(ctx context.Context, chatID int64) {
	risk, err := b.service.OpenRisk(ctx)
	if err != nil {
		b.logger.Error(ctx, err, "Failed to compute open risk")
		b.send(ctx, chatID, "Could not reach the journal store. Please try again.", nil)
		return
	}
	kb := openRiskKeyboard()
	b.send(ctx, chatID, report.OpenRisk(risk, time.Now().In(b.loc)), &kb)
}

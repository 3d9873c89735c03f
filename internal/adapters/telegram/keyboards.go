package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"tradeJournalBot/internal/domain"
)

// marketByKey maps callback keys to markets; styleByKey likewise for styles.
var marketByKey = map[string]domain.Market{
	"commodities": domain.MarketCommodities,
	"currencies":  domain.MarketCurrencies,
	"stockvn":     domain.MarketStockVN,
	"stockus":     domain.MarketStockUS,
}

var styleByKey = map[string]domain.Style{
	"swing": domain.StyleSwing,
	"day":   domain.StyleDaytrading,
	"scalp": domain.StyleScalping,
}

func mainMenuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("New Trade", "new_trade")),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Update Trade", "update_trade")),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Report", "report")),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Open Risk", "open_risk")),
	)
}

func marketKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Commodities", "market_commodities"),
			tgbotapi.NewInlineKeyboardButtonData("Currencies", "market_currencies")),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Stock VN", "market_stockvn"),
			tgbotapi.NewInlineKeyboardButtonData("Stock US", "market_stockus")),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("<< Menu", "main_menu")),
	)
}

func styleKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Swing", "style_swing"),
			tgbotapi.NewInlineKeyboardButtonData("Daytrading", "style_day"),
			tgbotapi.NewInlineKeyboardButtonData("Scalping", "style_scalp")),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("<< Back", "back_to_market")),
	)
}

func directionKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("BUY", "dir_buy"),
			tgbotapi.NewInlineKeyboardButtonData("SELL", "dir_sell")),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("<< Back", "back_to_style")),
	)
}

func cancelKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Cancel", "cancel")),
	)
}

func skipChartKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Skip", "skip_chart")),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Cancel", "cancel")),
	)
}

func confirmKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Confirm", "confirm_trade"),
			tgbotapi.NewInlineKeyboardButtonData("Cancel", "cancel")),
	)
}

func actionKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Win", "action_win"),
			tgbotapi.NewInlineKeyboardButtonData("Partial close", "action_partial")),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Loss", "action_loss"),
			tgbotapi.NewInlineKeyboardButtonData("Breakeven", "action_be")),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Move SL", "action_movesl"),
			tgbotapi.NewInlineKeyboardButtonData("Set TP", "action_settp")),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Edit reason", "action_editreason"),
			tgbotapi.NewInlineKeyboardButtonData("Cancel trade", "action_cancel")),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("<< Back", "update_trade")),
	)
}

func pendingTradesKeyboard(trades []*domain.Trade) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(trades)+1)
	for _, t := range trades {
		label := fmt.Sprintf("#%d %s %s @ %g (Risk: %g%%)", t.ID, t.Ticker, t.Direction, t.Entry, t.RiskPercent)
		data := fmt.Sprintf("select_%d", t.ID)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(label, data)))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("<< Menu", "main_menu")))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func periodKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Today", "period_today"),
			tgbotapi.NewInlineKeyboardButtonData("This week", "period_week")),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("This month", "period_month"),
			tgbotapi.NewInlineKeyboardButtonData("Custom", "period_custom")),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("<< Menu", "main_menu")),
	)
}

func detailKeyboard(period string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("By market", "detail_market_"+period),
			tgbotapi.NewInlineKeyboardButtonData("By style", "detail_style_"+period)),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("<< Menu", "main_menu")),
	)
}

func backToReportKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("<< Back", "report")),
	)
}

func openRiskKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Refresh", "open_risk")),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("<< Menu", "main_menu")),
	)
}

func backToMenuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("<< Menu", "main_menu")),
	)
}

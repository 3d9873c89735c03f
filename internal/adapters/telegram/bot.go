// Package telegram drives the chat front-end. It is a thin state machine
// over the journal service: it collects input through conversation flows and
// renders the service's results, with no bookkeeping logic of its own.
package telegram

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"tradeJournalBot/internal/app"
	"tradeJournalBot/internal/ports"
)

// Bot wires the Telegram Bot API to the journal service for one owner chat.
type Bot struct {
	api           *tgbotapi.BotAPI
	logger        ports.Logger
	service       *app.JournalService
	adminChatID   int64
	loc           *time.Location
	conversations map[int64]*conversation
}

// Config holds configuration for the Telegram front-end.
type Config struct {
	Token       string
	AdminChatID int64
	Logger      ports.Logger
	Service     *app.JournalService
	Location    *time.Location
}

// New authorizes against the Bot API and builds the front-end.
func New(cfg Config) (*Bot, error) {
	if cfg.Logger == nil || cfg.Service == nil {
		return nil, fmt.Errorf("missing required dependencies for Telegram bot")
	}
	if cfg.Token == "" {
		return nil, fmt.Errorf("bot token is required: %w", ports.ErrConfigurationError)
	}
	if cfg.AdminChatID == 0 {
		return nil, fmt.Errorf("admin chat id is required: %w", ports.ErrConfigurationError)
	}

	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to authorize bot: %w: %v", ports.ErrConnectionFailed, err)
	}

	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}

	return &Bot{
		api:           api,
		logger:        cfg.Logger,
		service:       cfg.Service,
		adminChatID:   cfg.AdminChatID,
		loc:           loc,
		conversations: make(map[int64]*conversation),
	}, nil
}

// Run long-polls for updates until the context is canceled or a shutdown
// signal arrives. Updates are handled one at a time; the journal assumes a
// single active operation (human-paced usage).
func (b *Bot) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigCh:
			b.logger.Info(ctx, "Received shutdown signal", map[string]interface{}{"signal": sig.String()})
			cancel()
		case <-ctx.Done():
		}
	}()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)

	b.logger.Info(ctx, "Bot started", map[string]interface{}{"username": b.api.Self.UserName})

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.logger.Info(ctx, "Bot stopped")
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, update)
		}
	}
}

// Notify implements ports.Notifier by messaging the owner chat. The
// scheduled risk report is delivered through this.
func (b *Bot) Notify(ctx context.Context, text string) error {
	msg := tgbotapi.NewMessage(b.adminChatID, text)
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("%w: %v", ports.ErrSendFailed, err)
	}
	return nil
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	}
}

// send delivers a new message; markup may be nil.
func (b *Bot) send(ctx context.Context, chatID int64, text string, markup *tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	if markup != nil {
		msg.ReplyMarkup = *markup
	}
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error(ctx, err, "Failed to send message", map[string]interface{}{"chatID": chatID})
	}
}

// edit replaces an existing message's text and keyboard. A "message is not
// modified" response is a presentation no-op (the user already sees the
// latest content) and never surfaces.
func (b *Bot) edit(ctx context.Context, chatID int64, messageID int, text string, markup tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, markup)
	if _, err := b.api.Send(msg); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "message is not modified") {
			return
		}
		b.logger.Error(ctx, err, "Failed to edit message", map[string]interface{}{"chatID": chatID})
	}
}

func (b *Bot) answerCallback(ctx context.Context, callbackID string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(callbackID, "")); err != nil {
		b.logger.Warn(ctx, "Failed to answer callback query", map[string]interface{}{"error": err.Error()})
	}
}

func (b *Bot) isAdmin(chatID int64) bool {
	return chatID == b.adminChatID
}

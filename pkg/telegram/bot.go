// Package telegram wraps the Telegram Bot API for sending admin notifications
// and receiving chat commands.
package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// pollTimeout is the long-poll timeout in seconds for getUpdates.
const pollTimeout = 60

// CommandFunc handles a chat command sent by senderID in chatID.
type CommandFunc func(ctx context.Context, senderID, chatID string)

// api is the subset of *tgbotapi.BotAPI used by Bot.
type api interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Bot sends messages and dispatches commands for one bot account.
type Bot struct {
	api api
}

// New authenticates token against the Bot API. An invalid token fails here.
func New(token string) (*Bot, error) {
	client := &http.Client{Timeout: (pollTimeout + 10) * time.Second}
	t, err := tgbotapi.NewBotAPIWithClient(token, tgbotapi.APIEndpoint, client)
	if err != nil {
		return nil, fmt.Errorf("telegram: connect: %w", err)
	}
	slog.Info("telegram bot authorized", "username", t.Self.UserName)
	return &Bot{api: t}, nil
}

// Send delivers text to chatID, either a numeric Telegram chat id or a
// channel username such as "@mychannel".
func (b *Bot) Send(ctx context.Context, chatID, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg, err := newMessage(chatID, text)
	if err != nil {
		return err
	}
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("telegram: send to %s: %w", chatID, err)
	}
	return nil
}

func newMessage(chatID, text string) (tgbotapi.MessageConfig, error) {
	id, err := strconv.ParseInt(chatID, 10, 64)
	if err == nil {
		return tgbotapi.NewMessage(id, text), nil
	}
	if strings.HasPrefix(chatID, "@") && len(chatID) > 1 {
		return tgbotapi.NewMessageToChannel(chatID, text), nil
	}
	return tgbotapi.MessageConfig{}, fmt.Errorf("telegram: invalid chat id %q: %w", chatID, err)
}

// Listen long-polls for updates and calls the CommandFunc registered for each
// recognized command (name without the leading slash). It returns when ctx is
// done or the update channel closes.
func (b *Bot) Listen(ctx context.Context, commands map[string]CommandFunc) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = pollTimeout
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.dispatch(ctx, update, commands)
		}
	}
}

func (b *Bot) dispatch(ctx context.Context, update tgbotapi.Update, commands map[string]CommandFunc) {
	msg := update.Message
	if msg == nil || msg.From == nil || msg.Chat == nil || !msg.IsCommand() {
		return
	}
	fn, ok := commands[msg.Command()]
	if !ok {
		return
	}
	senderID := strconv.FormatInt(msg.From.ID, 10)
	chatID := strconv.FormatInt(msg.Chat.ID, 10)
	slog.Info("telegram command", "command", msg.Command(), "sender_id", senderID, "chat_id", chatID)
	fn(ctx, senderID, chatID)
}

// Stop ends long polling.
func (b *Bot) Stop() {
	b.api.StopReceivingUpdates()
}

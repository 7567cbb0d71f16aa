package telegram

import (
	"context"
	"errors"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type mockAPI struct {
	sent    []tgbotapi.MessageConfig
	sendErr error
	updates chan tgbotapi.Update
	stopped bool
}

func (m *mockAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if mc, ok := c.(tgbotapi.MessageConfig); ok {
		m.sent = append(m.sent, mc)
	}
	return tgbotapi.Message{}, m.sendErr
}

func (m *mockAPI) GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return m.updates
}

func (m *mockAPI) StopReceivingUpdates() { m.stopped = true }

func commandUpdate(text string, fromID, chatID int64) tgbotapi.Update {
	cmdLen := len(text)
	for i, r := range text {
		if r == ' ' {
			cmdLen = i
			break
		}
	}
	return tgbotapi.Update{
		Message: &tgbotapi.Message{
			Text:     text,
			From:     &tgbotapi.User{ID: fromID},
			Chat:     &tgbotapi.Chat{ID: chatID},
			Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: cmdLen}},
		},
	}
}

func TestBot_Send_ParsesChatID(t *testing.T) {
	m := &mockAPI{}
	b := &Bot{api: m}

	if err := b.Send(context.Background(), "-100123", "hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m.sent) != 1 {
		t.Fatalf("expected 1 message, got %d", len(m.sent))
	}
	if m.sent[0].ChatID != -100123 {
		t.Errorf("expected chat id -100123, got %d", m.sent[0].ChatID)
	}
	if m.sent[0].Text != "hello" {
		t.Errorf("expected text=hello, got %q", m.sent[0].Text)
	}
}

func TestBot_Send_InvalidChatID(t *testing.T) {
	m := &mockAPI{}
	b := &Bot{api: m}

	if err := b.Send(context.Background(), "not-a-number", "hello"); err == nil {
		t.Error("expected error for non-numeric chat id")
	}
	if len(m.sent) != 0 {
		t.Errorf("expected no API call, got %d", len(m.sent))
	}
}

func TestBot_Send_ChannelUsername(t *testing.T) {
	m := &mockAPI{}
	b := &Bot{api: m}

	if err := b.Send(context.Background(), "@mychannel", "hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m.sent) != 1 {
		t.Fatalf("expected 1 message, got %d", len(m.sent))
	}
	if m.sent[0].ChannelUsername != "@mychannel" {
		t.Errorf("expected channel @mychannel, got %q", m.sent[0].ChannelUsername)
	}
	if m.sent[0].Text != "hello" {
		t.Errorf("expected text=hello, got %q", m.sent[0].Text)
	}
}

func TestBot_Send_BareAtSignRejected(t *testing.T) {
	m := &mockAPI{}
	b := &Bot{api: m}

	if err := b.Send(context.Background(), "@", "hello"); err == nil {
		t.Error("expected error for empty channel username")
	}
	if len(m.sent) != 0 {
		t.Errorf("expected no API call, got %d", len(m.sent))
	}
}

func TestBot_Send_APIError(t *testing.T) {
	b := &Bot{api: &mockAPI{sendErr: errors.New("Forbidden: bot was blocked by the user")}}

	if err := b.Send(context.Background(), "1", "hello"); err == nil {
		t.Error("expected API error to be returned")
	}
}

func TestBot_Send_CancelledContext(t *testing.T) {
	m := &mockAPI{}
	b := &Bot{api: m}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := b.Send(ctx, "1", "hello"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestBot_Listen_DispatchesCommand(t *testing.T) {
	m := &mockAPI{updates: make(chan tgbotapi.Update, 4)}
	b := &Bot{api: m}

	type call struct{ sender, chat string }
	var calls []call
	commands := map[string]CommandFunc{
		"start": func(ctx context.Context, senderID, chatID string) {
			calls = append(calls, call{senderID, chatID})
		},
	}

	m.updates <- commandUpdate("/start", 123, 456)
	m.updates <- commandUpdate("/help", 123, 456)
	m.updates <- tgbotapi.Update{Message: &tgbotapi.Message{Text: "start", From: &tgbotapi.User{ID: 1}, Chat: &tgbotapi.Chat{ID: 1}}}
	m.updates <- tgbotapi.Update{}
	close(m.updates)

	done := make(chan struct{})
	go func() {
		b.Listen(context.Background(), commands)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Listen did not return after channel close")
	}

	if len(calls) != 1 {
		t.Fatalf("expected 1 command dispatch, got %d", len(calls))
	}
	if calls[0].sender != "123" || calls[0].chat != "456" {
		t.Errorf("expected sender=123 chat=456, got %+v", calls[0])
	}
}

func TestBot_Listen_StopsOnContextDone(t *testing.T) {
	m := &mockAPI{updates: make(chan tgbotapi.Update)}
	b := &Bot{api: m}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		b.Listen(ctx, nil)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Listen did not return after context cancellation")
	}
}

func TestBot_Stop(t *testing.T) {
	m := &mockAPI{}
	b := &Bot{api: m}
	b.Stop()
	if !m.stopped {
		t.Error("expected StopReceivingUpdates to be called")
	}
}

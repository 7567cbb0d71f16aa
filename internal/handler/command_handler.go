package handler

import (
	"context"
	"log/slog"

	"github.com/contactrelay/backend/internal/model"
	"github.com/contactrelay/backend/internal/notify"
)

// Replies to the admin-status command.
const (
	ReplyRegisteredAdmin = "You are registered as an admin. You will receive contact requests."
	ReplyNotAuthorized   = "You are not authorized to receive contact requests."
)

// AdminChecker reports whether a platform user id is a configured administrator.
type AdminChecker interface {
	IsAdmin(id string) bool
}

// CommandHandler answers chat commands sent to the bot.
type CommandHandler struct {
	admins AdminChecker
	sender notify.Sender
}

// NewCommandHandler creates a CommandHandler replying through sender.
func NewCommandHandler(admins AdminChecker, sender notify.Sender) *CommandHandler {
	return &CommandHandler{admins: admins, sender: sender}
}

// Start handles /start: it tells the sender whether they receive contact requests.
func (h *CommandHandler) Start(ctx context.Context, cmd model.ChatCommand) {
	reply := ReplyNotAuthorized
	if h.admins.IsAdmin(cmd.SenderID) {
		reply = ReplyRegisteredAdmin
	}
	if err := h.sender.Send(ctx, cmd.ChatID, reply); err != nil {
		slog.Warn("failed to reply to start command", "chat_id", cmd.ChatID, "error", err)
	}
}

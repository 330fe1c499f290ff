package notify

import (
	"context"
	"errors"
	"log/slog"

	tele "gopkg.in/telebot.v4"

	"github.com/LucasNunez12345/bot-hexadec/internal/logger"
	"github.com/LucasNunez12345/bot-hexadec/internal/telegram/sender"
)

// Sender is the minimal outbound surface of *tele.Bot used here.
type Sender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// TelegramNotifier sends operator alerts to a fixed chat through the
// async dispatcher; the dialog flow never waits for delivery.
type TelegramNotifier struct {
	bot      Sender
	operator tele.ChatID
	disp     *sender.Dispatcher
}

// NewTelegramNotifier builds a notifier for the configured operator chat.
func NewTelegramNotifier(bot Sender, operatorChatID int64, disp *sender.Dispatcher) *TelegramNotifier {
	return &TelegramNotifier{bot: bot, operator: tele.ChatID(operatorChatID), disp: disp}
}

// Notify formats and enqueues the alert. When the queue is saturated or
// closed the send falls back to the calling goroutine so a handoff is
// never silently dropped at enqueue time.
func (t *TelegramNotifier) Notify(ctx context.Context, n Notification) error {
	ref := NewRef()
	text := Format(n, ref)
	run := func() error {
		_, err := t.bot.Send(t.operator, text)
		return err
	}

	logger.Info(ctx, "notify", "handoff.queued",
		slog.String("ref", ref),
		slog.String("subject", n.Subject),
		slog.Int64("requester_id", n.RequesterID),
		slog.Bool("urgent", n.Urgent),
	)

	if t.disp == nil {
		return run()
	}
	if err := t.disp.Enqueue(ctx, "notify.operator", run); err != nil {
		if errors.Is(err, sender.ErrQueueFull) || errors.Is(err, sender.ErrQueueClosed) {
			logger.Warn(ctx, "notify", "queue.fallback",
				slog.String("ref", ref),
				slog.String("err", err.Error()),
			)
			return run()
		}
		return err
	}
	return nil
}

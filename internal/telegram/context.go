package telegram

import (
	"context"

	tele "gopkg.in/telebot.v4"

	"github.com/LucasNunez12345/bot-hexadec/internal/logger"
)

const contextKey = "logger_ctx"

// StoreContext attaches a reusable context to tele.Context for
// downstream handlers.
func StoreContext(c tele.Context, ctx context.Context) {
	if c == nil || ctx == nil {
		return
	}
	c.Set(contextKey, ctx)
}

// BuildContext returns the context stored by the logging middleware,
// constructing a fresh one when the middleware did not run.
func BuildContext(c tele.Context) context.Context {
	if v := c.Get(contextKey); v != nil {
		if ctx, ok := v.(context.Context); ok {
			return ctx
		}
	}

	upd := c.Update()
	var chatID, userID int64
	if chat := c.Chat(); chat != nil {
		chatID = chat.ID
	}
	if user := c.Sender(); user != nil {
		userID = user.ID
	}
	ctx := logger.WithUpdateMeta(nil, upd.ID, userID, chatID)
	ctx = logger.WithRID(ctx, logger.BuildRID(upd.ID, chatID, userID))
	StoreContext(c, ctx)
	return ctx
}

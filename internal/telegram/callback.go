package telegram

import (
	"strings"

	tele "gopkg.in/telebot.v4"
)

// CallbackKey extracts the button tag from a callback update. Telebot
// encodes inline button data as \f<unique>|<payload>; Unique is set
// when the button was registered individually.
func CallbackKey(c tele.Context) string {
	cb := c.Callback()
	if cb == nil {
		return ""
	}
	if cb.Unique != "" {
		return cb.Unique
	}
	raw := strings.TrimPrefix(cb.Data, "\f")
	raw = strings.TrimPrefix(raw, "\\f")
	parts := strings.SplitN(raw, "|", 2)
	return strings.TrimSpace(parts[0])
}

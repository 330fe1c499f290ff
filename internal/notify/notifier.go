// Package notify delivers handoff messages to the human operator.
package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/LucasNunez12345/bot-hexadec/internal/logger"
)

// Body text from users is bounded before it reaches the operator chat.
const maxBodyRunes = 1000

// Notification is one handoff message for the operator.
type Notification struct {
	Subject     string
	Body        string
	RequesterID int64
	Urgent      bool
}

// Notifier is the outbound channel to the human operator. Delivery is
// at-most-once; implementations must not block the dialog flow.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// NewRef returns a short reference code the operator can use to track
// the request.
func NewRef() string {
	return strings.ToUpper(uuid.NewString()[:8])
}

// Format renders the operator alert text.
func Format(n Notification, ref string) string {
	var b strings.Builder
	if n.Urgent {
		b.WriteString("‼️ ")
	}
	b.WriteString("🚨 Nueva solicitud")
	if ref != "" {
		fmt.Fprintf(&b, " [%s]", ref)
	}
	b.WriteString(":\n")
	fmt.Fprintf(&b, "Servicio: %s\n", n.Subject)
	fmt.Fprintf(&b, "Chat ID: %d\n", n.RequesterID)
	fmt.Fprintf(&b, "Detalles: %s", logger.SanitizeLimit(n.Body, maxBodyRunes))
	return b.String()
}

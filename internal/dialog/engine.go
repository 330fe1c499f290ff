package dialog

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/LucasNunez12345/bot-hexadec/internal/logger"
	"github.com/LucasNunez12345/bot-hexadec/internal/notify"
	"github.com/LucasNunez12345/bot-hexadec/internal/pricing"
	"github.com/LucasNunez12345/bot-hexadec/internal/session"
	"github.com/LucasNunez12345/bot-hexadec/internal/validate"
)

// Rejection reasons are opaque user text; bound them before they reach
// the notifier payload.
const maxReasonRunes = 500

// Engine drives the per-user order-intake state machine. Every handled
// event emits exactly one outbound reply; the notifier fires only at
// the terminal handoff points.
type Engine struct {
	sessions *session.Store
	book     *pricing.Book
	notifier notify.Notifier
	schedule string
	now      func() time.Time
}

// NewEngine wires the conversation engine with its collaborators.
func NewEngine(sessions *session.Store, book *pricing.Book, notifier notify.Notifier, schedule string) *Engine {
	return &Engine{
		sessions: sessions,
		book:     book,
		notifier: notifier,
		schedule: schedule,
		now:      time.Now,
	}
}

// InProgress reports whether the user has an active flow.
func (e *Engine) InProgress(userID int64) bool {
	return e.sessions.InProgress(userID)
}

// Handle consumes one inbound event and returns the reply to emit.
func (e *Engine) Handle(ctx context.Context, ev Event) (Reply, error) {
	sess := e.sessions.Get(ev.UserID)

	switch ev.Kind {
	case KindCommand:
		return e.handleCommand(ctx, ev, sess)
	case KindButton:
		return e.handleButton(ctx, ev, sess)
	case KindText:
		return e.handleText(ctx, ev, sess)
	}
	return Reply{Text: msgGuidance}, nil
}

func (e *Engine) handleCommand(ctx context.Context, ev Event, sess session.Session) (Reply, error) {
	switch ev.Name {
	case CmdStart:
		// /start always restarts, even mid-flow.
		sess = session.Session{UserID: ev.UserID, Step: session.StepServiceChoice}
		e.sessions.Set(ev.UserID, sess)
		e.logStep(ctx, ev.UserID, sess.Step, "start")
		return mainMenu(), nil
	case CmdStatus:
		return Reply{Text: msgStatus}, nil
	}
	return Reply{Text: msgGuidance}, nil
}

func (e *Engine) handleButton(ctx context.Context, ev Event, sess session.Session) (Reply, error) {
	switch sess.Step {
	case session.StepServiceChoice:
		return e.serviceChosen(ctx, ev, sess)
	case session.StepBrandChoice:
		return e.brandChosen(ctx, ev, sess)
	case session.StepQuoteDecision:
		return e.quoteDecided(ctx, ev, sess)
	case session.StepConfirmation:
		return e.contactConfirmed(ctx, ev, sess)
	}
	// Stale button or no active flow.
	return Reply{Text: msgGuidance}, nil
}

func (e *Engine) handleText(ctx context.Context, ev Event, sess session.Session) (Reply, error) {
	switch sess.Step {
	case session.StepQuantity:
		return e.quantityEntered(ctx, ev, sess)
	case session.StepContactName:
		return e.nameEntered(ctx, ev, sess)
	case session.StepContactPhone:
		return e.phoneEntered(ctx, ev, sess)
	case session.StepRejectionReason:
		return e.reasonEntered(ctx, ev, sess)
	}
	return Reply{Text: msgGuidance}, nil
}

func (e *Engine) serviceChosen(ctx context.Context, ev Event, sess session.Session) (Reply, error) {
	tag, ok := strings.CutPrefix(ev.Name, "serv_")
	if !ok {
		return Reply{Text: msgGuidance}, nil
	}
	svc, ok := pricing.ParseService(tag)
	if !ok {
		return Reply{Text: msgGuidance}, nil
	}

	sess.Service = svc
	switch svc {
	case pricing.ServiceProgramming:
		sess.Step = session.StepQuantity
		e.save(ctx, sess, "service_chosen")
		return Reply{Text: msgAskQuantity, Edit: true}, nil
	case pricing.ServiceUnlock:
		sess.Step = session.StepBrandChoice
		e.save(ctx, sess, "service_chosen")
		return brandMenu(), nil
	default: // advisory
		sess.Step = session.StepContactName
		e.save(ctx, sess, "service_chosen")
		return Reply{Text: advisoryIntro(e.schedule), Edit: true}, nil
	}
}

func (e *Engine) brandChosen(ctx context.Context, ev Event, sess session.Session) (Reply, error) {
	switch ev.Name {
	case TagBrandMotorola:
		sess.Brand = session.BrandMotorola
		sess.Step = session.StepQuantity
		e.save(ctx, sess, "brand_chosen")
		return Reply{Text: msgAskQuantityMotorola, Edit: true}, nil
	case TagBrandOther:
		sess.Brand = session.BrandOther
		sess.Step = session.StepContactName
		e.save(ctx, sess, "brand_chosen")
		text := "🔔 *Un ejecutivo te contactará para cotizar.*\n\n" + msgAskName
		return Reply{Text: text, Edit: true}, nil
	}
	return Reply{Text: msgGuidance}, nil
}

func (e *Engine) quantityEntered(ctx context.Context, ev Event, sess session.Session) (Reply, error) {
	qty, err := strconv.Atoi(strings.TrimSpace(ev.Text))
	if err != nil || qty <= 0 {
		// Re-prompt, no session mutation.
		return Reply{Text: msgBadQuantity}, nil
	}

	quote, err := pricing.ComputeQuote(sess.Service, qty, e.book, e.now())
	if err != nil {
		e.sessions.Clear(ev.UserID)
		return Reply{Text: msgGuidance}, fmt.Errorf("dialog: quote for %s: %w", sess.Service, err)
	}

	sess.Quantity = qty
	sess.Quote = &quote
	sess.Step = session.StepQuoteDecision
	e.save(ctx, sess, "quantity_entered")
	return quoteReply(quote), nil
}

func (e *Engine) quoteDecided(ctx context.Context, ev Event, sess session.Session) (Reply, error) {
	switch ev.Name {
	case TagActionAccept:
		e.notify(ctx, notify.Notification{
			Subject:     subjectFor(sess),
			Body:        quoteBody(sess),
			RequesterID: ev.UserID,
			Urgent:      true,
		})
		e.clear(ctx, ev.UserID, "quote_accepted")
		return Reply{Text: msgAccepted, Edit: true}, nil
	case TagActionReject:
		sess.Step = session.StepRejectionReason
		e.save(ctx, sess, "quote_rejected")
		return Reply{Text: msgAskReason, Edit: true}, nil
	}
	return Reply{Text: msgGuidance}, nil
}

func (e *Engine) reasonEntered(ctx context.Context, ev Event, sess session.Session) (Reply, error) {
	reason := logger.SanitizeLimit(strings.TrimSpace(ev.Text), maxReasonRunes)
	e.notify(ctx, notify.Notification{
		Subject:     subjectFor(sess),
		Body:        quoteBody(sess) + "\nMotivo de rechazo: " + reason,
		RequesterID: ev.UserID,
	})
	e.clear(ctx, ev.UserID, "rejection_reason")
	return rejectionClosing(e.schedule), nil
}

func (e *Engine) nameEntered(ctx context.Context, ev Event, sess session.Session) (Reply, error) {
	name := strings.TrimSpace(ev.Text)
	if name == "" {
		return Reply{Text: msgAskName}, nil
	}
	sess.ContactName = logger.SanitizeLimit(name, 128)
	sess.Step = session.StepContactPhone
	e.save(ctx, sess, "name_entered")
	return Reply{Text: msgAskPhone}, nil
}

func (e *Engine) phoneEntered(ctx context.Context, ev Event, sess session.Session) (Reply, error) {
	phone := strings.TrimSpace(ev.Text)
	if !validate.Phone(phone) {
		// Re-prompt; the stored name survives.
		return Reply{Text: msgBadPhone}, nil
	}
	sess.ContactPhone = phone
	sess.Step = session.StepConfirmation
	e.save(ctx, sess, "phone_entered")
	return contactSummary(sess), nil
}

func (e *Engine) contactConfirmed(ctx context.Context, ev Event, sess session.Session) (Reply, error) {
	switch ev.Name {
	case TagDataConfirm:
		e.notify(ctx, notify.Notification{
			Subject:     subjectFor(sess),
			Body:        fmt.Sprintf("Contacto: %s\nTeléfono: %s", sess.ContactName, sess.ContactPhone),
			RequesterID: ev.UserID,
		})
		e.clear(ctx, ev.UserID, "contact_confirmed")
		return Reply{Text: msgConfirmed, Edit: true}, nil
	case TagDataCorrect:
		sess.ContactName = ""
		sess.ContactPhone = ""
		sess.Step = session.StepContactName
		e.save(ctx, sess, "contact_corrected")
		return Reply{Text: msgAskName, Edit: true}, nil
	}
	return Reply{Text: msgGuidance}, nil
}

func quoteBody(s session.Session) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Cantidad: %d", s.Quantity)
	if s.Brand == session.BrandMotorola {
		b.WriteString("\nMarca: Motorola")
	}
	if s.Quote != nil {
		fmt.Fprintf(&b, "\nPresupuesto: %s", s.Quote.Breakdown())
	}
	return b.String()
}

func (e *Engine) save(ctx context.Context, sess session.Session, cause string) {
	e.sessions.Set(sess.UserID, sess)
	e.logStep(ctx, sess.UserID, sess.Step, cause)
}

func (e *Engine) clear(ctx context.Context, userID int64, cause string) {
	e.sessions.Clear(userID)
	e.logStep(ctx, userID, session.StepIdle, cause)
}

func (e *Engine) logStep(ctx context.Context, userID int64, step session.Step, cause string) {
	logger.Debug(ctx, "dialog", "step.transition",
		slog.Int64("user_id", userID),
		slog.String("step", string(step)),
		slog.String("cause", cause),
	)
}

func (e *Engine) notify(ctx context.Context, n notify.Notification) {
	if e.notifier == nil {
		return
	}
	if err := e.notifier.Notify(ctx, n); err != nil {
		// Handoff delivery is best-effort; the user flow still completes.
		logger.Error(ctx, "dialog", "handoff.notify_failed",
			slog.Int64("user_id", n.RequesterID),
			slog.String("err", err.Error()),
		)
	}
}

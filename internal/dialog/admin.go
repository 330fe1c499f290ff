package dialog

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/LucasNunez12345/bot-hexadec/internal/logger"
	"github.com/LucasNunez12345/bot-hexadec/internal/pricing"
)

// adminStep identifies where the admin is in the price-edit dialogue.
type adminStep string

const (
	adminIdle      adminStep = "idle"
	adminMenu      adminStep = "menu"
	adminSelecting adminStep = "selecting"
	adminEntering  adminStep = "entering"
)

type adminState struct {
	step     adminStep
	selected pricing.Service
}

// Admin is the privilege-gated console for viewing and editing the
// price book. Unauthorized identities receive no response; the attempt
// is logged internally.
type Admin struct {
	mu      sync.Mutex
	states  map[int64]adminState
	book    *pricing.Book
	adminID int64
	now     func() time.Time
}

// NewAdmin builds the console for the configured admin identity.
// An adminID of zero disables the console entirely.
func NewAdmin(book *pricing.Book, adminID int64) *Admin {
	return &Admin{
		states:  make(map[int64]adminState),
		book:    book,
		adminID: adminID,
		now:     time.Now,
	}
}

// Authorized reports whether the identity may use the console.
func (a *Admin) Authorized(userID int64) bool {
	return a.adminID != 0 && userID == a.adminID
}

// InProgress reports whether the admin has an active console dialogue.
func (a *Admin) InProgress(userID int64) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	st, ok := a.states[userID]
	return ok && st.step != adminIdle
}

// Owns reports whether a button tag belongs to the admin console.
func (a *Admin) Owns(tag string) bool {
	return tag == TagAdminView || tag == TagAdminEdit || strings.HasPrefix(tag, TagAdminEditPrefix)
}

// Handle consumes one inbound event. An empty reply means silence.
func (a *Admin) Handle(ctx context.Context, ev Event) (Reply, error) {
	if !a.Authorized(ev.UserID) {
		// Silent rejection: no information leaks to non-admins.
		logger.Warn(ctx, "dialog.admin", "unauthorized",
			slog.Int64("user_id", ev.UserID),
			slog.String("name", logger.SanitizeLimit(ev.Name, 64)),
		)
		return Reply{}, nil
	}

	a.mu.Lock()
	st := a.states[ev.UserID]
	a.mu.Unlock()

	switch ev.Kind {
	case KindCommand:
		if ev.Name == CmdAdmin {
			a.set(ev.UserID, adminState{step: adminMenu})
			return adminMenuReply(), nil
		}
	case KindButton:
		return a.handleButton(ctx, ev, st)
	case KindText:
		if st.step == adminEntering {
			return a.priceEntered(ctx, ev, st)
		}
	}
	return Reply{Text: "Usa /precios para administrar."}, nil
}

func (a *Admin) handleButton(ctx context.Context, ev Event, st adminState) (Reply, error) {
	switch {
	case ev.Name == TagAdminView && st.step == adminMenu:
		return Reply{
			Text:    a.renderPrices(),
			Edit:    true,
			Buttons: adminMenuReply().Buttons,
		}, nil

	case ev.Name == TagAdminEdit && st.step == adminMenu:
		a.set(ev.UserID, adminState{step: adminSelecting})
		return a.serviceMenu(), nil

	case strings.HasPrefix(ev.Name, TagAdminEditPrefix) && st.step == adminSelecting:
		svc, ok := pricing.ParseService(strings.TrimPrefix(ev.Name, TagAdminEditPrefix))
		if !ok {
			return Reply{Text: "Servicio desconocido.", Edit: true}, nil
		}
		a.set(ev.UserID, adminState{step: adminEntering, selected: svc})
		return Reply{
			Text: fmt.Sprintf("Envía el nuevo precio unitario para *%s* (solo números):", svc.Label()),
			Edit: true,
		}, nil
	}
	return Reply{Text: "Usa /precios para administrar.", Edit: true}, nil
}

func (a *Admin) priceEntered(ctx context.Context, ev Event, st adminState) (Reply, error) {
	price, err := strconv.ParseInt(strings.TrimSpace(ev.Text), 10, 64)
	if err != nil || price <= 0 {
		// Re-prompt without mutating console state.
		return Reply{Text: "❌ Ingresa un precio válido (solo números)."}, nil
	}

	if err := a.book.SetUnitPrice(ctx, st.selected, price); err != nil {
		logger.Error(ctx, "dialog.admin", "pricebook.save_failed",
			slog.String("service", string(st.selected)),
			slog.Int64("price", price),
			slog.String("err", err.Error()),
		)
		return Reply{Text: fmt.Sprintf("⚠️ No se pudo guardar el precio: %v. Vuelve a intentarlo.", err)}, nil
	}

	logger.Info(ctx, "dialog.admin", "pricebook.updated",
		slog.String("service", string(st.selected)),
		slog.Int64("price", price),
	)
	a.set(ev.UserID, adminState{step: adminMenu})
	return Reply{
		Text:    fmt.Sprintf("✅ Precio de *%s* actualizado a $%d.", st.selected.Label(), price),
		Buttons: adminMenuReply().Buttons,
	}, nil
}

func (a *Admin) set(userID int64, st adminState) {
	a.mu.Lock()
	a.states[userID] = st
	a.mu.Unlock()
}

func adminMenuReply() Reply {
	return Reply{
		Text: "🛠 *Administración de precios*",
		Buttons: [][]Button{
			{{Label: "📋 Ver precios", Tag: TagAdminView}},
			{{Label: "✏️ Editar precio", Tag: TagAdminEdit}},
		},
	}
}

func (a *Admin) serviceMenu() Reply {
	var rows [][]Button
	for _, svc := range a.pricedServices() {
		rows = append(rows, []Button{{
			Label: svc.Label(),
			Tag:   TagAdminEditPrefix + string(svc),
		}})
	}
	return Reply{Text: "¿Qué servicio quieres editar?", Edit: true, Buttons: rows}
}

func (a *Admin) renderPrices() string {
	var b strings.Builder
	b.WriteString("💲 *Precios actuales*\n")
	snapshot := a.book.Snapshot()
	now := a.now()
	for _, svc := range a.pricedServices() {
		e := snapshot[svc]
		fmt.Fprintf(&b, "\n%s: $%d", svc.Label(), e.UnitPrice)
		if e.BulkThreshold > 0 {
			fmt.Fprintf(&b, " (desde %d un.: $%d)", e.BulkThreshold, e.BulkPrice)
		}
		if e.Offer != nil {
			state := "vencida"
			if e.Offer.ActiveAt(now) {
				state = "activa"
			}
			fmt.Fprintf(&b, "\n  🎉 Oferta %s: $%d hasta %s",
				state, e.Offer.DiscountedPrice, e.Offer.ValidUntil.Format("02-01-2006"))
		}
	}
	return b.String()
}

func (a *Admin) pricedServices() []pricing.Service {
	snapshot := a.book.Snapshot()
	services := make([]pricing.Service, 0, len(snapshot))
	for svc := range snapshot {
		services = append(services, svc)
	}
	sort.Slice(services, func(i, j int) bool { return services[i] < services[j] })
	return services
}

package dialog

import (
	"fmt"

	"github.com/LucasNunez12345/bot-hexadec/internal/pricing"
	"github.com/LucasNunez12345/bot-hexadec/internal/session"
)

// Button is one inline keyboard button.
type Button struct {
	Label string
	Tag   string
}

// Reply is the single outbound message emitted for a handled event.
// An empty Text means nothing is sent (silent rejection path).
type Reply struct {
	Text    string
	Buttons [][]Button
	// Edit asks the transport to edit the message whose button was
	// pressed instead of sending a new one.
	Edit bool
}

// Empty reports whether the reply carries nothing to send.
func (r Reply) Empty() bool {
	return r.Text == ""
}

const (
	msgWelcome  = "📻 *Hexadec Radiocomunicaciones*\n¿En qué podemos ayudarte?"
	msgGuidance = "👋 Usa /start para comenzar."
	msgStatus   = "✅ Bot activo 🚀"

	msgAskQuantity         = "¿Cuántos equipos necesitas programar? (Ej: 5)"
	msgAskQuantityMotorola = "¿Cuántos equipos Motorola? (Ej: 3)"
	msgAskBrand            = "¿Es para equipos Motorola?"
	msgBadQuantity         = "❌ Ingresa un número válido."
	msgAskName             = "Por favor, envía tu *nombre* para continuar."
	msgAskPhone            = "📝 Ahora envía tu teléfono:"
	msgBadPhone            = "❌ Teléfono inválido. Usa el formato +56912345678 y vuelve a intentarlo."
	msgAskReason           = "Cuéntanos brevemente por qué no te acomoda el presupuesto:"

	msgAccepted  = "✅ ¡Perfecto! Un ejecutivo te contactará en breve para coordinar el servicio."
	msgConfirmed = "¡Gracias! Te contactaremos en breve."
)

func mainMenu() Reply {
	return Reply{
		Text: msgWelcome,
		Buttons: [][]Button{
			{{Label: "🔧 Programación", Tag: TagServiceProgramming}},
			{{Label: "🔓 Desbloqueo", Tag: TagServiceUnlock}},
			{{Label: "💡 Asesoría/Compra", Tag: TagServiceAdvisory}},
		},
	}
}

func brandMenu() Reply {
	return Reply{
		Text: msgAskBrand,
		Edit: true,
		Buttons: [][]Button{
			{{Label: "✅ Sí, Motorola", Tag: TagBrandMotorola}},
			{{Label: "Otra marca", Tag: TagBrandOther}},
		},
	}
}

func advisoryIntro(schedule string) string {
	text := "🔔 *Un ejecutivo te contactará pronto.*\n\n"
	if schedule != "" {
		text += fmt.Sprintf("Horario:\n%s\n\n", schedule)
	}
	return text + msgAskName
}

func quoteReply(q pricing.Quote) Reply {
	return Reply{
		Text: fmt.Sprintf("💰 *Presupuesto:* %s\n\n¿Te acomoda?", q.Breakdown()),
		Buttons: [][]Button{
			{
				{Label: "✅ Aceptar", Tag: TagActionAccept},
				{Label: "❌ Rechazar", Tag: TagActionReject},
			},
		},
	}
}

func contactSummary(s session.Session) Reply {
	return Reply{
		Text: fmt.Sprintf(
			"📋 *Revisa tus datos:*\nServicio: %s\nNombre: %s\nTeléfono: %s",
			subjectFor(s), s.ContactName, s.ContactPhone,
		),
		Buttons: [][]Button{
			{
				{Label: "✅ Confirmar", Tag: TagDataConfirm},
				{Label: "✏️ Corregir", Tag: TagDataCorrect},
			},
		},
	}
}

func rejectionClosing(schedule string) Reply {
	text := "Entendido, gracias por avisarnos. Si prefieres, un ejecutivo puede buscar una alternativa contigo."
	if schedule != "" {
		text += fmt.Sprintf("\n\nHorario:\n%s", schedule)
	}
	return Reply{
		Text: text,
		Buttons: [][]Button{
			{{Label: "💡 Hablar con un ejecutivo", Tag: TagServiceAdvisory}},
		},
	}
}

// subjectFor names the request in notifications and summaries.
func subjectFor(s session.Session) string {
	if s.Service == pricing.ServiceUnlock && s.Brand == session.BrandOther {
		return "Desbloqueo (otra marca)"
	}
	return s.Service.Label()
}

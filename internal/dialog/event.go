// Package dialog implements the order-intake conversation: a finite
// state machine per user that collects service, quantity and contact
// details, computes quotes and hands off to the operator. A parallel,
// admin-gated machine edits the price book.
package dialog

// Kind discriminates inbound event types.
type Kind int

const (
	// KindCommand is a slash command such as /start.
	KindCommand Kind = iota
	// KindButton is an inline button press carrying a tag.
	KindButton
	// KindText is a free-text message.
	KindText
)

// Event is one inbound chat turn, already detached from the transport.
type Event struct {
	UserID int64
	Kind   Kind
	// Name holds the command name (without slash) or the button tag.
	Name string
	// Text holds free-text content for KindText events.
	Text string
}

// Button tags follow the {category}_{value} wire convention.
const (
	TagServiceProgramming = "serv_programacion"
	TagServiceUnlock      = "serv_desbloqueo"
	TagServiceAdvisory    = "serv_asesoria"

	TagBrandMotorola = "marca_motorola"
	TagBrandOther    = "marca_otra"

	TagActionAccept = "accion_aceptar"
	TagActionReject = "accion_rechazar"

	TagDataConfirm = "dato_confirmar"
	TagDataCorrect = "dato_corregir"

	TagAdminView = "admin_ver"
	TagAdminEdit = "admin_editar"

	// Service selection in the admin edit path: editar_<service>.
	TagAdminEditPrefix = "editar_"
)

// Command names handled by the engine.
const (
	CmdStart  = "start"
	CmdStatus = "estado"
	CmdAdmin  = "precios"
)

// Package session provides the per-user in-memory conversation state.
package session

import "github.com/LucasNunez12345/bot-hexadec/internal/pricing"

// Step identifies where a user is in the order-intake dialogue.
type Step string

const (
	// StepIdle indicates there is no active conversation with the user.
	StepIdle Step = "idle"
	// StepServiceChoice waits for the main-menu button press.
	StepServiceChoice Step = "service_choice"
	// StepQuantity waits for an equipment count as free text.
	StepQuantity Step = "quantity"
	// StepBrandChoice waits for the unlock brand button press.
	StepBrandChoice Step = "brand_choice"
	// StepContactName waits for the contact name as free text.
	StepContactName Step = "contact_name"
	// StepContactPhone waits for a valid phone number as free text.
	StepContactPhone Step = "contact_phone"
	// StepConfirmation waits for the contact-data confirm/correct press.
	StepConfirmation Step = "confirmation"
	// StepQuoteDecision waits for the quote accept/reject press.
	StepQuoteDecision Step = "quote_decision"
	// StepRejectionReason waits for the free-text rejection reason.
	StepRejectionReason Step = "rejection_reason"
)

// Brand identifies equipment brands in the unlock branch.
type Brand string

const (
	// BrandMotorola is priced from the book's unlock entry.
	BrandMotorola Brand = "motorola"
	// BrandOther is routed to a human operator.
	BrandOther Brand = "otra"
)

// Session stores conversation state for one user. It is owned
// exclusively by the dialog engine; the current step determines which
// fields have been filled.
type Session struct {
	UserID       int64
	Step         Step
	Service      pricing.Service
	Brand        Brand
	Quantity     int
	Quote        *pricing.Quote
	ContactName  string
	ContactPhone string
}

// InProgress reports whether the user has an active flow.
func (s Session) InProgress() bool {
	return s.Step != StepIdle
}

package enums

import "fmt"

// PurchaseEvent advances a purchase along its lifecycle.
type PurchaseEvent string

const (
	PurchaseEventAccept         PurchaseEvent = "accept"
	PurchaseEventReady          PurchaseEvent = "ready"
	PurchaseEventRequestPayment PurchaseEvent = "request_payment"
	PurchaseEventConfirmPaid    PurchaseEvent = "confirm_paid"
	PurchaseEventCancel         PurchaseEvent = "cancel"
)

var validPurchaseEvents = []PurchaseEvent{
	PurchaseEventAccept,
	PurchaseEventReady,
	PurchaseEventRequestPayment,
	PurchaseEventConfirmPaid,
	PurchaseEventCancel,
}

// Callback tokens are the first segment of "<token>_<purchaseId>" and so
// must never contain an underscore.
var purchaseEventTokens = map[PurchaseEvent]string{
	PurchaseEventAccept:         "accept",
	PurchaseEventReady:          "ready",
	PurchaseEventRequestPayment: "payment",
	PurchaseEventConfirmPaid:    "paid",
	PurchaseEventCancel:         "cancel",
}

var purchaseEventButtonLabels = map[Locale]map[PurchaseEvent]string{
	LocaleRU: {
		PurchaseEventAccept:         "✅ Принять",
		PurchaseEventReady:          "📦 Готов",
		PurchaseEventRequestPayment: "💳 Запросить оплату",
		PurchaseEventConfirmPaid:    "💰 Оплачено",
		PurchaseEventCancel:         "❌ Отменить",
	},
	LocaleEN: {
		PurchaseEventAccept:         "✅ Accept",
		PurchaseEventReady:          "📦 Mark ready",
		PurchaseEventRequestPayment: "💳 Request payment",
		PurchaseEventConfirmPaid:    "💰 Confirm paid",
		PurchaseEventCancel:         "❌ Cancel",
	},
}

// String implements fmt.Stringer.
func (e PurchaseEvent) String() string {
	return string(e)
}

// IsValid reports whether the value is a known PurchaseEvent.
func (e PurchaseEvent) IsValid() bool {
	for _, candidate := range validPurchaseEvents {
		if candidate == e {
			return true
		}
	}
	return false
}

// CallbackToken returns the compact token used in chat button payloads.
func (e PurchaseEvent) CallbackToken() string {
	return purchaseEventTokens[e]
}

// ButtonLabel returns the button caption for the locale, falling back to Russian.
func (e PurchaseEvent) ButtonLabel(locale Locale) string {
	labels, ok := purchaseEventButtonLabels[locale]
	if !ok {
		labels = purchaseEventButtonLabels[LocaleRU]
	}
	return labels[e]
}

// ParsePurchaseEvent converts raw input into a PurchaseEvent.
func ParsePurchaseEvent(value string) (PurchaseEvent, error) {
	for _, candidate := range validPurchaseEvents {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid purchase event %q", value)
}

// PurchaseEventFromToken resolves a callback token back to its event.
func PurchaseEventFromToken(token string) (PurchaseEvent, bool) {
	for event, candidate := range purchaseEventTokens {
		if candidate == token {
			return event, true
		}
	}
	return "", false
}

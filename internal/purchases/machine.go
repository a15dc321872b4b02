package purchases

import "github.com/angelmondragon/pharmops-backend/pkg/enums"

// forward is the linear chain; cancel is handled separately because it
// applies to every non-terminal state.
var forward = map[enums.PurchaseStatus]struct {
	event enums.PurchaseEvent
	to    enums.PurchaseStatus
}{
	enums.PurchaseStatusPending:         {enums.PurchaseEventAccept, enums.PurchaseStatusAccepted},
	enums.PurchaseStatusAccepted:        {enums.PurchaseEventReady, enums.PurchaseStatusReady},
	enums.PurchaseStatusReady:           {enums.PurchaseEventRequestPayment, enums.PurchaseStatusAwaitingPayment},
	enums.PurchaseStatusAwaitingPayment: {enums.PurchaseEventConfirmPaid, enums.PurchaseStatusInTransit},
}

// Next returns the status reached by applying event in from.
func Next(from enums.PurchaseStatus, event enums.PurchaseEvent) (enums.PurchaseStatus, bool) {
	if !from.IsValid() || from.IsTerminal() {
		return "", false
	}
	if event == enums.PurchaseEventCancel {
		return enums.PurchaseStatusCancelled, true
	}
	step, ok := forward[from]
	if !ok || step.event != event {
		return "", false
	}
	return step.to, true
}

// NextEvent is the forward event offered as the notification button.
func NextEvent(status enums.PurchaseStatus) (enums.PurchaseEvent, bool) {
	step, ok := forward[status]
	if !ok {
		return "", false
	}
	return step.event, true
}

// AllowedEvents lists every event accepted in status.
func AllowedEvents(status enums.PurchaseStatus) []enums.PurchaseEvent {
	if !status.IsValid() || status.IsTerminal() {
		return nil
	}
	events := make([]enums.PurchaseEvent, 0, 2)
	if next, ok := NextEvent(status); ok {
		events = append(events, next)
	}
	return append(events, enums.PurchaseEventCancel)
}

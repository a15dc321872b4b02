package purchases

import (
	"testing"

	"github.com/angelmondragon/pharmops-backend/pkg/enums"
)

func TestNextFollowsForwardChain(t *testing.T) {
	cases := []struct {
		from  enums.PurchaseStatus
		event enums.PurchaseEvent
		want  enums.PurchaseStatus
	}{
		{enums.PurchaseStatusPending, enums.PurchaseEventAccept, enums.PurchaseStatusAccepted},
		{enums.PurchaseStatusAccepted, enums.PurchaseEventReady, enums.PurchaseStatusReady},
		{enums.PurchaseStatusReady, enums.PurchaseEventRequestPayment, enums.PurchaseStatusAwaitingPayment},
		{enums.PurchaseStatusAwaitingPayment, enums.PurchaseEventConfirmPaid, enums.PurchaseStatusInTransit},
	}
	for _, tc := range cases {
		got, ok := Next(tc.from, tc.event)
		if !ok || got != tc.want {
			t.Fatalf("Next(%s, %s) = %s, %v; want %s", tc.from, tc.event, got, ok, tc.want)
		}
	}
}

func TestNextCancelFromEveryOpenState(t *testing.T) {
	open := []enums.PurchaseStatus{
		enums.PurchaseStatusPending,
		enums.PurchaseStatusAccepted,
		enums.PurchaseStatusReady,
		enums.PurchaseStatusAwaitingPayment,
	}
	for _, status := range open {
		got, ok := Next(status, enums.PurchaseEventCancel)
		if !ok || got != enums.PurchaseStatusCancelled {
			t.Fatalf("cancel from %s: got %s, %v", status, got, ok)
		}
	}
}

func TestNextRejectsInapplicableEvents(t *testing.T) {
	cases := []struct {
		from  enums.PurchaseStatus
		event enums.PurchaseEvent
	}{
		{enums.PurchaseStatusAccepted, enums.PurchaseEventAccept},
		{enums.PurchaseStatusPending, enums.PurchaseEventConfirmPaid},
		{enums.PurchaseStatusInTransit, enums.PurchaseEventCancel},
		{enums.PurchaseStatusCancelled, enums.PurchaseEventAccept},
		{enums.PurchaseStatusCancelled, enums.PurchaseEventCancel},
		{enums.PurchaseStatus("bogus"), enums.PurchaseEventCancel},
	}
	for _, tc := range cases {
		if got, ok := Next(tc.from, tc.event); ok {
			t.Fatalf("Next(%s, %s) unexpectedly allowed -> %s", tc.from, tc.event, got)
		}
	}
}

func TestAllowedEvents(t *testing.T) {
	got := AllowedEvents(enums.PurchaseStatusReady)
	if len(got) != 2 || got[0] != enums.PurchaseEventRequestPayment || got[1] != enums.PurchaseEventCancel {
		t.Fatalf("unexpected events for ready: %v", got)
	}
	if got := AllowedEvents(enums.PurchaseStatusInTransit); got != nil {
		t.Fatalf("terminal status should allow nothing, got %v", got)
	}
	if _, ok := NextEvent(enums.PurchaseStatusCancelled); ok {
		t.Fatal("cancelled has no forward event")
	}
}

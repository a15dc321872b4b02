package enums

import (
	"fmt"
	"strings"
)

// PurchaseStatus is the canonical lifecycle state of a purchase.
type PurchaseStatus string

const (
	PurchaseStatusPending         PurchaseStatus = "pending"
	PurchaseStatusAccepted        PurchaseStatus = "accepted"
	PurchaseStatusReady           PurchaseStatus = "ready"
	PurchaseStatusAwaitingPayment PurchaseStatus = "awaiting_payment"
	PurchaseStatusInTransit       PurchaseStatus = "in_transit"
	PurchaseStatusCancelled       PurchaseStatus = "cancelled"
)

var validPurchaseStatuses = []PurchaseStatus{
	PurchaseStatusPending,
	PurchaseStatusAccepted,
	PurchaseStatusReady,
	PurchaseStatusAwaitingPayment,
	PurchaseStatusInTransit,
	PurchaseStatusCancelled,
}

// Legacy vocabularies still found in older dashboards and chat history.
var legacyPurchaseStatuses = map[string]PurchaseStatus{
	"принята":        PurchaseStatusAccepted,
	"готов":          PurchaseStatusReady,
	"ожидает_оплаты": PurchaseStatusAwaitingPayment,
	"в_пути":         PurchaseStatusInTransit,
	"paid":           PurchaseStatusInTransit,
	"delivering":     PurchaseStatusInTransit,
	"received":       PurchaseStatusInTransit,
}

var purchaseStatusLabels = map[Locale]map[PurchaseStatus]string{
	LocaleRU: {
		PurchaseStatusPending:         "Новая",
		PurchaseStatusAccepted:        "Принята",
		PurchaseStatusReady:           "Готов",
		PurchaseStatusAwaitingPayment: "Ожидает оплаты",
		PurchaseStatusInTransit:       "В пути",
		PurchaseStatusCancelled:       "Отменена",
	},
	LocaleEN: {
		PurchaseStatusPending:         "New",
		PurchaseStatusAccepted:        "Accepted",
		PurchaseStatusReady:           "Ready",
		PurchaseStatusAwaitingPayment: "Awaiting payment",
		PurchaseStatusInTransit:       "In transit",
		PurchaseStatusCancelled:       "Cancelled",
	},
}

// String implements fmt.Stringer.
func (s PurchaseStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known PurchaseStatus.
func (s PurchaseStatus) IsValid() bool {
	for _, candidate := range validPurchaseStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further events apply.
func (s PurchaseStatus) IsTerminal() bool {
	return s == PurchaseStatusInTransit || s == PurchaseStatusCancelled
}

// Label returns the display label for the locale, falling back to Russian.
func (s PurchaseStatus) Label(locale Locale) string {
	labels, ok := purchaseStatusLabels[locale]
	if !ok {
		labels = purchaseStatusLabels[LocaleRU]
	}
	if label, ok := labels[s]; ok {
		return label
	}
	return string(s)
}

// ParsePurchaseStatus converts raw input into a PurchaseStatus. Legacy
// vocabulary values are mapped onto their canonical state.
func ParsePurchaseStatus(value string) (PurchaseStatus, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validPurchaseStatuses {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	if status, ok := legacyPurchaseStatuses[normalized]; ok {
		return status, nil
	}
	return "", fmt.Errorf("invalid purchase status %q", value)
}

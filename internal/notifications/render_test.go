package notifications

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/pharmops-backend/internal/purchases"
	"github.com/angelmondragon/pharmops-backend/pkg/enums"
)

func samplePurchase(status enums.PurchaseStatus) purchases.Purchase {
	return purchases.Purchase{
		ID:        "purchase_1736499600000_ab12cd34",
		CreatedAt: time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC),
		TotalCost: decimal.RequireFromString("550"),
		IsUrgent:  true,
		Status:    status,
		Items: []purchases.Item{
			{Name: "Aspirin <500mg>", Quantity: 10, Price: decimal.RequireFromString("50"), Total: decimal.RequireFromString("500")},
			{Name: "Bandage", Quantity: 4, Price: decimal.RequireFromString("12.5"), Total: decimal.RequireFromString("50")},
		},
	}
}

func TestRenderPendingRussian(t *testing.T) {
	moscow := time.FixedZone("MSK", 3*60*60)
	msg := Render(samplePurchase(enums.PurchaseStatusPending), enums.LocaleRU, moscow)

	assert.True(t, strings.HasPrefix(msg.Text, "🔥 <b>СРОЧНАЯ ЗАКУПКА</b>"))
	assert.Contains(t, msg.Text, "<code>purchase_1736499600000_ab12cd34</code>")
	assert.Contains(t, msg.Text, "Сумма: 550.00")
	assert.Contains(t, msg.Text, "Статус: Новая")
	assert.Contains(t, msg.Text, "1. Aspirin &lt;500mg&gt; — 10 × 50.00 = 500.00")
	assert.Contains(t, msg.Text, "2. Bandage — 4 × 12.50 = 50.00")
	assert.Contains(t, msg.Text, "Создана: 10.01.2025 12:00")

	require.NotNil(t, msg.Button)
	assert.Equal(t, enums.PurchaseEventAccept, msg.Button.Event)
	assert.Equal(t, "✅ Принять", msg.Button.Label)
	assert.Equal(t, "accept_purchase_1736499600000_ab12cd34", msg.Button.CallbackData())
}

func TestRenderButtonFollowsStatus(t *testing.T) {
	cases := map[enums.PurchaseStatus]enums.PurchaseEvent{
		enums.PurchaseStatusAccepted:        enums.PurchaseEventReady,
		enums.PurchaseStatusReady:           enums.PurchaseEventRequestPayment,
		enums.PurchaseStatusAwaitingPayment: enums.PurchaseEventConfirmPaid,
	}
	for status, event := range cases {
		msg := Render(samplePurchase(status), enums.LocaleEN, time.UTC)
		require.NotNil(t, msg.Button, status)
		assert.Equal(t, event, msg.Button.Event)
	}

	transit := Render(samplePurchase(enums.PurchaseStatusInTransit), enums.LocaleEN, time.UTC)
	assert.Nil(t, transit.Button)
	assert.Contains(t, transit.Text, "Status: In transit")
}

func TestRenderCancelledStrikesThrough(t *testing.T) {
	msg := Render(samplePurchase(enums.PurchaseStatusCancelled), enums.LocaleRU, time.UTC)

	assert.Nil(t, msg.Button)
	assert.True(t, strings.HasPrefix(msg.Text, "<s>"))
	assert.Contains(t, msg.Text, "</s>")
	assert.True(t, strings.HasSuffix(msg.Text, "❌ Закупка отменена"))
}

func TestRenderRegularHeaderAndFallbacks(t *testing.T) {
	p := samplePurchase(enums.PurchaseStatusPending)
	p.IsUrgent = false

	msg := Render(p, enums.Locale("de"), nil)
	assert.True(t, strings.HasPrefix(msg.Text, "🛒 <b>Новая закупка</b>"))
	assert.Contains(t, msg.Text, "10.01.2025 09:00")
}

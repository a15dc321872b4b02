package notifications

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/angelmondragon/pharmops-backend/internal/purchases"
	"github.com/angelmondragon/pharmops-backend/pkg/enums"
)

// Button is the single action offered under a purchase message.
type Button struct {
	Label      string
	Event      enums.PurchaseEvent
	PurchaseID string
}

// CallbackData is the payload echoed back when the button is pressed.
func (b Button) CallbackData() string {
	return purchases.EncodeCallbackData(b.Event, b.PurchaseID)
}

// Message is a rendered purchase notification in Telegram HTML.
type Message struct {
	Text   string
	Button *Button
}

type phrases struct {
	urgent    string
	regular   string
	number    string
	total     string
	status    string
	items     string
	created   string
	cancelled string
	timeFmt   string
}

var phrasebook = map[enums.Locale]phrases{
	enums.LocaleRU: {
		urgent:    "🔥 <b>СРОЧНАЯ ЗАКУПКА</b>",
		regular:   "🛒 <b>Новая закупка</b>",
		number:    "Номер",
		total:     "Сумма",
		status:    "Статус",
		items:     "Позиции",
		created:   "Создана",
		cancelled: "❌ Закупка отменена",
		timeFmt:   "02.01.2006 15:04",
	},
	enums.LocaleEN: {
		urgent:    "🔥 <b>URGENT PURCHASE</b>",
		regular:   "🛒 <b>New purchase</b>",
		number:    "Number",
		total:     "Total",
		status:    "Status",
		items:     "Items",
		created:   "Created",
		cancelled: "❌ Purchase cancelled",
		timeFmt:   "2006-01-02 15:04",
	},
}

// Render builds the chat message for the purchase's current state. Terminal
// purchases carry no button; cancelled ones are struck through.
func Render(p purchases.Purchase, locale enums.Locale, loc *time.Location) Message {
	ph, ok := phrasebook[locale]
	if !ok {
		locale = enums.LocaleRU
		ph = phrasebook[locale]
	}
	if loc == nil {
		loc = time.UTC
	}

	var b strings.Builder
	if p.IsUrgent {
		b.WriteString(ph.urgent)
	} else {
		b.WriteString(ph.regular)
	}
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "%s: <code>%s</code>\n", ph.number, html.EscapeString(p.ID))
	fmt.Fprintf(&b, "%s: %s\n", ph.total, p.TotalCost.StringFixed(2))
	fmt.Fprintf(&b, "%s: %s\n", ph.status, html.EscapeString(p.Status.Label(locale)))
	fmt.Fprintf(&b, "\n%s:\n", ph.items)
	for i, item := range p.Items {
		fmt.Fprintf(&b, "%d. %s — %d × %s = %s\n",
			i+1,
			html.EscapeString(item.Name),
			item.Quantity,
			item.Price.StringFixed(2),
			item.Total.StringFixed(2),
		)
	}
	fmt.Fprintf(&b, "\n%s: %s", ph.created, p.CreatedAt.In(loc).Format(ph.timeFmt))

	if p.Status == enums.PurchaseStatusCancelled {
		return Message{Text: "<s>" + b.String() + "</s>\n\n" + ph.cancelled}
	}

	msg := Message{Text: b.String()}
	if event, ok := purchases.NextEvent(p.Status); ok {
		msg.Button = &Button{
			Label:      event.ButtonLabel(locale),
			Event:      event,
			PurchaseID: p.ID,
		}
	}
	return msg
}

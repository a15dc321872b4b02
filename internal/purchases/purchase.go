package purchases

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/pharmops-backend/pkg/enums"
)

// Item is one purchase line. Total is taken as supplied by the caller.
type Item struct {
	ProductID *string         `json:"productId,omitempty"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Total     decimal.Decimal `json:"total"`
}

// MessageRef points at the chat message announcing a purchase.
type MessageRef struct {
	ChatID    int64 `json:"chatId"`
	MessageID int   `json:"messageId"`
}

type Purchase struct {
	ID           string               `json:"id"`
	CreatedAt    time.Time            `json:"createdAt"`
	UpdatedAt    time.Time            `json:"updatedAt"`
	TotalCost    decimal.Decimal      `json:"totalCost"`
	IsUrgent     bool                 `json:"isUrgent"`
	Items        []Item               `json:"items"`
	Status       enums.PurchaseStatus `json:"status"`
	Notification *MessageRef          `json:"-"`
}

// CreateInput is the purchase creation request.
type CreateInput struct {
	IsUrgent bool
	Items    []Item
}

// ListParams page through purchases, newest first.
type ListParams struct {
	Limit  int
	Cursor string
	Status *enums.PurchaseStatus
}

type ListResult struct {
	Items      []Purchase
	NextCursor string
}

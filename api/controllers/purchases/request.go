package purchases

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/pharmops-backend/api/validators"
	"github.com/angelmondragon/pharmops-backend/internal/purchases"
	"github.com/angelmondragon/pharmops-backend/pkg/enums"
)

const maxItemNameLen = 255

type createItemRequest struct {
	ProductID *string         `json:"productId,omitempty"`
	Name      string          `json:"name" validate:"required"`
	Quantity  int             `json:"quantity" validate:"gt=0"`
	Price     decimal.Decimal `json:"price"`
	Total     decimal.Decimal `json:"total"`
}

type createPurchaseRequest struct {
	IsUrgent bool                `json:"isUrgent"`
	Items    []createItemRequest `json:"items" validate:"required,min=1,dive"`
}

func (r createPurchaseRequest) toInput() purchases.CreateInput {
	items := make([]purchases.Item, 0, len(r.Items))
	for _, item := range r.Items {
		var productID *string
		if item.ProductID != nil {
			if id := validators.SanitizeString(*item.ProductID, maxItemNameLen); id != "" {
				productID = &id
			}
		}
		items = append(items, purchases.Item{
			ProductID: productID,
			Name:      validators.SanitizeString(item.Name, maxItemNameLen),
			Quantity:  item.Quantity,
			Price:     item.Price,
			Total:     item.Total,
		})
	}
	return purchases.CreateInput{IsUrgent: r.IsUrgent, Items: items}
}

type eventRequest struct {
	Event string `json:"event" validate:"required"`
}

func (r eventRequest) event() enums.PurchaseEvent {
	return enums.PurchaseEvent(r.Event)
}

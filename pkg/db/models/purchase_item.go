package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseItem is one line of a purchase. Position keeps the caller's order.
type PurchaseItem struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	PurchaseID string          `gorm:"column:purchase_id;not null"`
	Position   int             `gorm:"column:position;not null"`
	ProductID  *string         `gorm:"column:product_id"`
	Name       string          `gorm:"column:name;not null"`
	Quantity   int             `gorm:"column:quantity;not null"`
	Price      decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Total      decimal.Decimal `gorm:"column:total;type:numeric(14,2);not null"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
}

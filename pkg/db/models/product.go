package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is the stock snapshot row read by the replenishment analytics.
type Product struct {
	ID               string              `gorm:"column:id;primaryKey"`
	Name             string              `gorm:"column:name;not null"`
	SKU              *string             `gorm:"column:sku"`
	StockQuantity    int                 `gorm:"column:stock_quantity;not null;default:0"`
	AvgDailySales30d float64             `gorm:"column:avg_daily_sales_30d;not null;default:0"`
	InTransit        int                 `gorm:"column:in_transit;not null;default:0"`
	DeliveryDays     *int                `gorm:"column:delivery_days"`
	MinStock         *int                `gorm:"column:min_stock"`
	CostPrice        decimal.NullDecimal `gorm:"column:cost_price;type:numeric(12,2)"`
	Price            decimal.NullDecimal `gorm:"column:price;type:numeric(12,2)"`
	CreatedAt        time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

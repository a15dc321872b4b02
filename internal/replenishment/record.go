package replenishment

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/pharmops-backend/pkg/enums"
)

const (
	// NoSalesDaysToZero is reported when a product has no measured velocity.
	NoSalesDaysToZero = 999

	DefaultDeliveryDays = 14
	DefaultMinStock     = 5
	DefaultLowStockDays = 14

	// criticalFloorDays is the absolute urgency floor, independent of lead time.
	criticalFloorDays = 7
	// lowStockFilterDays backs the lowStock filter; it ignores deliveryDays.
	lowStockFilterDays = 14
)

// Snapshot is the stock state of one product at analysis time.
type Snapshot struct {
	ProductID        string
	Name             string
	StockQuantity    int
	AvgDailySales30d float64
	InTransit        int
	DeliveryDays     int
	MinStock         int
	CostPrice        decimal.NullDecimal
	Price            decimal.NullDecimal
}

// Record is the derived analytics for one product. It is never persisted.
type Record struct {
	ProductID        string              `json:"productId"`
	ProductName      string              `json:"productName"`
	StockQuantity    int                 `json:"stockQuantity"`
	AvgDailySales30d float64             `json:"avgDailySales30d"`
	InTransit        int                 `json:"inTransit"`
	DeliveryDays     int                 `json:"deliveryDays"`
	MinStock         int                 `json:"minStock"`
	CostPrice        decimal.NullDecimal `json:"costPrice"`
	Price            decimal.NullDecimal `json:"price"`
	DaysToZero       int                 `json:"daysToZero"`
	DeliveryNeed     int                 `json:"deliveryNeed"`
	TotalNeed        int                 `json:"totalNeed"`
	RecommendedQty   int                 `json:"recommendedQty"`
	CriticalLevel    int                 `json:"criticalLevel"`
	UrgencyLevel     enums.UrgencyLevel  `json:"urgencyLevel"`
	NeedsPurchase    bool                `json:"needsPurchase"`
	CriticalStock    bool                `json:"criticalStock"`
}

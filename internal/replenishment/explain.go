package replenishment

import (
	"fmt"
	"strconv"
)

// Calculations spells out the formulas behind a record. The numeric fields of
// Record stay authoritative.
type Calculations struct {
	DaysToZero     string `json:"daysToZero"`
	DeliveryNeed   string `json:"deliveryNeed"`
	TotalNeed      string `json:"totalNeed"`
	RecommendedQty string `json:"recommendedQty"`
	UrgencyLevel   string `json:"urgencyLevel"`
}

func Explain(r Record) Calculations {
	avg := strconv.FormatFloat(r.AvgDailySales30d, 'f', -1, 64)

	daysToZero := fmt.Sprintf("ceil(%d / %s) = %d", r.StockQuantity, avg, r.DaysToZero)
	if r.AvgDailySales30d == 0 {
		daysToZero = fmt.Sprintf("no sales in 30 days = %d", NoSalesDaysToZero)
	}

	var urgency string
	switch {
	case r.DaysToZero <= criticalFloorDays:
		urgency = fmt.Sprintf("%d <= %d = %s", r.DaysToZero, criticalFloorDays, r.UrgencyLevel)
	case r.DaysToZero <= r.CriticalLevel:
		urgency = fmt.Sprintf("%d <= %d = %s", r.DaysToZero, r.CriticalLevel, r.UrgencyLevel)
	default:
		urgency = fmt.Sprintf("%d > %d = %s", r.DaysToZero, r.CriticalLevel, r.UrgencyLevel)
	}

	return Calculations{
		DaysToZero:     daysToZero,
		DeliveryNeed:   fmt.Sprintf("ceil(%s * %d) = %d", avg, r.DeliveryDays, r.DeliveryNeed),
		TotalNeed:      fmt.Sprintf("%d + %d = %d", r.DeliveryNeed, r.MinStock, r.TotalNeed),
		RecommendedQty: fmt.Sprintf("max(0, %d - %d - %d) = %d", r.TotalNeed, r.StockQuantity, r.InTransit, r.RecommendedQty),
		UrgencyLevel:   urgency,
	}
}

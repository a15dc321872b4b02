package replenishment

import (
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/angelmondragon/pharmops-backend/pkg/enums"
)

// parallelThreshold is the collection size below which ComputeAll stays on
// the calling goroutine.
const parallelThreshold = 512

// Compute derives the replenishment record for one snapshot. It is total:
// absent lead time and safety stock take their defaults and negative inputs
// are treated as zero.
func Compute(s Snapshot) Record {
	stock := max(s.StockQuantity, 0)
	inTransit := max(s.InTransit, 0)
	avg := math.Max(s.AvgDailySales30d, 0)
	if math.IsNaN(avg) || math.IsInf(avg, 0) {
		avg = 0
	}

	deliveryDays := s.DeliveryDays
	if deliveryDays <= 0 {
		deliveryDays = DefaultDeliveryDays
	}
	minStock := s.MinStock
	if minStock <= 0 {
		minStock = DefaultMinStock
	}

	daysToZero := NoSalesDaysToZero
	if avg > 0 {
		daysToZero = int(math.Ceil(float64(stock) / avg))
	}

	deliveryNeed := int(math.Ceil(avg * float64(deliveryDays)))
	totalNeed := deliveryNeed + minStock
	recommended := max(0, totalNeed-stock-inTransit)
	criticalLevel := deliveryDays

	return Record{
		ProductID:        s.ProductID,
		ProductName:      s.Name,
		StockQuantity:    stock,
		AvgDailySales30d: avg,
		InTransit:        inTransit,
		DeliveryDays:     deliveryDays,
		MinStock:         minStock,
		CostPrice:        s.CostPrice,
		Price:            s.Price,
		DaysToZero:       daysToZero,
		DeliveryNeed:     deliveryNeed,
		TotalNeed:        totalNeed,
		RecommendedQty:   recommended,
		CriticalLevel:    criticalLevel,
		UrgencyLevel:     urgency(daysToZero, criticalLevel),
		NeedsPurchase:    recommended > 0,
		CriticalStock:    daysToZero < criticalLevel,
	}
}

func urgency(daysToZero, criticalLevel int) enums.UrgencyLevel {
	switch {
	case daysToZero <= criticalFloorDays:
		return enums.UrgencyCritical
	case daysToZero <= criticalLevel:
		return enums.UrgencyWarning
	default:
		return enums.UrgencyNormal
	}
}

// ComputeAll maps Compute over the snapshots, preserving order. Large
// collections are split into chunks processed by at most workers goroutines.
func ComputeAll(snapshots []Snapshot, workers int) []Record {
	records := make([]Record, len(snapshots))
	if len(snapshots) < parallelThreshold || workers <= 1 {
		for i, s := range snapshots {
			records[i] = Compute(s)
		}
		return records
	}

	chunk := (len(snapshots) + workers - 1) / workers
	var g errgroup.Group
	g.SetLimit(workers)
	for start := 0; start < len(snapshots); start += chunk {
		end := min(start+chunk, len(snapshots))
		g.Go(func() error {
			for i := start; i < end; i++ {
				records[i] = Compute(snapshots[i])
			}
			return nil
		})
	}
	_ = g.Wait()
	return records
}

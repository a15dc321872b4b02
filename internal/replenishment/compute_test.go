package replenishment

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/pharmops-backend/pkg/enums"
)

func TestComputeWorkedExamples(t *testing.T) {
	tests := []struct {
		name         string
		in           Snapshot
		daysToZero   int
		deliveryNeed int
		totalNeed    int
		recommended  int
		urgency      enums.UrgencyLevel
		critical     bool
	}{
		{
			name:       "well stocked",
			in:         Snapshot{StockQuantity: 46, AvgDailySales30d: 2.3, InTransit: 5, DeliveryDays: 14, MinStock: 10},
			daysToZero: 20, deliveryNeed: 33, totalNeed: 43, recommended: 0,
			urgency: enums.UrgencyNormal, critical: false,
		},
		{
			name:       "about to run out",
			in:         Snapshot{StockQuantity: 3, AvgDailySales30d: 0.5, InTransit: 0, DeliveryDays: 21, MinStock: 5},
			daysToZero: 6, deliveryNeed: 11, totalNeed: 16, recommended: 13,
			urgency: enums.UrgencyCritical, critical: true,
		},
		{
			name:       "in transit covers the need",
			in:         Snapshot{StockQuantity: 59, AvgDailySales30d: 1.8, InTransit: 12, DeliveryDays: 14, MinStock: 8},
			daysToZero: 33, deliveryNeed: 26, totalNeed: 34, recommended: 0,
			urgency: enums.UrgencyNormal, critical: false,
		},
		{
			name:       "warning inside lead time",
			in:         Snapshot{StockQuantity: 20, AvgDailySales30d: 2, DeliveryDays: 14, MinStock: 5},
			daysToZero: 10, deliveryNeed: 28, totalNeed: 33, recommended: 13,
			urgency: enums.UrgencyWarning, critical: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(tt.in)
			assert.Equal(t, tt.daysToZero, got.DaysToZero)
			assert.Equal(t, tt.deliveryNeed, got.DeliveryNeed)
			assert.Equal(t, tt.totalNeed, got.TotalNeed)
			assert.Equal(t, tt.recommended, got.RecommendedQty)
			assert.Equal(t, tt.urgency, got.UrgencyLevel)
			assert.Equal(t, tt.critical, got.CriticalStock)
			assert.Equal(t, tt.recommended > 0, got.NeedsPurchase)
		})
	}
}

func TestComputeNoSalesUsesSentinel(t *testing.T) {
	for _, delivery := range []int{0, 1, 14, 60, 365} {
		got := Compute(Snapshot{StockQuantity: 4, DeliveryDays: delivery})
		assert.Equal(t, NoSalesDaysToZero, got.DaysToZero)
		assert.Equal(t, enums.UrgencyNormal, got.UrgencyLevel)
		assert.False(t, got.CriticalStock)
	}
}

func TestComputeAppliesDefaults(t *testing.T) {
	got := Compute(Snapshot{StockQuantity: 0, AvgDailySales30d: 1})
	assert.Equal(t, DefaultDeliveryDays, got.DeliveryDays)
	assert.Equal(t, DefaultMinStock, got.MinStock)
	assert.Equal(t, DefaultDeliveryDays, got.CriticalLevel)
	assert.Equal(t, 14+5, got.RecommendedQty)
	assert.Equal(t, 0, got.DaysToZero)
	assert.Equal(t, enums.UrgencyCritical, got.UrgencyLevel)
}

func TestComputeClampsNegativeInputs(t *testing.T) {
	got := Compute(Snapshot{StockQuantity: -10, InTransit: -3, AvgDailySales30d: -2, DeliveryDays: 7, MinStock: 2})
	assert.Equal(t, 0, got.StockQuantity)
	assert.Equal(t, 0, got.InTransit)
	assert.Equal(t, NoSalesDaysToZero, got.DaysToZero)
	assert.Equal(t, 2, got.RecommendedQty)
}

func TestComputeProperties(t *testing.T) {
	for stock := -5; stock <= 60; stock += 5 {
		for _, avg := range []float64{0, 0.1, 0.5, 1, 2.3, 7.9} {
			for _, transit := range []int{-1, 0, 3, 50} {
				for _, delivery := range []int{0, 3, 14, 30} {
					s := Snapshot{StockQuantity: stock, AvgDailySales30d: avg, InTransit: transit, DeliveryDays: delivery}
					first := Compute(s)
					assert.GreaterOrEqual(t, first.RecommendedQty, 0)
					assert.Equal(t, first.DaysToZero < first.DeliveryDays, first.CriticalStock)
					assert.Equal(t, first, Compute(s), "compute must be deterministic")
				}
			}
		}
	}
}

func TestComputeAllPreservesOrder(t *testing.T) {
	snapshots := make([]Snapshot, 2000)
	for i := range snapshots {
		snapshots[i] = Snapshot{ProductID: fmt.Sprintf("p-%d", i), StockQuantity: i, AvgDailySales30d: float64(i%7) / 2}
	}

	parallel := ComputeAll(snapshots, 8)
	serial := ComputeAll(snapshots, 1)
	require.Len(t, parallel, len(snapshots))
	for i := range snapshots {
		assert.Equal(t, snapshots[i].ProductID, parallel[i].ProductID)
		assert.Equal(t, serial[i], parallel[i])
	}
	assert.Empty(t, ComputeAll(nil, 4))
}

func TestComputeKeepsPrices(t *testing.T) {
	cost := decimal.NewNullDecimal(decimal.RequireFromString("12.50"))
	got := Compute(Snapshot{ProductID: "p1", Name: "Aspirin", CostPrice: cost})
	assert.Equal(t, "p1", got.ProductID)
	assert.Equal(t, "Aspirin", got.ProductName)
	assert.True(t, got.CostPrice.Decimal.Equal(cost.Decimal))
	assert.False(t, got.Price.Valid)
}

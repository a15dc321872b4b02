package replenishment

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/pharmops-backend/pkg/enums"
)

// Reason thresholds are fixed and deliberately differ from the urgency rules.
const (
	reasonCriticalDays = 7
	reasonWarningDays  = 14
)

type reasonKind int

const (
	reasonCritical reasonKind = iota
	reasonWarning
	reasonPlanned
)

var reasonTexts = map[enums.Locale]map[reasonKind]string{
	enums.LocaleRU: {
		reasonCritical: "Критический остаток",
		reasonWarning:  "Низкий остаток",
		reasonPlanned:  "Плановая закупка",
	},
	enums.LocaleEN: {
		reasonCritical: "Critical stock level",
		reasonWarning:  "Low stock",
		reasonPlanned:  "Planned purchase",
	},
}

// Recommendation is one line of the purchase suggestion list.
type Recommendation struct {
	ProductID      string             `json:"productId"`
	ProductName    string             `json:"productName"`
	CurrentStock   int                `json:"currentStock"`
	InTransit      int                `json:"inTransit"`
	RecommendedQty int                `json:"recommendedQty"`
	EstimatedCost  decimal.Decimal    `json:"estimatedCost"`
	Urgency        enums.UrgencyLevel `json:"urgency"`
	DaysToZero     int                `json:"daysToZero"`
	Reason         string             `json:"reason"`
}

// Recommend lists every record with a positive reorder quantity, soonest
// stock-out first. Ties keep input order.
func Recommend(records []Record, locale enums.Locale) []Recommendation {
	texts, ok := reasonTexts[locale]
	if !ok {
		texts = reasonTexts[enums.LocaleRU]
	}

	out := make([]Recommendation, 0, len(records))
	for _, r := range records {
		if r.RecommendedQty <= 0 {
			continue
		}
		cost := decimal.Zero
		if r.CostPrice.Valid {
			cost = r.CostPrice.Decimal.Mul(decimal.NewFromInt(int64(r.RecommendedQty)))
		}
		out = append(out, Recommendation{
			ProductID:      r.ProductID,
			ProductName:    r.ProductName,
			CurrentStock:   r.StockQuantity,
			InTransit:      r.InTransit,
			RecommendedQty: r.RecommendedQty,
			EstimatedCost:  cost,
			Urgency:        r.UrgencyLevel,
			DaysToZero:     r.DaysToZero,
			Reason:         texts[reasonFor(r.DaysToZero)],
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DaysToZero < out[j].DaysToZero
	})
	return out
}

func reasonFor(daysToZero int) reasonKind {
	switch {
	case daysToZero < reasonCriticalDays:
		return reasonCritical
	case daysToZero < reasonWarningDays:
		return reasonWarning
	default:
		return reasonPlanned
	}
}

// TotalEstimatedCost sums the estimated cost of the recommendations.
func TotalEstimatedCost(recs []Recommendation) decimal.Decimal {
	total := decimal.Zero
	for _, r := range recs {
		total = total.Add(r.EstimatedCost)
	}
	return total
}

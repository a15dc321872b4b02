package replenishment

import "math"

// Summary aggregates a set of records.
type Summary struct {
	TotalProducts       int `json:"totalProducts"`
	CriticalProducts    int `json:"criticalProducts"`
	NeedsPurchase       int `json:"needsPurchase"`
	TotalRecommendedQty int `json:"totalRecommendedQty"`
	// AverageDaysToZero includes the no-sales sentinel, so slow movers pull
	// it upward.
	AverageDaysToZero int `json:"averageDaysToZero"`
}

func Summarize(records []Record) Summary {
	summary := Summary{TotalProducts: len(records)}
	if len(records) == 0 {
		return summary
	}
	var days int
	for _, r := range records {
		if r.CriticalStock {
			summary.CriticalProducts++
		}
		if r.NeedsPurchase {
			summary.NeedsPurchase++
		}
		summary.TotalRecommendedQty += r.RecommendedQty
		days += r.DaysToZero
	}
	summary.AverageDaysToZero = int(math.Round(float64(days) / float64(len(records))))
	return summary
}

package replenishment

import "github.com/angelmondragon/pharmops-backend/pkg/enums"

// Criteria selects records for the product listing. Day bounds are inclusive
// and applied after the named filter.
type Criteria struct {
	Filter  enums.AnalyticsFilter
	MinDays *int
	MaxDays *int
}

func Filter(records []Record, c Criteria) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if !matchesFilter(r, c.Filter) {
			continue
		}
		if c.MinDays != nil && r.DaysToZero < *c.MinDays {
			continue
		}
		if c.MaxDays != nil && r.DaysToZero > *c.MaxDays {
			continue
		}
		out = append(out, r)
	}
	return out
}

func matchesFilter(r Record, f enums.AnalyticsFilter) bool {
	switch f {
	case enums.AnalyticsFilterCritical:
		return r.CriticalStock
	case enums.AnalyticsFilterNeedsPurchase:
		return r.NeedsPurchase
	case enums.AnalyticsFilterLowStock:
		return r.DaysToZero < lowStockFilterDays
	default:
		return true
	}
}

// LowStock returns the records projected to run out in fewer than days days.
// A non-positive threshold means DefaultLowStockDays.
func LowStock(records []Record, days int) []Record {
	if days <= 0 {
		days = DefaultLowStockDays
	}
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if r.DaysToZero < days {
			out = append(out, r)
		}
	}
	return out
}

package enums

import "fmt"

// AnalyticsFilter narrows the product analytics listing.
type AnalyticsFilter string

const (
	AnalyticsFilterCritical      AnalyticsFilter = "critical"
	AnalyticsFilterNeedsPurchase AnalyticsFilter = "needsPurchase"
	AnalyticsFilterLowStock      AnalyticsFilter = "lowStock"
)

var validAnalyticsFilters = []AnalyticsFilter{
	AnalyticsFilterCritical,
	AnalyticsFilterNeedsPurchase,
	AnalyticsFilterLowStock,
}

// String implements fmt.Stringer.
func (f AnalyticsFilter) String() string {
	return string(f)
}

// IsValid reports whether the value is a known AnalyticsFilter.
func (f AnalyticsFilter) IsValid() bool {
	for _, candidate := range validAnalyticsFilters {
		if candidate == f {
			return true
		}
	}
	return false
}

// ParseAnalyticsFilter converts raw input into an AnalyticsFilter. An empty
// value means no filter.
func ParseAnalyticsFilter(value string) (AnalyticsFilter, error) {
	if value == "" {
		return "", nil
	}
	for _, candidate := range validAnalyticsFilters {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid analytics filter %q", value)
}

package enums

// UrgencyLevel classifies how soon a product is projected to run out.
type UrgencyLevel string

const (
	UrgencyCritical UrgencyLevel = "critical"
	UrgencyWarning  UrgencyLevel = "warning"
	UrgencyNormal   UrgencyLevel = "normal"
)

// String implements fmt.Stringer.
func (u UrgencyLevel) String() string {
	return string(u)
}

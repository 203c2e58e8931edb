package enums

import "fmt"

// SupplyType distinguishes fixed-price retail listings from negotiable bulk ones.
type SupplyType string

const (
	SupplyTypeSmallScale SupplyType = "small_scale"
	SupplyTypeWholesale  SupplyType = "wholesale"
)

var validSupplyTypes = []SupplyType{
	SupplyTypeSmallScale,
	SupplyTypeWholesale,
}

// String implements fmt.Stringer.
func (s SupplyType) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SupplyType.
func (s SupplyType) IsValid() bool {
	for _, candidate := range validSupplyTypes {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSupplyType converts raw input into a SupplyType.
func ParseSupplyType(value string) (SupplyType, error) {
	for _, candidate := range validSupplyTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid supply type %q", value)
}

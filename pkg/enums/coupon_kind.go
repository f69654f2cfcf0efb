package enums

import "fmt"

// CouponKind determines how a coupon's value is interpreted.
type CouponKind string

const (
	// CouponKindPercentage treats Value as percent points off the subtotal.
	CouponKindPercentage CouponKind = "percentage"
	// CouponKindFixed treats Value as a fixed amount in cents.
	CouponKindFixed CouponKind = "fixed"
)

var validCouponKinds = []CouponKind{
	CouponKindPercentage,
	CouponKindFixed,
}

// String implements fmt.Stringer.
func (k CouponKind) String() string {
	return string(k)
}

// IsValid reports whether the value is a known CouponKind.
func (k CouponKind) IsValid() bool {
	for _, candidate := range validCouponKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseCouponKind converts raw input into a CouponKind.
func ParseCouponKind(value string) (CouponKind, error) {
	for _, candidate := range validCouponKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid coupon kind %q", value)
}

package enums

import "fmt"

// OutboxEventType identifies a domain event recorded in the outbox table.
type OutboxEventType string

const (
	OutboxEventOrderPlaced        OutboxEventType = "order.placed"
	OutboxEventOrderStatusChanged OutboxEventType = "order.status_changed"
	OutboxEventCouponRedeemed     OutboxEventType = "coupon.redeemed"
)

var validOutboxEventTypes = []OutboxEventType{
	OutboxEventOrderPlaced,
	OutboxEventOrderStatusChanged,
	OutboxEventCouponRedeemed,
}

// String implements fmt.Stringer.
func (t OutboxEventType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known OutboxEventType.
func (t OutboxEventType) IsValid() bool {
	for _, candidate := range validOutboxEventTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseOutboxEventType converts raw input into an OutboxEventType.
func ParseOutboxEventType(value string) (OutboxEventType, error) {
	for _, candidate := range validOutboxEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid outbox event type %q", value)
}

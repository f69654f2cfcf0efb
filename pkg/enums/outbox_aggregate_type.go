package enums

import "fmt"

// OutboxAggregateType names the entity an outbox event is anchored to.
type OutboxAggregateType string

const (
	OutboxAggregateOrder  OutboxAggregateType = "order"
	OutboxAggregateCoupon OutboxAggregateType = "coupon"
)

var validOutboxAggregateTypes = []OutboxAggregateType{
	OutboxAggregateOrder,
	OutboxAggregateCoupon,
}

// String implements fmt.Stringer.
func (t OutboxAggregateType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known OutboxAggregateType.
func (t OutboxAggregateType) IsValid() bool {
	for _, candidate := range validOutboxAggregateTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseOutboxAggregateType converts raw input into an OutboxAggregateType.
func ParseOutboxAggregateType(value string) (OutboxAggregateType, error) {
	for _, candidate := range validOutboxAggregateTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid outbox aggregate type %q", value)
}

package checkout

import "github.com/elegantjewelry/jewelbox-backend/pkg/enums"

// ShippingOption is one entry in the fixed shipping menu shown at checkout.
type ShippingOption struct {
	Method      enums.ShippingMethod `json:"method"`
	Label       string               `json:"label"`
	Description string               `json:"description"`
	PriceCents  int64                `json:"price_cents"`
}

var shippingMenu = []ShippingOption{
	{
		Method:      enums.ShippingMethodStandard,
		Label:       "Standard Shipping",
		Description: "5-7 business days",
		PriceCents:  599,
	},
	{
		Method:      enums.ShippingMethodExpress,
		Label:       "Express Shipping",
		Description: "2-3 business days",
		PriceCents:  1299,
	},
	{
		Method:      enums.ShippingMethodOvernight,
		Label:       "Overnight Shipping",
		Description: "1 business day",
		PriceCents:  2499,
	},
}

// ShippingOptions returns the shipping menu in display order.
func ShippingOptions() []ShippingOption {
	out := make([]ShippingOption, len(shippingMenu))
	copy(out, shippingMenu)
	return out
}

// ShippingPriceCents returns the price for the given method, or -1 when the
// method is unknown.
func ShippingPriceCents(method enums.ShippingMethod) int64 {
	for _, option := range shippingMenu {
		if option.Method == method {
			return option.PriceCents
		}
	}
	return -1
}

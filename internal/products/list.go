package products

import (
	"fmt"
	"strings"

	"github.com/elegantjewelry/jewelbox-backend/pkg/pagination"
)

// ListFilters describe the supported filter knobs for the browse endpoint.
type ListFilters struct {
	Category      string `json:"category,omitempty"`
	PriceMinCents *int64 `json:"price_min_cents,omitempty"`
	PriceMaxCents *int64 `json:"price_max_cents,omitempty"`
	Featured      *bool  `json:"featured,omitempty"`
	Query         string `json:"q,omitempty"`
}

// Sort orders accepted by the catalog listing.
const (
	SortNewest    = "newest"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortName      = "name"
)

// ListInput captures the inputs needed to paginate/filter the catalog.
type ListInput struct {
	Filters         ListFilters
	Pagination      pagination.Params
	Sort            string
	IncludeInactive bool
}

// ParseSort validates a sort token, defaulting empty input to newest.
func ParseSort(value string) (string, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	switch v {
	case "":
		return SortNewest, nil
	case SortNewest, SortPriceAsc, SortPriceDesc, SortName:
		return v, nil
	default:
		return "", fmt.Errorf("unsupported sort %q", value)
	}
}

package pagination

// Page-numbered pagination for the storefront catalog and admin tables.

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 12
	// MaxLimit caps how many rows any listing query can request.
	MaxLimit = 100
)

// Params holds pagination inputs from controllers or services.
type Params struct {
	Page  int
	Limit int
}

// Meta describes the shape of a paginated result set.
type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalItems int64 `json:"total_items"`
	TotalPages int64 `json:"total_pages"`
}

// NormalizeLimit enforces the configured default and maximum limits.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// NormalizePage clamps the page number to 1 or greater.
func NormalizePage(page int) int {
	if page <= 0 {
		return 1
	}
	return page
}

// Normalize returns a copy of the params with both fields clamped.
func (p Params) Normalize() Params {
	return Params{
		Page:  NormalizePage(p.Page),
		Limit: NormalizeLimit(p.Limit),
	}
}

// Offset converts the normalized page/limit pair into a row offset.
func (p Params) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.Limit
}

// BuildMeta computes page counts for the provided total.
func BuildMeta(params Params, totalItems int64) Meta {
	n := params.Normalize()
	totalPages := totalItems / int64(n.Limit)
	if totalItems%int64(n.Limit) != 0 {
		totalPages++
	}
	return Meta{
		Page:       n.Page,
		Limit:      n.Limit,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}
}

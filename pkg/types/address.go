package types

// Address is the postal address snapshot stored on orders (jsonb).
type Address struct {
	Name      string  `json:"name"`
	Line1     string  `json:"line1"`
	Apartment *string `json:"apartment,omitempty"`
	City      string  `json:"city"`
	State     string  `json:"state"`
	ZipCode   string  `json:"zip_code"`
	Country   string  `json:"country"`
	Phone     *string `json:"phone,omitempty"`
}

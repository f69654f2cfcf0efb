package types

// SuccessEnvelope wraps every 2xx payload. The storefront unwraps the data
// key before handing the body to its page components, so the shape is part
// of the API contract.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the body of an error envelope. Details is only populated for
// codes whose metadata allows it, typically field-level validation maps.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

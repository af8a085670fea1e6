package handler

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

type productRequest struct {
	Name        string  `json:"name"        validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price"       validate:"required,gt=0"`
	Image       string  `json:"image"       validate:"omitempty,url"`
	Category    string  `json:"category"`
}

// Response-only types owned by the transport layer.
// These are intentionally separate from ports/domain types so the JSON
// contract is not coupled to internal service changes.

type productResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Image       string  `json:"image,omitempty"`
	Category    string  `json:"category"`
	Seller      string  `json:"seller,omitempty"`
}

package models

import "time"

// CartLineRequest represents one line of a cart mutation request
type CartLineRequest struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

// CartAddRequest represents the request body sent to the cart mutation endpoint
// Example: {"items": [{"id": "V1", "quantity": 1}], "sections": ["cart-drawer"]}
type CartAddRequest struct {
	Items    []CartLineRequest `json:"items"`
	Sections []string          `json:"sections,omitempty"`
}

// CartErrorResponse represents the failure body returned by the cart mutation endpoint
// Example: {"status": 422, "message": "Cart Error", "description": "Variant not available due to inventory"}
type CartErrorResponse struct {
	Status      int    `json:"status"`
	Message     string `json:"message"`
	Description string `json:"description"`
}

// Text returns the free-text error field, preferring the description
func (e CartErrorResponse) Text() string {
	if e.Description != "" {
		return e.Description
	}
	return e.Message
}

// CartAddResult is the outcome of a cart mutation call
type CartAddResult struct {
	Success bool
	Error   CartErrorResponse
}

// CartLine represents a line item of the current cart
type CartLine struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Quantity  int    `json:"quantity"`
	Price     int64  `json:"price"`
	LinePrice int64  `json:"line_price"`
}

// Cart represents the current cart state returned by the cart-read endpoint
type Cart struct {
	ItemCount int        `json:"item_count"`
	Items     []CartLine `json:"items"`
}

// CartChanged is published once per successful submission
type CartChanged struct {
	WidgetID string    `json:"widgetId"`
	Cart     Cart      `json:"cart"`
	At       time.Time `json:"at"`
}

package service

import (
	"context"

	"bundle-configurator/models"
)

// CartClientInterface defines the contract for the storefront cart endpoints
type CartClientInterface interface {
	// Add sends one cart mutation. A non-success response is reported in the
	// result; transport and decode failures are returned as errors.
	Add(ctx context.Context, req models.CartAddRequest) (models.CartAddResult, error)
	// Read returns the current cart state
	Read(ctx context.Context) (models.Cart, error)
}

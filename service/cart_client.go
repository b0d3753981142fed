package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"bundle-configurator/models"
)

const (
	cartAddPath  = "/cart/add"
	cartReadPath = "/cart"

	// maxCartBody bounds how much of a cart response is read
	maxCartBody = 1 << 20
)

// CartClient talks JSON to the storefront cart endpoints
type CartClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// Ensure CartClient implements CartClientInterface
var _ CartClientInterface = (*CartClient)(nil)

// NewCartClient creates a CartClient for baseURL (e.g., "https://shop.example.com")
func NewCartClient(baseURL string, timeout time.Duration, logger *zap.Logger) *CartClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Add posts the line items to the cart mutation endpoint
func (c *CartClient) Add(ctx context.Context, req models.CartAddRequest) (models.CartAddResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return models.CartAddResult{}, fmt.Errorf("failed to encode cart request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+cartAddPath, bytes.NewReader(body))
	if err != nil {
		return models.CartAddResult{}, fmt.Errorf("failed to build cart request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return models.CartAddResult{}, fmt.Errorf("failed to add to cart: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxCartBody))
	if err != nil {
		return models.CartAddResult{}, fmt.Errorf("failed to read cart response: %w", err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		c.logger.Debug("cart add accepted", zap.Int("lines", len(req.Items)))
		return models.CartAddResult{Success: true}, nil
	}

	var cartErr models.CartErrorResponse
	if err := json.Unmarshal(data, &cartErr); err != nil {
		return models.CartAddResult{}, fmt.Errorf("cart endpoint returned status %d with unreadable body: %w", resp.StatusCode, err)
	}
	if cartErr.Status == 0 {
		cartErr.Status = resp.StatusCode
	}
	c.logger.Info("cart add rejected",
		zap.Int("status", cartErr.Status),
		zap.String("description", cartErr.Text()))
	return models.CartAddResult{Success: false, Error: cartErr}, nil
}

// Read fetches the current cart
func (c *CartClient) Read(ctx context.Context) (models.Cart, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+cartReadPath, nil)
	if err != nil {
		return models.Cart{}, fmt.Errorf("failed to build cart read request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return models.Cart{}, fmt.Errorf("failed to read cart: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.Cart{}, fmt.Errorf("cart endpoint returned status %d", resp.StatusCode)
	}

	var cart models.Cart
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxCartBody)).Decode(&cart); err != nil {
		return models.Cart{}, fmt.Errorf("failed to decode cart: %w", err)
	}
	return cart, nil
}

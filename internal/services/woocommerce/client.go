package woocommerce

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"whiskyai/internal/logger"
)

// Client talks to a WooCommerce store's REST API to pull the product catalog
// into the local database.
type Client struct {
	storeURL       string
	consumerKey    string
	consumerSecret string
	httpClient     *http.Client
	logger         *logger.Logger
}

func NewClient(storeURL, consumerKey, consumerSecret string, log *logger.Logger) *Client {
	return &Client{
		storeURL:       storeURL,
		consumerKey:    consumerKey,
		consumerSecret: consumerSecret,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: log,
	}
}

// Product is the subset of the WooCommerce product payload this service
// imports.
type Product struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	SKU         string `json:"sku"`
	Price       string `json:"price"`
}

// GetProducts fetches one page of products from the store.
func (c *Client) GetProducts(ctx context.Context, page, perPage int) ([]Product, error) {
	url := fmt.Sprintf("%s/wp-json/wc/v3/products", c.storeURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.SetBasicAuth(c.consumerKey, c.consumerSecret)
	req.Header.Set("Content-Type", "application/json")

	q := req.URL.Query()
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))
	req.URL.RawQuery = q.Encode()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API request failed: %d - %s", resp.StatusCode, string(body))
	}

	var products []Product
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return products, nil
}

// PriceValue parses the WooCommerce string price, which is empty for
// unpriced products.
func (p Product) PriceValue() *float64 {
	if p.Price == "" {
		return nil
	}
	value, err := strconv.ParseFloat(p.Price, 64)
	if err != nil {
		return nil
	}
	return &value
}

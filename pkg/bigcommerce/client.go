// Package bigcommerce provides token-authenticated access to the
// BigCommerce v2 orders API for a single store.
package bigcommerce

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/attribution-service/internal/model"
	"github.com/sells-group/attribution-service/internal/resilience"
)

// Client fetches orders from one store.
type Client interface {
	// GetOrder retrieves the order and extracts its billing fields.
	GetOrder(ctx context.Context, orderID string) (*model.Order, error)
}

// Option configures the BigCommerce client.
type Option func(*httpClient)

// WithBaseURL overrides the store-derived API base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit sets a per-second rate limit for API calls.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), max(int(rps), 1))
		}
	}
}

// WithRetryPolicy overrides the backoff policy for transient failures.
func WithRetryPolicy(p resilience.Policy) Option {
	return func(c *httpClient) {
		c.retry = p
	}
}

type httpClient struct {
	baseURL   string
	token     string
	storeName string
	http      *http.Client
	limiter   *rate.Limiter
	retry     resilience.Policy
}

// NewClient creates a client for the store identified by hash. storeName
// is the display name stamped on fetched orders; it defaults to the hash.
func NewClient(storeHash, accessToken, storeName string, opts ...Option) Client {
	if storeName == "" {
		storeName = storeHash
	}
	c := &httpClient{
		baseURL:   fmt.Sprintf("https://api.bigcommerce.com/stores/%s/v2", storeHash),
		token:     accessToken,
		storeName: storeName,
		http:      &http.Client{Timeout: 10 * time.Second},
		retry:     resilience.DefaultPolicy(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// orderResponse is the subset of the v2 order payload the service reads.
type orderResponse struct {
	ID             int    `json:"id"`
	DateCreated    string `json:"date_created"`
	SubtotalExTax  string `json:"subtotal_ex_tax"`
	TotalExTax     string `json:"total_ex_tax"`
	BillingAddress struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Email     string `json:"email"`
		Phone     string `json:"phone"`
	} `json:"billing_address"`
}

func (c *httpClient) GetOrder(ctx context.Context, orderID string) (*model.Order, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "bigcommerce: rate limit")
		}
	}

	url := fmt.Sprintf("%s/orders/%s", c.baseURL, orderID)

	var body []byte
	err := resilience.Do(ctx, c.retry, "bigcommerce.get_order", func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return eris.Wrap(err, "bigcommerce: create request")
		}
		req.Header.Set("X-Auth-Token", c.token)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return eris.Wrapf(err, "bigcommerce: fetch order %s from %s", orderID, c.storeName)
		}
		defer resp.Body.Close() //nolint:errcheck

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return eris.Wrap(err, "bigcommerce: read response")
		}
		if resp.StatusCode != http.StatusOK {
			return resilience.Statusf(resp.StatusCode, "bigcommerce: order %s from %s: status %d",
				orderID, c.storeName, resp.StatusCode)
		}
		return nil
	})
	if err != nil {
		zap.L().Error("bigcommerce: order fetch failed",
			zap.String("order_id", orderID),
			zap.String("store", c.storeName),
			zap.Error(err),
		)
		return nil, err
	}

	var data orderResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, eris.Wrapf(err, "bigcommerce: unmarshal order %s", orderID)
	}

	total := data.SubtotalExTax
	if total == "" {
		total = data.TotalExTax
	}
	if total == "" {
		total = "0.00"
	}

	return &model.Order{
		ID:           data.ID,
		Email:        data.BillingAddress.Email,
		CustomerName: strings.TrimSpace(data.BillingAddress.FirstName + " " + data.BillingAddress.LastName),
		Phone:        data.BillingAddress.Phone,
		OrderDate:    data.DateCreated,
		OrderTotal:   total,
		Store:        c.storeName,
	}, nil
}

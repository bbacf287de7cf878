// Package netsuite provides OAuth1-signed SuiteQL query access to the
// NetSuite REST query API.
package netsuite

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dghubble/oauth1"
	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/sells-group/attribution-service/internal/resilience"
)

// Config holds the token-based-authentication credentials for a NetSuite
// account.
type Config struct {
	AccountID      string
	ConsumerKey    string
	ConsumerSecret string
	TokenID        string
	TokenSecret    string
}

// Client executes SuiteQL queries and decodes the result rows.
type Client interface {
	// Query renders q, posts it to the suiteql endpoint, and unmarshals
	// the returned items into out (a pointer to a slice).
	Query(ctx context.Context, q Query, out any) error
}

// Option configures the NetSuite client.
type Option func(*httpClient)

// WithBaseURL overrides the account-derived query base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithHTTPClient sets a custom HTTP client, bypassing OAuth1 signing.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit sets a per-second rate limit for SuiteQL calls.
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
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	retry   resilience.Policy
}

// NewClient creates a SuiteQL client. Requests are signed with OAuth1
// HMAC-SHA256 using the account ID as the realm, the signature scheme the
// SuiteTalk REST API requires for token-based authentication.
func NewClient(cfg Config, opts ...Option) Client {
	oauthCfg := oauth1.Config{
		ConsumerKey:    cfg.ConsumerKey,
		ConsumerSecret: cfg.ConsumerSecret,
		Realm:          cfg.AccountID,
		Signer:         &oauth1.HMAC256Signer{ConsumerSecret: cfg.ConsumerSecret},
	}
	signed := oauthCfg.Client(oauth1.NoContext, oauth1.NewToken(cfg.TokenID, cfg.TokenSecret))
	signed.Timeout = 10 * time.Second

	c := &httpClient{
		baseURL: "https://" + strings.ToLower(cfg.AccountID) + ".suitetalk.api.netsuite.com/services/rest/query/v1",
		http:    signed,
		retry:   resilience.DefaultPolicy(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// queryResponse is the SuiteQL result envelope.
type queryResponse struct {
	Items json.RawMessage `json:"items"`
}

func (c *httpClient) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}

func (c *httpClient) Query(ctx context.Context, q Query, out any) error {
	if err := c.wait(ctx); err != nil {
		return eris.Wrap(err, "netsuite: rate limit")
	}

	sql, err := q.Render()
	if err != nil {
		return err
	}

	payload, err := json.Marshal(map[string]string{"q": sql})
	if err != nil {
		return eris.Wrap(err, "netsuite: marshal query")
	}

	var body []byte
	err = resilience.Do(ctx, c.retry, "netsuite.suiteql", func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/suiteql", bytes.NewReader(payload))
		if err != nil {
			return eris.Wrap(err, "netsuite: create request")
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Prefer", "transient")

		resp, err := c.http.Do(req)
		if err != nil {
			return eris.Wrap(err, "netsuite: suiteql request")
		}
		defer resp.Body.Close() //nolint:errcheck

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return eris.Wrap(err, "netsuite: read response")
		}
		if resp.StatusCode != http.StatusOK {
			return resilience.Statusf(resp.StatusCode, "netsuite: suiteql status %d: %s",
				resp.StatusCode, strings.TrimSpace(string(body)))
		}
		return nil
	})
	if err != nil {
		return err
	}

	var envelope queryResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return eris.Wrap(err, "netsuite: unmarshal envelope")
	}
	if len(envelope.Items) == 0 {
		return nil
	}
	if err := json.Unmarshal(envelope.Items, out); err != nil {
		return eris.Wrap(err, "netsuite: unmarshal items")
	}
	return nil
}

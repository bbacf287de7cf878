package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/attribution-service/internal/model"
	"github.com/sells-group/attribution-service/internal/resilience"
)

// Webhook posts flat JSON records to a spreadsheet web-app endpoint.
type Webhook struct {
	url    string
	client *http.Client
	retry  resilience.Policy
}

// NewWebhook creates a webhook ledger targeting the given URL.
func NewWebhook(url string) *Webhook {
	return &Webhook{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
		retry:  resilience.DefaultPolicy(),
	}
}

// WithHTTPClient swaps the HTTP client (for testing).
func (w *Webhook) WithHTTPClient(hc *http.Client) *Webhook {
	w.client = hc
	return w
}

// WithRetryPolicy overrides the backoff policy for transient failures.
func (w *Webhook) WithRetryPolicy(p resilience.Policy) *Webhook {
	w.retry = p
	return w
}

func (w *Webhook) Append(ctx context.Context, rec model.AttributionRecord) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return eris.Wrap(err, "ledger: marshal record")
	}

	err = resilience.Do(ctx, w.retry, "ledger.webhook", func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(payload))
		if err != nil {
			return eris.Wrap(err, "ledger: create request")
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := w.client.Do(req)
		if err != nil {
			return eris.Wrap(err, "ledger: webhook request")
		}
		defer resp.Body.Close() //nolint:errcheck

		if resp.StatusCode != http.StatusOK {
			return resilience.Statusf(resp.StatusCode, "ledger: webhook returned status %d", resp.StatusCode)
		}
		return nil
	})
	if err != nil {
		return err
	}

	zap.L().Info("ledger: record appended",
		zap.String("order_id", rec.OrderID),
		zap.String("sales_rep", rec.SalesRep),
		zap.Bool("manual_verification", rec.ManualVerification),
	)
	return nil
}

// Package ledger appends attribution records to the external append-only
// record store.
package ledger

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/attribution-service/internal/config"
	"github.com/sells-group/attribution-service/internal/model"
	"github.com/sells-group/attribution-service/pkg/notion"
)

// Ledger appends one attribution record. Append is write-once: failures
// are reported to the caller and never retried here.
type Ledger interface {
	Append(ctx context.Context, rec model.AttributionRecord) error
}

// New builds the ledger backend selected by config. A webhook backend
// without a URL degrades to the log-only simulation, matching how the
// service behaves in environments where the sheet endpoint is not set up.
func New(cfg config.LedgerConfig) (Ledger, error) {
	switch cfg.Backend {
	case "webhook":
		if cfg.WebhookURL == "" {
			zap.L().Warn("ledger: no webhook URL configured, running in simulation mode")
			return &Noop{}, nil
		}
		return NewWebhook(cfg.WebhookURL), nil
	case "notion":
		if cfg.NotionToken == "" || cfg.NotionDB == "" {
			return nil, eris.New("ledger: notion backend requires notion_token and notion_db")
		}
		return NewNotion(notion.NewClient(cfg.NotionToken), cfg.NotionDB), nil
	case "xlsx":
		if cfg.XLSXPath == "" {
			return nil, eris.New("ledger: xlsx backend requires xlsx_path")
		}
		return NewXLSX(cfg.XLSXPath), nil
	case "none", "noop":
		return &Noop{}, nil
	default:
		return nil, eris.Errorf("ledger: unknown backend %q", cfg.Backend)
	}
}

// Noop is the simulation ledger: it logs what would have been written.
type Noop struct{}

func (n *Noop) Append(_ context.Context, rec model.AttributionRecord) error {
	zap.L().Info("ledger: simulation, would append record",
		zap.String("order_id", rec.OrderID),
		zap.String("email", rec.Email),
		zap.String("sales_rep", rec.SalesRep),
		zap.Bool("manual_verification", rec.ManualVerification),
	)
	return nil
}

// Package attribution orchestrates order-to-sales-rep attribution: fetch
// the order, match the CRM contact, append the outcome to the ledger.
package attribution

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/attribution-service/internal/config"
	"github.com/sells-group/attribution-service/internal/ledger"
	"github.com/sells-group/attribution-service/internal/match"
	"github.com/sells-group/attribution-service/internal/model"
	"github.com/sells-group/attribution-service/internal/store"
	"github.com/sells-group/attribution-service/pkg/bigcommerce"
)

// Trigger is the inbound order event: which order, from which store.
type Trigger struct {
	OrderID string
	Store   string
}

// Outcome statuses.
const (
	StatusSuccess = "success"
	StatusIgnored = "ignored"
)

// Outcome is the result of processing one trigger.
type Outcome struct {
	Status             string `json:"status"`
	Message            string `json:"message"`
	OrderID            string `json:"order_id"`
	SalesRep           string `json:"sales_rep,omitempty"`
	ManualVerification bool   `json:"manual_verification"`
	Reason             string `json:"reason,omitempty"`
}

// OrderClientFactory builds an order-API client for one store's
// credentials. Swapped out in tests.
type OrderClientFactory func(creds config.StoreCredentials) bigcommerce.Client

// Attributor composes order fetch, contact match, and ledger write.
type Attributor struct {
	cfg    *config.Config
	crm    match.ContactSource
	ledger ledger.Ledger
	runs   store.Store // optional audit log; nil disables
	orders OrderClientFactory
	loc    *time.Location
}

// New creates an Attributor. The runs store may be nil. The configured
// timezone is resolved once here; an unknown zone degrades to UTC.
func New(cfg *config.Config, crm match.ContactSource, led ledger.Ledger, runs store.Store) *Attributor {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		zap.L().Warn("attribution: unknown timezone, using UTC",
			zap.String("timezone", cfg.Timezone),
			zap.Error(err),
		)
		loc = nil
	}
	return &Attributor{
		cfg:    cfg,
		crm:    crm,
		ledger: led,
		runs:   runs,
		orders: func(creds config.StoreCredentials) bigcommerce.Client {
			return bigcommerce.NewClient(creds.Hash, creds.Token, creds.DisplayName)
		},
		loc: loc,
	}
}

// WithOrderClientFactory overrides how per-store order clients are built.
func (a *Attributor) WithOrderClientFactory(f OrderClientFactory) *Attributor {
	a.orders = f
	return a
}

// Process handles a single trigger synchronously: validate, fetch order,
// match contact, and either append an attribution record or ignore the
// order. Validation failures surface as *ValidationError before any
// network call.
func (a *Attributor) Process(ctx context.Context, trig Trigger) (*Outcome, error) {
	if trig.OrderID == "" {
		return nil, validationf("no order ID found in trigger data")
	}
	if trig.Store == "" {
		return nil, validationf("no store name found in trigger data")
	}

	creds, ok := a.cfg.StoreByName(trig.Store)
	if !ok {
		return nil, validationf("unknown store name: %s", trig.Store)
	}
	if creds.Hash == "" || creds.Token == "" {
		return nil, validationf("missing configuration for store: %s", trig.Store)
	}

	log := zap.L().With(zap.String("order_id", trig.OrderID), zap.String("store", trig.Store))
	log.Info("attribution: processing order")

	order, err := a.orders(creds).GetOrder(ctx, trig.OrderID)
	if err != nil {
		a.recordRun(ctx, trig, model.RunStatusFailed, model.ContactMatch{ReviewReason: model.ReviewReason(err.Error())})
		return nil, eris.Wrapf(err, "attribution: fetch order %s", trig.OrderID)
	}

	m := match.Contact(ctx, a.crm, order.Email, order.Phone)

	if !m.Found || model.IsUnassigned(m.SalesRep) {
		log.Info("attribution: no sales rep, ignoring order",
			zap.String("reason", string(m.ReviewReason)),
		)
		a.recordRun(ctx, trig, model.RunStatusIgnored, m)
		return &Outcome{
			Status:  StatusIgnored,
			Message: "Order has no sales rep attribution",
			OrderID: trig.OrderID,
			Reason:  string(m.ReviewReason),
		}, nil
	}

	log.Info("attribution: sales rep matched",
		zap.String("sales_rep", m.SalesRep),
		zap.String("reason", string(m.ReviewReason)),
		zap.Bool("manual_verification", m.ManualVerification),
	)

	rec := a.buildRecord(trig.Store, order, m)
	if err := a.ledger.Append(ctx, rec); err != nil {
		log.Error("attribution: ledger append failed", zap.Error(err))
		a.recordRun(ctx, trig, model.RunStatusFailed, m)
		return nil, eris.Wrap(ErrLedgerWrite, err.Error())
	}

	a.recordRun(ctx, trig, model.RunStatusSuccess, m)
	return &Outcome{
		Status:             StatusSuccess,
		Message:            "Order attributed to sales rep",
		OrderID:            trig.OrderID,
		SalesRep:           m.SalesRep,
		ManualVerification: m.ManualVerification,
	}, nil
}

// buildRecord flattens the order and match into the ledger row.
func (a *Attributor) buildRecord(storeName string, order *model.Order, m model.ContactMatch) model.AttributionRecord {
	return model.AttributionRecord{
		Store:              storeName,
		OrderID:            strconv.Itoa(order.ID),
		Email:              order.Email,
		CustomerName:       order.CustomerName,
		Phone:              order.Phone,
		OrderDate:          FormatOrderDate(order.OrderDate, a.loc),
		OrderTotal:         FormatOrderTotal(order.OrderTotal),
		SalesRep:           m.SalesRep,
		ContactDate:        m.ContactDate,
		ManualVerification: m.ManualVerification,
		ReviewReason:       string(m.ReviewReason),
		RecordType:         m.RecordType,
		NetSuitePhone:      m.Phone,
	}
}

// recordRun appends a row to the local audit log. Best-effort only: a
// store failure never fails the request.
func (a *Attributor) recordRun(ctx context.Context, trig Trigger, status model.RunStatus, m model.ContactMatch) {
	if a.runs == nil {
		return
	}
	run := model.Run{
		ID:                 uuid.New().String(),
		OrderID:            trig.OrderID,
		Store:              trig.Store,
		Status:             status,
		SalesRep:           m.SalesRep,
		ManualVerification: m.ManualVerification,
		ReviewReason:       string(m.ReviewReason),
		CreatedAt:          time.Now().UTC(),
	}
	if err := a.runs.RecordRun(ctx, run); err != nil {
		zap.L().Warn("attribution: failed to record run", zap.Error(err))
	}
}

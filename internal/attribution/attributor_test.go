package attribution

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/attribution-service/internal/config"
	"github.com/sells-group/attribution-service/internal/model"
	"github.com/sells-group/attribution-service/internal/store"
	"github.com/sells-group/attribution-service/pkg/bigcommerce"
)

// fakeOrders returns a fixed order or error.
type fakeOrders struct {
	order *model.Order
	err   error
}

func (f *fakeOrders) GetOrder(_ context.Context, _ string) (*model.Order, error) {
	return f.order, f.err
}

// fakeCRM scripts the two contact queries.
type fakeCRM struct {
	perfect *model.ContactMatch
	byEmail *model.ContactMatch
	err     error
}

func (f *fakeCRM) PerfectMatch(_ context.Context, _, _ string) (*model.ContactMatch, error) {
	return f.perfect, f.err
}

func (f *fakeCRM) EmailMatch(_ context.Context, _ string) (*model.ContactMatch, error) {
	return f.byEmail, f.err
}

// fakeLedger captures appended records.
type fakeLedger struct {
	appended []model.AttributionRecord
	err      error
}

func (f *fakeLedger) Append(_ context.Context, rec model.AttributionRecord) error {
	if f.err != nil {
		return f.err
	}
	f.appended = append(f.appended, rec)
	return nil
}

// fakeRuns is an in-memory run store.
type fakeRuns struct {
	store.Store
	recorded []model.Run
}

func (f *fakeRuns) RecordRun(_ context.Context, run model.Run) error {
	f.recorded = append(f.recorded, run)
	return nil
}

func testOrder() *model.Order {
	return &model.Order{
		ID:           1001,
		Email:        "buyer@example.com",
		CustomerName: "Pat Doe",
		Phone:        "(555) 123-4567",
		OrderDate:    "Tue, 05 Aug 2026 16:22:01 +0000",
		OrderTotal:   "149.9500",
		Store:        "Wilson US",
	}
}

func testConfig() *config.Config {
	return &config.Config{
		BigCommerce: config.BigCommerceConfig{
			Stores: []config.StoreCredentials{
				{Name: "Wilson US", Hash: "abc123", Token: "tok-1", DisplayName: "Wilson US"},
			},
		},
		Timezone: "America/Chicago",
	}
}

func newTestAttributor(crm *fakeCRM, led *fakeLedger, runs *fakeRuns, orders *fakeOrders) *Attributor {
	var st store.Store
	if runs != nil {
		st = runs
	}
	a := New(testConfig(), crm, led, st)
	return a.WithOrderClientFactory(func(config.StoreCredentials) bigcommerce.Client {
		return orders
	})
}

func TestProcess_Success(t *testing.T) {
	t.Parallel()

	crm := &fakeCRM{perfect: &model.ContactMatch{
		Found:       true,
		SalesRep:    "J. Smith",
		Phone:       "555-123-4567",
		ContactDate: "2026-07-01",
		RecordType:  "customer",
	}}
	led := &fakeLedger{}
	runs := &fakeRuns{}

	a := newTestAttributor(crm, led, runs, &fakeOrders{order: testOrder()})
	out, err := a.Process(context.Background(), Trigger{OrderID: "1001", Store: "Wilson US"})

	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, out.Status)
	assert.Equal(t, "J. Smith", out.SalesRep)
	assert.False(t, out.ManualVerification)

	require.Len(t, led.appended, 1)
	rec := led.appended[0]
	assert.Equal(t, "1001", rec.OrderID)
	assert.Equal(t, "Wilson US", rec.Store)
	assert.Equal(t, "08/05/2026 11:22:01 AM CST", rec.OrderDate)
	assert.Equal(t, "149.95", rec.OrderTotal)
	assert.Equal(t, "Perfect match", rec.ReviewReason)
	assert.Equal(t, "555-123-4567", rec.NetSuitePhone)

	require.Len(t, runs.recorded, 1)
	assert.Equal(t, model.RunStatusSuccess, runs.recorded[0].Status)
}

func TestProcess_Ignored_NoRecord(t *testing.T) {
	t.Parallel()

	led := &fakeLedger{}
	runs := &fakeRuns{}
	a := newTestAttributor(&fakeCRM{}, led, runs, &fakeOrders{order: testOrder()})

	out, err := a.Process(context.Background(), Trigger{OrderID: "1001", Store: "Wilson US"})

	require.NoError(t, err)
	assert.Equal(t, StatusIgnored, out.Status)
	assert.Equal(t, "No NetSuite record found", out.Reason)
	assert.Empty(t, led.appended, "no ledger write for ignored orders")

	require.Len(t, runs.recorded, 1)
	assert.Equal(t, model.RunStatusIgnored, runs.recorded[0].Status)
}

func TestProcess_Ignored_UnassignedRep(t *testing.T) {
	t.Parallel()

	crm := &fakeCRM{perfect: &model.ContactMatch{Found: true, SalesRep: "NO OWNER"}}
	led := &fakeLedger{}
	a := newTestAttributor(crm, led, nil, &fakeOrders{order: testOrder()})

	out, err := a.Process(context.Background(), Trigger{OrderID: "1001", Store: "Wilson US"})

	require.NoError(t, err)
	assert.Equal(t, StatusIgnored, out.Status)
	assert.Empty(t, led.appended)
}

func TestProcess_ValidationFailures(t *testing.T) {
	t.Parallel()

	orders := &fakeOrders{err: eris.New("should not be called")}
	a := newTestAttributor(&fakeCRM{}, &fakeLedger{}, nil, orders)

	_, err := a.Process(context.Background(), Trigger{Store: "Wilson US"})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "no order ID")

	_, err = a.Process(context.Background(), Trigger{OrderID: "1001"})
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	_, err = a.Process(context.Background(), Trigger{OrderID: "1001", Store: "Mystery Shop"})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "unknown store name: Mystery Shop")
}

func TestProcess_MissingStoreCredentials(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.BigCommerce.Stores = append(cfg.BigCommerce.Stores,
		config.StoreCredentials{Name: "Signal US"})

	a := New(cfg, &fakeCRM{}, &fakeLedger{}, nil).
		WithOrderClientFactory(func(config.StoreCredentials) bigcommerce.Client {
			return &fakeOrders{order: testOrder()}
		})

	_, err := a.Process(context.Background(), Trigger{OrderID: "1001", Store: "Signal US"})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "missing configuration")
}

func TestProcess_OrderFetchFailurePropagates(t *testing.T) {
	t.Parallel()

	runs := &fakeRuns{}
	a := newTestAttributor(&fakeCRM{}, &fakeLedger{}, runs,
		&fakeOrders{err: eris.New("bigcommerce: status 500")})

	_, err := a.Process(context.Background(), Trigger{OrderID: "1001", Store: "Wilson US"})
	require.Error(t, err)
	assert.False(t, IsValidation(err))
	assert.Contains(t, err.Error(), "fetch order")

	require.Len(t, runs.recorded, 1)
	assert.Equal(t, model.RunStatusFailed, runs.recorded[0].Status)
}

func TestProcess_LedgerFailure(t *testing.T) {
	t.Parallel()

	crm := &fakeCRM{perfect: &model.ContactMatch{Found: true, SalesRep: "J. Smith"}}
	led := &fakeLedger{err: eris.New("webhook returned status 502")}

	a := newTestAttributor(crm, led, nil, &fakeOrders{order: testOrder()})
	_, err := a.Process(context.Background(), Trigger{OrderID: "1001", Store: "Wilson US"})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLedgerWrite)
	assert.False(t, IsValidation(err))
}

func TestProcess_CRMSearchErrorIgnoresOrder(t *testing.T) {
	t.Parallel()

	// A failing CRM search never fails the request; the order is ignored
	// with a search-error reason.
	crm := &fakeCRM{err: eris.New("suiteql status 503")}
	led := &fakeLedger{}

	a := newTestAttributor(crm, led, nil, &fakeOrders{order: testOrder()})
	out, err := a.Process(context.Background(), Trigger{OrderID: "1001", Store: "Wilson US"})

	require.NoError(t, err)
	assert.Equal(t, StatusIgnored, out.Status)
	assert.Contains(t, out.Reason, "Search error:")
	assert.Empty(t, led.appended)
}

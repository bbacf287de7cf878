package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/attribution-service/internal/attribution"
	"github.com/sells-group/attribution-service/internal/ledger"
	"github.com/sells-group/attribution-service/internal/match"
	"github.com/sells-group/attribution-service/internal/store"
	"github.com/sells-group/attribution-service/pkg/netsuite"
)

// initStore opens and migrates the run store, or returns nil when the
// audit log is disabled.
func initStore(ctx context.Context) (store.Store, error) {
	if cfg.Store.Driver == "none" {
		return nil, nil
	}
	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, eris.Wrap(err, "open store")
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}
	return st, nil
}

// initCRM builds the SuiteQL-backed contact source.
func initCRM() (match.ContactSource, error) {
	if err := cfg.NetSuite.Validate(); err != nil {
		return nil, err
	}
	client := netsuite.NewClient(netsuite.Config{
		AccountID:      cfg.NetSuite.AccountID,
		ConsumerKey:    cfg.NetSuite.ConsumerKey,
		ConsumerSecret: cfg.NetSuite.ConsumerSecret,
		TokenID:        cfg.NetSuite.TokenID,
		TokenSecret:    cfg.NetSuite.TokenSecret,
	})
	return netsuite.NewContacts(client), nil
}

// initAttributor wires the full attribution chain. The returned closer
// releases the run store and is safe to call when the store is disabled.
func initAttributor(ctx context.Context) (*attribution.Attributor, func(), error) {
	crm, err := initCRM()
	if err != nil {
		return nil, nil, err
	}

	led, err := ledger.New(cfg.Ledger)
	if err != nil {
		return nil, nil, err
	}

	st, err := initStore(ctx)
	if err != nil {
		return nil, nil, err
	}

	closer := func() {
		if st != nil {
			_ = st.Close()
		}
	}
	return attribution.New(cfg, crm, led, st), closer, nil
}

package store

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/attribution-service/internal/config"
	"github.com/sells-group/attribution-service/internal/model"
)

func configStore(driver, dsn string) config.StoreConfig {
	return config.StoreConfig{Driver: driver, DSN: dsn}
}

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	return &PostgresStore{pool: mock}, mock
}

func TestPostgresStore_RecordRun(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	now := time.Now().UTC()
	mock.ExpectExec(`INSERT INTO runs`).
		WithArgs("run-1", "1001", "Wilson US", "success", "J. Smith", false, "Perfect match", now).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := s.RecordRun(context.Background(), model.Run{
		ID:           "run-1",
		OrderID:      "1001",
		Store:        "Wilson US",
		Status:       model.RunStatusSuccess,
		SalesRep:     "J. Smith",
		ReviewReason: "Perfect match",
		CreatedAt:    now,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListRuns(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	now := time.Now().UTC()
	rows := pgxmock.NewRows([]string{
		"id", "order_id", "store", "status", "sales_rep",
		"manual_verification", "review_reason", "created_at",
	}).AddRow("run-1", "1001", "Wilson US", "ignored", "", true, "No NetSuite record found", now)

	mock.ExpectQuery(`SELECT id, order_id, store, status, .* FROM runs WHERE status = \$1 ORDER BY created_at DESC LIMIT \$2`).
		WithArgs("ignored", 10).
		WillReturnRows(rows)

	runs, err := s.ListRuns(context.Background(), RunFilter{Status: model.RunStatusIgnored, Limit: 10})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, model.RunStatusIgnored, runs[0].Status)
	assert.True(t, runs[0].ManualVerification)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Migrate(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS runs`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_RecordRun_Error(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO runs`).
		WillReturnError(assert.AnError)

	err := s.RecordRun(context.Background(), model.Run{ID: "run-2", CreatedAt: time.Now()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert run run-2")
}

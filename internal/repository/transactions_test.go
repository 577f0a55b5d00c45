package repository

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hendrikb/pipeline-monitor/constants"
	"github.com/hendrikb/pipeline-monitor/internal/entity"
)

func newTestRepo(t *testing.T) *TransactionRepository {
	t.Helper()
	ctx := context.Background()

	dsn := "file:" + filepath.Join(t.TempDir(), "test.sqlite")
	db, driver, err := Open(ctx, Config{DSN: dsn, DialTimeout: 5 * time.Second}, slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { Close(db, slog.Default()) })
	require.Equal(t, DriverSQLite, driver)

	repo := NewTransactionRepository(db, driver, nil)
	require.NoError(t, repo.Init(ctx))
	return repo
}

func tx(name string, txType constants.TxType, price float64, date string) entity.Transaction {
	d, _ := time.Parse("2006-01-02", date)
	return entity.Transaction{
		ID:          uuid.New(),
		Date:        d,
		Name:        name,
		Category:    "Test",
		Type:        txType,
		Price:       price,
		Description: name,
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
	}
}

func TestInsertBatchAndList(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	n, err := repo.InsertBatch(ctx, []entity.Transaction{
		tx("Rewe", constants.TxExpense, 12.50, "2025-07-21"),
		tx("Gehalt", constants.TxIncome, 2100.00, "2025-07-01"),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got, err := repo.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Rewe", got[0].Name, "newest tx_date first")
	assert.Equal(t, "Gehalt", got[1].Name)
	assert.Equal(t, constants.TxExpense, got[0].Type)
	assert.Equal(t, 12.50, got[0].Price)
	assert.Equal(t, "2025-07-21", got[0].Date.Format("2006-01-02"))
}

func TestInsertBatchEmptyIsNoOp(t *testing.T) {
	repo := newTestRepo(t)

	n, err := repo.InsertBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestInsertBatchIsAtomic(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	dup := tx("Dup", constants.TxExpense, 1, "2025-01-01")
	_, err := repo.InsertBatch(ctx, []entity.Transaction{dup})
	require.NoError(t, err)

	// Second batch reuses the same primary key; the whole batch must fail.
	_, err = repo.InsertBatch(ctx, []entity.Transaction{
		tx("Fresh", constants.TxExpense, 2, "2025-01-02"),
		dup,
	})
	require.Error(t, err)

	got, err := repo.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, got, 1, "the failed batch left no partial rows")
}

func TestListLimit(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.InsertBatch(ctx, []entity.Transaction{
		tx("a", constants.TxExpense, 1, "2025-01-01"),
		tx("b", constants.TxExpense, 2, "2025-01-02"),
		tx("c", constants.TxExpense, 3, "2025-01-03"),
	})
	require.NoError(t, err)

	got, err := repo.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "c", got[0].Name)
}

func TestStats(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.InsertBatch(ctx, []entity.Transaction{
		tx("Gehalt", constants.TxIncome, 2100.00, "2025-07-01"),
		tx("Rewe", constants.TxExpense, 12.50, "2025-07-21"),
		tx("dm", constants.TxExpense, 8.95, "2025-07-22"),
	})
	require.NoError(t, err)

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2100.00, stats.IncomeTotal)
	assert.InDelta(t, 21.45, stats.ExpenseTotal, 0.001)
	assert.InDelta(t, 2078.55, stats.Balance, 0.001)
	assert.Equal(t, 3, stats.Count)
}

func TestStatsEmptyStore(t *testing.T) {
	repo := newTestRepo(t)

	stats, err := repo.Stats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.Count)
	assert.Zero(t, stats.Balance)
}

func TestRebind(t *testing.T) {
	q := "INSERT INTO t (a, b) VALUES (?, ?)"
	assert.Equal(t, q, rebind(DriverSQLite, q))
	assert.Equal(t, "INSERT INTO t (a, b) VALUES ($1, $2)", rebind(DriverPostgres, q))
}

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hendrikb/pipeline-monitor/constants"
	"github.com/hendrikb/pipeline-monitor/internal/entity"
)

// Date columns are stored as text so the same schema works on both
// drivers: tx_date as 2006-01-02, created_at as RFC 3339.
const (
	txDateFormat = "2006-01-02"

	schemaDDL = `CREATE TABLE IF NOT EXISTS transactions (
		id          TEXT PRIMARY KEY,
		tx_date     TEXT NOT NULL,
		name        TEXT NOT NULL,
		category    TEXT NOT NULL DEFAULT '',
		tag         TEXT NOT NULL DEFAULT '',
		tx_type     TEXT NOT NULL,
		price       DOUBLE PRECISION NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		created_at  TEXT NOT NULL
	)`
)

// TransactionRepository persists confirmed transactions. The commit is
// all-or-nothing: a batch either lands completely or not at all.
type TransactionRepository struct {
	db     *sql.DB
	driver string
	logger *slog.Logger
}

func NewTransactionRepository(db *sql.DB, driver string, logger *slog.Logger) *TransactionRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &TransactionRepository{db: db, driver: driver, logger: logger}
}

// Init creates the transactions table when absent.
func (r *TransactionRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schemaDDL); err != nil {
		return fmt.Errorf("create transactions table: %w", err)
	}
	return nil
}

// InsertBatch stores a batch of transactions in one database transaction
// and returns how many rows were persisted.
func (r *TransactionRepository) InsertBatch(ctx context.Context, txs []entity.Transaction) (int, error) {
	if len(txs) == 0 {
		return 0, nil
	}

	dbtx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = dbtx.Rollback() }()

	stmt, err := dbtx.PrepareContext(ctx, rebind(r.driver, `
		INSERT INTO transactions (id, tx_date, name, category, tag, tx_type, price, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`))
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, tx := range txs {
		if _, err := stmt.ExecContext(ctx,
			tx.ID.String(),
			tx.Date.Format(txDateFormat),
			tx.Name,
			tx.Category,
			tx.Tag,
			string(tx.Type),
			tx.Price,
			tx.Description,
			tx.CreatedAt.Format(time.RFC3339),
		); err != nil {
			return 0, fmt.Errorf("insert transaction %s: %w", tx.ID, err)
		}
	}

	if err := dbtx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	r.logger.Info("repository.insert_batch.ok", "rows", len(txs))
	return len(txs), nil
}

// List returns stored transactions, newest first. limit <= 0 means all.
func (r *TransactionRepository) List(ctx context.Context, limit int) ([]entity.Transaction, error) {
	query := `
		SELECT id, tx_date, name, category, tag, tx_type, price, description, created_at
		FROM transactions
		ORDER BY tx_date DESC, created_at DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, rebind(r.driver, query), args...)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var txs []entity.Transaction
	for rows.Next() {
		var (
			tx              entity.Transaction
			id, txDate      string
			txType, created string
		)
		if err := rows.Scan(&id, &txDate, &tx.Name, &tx.Category, &tx.Tag, &txType, &tx.Price, &tx.Description, &created); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		if tx.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parse transaction id: %w", err)
		}
		if tx.Date, err = time.Parse(txDateFormat, txDate); err != nil {
			return nil, fmt.Errorf("parse tx_date: %w", err)
		}
		if tx.CreatedAt, err = time.Parse(time.RFC3339, created); err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		tx.Type = constants.CanonicalTxType(txType)
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

// Stats aggregates stored transactions for the dashboard.
func (r *TransactionRepository) Stats(ctx context.Context) (entity.TxStats, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT tx_type, COALESCE(SUM(price), 0), COUNT(*)
		FROM transactions
		GROUP BY tx_type`)
	if err != nil {
		return entity.TxStats{}, fmt.Errorf("query stats: %w", err)
	}
	defer rows.Close()

	var stats entity.TxStats
	for rows.Next() {
		var (
			txType string
			total  float64
			count  int
		)
		if err := rows.Scan(&txType, &total, &count); err != nil {
			return entity.TxStats{}, fmt.Errorf("scan stats: %w", err)
		}
		switch constants.TxType(txType) {
		case constants.TxIncome:
			stats.IncomeTotal = total
		case constants.TxExpense:
			stats.ExpenseTotal = total
		}
		stats.Count += count
	}
	stats.Balance = stats.IncomeTotal - stats.ExpenseTotal
	return stats, rows.Err()
}

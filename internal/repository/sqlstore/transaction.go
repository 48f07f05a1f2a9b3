package sqlstore

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"

	"txreport/internal/domain"
	"txreport/pkg/errors"
)

const transactionColumns = `id, payment_date, amount, status, type, description, user_id`

type TransactionRepository struct {
	db *sqlx.DB
}

func NewTransactionRepository(db *sqlx.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Find returns every transaction matching filter, oldest first.
func (r *TransactionRepository) Find(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, error) {
	where, args := filterClause(filter)
	query := r.db.Rebind(`SELECT ` + transactionColumns + ` FROM transactions` + where +
		` ORDER BY payment_date ASC, id ASC`)

	var txs []*domain.Transaction
	if err := r.db.SelectContext(ctx, &txs, query, args...); err != nil {
		return nil, errors.Wrap(err, "failed to find transactions")
	}
	return txs, nil
}

// List returns at most limit transactions matching filter, newest first.
func (r *TransactionRepository) List(ctx context.Context, filter domain.TransactionFilter, limit int) ([]*domain.Transaction, error) {
	where, args := filterClause(filter)
	query := r.db.Rebind(`SELECT ` + transactionColumns + ` FROM transactions` + where +
		` ORDER BY payment_date DESC, id DESC LIMIT ?`)
	args = append(args, limit)

	var txs []*domain.Transaction
	if err := r.db.SelectContext(ctx, &txs, query, args...); err != nil {
		return nil, errors.Wrap(err, "failed to list transactions")
	}
	return txs, nil
}

// Create inserts tx and sets its ID.
func (r *TransactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	return r.insert(ctx, r.db, tx)
}

// CreateBatch inserts txs in a single database transaction.
func (r *TransactionRepository) CreateBatch(ctx context.Context, txs []*domain.Transaction) error {
	dbTx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer dbTx.Rollback()

	for _, tx := range txs {
		if err := r.insert(ctx, dbTx, tx); err != nil {
			return err
		}
	}

	return errors.Wrap(dbTx.Commit(), "failed to commit transactions")
}

func (r *TransactionRepository) insert(ctx context.Context, q sqlx.QueryerContext, tx *domain.Transaction) error {
	query := r.db.Rebind(`
		INSERT INTO transactions (payment_date, amount, status, type, description, user_id)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id
	`)

	err := sqlx.GetContext(ctx, q, &tx.ID, query,
		tx.PaymentDate.UTC(), tx.Amount, tx.Status, tx.Type, tx.Description, tx.UserID,
	)
	return errors.Wrap(err, "failed to create transaction")
}

func (r *TransactionRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM transactions`)
	return count, errors.Wrap(err, "failed to count transactions")
}

// Ping checks the connection; the readiness probe uses it.
func (r *TransactionRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// filterClause renders filter as a WHERE clause with ? placeholders. Bounds
// are passed in UTC so text-encoded SQLite timestamps compare correctly.
func filterClause(filter domain.TransactionFilter) (string, []interface{}) {
	var (
		conds []string
		args  []interface{}
	)
	if filter.Start != nil {
		conds = append(conds, "payment_date >= ?")
		args = append(args, filter.Start.UTC())
	}
	if filter.End != nil {
		conds = append(conds, "payment_date < ?")
		args = append(args, filter.End.UTC())
	}
	if filter.Status != nil {
		conds = append(conds, "status = ?")
		args = append(args, string(*filter.Status))
	}
	if filter.Type != nil {
		conds = append(conds, "type = ?")
		args = append(args, string(*filter.Type))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

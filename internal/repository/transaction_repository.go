package repository

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"retail-ledger/internal/domain"
	"retail-ledger/internal/errors"
)

// transactionRepository stores the recorded history entries of accounts.
type transactionRepository struct {
	db     SQLExecutor
	logger *slog.Logger
}

func newTransactionRepository(db SQLExecutor, logger *slog.Logger) *transactionRepository {
	return &transactionRepository{
		db:     db,
		logger: logger,
	}
}

func (r *transactionRepository) insert(ctx context.Context, accountNumber, seq int, e domain.Entry) error {
	query := `
		INSERT INTO account_transactions (account_number, seq, kind, amount, recorded_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(ctx, query, accountNumber, seq, string(e.Kind), e.Amount.String(), e.Date)
	if err != nil {
		r.logger.Error("Failed to insert transaction",
			"account_number", accountNumber,
			"seq", seq,
			"kind", e.Kind,
			"error", err)
		return translate(err, "insert transaction")
	}
	return nil
}

// listByAccount returns every entry grouped by account number, each group
// in recording order.
func (r *transactionRepository) listByAccount(ctx context.Context) (map[int][]domain.Entry, error) {
	query := `
		SELECT account_number, kind, amount, recorded_at
		FROM account_transactions ORDER BY account_number, seq
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list transactions", "error", err)
		return nil, translate(err, "list transactions")
	}
	defer rows.Close()

	entries := make(map[int][]domain.Entry)
	for rows.Next() {
		var number int
		var kind, amountStr string
		var e domain.Entry
		if err := rows.Scan(&number, &kind, &amountStr, &e.Date); err != nil {
			return nil, translate(err, "scan transaction")
		}

		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return nil, errors.NewAppError(errors.PersistenceError, "failed to parse amount").WithDetails(err.Error())
		}
		e.Kind = domain.Kind(kind)
		e.Amount = amount
		entries[number] = append(entries[number], e)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err, "list transactions")
	}
	return entries, nil
}

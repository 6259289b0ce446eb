package repository

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"retail-ledger/internal/domain"
	"retail-ledger/internal/errors"
)

type accountRepository struct {
	db     SQLExecutor
	logger *slog.Logger
}

func newAccountRepository(db SQLExecutor, logger *slog.Logger) *accountRepository {
	return &accountRepository{
		db:     db,
		logger: logger,
	}
}

func (r *accountRepository) insert(ctx context.Context, position int, a domain.AccountRecord) error {
	query := `
		INSERT INTO accounts (number, branch, balance, client_cpf, position)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(ctx, query,
		a.Number,
		a.Branch,
		a.Balance.String(),
		a.ClientCPF,
		position,
	)
	if err != nil {
		r.logger.Error("Failed to insert account", "account_number", a.Number, "cpf", a.ClientCPF, "error", err)
		return translate(err, "insert account")
	}
	return nil
}

// list returns the accounts in snapshot order without their transactions.
func (r *accountRepository) list(ctx context.Context) ([]domain.AccountRecord, error) {
	query := `
		SELECT number, branch, balance, client_cpf
		FROM accounts ORDER BY position
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list accounts", "error", err)
		return nil, translate(err, "list accounts")
	}
	defer rows.Close()

	accounts := []domain.AccountRecord{}
	for rows.Next() {
		var a domain.AccountRecord
		var balanceStr string
		if err := rows.Scan(&a.Number, &a.Branch, &balanceStr, &a.ClientCPF); err != nil {
			return nil, translate(err, "scan account")
		}

		balance, err := decimal.NewFromString(balanceStr)
		if err != nil {
			r.logger.Error("Failed to parse balance", "account_number", a.Number, "balance_str", balanceStr, "error", err)
			return nil, errors.NewAppError(errors.PersistenceError, "failed to parse balance").WithDetails(err.Error())
		}
		a.Balance = balance
		a.Transactions = []domain.Entry{}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err, "list accounts")
	}
	return accounts, nil
}

package repository

import (
	"context"
	"log/slog"

	"retail-ledger/internal/domain"
)

type clientRepository struct {
	db     SQLExecutor
	logger *slog.Logger
}

func newClientRepository(db SQLExecutor, logger *slog.Logger) *clientRepository {
	return &clientRepository{
		db:     db,
		logger: logger,
	}
}

func (r *clientRepository) insert(ctx context.Context, position int, c domain.ClientRecord) error {
	query := `
		INSERT INTO clients (cpf, name, birth_date, address, position)
		VALUES ($1, $2, $3, $4, $5)
	`

	if _, err := r.db.ExecContext(ctx, query, c.CPF, c.Name, c.BirthDate, c.Address, position); err != nil {
		r.logger.Error("Failed to insert client", "cpf", c.CPF, "error", err)
		return translate(err, "insert client "+c.CPF)
	}
	return nil
}

// list returns the clients in snapshot order. The account numbers are
// filled in by the caller.
func (r *clientRepository) list(ctx context.Context) ([]domain.ClientRecord, error) {
	query := `
		SELECT cpf, name, birth_date, address
		FROM clients ORDER BY position
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list clients", "error", err)
		return nil, translate(err, "list clients")
	}
	defer rows.Close()

	clients := []domain.ClientRecord{}
	for rows.Next() {
		var c domain.ClientRecord
		if err := rows.Scan(&c.CPF, &c.Name, &c.BirthDate, &c.Address); err != nil {
			return nil, translate(err, "scan client")
		}
		c.Accounts = []int{}
		clients = append(clients, c)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err, "list clients")
	}
	return clients, nil
}

func (r *clientRepository) deleteAll(ctx context.Context) error {
	// accounts and account_transactions go with their clients (ON DELETE CASCADE).
	if _, err := r.db.ExecContext(ctx, `DELETE FROM clients`); err != nil {
		r.logger.Error("Failed to clear clients", "error", err)
		return translate(err, "clear clients")
	}
	return nil
}

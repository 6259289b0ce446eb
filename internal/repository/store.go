package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/lib/pq"

	"retail-ledger/internal/domain"
	"retail-ledger/internal/errors"
)

// Store keeps the ledger snapshot in PostgreSQL. A save replaces the whole
// snapshot inside one database transaction.
type Store struct {
	executor SQLExecutor
	logger   *slog.Logger
}

// NewStore creates a new Store instance
func NewStore(db *sql.DB, logger *slog.Logger) *Store {
	return &Store{
		executor: db,
		logger:   logger,
	}
}

// OpenPostgres connects to dsn, applies migrations and returns a ready Store.
func OpenPostgres(ctx context.Context, dsn string, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if err := RunMigrations(dsn); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("Successfully connected to database")
	return NewStore(db, logger), nil
}

func (s *Store) clients() *clientRepository {
	return newClientRepository(s.executor, s.logger)
}

func (s *Store) accounts() *accountRepository {
	return newAccountRepository(s.executor, s.logger)
}

func (s *Store) transactions() *transactionRepository {
	return newTransactionRepository(s.executor, s.logger)
}

// WithTransaction executes a function within a database transaction
func (s *Store) WithTransaction(ctx context.Context, fn func(*Store) error) error {
	// Only sql.DB can begin transactions
	db, ok := s.executor.(*sql.DB)
	if !ok {
		return errors.NewAppError(errors.InternalError, "cannot begin a transaction inside a transaction")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return translate(err, "begin transaction")
	}

	txStore := &Store{
		executor: tx,
		logger:   s.logger,
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(txStore); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return translate(err, "commit transaction")
	}
	return nil
}

// Load reads the stored snapshot. An empty database is an empty snapshot.
func (s *Store) Load(ctx context.Context) (*domain.Snapshot, error) {
	snap := domain.EmptySnapshot()

	err := s.WithTransaction(ctx, func(tx *Store) error {
		clients, err := tx.clients().list(ctx)
		if err != nil {
			return err
		}
		accounts, err := tx.accounts().list(ctx)
		if err != nil {
			return err
		}
		entries, err := tx.transactions().listByAccount(ctx)
		if err != nil {
			return err
		}

		owned := make(map[string][]int, len(clients))
		for i := range accounts {
			if e, ok := entries[accounts[i].Number]; ok {
				accounts[i].Transactions = e
			}
			owned[accounts[i].ClientCPF] = append(owned[accounts[i].ClientCPF], accounts[i].Number)
		}
		for i := range clients {
			if numbers, ok := owned[clients[i].CPF]; ok {
				clients[i].Accounts = numbers
			}
		}

		snap.Clients = clients
		snap.Accounts = accounts
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Snapshot loaded", "clients", len(snap.Clients), "accounts", len(snap.Accounts))
	return snap, nil
}

// Save replaces the stored snapshot with snap.
func (s *Store) Save(ctx context.Context, snap *domain.Snapshot) error {
	if snap == nil {
		snap = domain.EmptySnapshot()
	}

	err := s.WithTransaction(ctx, func(tx *Store) error {
		if err := tx.clients().deleteAll(ctx); err != nil {
			return err
		}
		for i, c := range snap.Clients {
			if err := tx.clients().insert(ctx, i, c); err != nil {
				return err
			}
		}
		for i, a := range snap.Accounts {
			if err := tx.accounts().insert(ctx, i, a); err != nil {
				return err
			}
			for seq, e := range a.Transactions {
				if err := tx.transactions().insert(ctx, a.Number, seq, e); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Snapshot saved", "clients", len(snap.Clients), "accounts", len(snap.Accounts))
	return nil
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if db, ok := s.executor.(*sql.DB); ok {
		return db.PingContext(ctx)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if db, ok := s.executor.(*sql.DB); ok {
		return db.Close()
	}
	return nil
}

// translate turns a driver error into a persistence AppError.
func translate(err error, op string) error {
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505": // unique_violation
			return errors.NewAppErrorf(errors.PersistenceError, "%s: duplicate key", op).WithDetails(pqErr.Message)
		case "23503": // foreign_key_violation
			return errors.NewAppErrorf(errors.PersistenceError, "%s: unknown reference", op).WithDetails(pqErr.Message)
		case "23514": // check_violation
			return errors.NewAppErrorf(errors.PersistenceError, "%s: constraint failed", op).WithDetails(pqErr.Message)
		}
	}
	return errors.NewAppErrorf(errors.PersistenceError, "failed to %s", op).WithDetails(err.Error())
}

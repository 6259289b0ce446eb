package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"retail-ledger/internal/domain"
)

// LedgerService owns the in-memory ledger. Every operation runs under one
// lock so there is a single writer at a time, whichever transport calls in.
type LedgerService struct {
	mu     sync.Mutex
	ledger *domain.Ledger
	repo   domain.SnapshotRepository
	policy domain.CheckingPolicy
	logger *slog.Logger
}

func NewLedgerService(repo domain.SnapshotRepository, policy domain.CheckingPolicy, logger *slog.Logger) *LedgerService {
	return &LedgerService{
		ledger: domain.NewLedger(policy),
		repo:   repo,
		policy: policy,
		logger: logger,
	}
}

// Load replaces the in-memory ledger with the stored snapshot.
func (s *LedgerService) Load(ctx context.Context) error {
	snap, err := s.repo.Load(ctx)
	if err != nil {
		s.logger.Error("Failed to load snapshot", "error", err)
		return fmt.Errorf("load snapshot: %w", err)
	}

	ledger, err := domain.RestoreLedger(snap, s.policy)
	if err != nil {
		s.logger.Error("Snapshot rejected", "error", err)
		return fmt.Errorf("restore ledger: %w", err)
	}

	s.mu.Lock()
	s.ledger = ledger
	s.mu.Unlock()

	s.logger.Info("Ledger restored", "clients", len(snap.Clients), "accounts", len(snap.Accounts))
	return nil
}

// Save writes the current ledger to the snapshot repository.
func (s *LedgerService) Save(ctx context.Context) error {
	s.mu.Lock()
	snap := s.ledger.Snapshot()
	s.mu.Unlock()

	if err := s.repo.Save(ctx, snap); err != nil {
		s.logger.Error("Failed to save snapshot", "error", err)
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (s *LedgerService) do(fn func(l *domain.Ledger) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.ledger)
}

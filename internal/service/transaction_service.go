package service

import (
	"log/slog"

	"github.com/shopspring/decimal"

	"retail-ledger/internal/domain"
)

type TransactionService struct {
	ledger *LedgerService
	logger *slog.Logger
}

func NewTransactionService(ledger *LedgerService, logger *slog.Logger) *TransactionService {
	return &TransactionService{
		ledger: ledger,
		logger: logger,
	}
}

// TransactionRequest names a client, one of its accounts by 1-based
// position, and the amount to move.
type TransactionRequest struct {
	CPF    string
	Choice string
	Amount decimal.Decimal
}

func (s *TransactionService) Deposit(req TransactionRequest) (AccountSummary, error) {
	return s.perform(req, domain.NewDeposit(req.Amount))
}

func (s *TransactionService) Withdraw(req TransactionRequest) (AccountSummary, error) {
	return s.perform(req, domain.NewWithdrawal(req.Amount))
}

func (s *TransactionService) perform(req TransactionRequest, tx domain.Transaction) (AccountSummary, error) {
	s.logger.Info("Processing transaction",
		"transaction_id", tx.ID(),
		"kind", tx.Kind(),
		"cpf", req.CPF,
		"choice", req.Choice,
		"amount", req.Amount)

	var out AccountSummary
	err := s.ledger.do(func(l *domain.Ledger) error {
		c, err := l.FindClient(req.CPF)
		if err != nil {
			return err
		}
		acc, err := c.SelectAccount(req.Choice)
		if err != nil {
			return err
		}
		if err := c.PerformTransaction(acc, tx); err != nil {
			return err
		}
		out = summarizeAccount(0, acc)
		return nil
	})
	if err != nil {
		s.logger.Warn("Transaction rejected", "transaction_id", tx.ID(), "kind", tx.Kind(), "error", err)
		return AccountSummary{}, err
	}

	s.logger.Info("Transaction completed successfully",
		"transaction_id", tx.ID(),
		"account_number", out.Number,
		"balance", out.Balance)
	return out, nil
}

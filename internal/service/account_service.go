package service

import (
	"log/slog"

	"retail-ledger/internal/domain"
	"retail-ledger/internal/errors"
)

type AccountService struct {
	ledger *LedgerService
	logger *slog.Logger
}

func NewAccountService(ledger *LedgerService, logger *slog.Logger) *AccountService {
	return &AccountService{
		ledger: ledger,
		logger: logger,
	}
}

// OpenAccount opens a checking account for the client with the given CPF.
func (s *AccountService) OpenAccount(cpf string) (AccountSummary, error) {
	s.logger.Info("Opening account", "cpf", cpf)

	var out AccountSummary
	err := s.ledger.do(func(l *domain.Ledger) error {
		acc, err := l.OpenAccount(cpf)
		if err != nil {
			return err
		}
		out = summarizeAccount(len(acc.Owner().Accounts()), acc)
		return nil
	})
	if err != nil {
		s.logger.Warn("Account not opened", "cpf", cpf, "error", err)
		return AccountSummary{}, err
	}

	s.logger.Info("Account opened successfully", "cpf", cpf, "account_number", out.Number)
	return out, nil
}

// ListAccounts returns every account in the ledger in creation order.
func (s *AccountService) ListAccounts() []AccountSummary {
	var out []AccountSummary
	_ = s.ledger.do(func(l *domain.Ledger) error {
		out = summarizeAccounts(l.Accounts())
		return nil
	})
	return out
}

// ClientAccounts returns the client's accounts; Index is the position used
// to select one of them.
func (s *AccountService) ClientAccounts(cpf string) ([]AccountSummary, error) {
	var out []AccountSummary
	err := s.ledger.do(func(l *domain.Ledger) error {
		c, err := l.FindClient(cpf)
		if err != nil {
			return err
		}
		accounts := c.Accounts()
		if len(accounts) == 0 {
			return errors.ErrNoAccountForClient
		}
		out = summarizeAccounts(accounts)
		return nil
	})
	return out, err
}

// SelectAccount resolves choice over the client's accounts without changing
// anything.
func (s *AccountService) SelectAccount(cpf, choice string) (AccountSummary, error) {
	var out AccountSummary
	err := s.ledger.do(func(l *domain.Ledger) error {
		acc, err := selectAccount(l, cpf, choice)
		if err != nil {
			return err
		}
		out = summarizeAccount(0, acc)
		return nil
	})
	return out, err
}

// Statement returns the history and balance of the selected account.
func (s *AccountService) Statement(cpf, choice string) (Statement, error) {
	var out Statement
	err := s.ledger.do(func(l *domain.Ledger) error {
		acc, err := selectAccount(l, cpf, choice)
		if err != nil {
			return err
		}
		out = Statement{
			AccountNumber: acc.Number(),
			Branch:        acc.Branch(),
			Holder:        acc.Owner().Name(),
			Entries:       acc.History().Entries(),
			Balance:       acc.Balance(),
		}
		return nil
	})
	return out, err
}

func selectAccount(l *domain.Ledger, cpf, choice string) (domain.Account, error) {
	c, err := l.FindClient(cpf)
	if err != nil {
		return nil, err
	}
	return c.SelectAccount(choice)
}

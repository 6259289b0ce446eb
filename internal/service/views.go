package service

import (
	"github.com/shopspring/decimal"

	"retail-ledger/internal/domain"
)

// The types below are copies taken under the ledger lock; they never alias
// live ledger state.

type ClientSummary struct {
	Name           string
	BirthDate      string
	CPF            string
	Address        string
	AccountNumbers []int
}

type AccountSummary struct {
	Index           int // 1-based position in the listing it came from
	Number          int
	Branch          string
	Holder          string
	ClientCPF       string
	Balance         decimal.Decimal
	WithdrawalCount int
}

type Statement struct {
	AccountNumber int
	Branch        string
	Holder        string
	Entries       []domain.Entry
	Balance       decimal.Decimal
}

func summarizeClient(c *domain.Client) ClientSummary {
	accounts := c.Accounts()
	numbers := make([]int, 0, len(accounts))
	for _, a := range accounts {
		numbers = append(numbers, a.Number())
	}
	return ClientSummary{
		Name:           c.Name(),
		BirthDate:      c.BirthDate(),
		CPF:            c.CPF(),
		Address:        c.Address(),
		AccountNumbers: numbers,
	}
}

func summarizeAccount(index int, a domain.Account) AccountSummary {
	s := AccountSummary{
		Index:     index,
		Number:    a.Number(),
		Branch:    a.Branch(),
		Holder:    a.Owner().Name(),
		ClientCPF: a.Owner().CPF(),
		Balance:   a.Balance(),
	}
	if c, ok := a.(*domain.CheckingAccount); ok {
		s.WithdrawalCount = c.WithdrawalCount()
	}
	return s
}

func summarizeAccounts(accounts []domain.Account) []AccountSummary {
	out := make([]AccountSummary, 0, len(accounts))
	for i, a := range accounts {
		out = append(out, summarizeAccount(i+1, a))
	}
	return out
}

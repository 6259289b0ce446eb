package domain

import (
	"retail-ledger/internal/errors"
)

// Ledger is the in-memory set of clients and accounts. It is the unit that
// gets loaded from and saved to a SnapshotRepository. A Ledger has no
// locking of its own; callers serialise access.
type Ledger struct {
	policy   CheckingPolicy
	clients  []*Client
	accounts []Account
}

func NewLedger(policy CheckingPolicy) *Ledger {
	return &Ledger{policy: policy}
}

func (l *Ledger) Policy() CheckingPolicy {
	return l.policy
}

// Clients returns every client in creation order.
func (l *Ledger) Clients() []*Client {
	out := make([]*Client, len(l.clients))
	copy(out, l.clients)
	return out
}

// Accounts returns every account in creation order.
func (l *Ledger) Accounts() []Account {
	out := make([]Account, len(l.accounts))
	copy(out, l.accounts)
	return out
}

// FindClient looks a client up by exact CPF.
func (l *Ledger) FindClient(cpf string) (*Client, error) {
	for _, c := range l.clients {
		if c.cpf == cpf {
			return c, nil
		}
	}
	return nil, errors.ErrClientNotFound
}

func (l *Ledger) CreateClient(name, birthDate, cpf, address string) (*Client, error) {
	if _, err := l.FindClient(cpf); err == nil {
		return nil, errors.ErrDuplicateClient
	}
	c := NewClient(name, birthDate, cpf, address)
	l.clients = append(l.clients, c)
	return c, nil
}

// OpenAccount creates a checking account for the client identified by cpf.
// The number is the count of existing accounts plus one. The account is
// linked to the ledger and to the client in the same step.
func (l *Ledger) OpenAccount(cpf string) (*CheckingAccount, error) {
	owner, err := l.FindClient(cpf)
	if err != nil {
		return nil, err
	}
	acc := NewCheckingAccount(owner, len(l.accounts)+1, l.policy)
	l.link(acc)
	return acc, nil
}

func (l *Ledger) link(acc Account) {
	l.accounts = append(l.accounts, acc)
	acc.Owner().addAccount(acc)
}

package domain

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/shopspring/decimal"

	"retail-ledger/internal/errors"
)

// Snapshot is the persisted form of a Ledger. Clients and accounts are
// stored side by side and re-linked through the client CPF on restore.
// The JSON field names are the on-disk contract.
type Snapshot struct {
	Clients  []ClientRecord  `json:"clientes"`
	Accounts []AccountRecord `json:"contas"`
}

type ClientRecord struct {
	Name      string `json:"nome"`
	BirthDate string `json:"data_nascimento"`
	CPF       string `json:"cpf"`
	Address   string `json:"endereco"`
	// Accounts lists the numbers of the client's accounts. Informational only.
	Accounts []int `json:"contas"`
}

type AccountRecord struct {
	Number       int             `json:"numero"`
	Branch       string          `json:"agencia"`
	Balance      decimal.Decimal `json:"saldo"`
	ClientCPF    string          `json:"cliente_cpf"`
	Transactions []Entry         `json:"transacoes"`
}

// Amounts are JSON numbers in the snapshot. Decimal quotes them by default,
// so the two records carrying amounts encode themselves instead of relying
// on decimal's package-wide switch. Decoding accepts both forms.

func (e Entry) MarshalJSON() ([]byte, error) {
	return marshalRecord(struct {
		Kind   Kind        `json:"tipo"`
		Amount json.Number `json:"valor"`
		Date   string      `json:"data"`
	}{e.Kind, json.Number(e.Amount.String()), e.Date})
}

func (r AccountRecord) MarshalJSON() ([]byte, error) {
	return marshalRecord(struct {
		Number       int         `json:"numero"`
		Branch       string      `json:"agencia"`
		Balance      json.Number `json:"saldo"`
		ClientCPF    string      `json:"cliente_cpf"`
		Transactions []Entry     `json:"transacoes"`
	}{r.Number, r.Branch, json.Number(r.Balance.String()), r.ClientCPF, r.Transactions})
}

func marshalRecord(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// EmptySnapshot is what a repository returns when nothing was saved yet.
func EmptySnapshot() *Snapshot {
	return &Snapshot{
		Clients:  []ClientRecord{},
		Accounts: []AccountRecord{},
	}
}

// SnapshotRepository loads and saves whole ledger snapshots.
// Load returns EmptySnapshot when no snapshot exists.
type SnapshotRepository interface {
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, snap *Snapshot) error
}

// Snapshot captures the current state of the ledger.
func (l *Ledger) Snapshot() *Snapshot {
	snap := &Snapshot{
		Clients:  make([]ClientRecord, 0, len(l.clients)),
		Accounts: make([]AccountRecord, 0, len(l.accounts)),
	}
	for _, c := range l.clients {
		numbers := make([]int, 0, len(c.accounts))
		for _, a := range c.accounts {
			numbers = append(numbers, a.Number())
		}
		snap.Clients = append(snap.Clients, ClientRecord{
			Name:      c.name,
			BirthDate: c.birthDate,
			CPF:       c.cpf,
			Address:   c.address,
			Accounts:  numbers,
		})
	}
	for _, a := range l.accounts {
		snap.Accounts = append(snap.Accounts, AccountRecord{
			Number:       a.Number(),
			Branch:       a.Branch(),
			Balance:      a.Balance(),
			ClientCPF:    a.Owner().CPF(),
			Transactions: a.History().Entries(),
		})
	}
	return snap
}

// RestoreLedger rebuilds a ledger from snap. Account balances and histories
// are taken as stored. A snapshot with a repeated CPF or account number, or
// an account whose client is missing, is rejected.
func RestoreLedger(snap *Snapshot, policy CheckingPolicy) (*Ledger, error) {
	l := NewLedger(policy)
	if snap == nil {
		return l, nil
	}

	for _, rec := range snap.Clients {
		if _, err := l.FindClient(rec.CPF); err == nil {
			return nil, errors.NewAppErrorf(errors.PersistenceError, "snapshot repeats client %s", rec.CPF)
		}
		l.clients = append(l.clients, NewClient(rec.Name, rec.BirthDate, rec.CPF, rec.Address))
	}

	seen := make(map[int]bool, len(snap.Accounts))
	for _, rec := range snap.Accounts {
		if seen[rec.Number] {
			return nil, errors.NewAppErrorf(errors.PersistenceError, "snapshot repeats account %d", rec.Number)
		}
		seen[rec.Number] = true

		owner, err := l.FindClient(rec.ClientCPF)
		if err != nil {
			return nil, errors.NewAppErrorf(errors.PersistenceError,
				"account %d references unknown client %s", rec.Number, rec.ClientCPF)
		}
		l.link(restoreCheckingAccount(owner, rec, policy))
	}

	return l, nil
}

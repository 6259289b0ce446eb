package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Kind is the tag a recorded transaction carries in an account's history.
// The values are part of the snapshot format and must not change.
type Kind string

const (
	KindDeposit    Kind = "Deposito"
	KindWithdrawal Kind = "Saque"
)

// Transaction is one monetary movement that can be applied to an account.
// Apply records the movement in the account history only when the account
// accepted it.
type Transaction interface {
	ID() uuid.UUID
	Kind() Kind
	Amount() decimal.Decimal
	Apply(account Account) error
}

type Deposit struct {
	id     uuid.UUID
	amount decimal.Decimal
}

func NewDeposit(amount decimal.Decimal) *Deposit {
	return &Deposit{id: uuid.New(), amount: amount}
}

func (d *Deposit) ID() uuid.UUID           { return d.id }
func (d *Deposit) Kind() Kind              { return KindDeposit }
func (d *Deposit) Amount() decimal.Decimal { return d.amount }

func (d *Deposit) Apply(account Account) error {
	if err := account.Deposit(d.amount); err != nil {
		return err
	}
	account.History().record(d, now())
	return nil
}

type Withdrawal struct {
	id     uuid.UUID
	amount decimal.Decimal
}

func NewWithdrawal(amount decimal.Decimal) *Withdrawal {
	return &Withdrawal{id: uuid.New(), amount: amount}
}

func (w *Withdrawal) ID() uuid.UUID           { return w.id }
func (w *Withdrawal) Kind() Kind              { return KindWithdrawal }
func (w *Withdrawal) Amount() decimal.Decimal { return w.amount }

func (w *Withdrawal) Apply(account Account) error {
	if err := account.Withdraw(w.amount); err != nil {
		return err
	}
	account.History().record(w, now())
	return nil
}

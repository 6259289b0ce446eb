package domain

import (
	"github.com/shopspring/decimal"

	"retail-ledger/internal/errors"
)

// Branch is the agency code shared by every account.
const Branch = "0001"

// Account holds a balance that changes only through Deposit and Withdraw.
// Neither method touches the history; Transaction.Apply does that on success.
type Account interface {
	Number() int
	Branch() string
	Balance() decimal.Decimal
	Owner() *Client
	History() *History
	Deposit(amount decimal.Decimal) error
	Withdraw(amount decimal.Decimal) error
}

type account struct {
	number  int
	balance decimal.Decimal
	owner   *Client
	history *History
}

func (a *account) Number() int              { return a.number }
func (a *account) Branch() string           { return Branch }
func (a *account) Balance() decimal.Decimal { return a.balance }
func (a *account) Owner() *Client           { return a.owner }
func (a *account) History() *History        { return a.history }

func (a *account) Withdraw(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return errors.ErrInvalidAmount
	}
	if amount.GreaterThan(a.balance) {
		return errors.ErrInsufficientFunds
	}
	a.balance = a.balance.Sub(amount)
	return nil
}

func (a *account) Deposit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return errors.ErrInvalidAmount
	}
	a.balance = a.balance.Add(amount)
	return nil
}

// CheckingPolicy bounds the withdrawals of a checking account.
type CheckingPolicy struct {
	Limit          decimal.Decimal // maximum amount of a single withdrawal
	MaxWithdrawals int
}

func DefaultCheckingPolicy() CheckingPolicy {
	return CheckingPolicy{
		Limit:          decimal.NewFromInt(500),
		MaxWithdrawals: 3,
	}
}

type CheckingAccount struct {
	account
	limit          decimal.Decimal
	maxWithdrawals int
	withdrawals    int
}

// NewCheckingAccount returns an empty account for owner. It is not linked to
// the owner or to any ledger; Ledger.OpenAccount does both.
func NewCheckingAccount(owner *Client, number int, policy CheckingPolicy) *CheckingAccount {
	return &CheckingAccount{
		account: account{
			number:  number,
			owner:   owner,
			history: newHistory(nil),
		},
		limit:          policy.Limit,
		maxWithdrawals: policy.MaxWithdrawals,
	}
}

// restoreCheckingAccount rebuilds a previously saved account. Balance and
// history are placed directly, without the Deposit/Withdraw guards.
func restoreCheckingAccount(owner *Client, rec AccountRecord, policy CheckingPolicy) *CheckingAccount {
	c := NewCheckingAccount(owner, rec.Number, policy)
	c.balance = rec.Balance
	c.history = newHistory(rec.Transactions)
	return c
}

// Withdraw checks the per-transaction limit, then the withdrawal count, then
// the balance. The counter moves only when the withdrawal succeeds.
func (c *CheckingAccount) Withdraw(amount decimal.Decimal) error {
	if amount.GreaterThan(c.limit) {
		return errors.ErrLimitExceeded
	}
	if c.withdrawals >= c.maxWithdrawals {
		return errors.ErrWithdrawalCountExceeded
	}
	if err := c.account.Withdraw(amount); err != nil {
		return err
	}
	c.withdrawals++
	return nil
}

func (c *CheckingAccount) Limit() decimal.Decimal { return c.limit }
func (c *CheckingAccount) MaxWithdrawals() int    { return c.maxWithdrawals }
func (c *CheckingAccount) WithdrawalCount() int   { return c.withdrawals }

package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retail-ledger/internal/errors"
)

func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	l := NewLedger(DefaultCheckingPolicy())
	_, err := l.CreateClient("Maria Silva", "01-02-1990", "11122233344", "Rua A, 1 - Centro - SP/SP")
	require.NoError(t, err)
	return l
}

func TestLedgerCreateClient(t *testing.T) {
	l := newTestLedger(t)

	c, err := l.FindClient("11122233344")
	require.NoError(t, err)
	assert.Equal(t, "Maria Silva", c.Name())
	assert.Equal(t, "01-02-1990", c.BirthDate())
	assert.Equal(t, "Rua A, 1 - Centro - SP/SP", c.Address())
	assert.Empty(t, c.Accounts())

	_, err = l.CreateClient("Other", "", "11122233344", "")
	assert.ErrorIs(t, err, errors.ErrDuplicateClient)
	assert.Len(t, l.Clients(), 1)
}

func TestLedgerFindClientNotFound(t *testing.T) {
	l := newTestLedger(t)

	_, err := l.FindClient("99999999999")
	assert.ErrorIs(t, err, errors.ErrClientNotFound)

	// Lookup is exact: no trimming, no prefix match.
	_, err = l.FindClient(" 11122233344")
	assert.ErrorIs(t, err, errors.ErrClientNotFound)
}

func TestLedgerOpenAccountNumbering(t *testing.T) {
	l := newTestLedger(t)
	_, err := l.CreateClient("João", "", "55566677788", "")
	require.NoError(t, err)

	a1, err := l.OpenAccount("11122233344")
	require.NoError(t, err)
	a2, err := l.OpenAccount("55566677788")
	require.NoError(t, err)
	a3, err := l.OpenAccount("11122233344")
	require.NoError(t, err)

	assert.Equal(t, 1, a1.Number())
	assert.Equal(t, 2, a2.Number())
	assert.Equal(t, 3, a3.Number())
	assert.Len(t, l.Accounts(), 3)

	maria, _ := l.FindClient("11122233344")
	accounts := maria.Accounts()
	require.Len(t, accounts, 2)
	assert.Equal(t, 1, accounts[0].Number())
	assert.Equal(t, 3, accounts[1].Number())
	assert.Same(t, maria, a3.Owner())
}

func TestLedgerOpenAccountUnknownClient(t *testing.T) {
	l := newTestLedger(t)

	_, err := l.OpenAccount("000")

	assert.ErrorIs(t, err, errors.ErrClientNotFound)
	assert.Empty(t, l.Accounts())
}

func TestClientSelectAccount(t *testing.T) {
	l := newTestLedger(t)
	c, _ := l.FindClient("11122233344")

	_, err := c.SelectAccount("1")
	assert.ErrorIs(t, err, errors.ErrNoAccountForClient)

	first, err := l.OpenAccount(c.CPF())
	require.NoError(t, err)
	second, err := l.OpenAccount(c.CPF())
	require.NoError(t, err)

	got, err := c.SelectAccount("2")
	require.NoError(t, err)
	assert.Same(t, second, got)

	got, err = c.SelectAccount(" 1 ")
	require.NoError(t, err)
	assert.Same(t, first, got)

	for _, choice := range []string{"3", "0", "-1", "abc", ""} {
		_, err := c.SelectAccount(choice)
		assert.ErrorIs(t, err, errors.ErrInvalidSelection, "choice %q", choice)
	}
}

func TestClientPerformTransaction(t *testing.T) {
	l := newTestLedger(t)
	c, _ := l.FindClient("11122233344")
	acc, err := l.OpenAccount(c.CPF())
	require.NoError(t, err)

	require.NoError(t, c.PerformTransaction(acc, NewDeposit(dec("1000"))))
	assert.True(t, acc.Balance().Equal(dec("1000")))
	require.Len(t, acc.History().Entries(), 1)

	// Over the limit, balance large enough.
	assert.ErrorIs(t, c.PerformTransaction(acc, NewWithdrawal(dec("1200"))), errors.ErrLimitExceeded)
	assert.True(t, acc.Balance().Equal(dec("1000")))

	require.NoError(t, c.PerformTransaction(acc, NewWithdrawal(dec("500"))))
	require.NoError(t, c.PerformTransaction(acc, NewWithdrawal(dec("500"))))
	assert.True(t, acc.Balance().IsZero())

	assert.ErrorIs(t, c.PerformTransaction(acc, NewWithdrawal(dec("500"))), errors.ErrInsufficientFunds)
	assert.Equal(t, 2, acc.WithdrawalCount())

	entries := acc.History().Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, []Kind{KindDeposit, KindWithdrawal, KindWithdrawal},
		[]Kind{entries[0].Kind, entries[1].Kind, entries[2].Kind})
}

func TestValidCPF(t *testing.T) {
	assert.True(t, ValidCPF("11122233344"))
	assert.True(t, ValidCPF("0"))
	assert.False(t, ValidCPF(""))
	assert.False(t, ValidCPF("111.222.333-44"))
	assert.False(t, ValidCPF("12a"))
	assert.False(t, ValidCPF("١٢٣"))
}

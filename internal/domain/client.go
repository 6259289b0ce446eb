package domain

import (
	"strconv"
	"strings"

	"retail-ledger/internal/errors"
)

// Client is an account holder. The CPF identifies the client and is fixed
// at creation; accounts are kept in the order they were opened.
type Client struct {
	name      string
	birthDate string
	cpf       string
	address   string
	accounts  []Account
}

func NewClient(name, birthDate, cpf, address string) *Client {
	return &Client{
		name:      name,
		birthDate: birthDate,
		cpf:       cpf,
		address:   address,
	}
}

func (c *Client) Name() string      { return c.name }
func (c *Client) BirthDate() string { return c.birthDate }
func (c *Client) CPF() string       { return c.cpf }
func (c *Client) Address() string   { return c.address }

// Accounts returns the client's accounts in creation order.
func (c *Client) Accounts() []Account {
	out := make([]Account, len(c.accounts))
	copy(out, c.accounts)
	return out
}

func (c *Client) addAccount(a Account) {
	c.accounts = append(c.accounts, a)
}

// PerformTransaction applies tx to one of the client's accounts.
func (c *Client) PerformTransaction(account Account, tx Transaction) error {
	return tx.Apply(account)
}

// SelectAccount resolves a 1-based position over the client's accounts.
func (c *Client) SelectAccount(choice string) (Account, error) {
	if len(c.accounts) == 0 {
		return nil, errors.ErrNoAccountForClient
	}
	idx, err := strconv.Atoi(strings.TrimSpace(choice))
	if err != nil || idx < 1 || idx > len(c.accounts) {
		return nil, errors.ErrInvalidSelection
	}
	return c.accounts[idx-1], nil
}

// ValidCPF reports whether cpf is a non-empty string of ASCII digits.
func ValidCPF(cpf string) bool {
	if cpf == "" {
		return false
	}
	for _, r := range cpf {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

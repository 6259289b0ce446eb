// Package cli is the interactive text menu over the ledger services.
package cli

import (
	"bufio"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"retail-ledger/internal/domain"
	"retail-ledger/internal/errors"
	"retail-ledger/internal/service"
)

const menuText = `
[d] Deposit
[s] Withdraw
[e] Statement
[nu] New client
[nc] New account
[lc] List accounts
[q] Quit
=> `

// errEOF ends the loop when input runs out; it is handled like quit.
var errEOF = stderrors.New("end of input")

type Menu struct {
	ledger       *service.LedgerService
	clients      *service.ClientService
	accounts     *service.AccountService
	transactions *service.TransactionService
	in           *bufio.Scanner
	out          io.Writer
	logger       *slog.Logger
}

func New(ledger *service.LedgerService, in io.Reader, out io.Writer, logger *slog.Logger) *Menu {
	return &Menu{
		ledger:       ledger,
		clients:      service.NewClientService(ledger, logger),
		accounts:     service.NewAccountService(ledger, logger),
		transactions: service.NewTransactionService(ledger, logger),
		in:           bufio.NewScanner(in),
		out:          out,
		logger:       logger,
	}
}

// Run reads commands until quit or end of input, then saves the ledger.
func (m *Menu) Run(ctx context.Context) error {
	for {
		option, err := m.prompt(menuText)
		if err != nil {
			m.inputEnded(err)
			break
		}

		switch strings.ToLower(option) {
		case "d":
			err = m.transact(m.transactions.Deposit, "Enter the deposit amount: R$ ", "Deposit")
		case "s":
			err = m.transact(m.transactions.Withdraw, "Enter the withdrawal amount: R$ ", "Withdrawal")
		case "e":
			err = m.statement()
		case "nu":
			err = m.newClient()
		case "nc":
			err = m.newAccount()
		case "lc":
			m.listAccounts()
		case "q":
			return m.quit(ctx)
		default:
			m.fail(errors.ErrInvalidSelection)
		}
		if err != nil {
			m.inputEnded(err)
			break
		}
	}
	return m.quit(ctx)
}

// inputEnded logs read failures; running out of input is not one.
func (m *Menu) inputEnded(err error) {
	if !stderrors.Is(err, errEOF) {
		m.logger.Error("Reading input failed", "error", err)
	}
}

func (m *Menu) quit(ctx context.Context) error {
	if err := m.ledger.Save(ctx); err != nil {
		return err
	}
	fmt.Fprintln(m.out, "\nThank you for banking with us. Goodbye!")
	return nil
}

func (m *Menu) prompt(label string) (string, error) {
	fmt.Fprint(m.out, label)
	if !m.in.Scan() {
		if err := m.in.Err(); err != nil {
			return "", err
		}
		return "", errEOF
	}
	return strings.TrimSpace(m.in.Text()), nil
}

func (m *Menu) fail(err error) {
	msg := "unexpected error"
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		msg = appErr.Message
	} else {
		m.logger.Error("Operation failed", "error", err)
	}
	fmt.Fprintf(m.out, "\n@@@ Operation failed! %s. @@@\n", capitalize(msg))
}

func (m *Menu) ok(what string) {
	fmt.Fprintf(m.out, "\n=== %s completed successfully! ===\n", what)
}

// chooseAccount asks for a CPF and, when the client owns accounts, for the
// 1-based position of one of them. ok is false when the lookup failed and
// the failure was already reported.
func (m *Menu) chooseAccount() (cpf, choice string, ok bool, err error) {
	cpf, err = m.prompt("Enter the client's CPF: ")
	if err != nil {
		return "", "", false, err
	}

	accounts, err := m.accounts.ClientAccounts(cpf)
	if err != nil {
		m.fail(err)
		return cpf, "", false, nil
	}

	fmt.Fprintln(m.out, "\n=== Client accounts ===")
	for _, a := range accounts {
		fmt.Fprintf(m.out, "[%d] Account %d | Balance: R$ %s\n", a.Index, a.Number, a.Balance.StringFixed(2))
	}
	choice, err = m.prompt("Choose the account: ")
	if err != nil {
		return "", "", false, err
	}
	if _, err := m.accounts.SelectAccount(cpf, choice); err != nil {
		m.fail(err)
		return cpf, choice, false, nil
	}
	return cpf, choice, true, nil
}

func (m *Menu) transact(apply func(service.TransactionRequest) (service.AccountSummary, error), label, what string) error {
	cpf, choice, ok, err := m.chooseAccount()
	if !ok {
		return err
	}

	raw, err := m.prompt(label)
	if err != nil {
		return err
	}
	amount, perr := decimal.NewFromString(raw)
	if perr != nil {
		m.fail(errors.ErrInvalidAmount)
		return nil
	}

	if _, err := apply(service.TransactionRequest{CPF: cpf, Choice: choice, Amount: amount}); err != nil {
		m.fail(err)
		return nil
	}
	m.ok(what)
	return nil
}

func (m *Menu) statement() error {
	cpf, choice, ok, err := m.chooseAccount()
	if !ok {
		return err
	}

	st, err := m.accounts.Statement(cpf, choice)
	if err != nil {
		m.fail(err)
		return nil
	}

	fmt.Fprintln(m.out, "\n================ STATEMENT ================")
	if len(st.Entries) == 0 {
		fmt.Fprintln(m.out, "No transactions.")
	}
	for _, e := range st.Entries {
		fmt.Fprintf(m.out, "%s | %s | R$ %s\n", e.Date, e.Kind, e.Amount.StringFixed(2))
	}
	fmt.Fprintf(m.out, "\nCurrent balance: R$ %s\n", st.Balance.StringFixed(2))
	fmt.Fprintln(m.out, "============================================")
	return nil
}

func (m *Menu) newClient() error {
	var cpf string
	for {
		var err error
		cpf, err = m.prompt("Enter the CPF (digits only): ")
		if err != nil {
			return err
		}
		if domain.ValidCPF(cpf) {
			break
		}
		fmt.Fprintln(m.out, "@@@ Invalid CPF. Use digits only! @@@")
	}

	if _, err := m.clients.GetClient(cpf); err == nil {
		m.fail(errors.ErrDuplicateClient)
		return nil
	}

	name, err := m.prompt("Enter the full name: ")
	if err != nil {
		return err
	}
	birth, err := m.prompt("Enter the birth date (dd-mm-yyyy): ")
	if err != nil {
		return err
	}
	address, err := m.prompt("Enter the address (street, number - district - city/state): ")
	if err != nil {
		return err
	}

	if _, err := m.clients.CreateClient(service.CreateClientRequest{
		Name:      name,
		BirthDate: birth,
		CPF:       cpf,
		Address:   address,
	}); err != nil {
		m.fail(err)
		return nil
	}
	fmt.Fprintln(m.out, "\n=== Client created successfully! ===")
	return nil
}

func (m *Menu) newAccount() error {
	cpf, err := m.prompt("Enter the client's CPF: ")
	if err != nil {
		return err
	}

	if _, err := m.accounts.OpenAccount(cpf); err != nil {
		m.fail(err)
		return nil
	}
	fmt.Fprintln(m.out, "\n=== Account created successfully! ===")
	return nil
}

func (m *Menu) listAccounts() {
	fmt.Fprintln(m.out, "\n================ ACCOUNTS ================")
	accounts := m.accounts.ListAccounts()
	if len(accounts) == 0 {
		fmt.Fprintln(m.out, "No accounts registered.")
	}
	for _, a := range accounts {
		fmt.Fprintf(m.out, "\nBranch:\t\t%s\n", a.Branch)
		fmt.Fprintf(m.out, "Number:\t\t%d\n", a.Number)
		fmt.Fprintf(m.out, "Holder:\t\t%s\n", a.Holder)
		fmt.Fprintf(m.out, "Balance:\tR$ %s\n", a.Balance.StringFixed(2))
		fmt.Fprintln(m.out, "------------------------------------------")
	}
	fmt.Fprintln(m.out, "==========================================")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"retail-ledger/internal/service"
)

type AccountHandler struct {
	accountService *service.AccountService
}

func NewAccountHandler(accountService *service.AccountService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
	}
}

type AccountResponse struct {
	Index           int    `json:"index,omitempty"`
	Number          int    `json:"number"`
	Branch          string `json:"branch"`
	Holder          string `json:"holder"`
	ClientCPF       string `json:"client_cpf"`
	Balance         string `json:"balance"`
	WithdrawalCount int    `json:"withdrawal_count"`
}

type EntryResponse struct {
	Kind   string `json:"kind"`
	Amount string `json:"amount"`
	Date   string `json:"date"`
}

type StatementResponse struct {
	AccountNumber int             `json:"account_number"`
	Branch        string          `json:"branch"`
	Holder        string          `json:"holder"`
	Transactions  []EntryResponse `json:"transactions"`
	Balance       string          `json:"balance"`
}

func newAccountResponse(a service.AccountSummary) AccountResponse {
	return AccountResponse{
		Index:           a.Index,
		Number:          a.Number,
		Branch:          a.Branch,
		Holder:          a.Holder,
		ClientCPF:       a.ClientCPF,
		Balance:         a.Balance.StringFixed(2),
		WithdrawalCount: a.WithdrawalCount,
	}
}

func newAccountResponses(accounts []service.AccountSummary) []AccountResponse {
	out := make([]AccountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, newAccountResponse(a))
	}
	return out
}

func (h *AccountHandler) OpenAccount(w http.ResponseWriter, r *http.Request) {
	account, err := h.accountService.OpenAccount(mux.Vars(r)["cpf"])
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, newAccountResponse(account))
}

func (h *AccountHandler) ClientAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accountService.ClientAccounts(mux.Vars(r)["cpf"])
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newAccountResponses(accounts))
}

func (h *AccountHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newAccountResponses(h.accountService.ListAccounts()))
}

func (h *AccountHandler) Statement(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	st, err := h.accountService.Statement(vars["cpf"], vars["choice"])
	if err != nil {
		writeError(w, err)
		return
	}

	entries := make([]EntryResponse, 0, len(st.Entries))
	for _, e := range st.Entries {
		entries = append(entries, EntryResponse{
			Kind:   string(e.Kind),
			Amount: e.Amount.StringFixed(2),
			Date:   e.Date,
		})
	}

	writeJSON(w, http.StatusOK, StatementResponse{
		AccountNumber: st.AccountNumber,
		Branch:        st.Branch,
		Holder:        st.Holder,
		Transactions:  entries,
		Balance:       st.Balance.StringFixed(2),
	})
}

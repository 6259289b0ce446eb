package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"retail-ledger/internal/errors"
	"retail-ledger/internal/service"
)

type TransactionHandler struct {
	transactionService *service.TransactionService
}

func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
	}
}

type AmountRequest struct {
	Amount string `json:"amount"`
}

func (h *TransactionHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, h.transactionService.Deposit)
}

func (h *TransactionHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, h.transactionService.Withdraw)
}

func (h *TransactionHandler) handle(w http.ResponseWriter, r *http.Request, apply func(service.TransactionRequest) (service.AccountSummary, error)) {
	var req AmountRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		writeError(w, errors.NewAppError(errors.InvalidAmount, "invalid amount format").WithDetails(err.Error()))
		return
	}

	vars := mux.Vars(r)
	account, err := apply(service.TransactionRequest{
		CPF:    vars["cpf"],
		Choice: vars["choice"],
		Amount: amount,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, newAccountResponse(account))
}

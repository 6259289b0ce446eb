package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"retail-ledger/internal/service"
)

type ClientHandler struct {
	clientService *service.ClientService
}

func NewClientHandler(clientService *service.ClientService) *ClientHandler {
	return &ClientHandler{
		clientService: clientService,
	}
}

type CreateClientRequest struct {
	Name      string `json:"name"`
	BirthDate string `json:"birth_date"`
	CPF       string `json:"cpf"`
	Address   string `json:"address"`
}

type ClientResponse struct {
	Name      string `json:"name"`
	BirthDate string `json:"birth_date"`
	CPF       string `json:"cpf"`
	Address   string `json:"address"`
	Accounts  []int  `json:"accounts"`
}

func newClientResponse(c service.ClientSummary) ClientResponse {
	accounts := c.AccountNumbers
	if accounts == nil {
		accounts = []int{}
	}
	return ClientResponse{
		Name:      c.Name,
		BirthDate: c.BirthDate,
		CPF:       c.CPF,
		Address:   c.Address,
		Accounts:  accounts,
	}
}

func (h *ClientHandler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var req CreateClientRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	client, err := h.clientService.CreateClient(service.CreateClientRequest{
		Name:      req.Name,
		BirthDate: req.BirthDate,
		CPF:       req.CPF,
		Address:   req.Address,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, newClientResponse(client))
}

func (h *ClientHandler) GetClient(w http.ResponseWriter, r *http.Request) {
	client, err := h.clientService.GetClient(mux.Vars(r)["cpf"])
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newClientResponse(client))
}

// ListClients returns every registered client in registration order.
func (h *ClientHandler) ListClients(w http.ResponseWriter, r *http.Request) {
	clients := h.clientService.ListClients()

	out := make([]ClientResponse, 0, len(clients))
	for _, c := range clients {
		out = append(out, newClientResponse(c))
	}
	writeJSON(w, http.StatusOK, out)
}

package service

import (
	"log/slog"
	"strings"

	"retail-ledger/internal/domain"
	"retail-ledger/internal/errors"
)

type ClientService struct {
	ledger *LedgerService
	logger *slog.Logger
}

func NewClientService(ledger *LedgerService, logger *slog.Logger) *ClientService {
	return &ClientService{
		ledger: ledger,
		logger: logger,
	}
}

type CreateClientRequest struct {
	Name      string
	BirthDate string
	CPF       string
	Address   string
}

func (s *ClientService) CreateClient(req CreateClientRequest) (ClientSummary, error) {
	cpf := strings.TrimSpace(req.CPF)
	s.logger.Info("Creating client", "cpf", cpf)

	if !domain.ValidCPF(cpf) {
		return ClientSummary{}, errors.NewAppError(errors.InvalidInput, "CPF must contain digits only")
	}

	var out ClientSummary
	err := s.ledger.do(func(l *domain.Ledger) error {
		c, err := l.CreateClient(req.Name, req.BirthDate, cpf, req.Address)
		if err != nil {
			return err
		}
		out = summarizeClient(c)
		return nil
	})
	if err != nil {
		s.logger.Warn("Client not created", "cpf", cpf, "error", err)
		return ClientSummary{}, err
	}

	s.logger.Info("Client created successfully", "cpf", cpf)
	return out, nil
}

func (s *ClientService) GetClient(cpf string) (ClientSummary, error) {
	var out ClientSummary
	err := s.ledger.do(func(l *domain.Ledger) error {
		c, err := l.FindClient(cpf)
		if err != nil {
			return err
		}
		out = summarizeClient(c)
		return nil
	})
	return out, err
}

// ListClients returns every client in creation order.
func (s *ClientService) ListClients() []ClientSummary {
	var out []ClientSummary
	_ = s.ledger.do(func(l *domain.Ledger) error {
		clients := l.Clients()
		out = make([]ClientSummary, 0, len(clients))
		for _, c := range clients {
			out = append(out, summarizeClient(c))
		}
		return nil
	})
	return out
}

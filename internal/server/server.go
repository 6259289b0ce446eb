package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/sync/errgroup"

	"retail-ledger/internal/config"
	"retail-ledger/internal/handler"
	"retail-ledger/internal/logging"
	"retail-ledger/internal/repository"
	"retail-ledger/internal/service"
)

// Server represents the HTTP server
type Server struct {
	router  *mux.Router
	server  *http.Server
	backend repository.Backend
	ledger  *service.LedgerService
	logger  *slog.Logger
	port    string

	serveErr chan error
}

// NewServer opens the configured backend, loads the ledger from it and
// builds the router.
func NewServer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Server, error) {
	backend, err := repository.Open(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	ledger := service.NewLedgerService(backend, cfg.CheckingPolicy(), logger)
	if err := ledger.Load(ctx); err != nil {
		backend.Close()
		return nil, err
	}

	// Initialize services
	clientService := service.NewClientService(ledger, logger)
	accountService := service.NewAccountService(ledger, logger)
	transactionService := service.NewTransactionService(ledger, logger)

	// Initialize handlers
	clientHandler := handler.NewClientHandler(clientService)
	accountHandler := handler.NewAccountHandler(accountService)
	transactionHandler := handler.NewTransactionHandler(transactionService)

	router := mux.NewRouter()
	router.Use(loggingMiddleware(logger))

	// Client routes
	router.HandleFunc("/clients", clientHandler.CreateClient).Methods("POST")
	router.HandleFunc("/clients", clientHandler.ListClients).Methods("GET")
	router.HandleFunc("/clients/{cpf}", clientHandler.GetClient).Methods("GET")

	// Account routes
	router.HandleFunc("/clients/{cpf}/accounts", accountHandler.OpenAccount).Methods("POST")
	router.HandleFunc("/clients/{cpf}/accounts", accountHandler.ClientAccounts).Methods("GET")
	router.HandleFunc("/clients/{cpf}/accounts/{choice}/statement", accountHandler.Statement).Methods("GET")
	router.HandleFunc("/accounts", accountHandler.ListAccounts).Methods("GET")

	// Transaction routes
	router.HandleFunc("/clients/{cpf}/accounts/{choice}/deposits", transactionHandler.Deposit).Methods("POST")
	router.HandleFunc("/clients/{cpf}/accounts/{choice}/withdrawals", transactionHandler.Withdraw).Methods("POST")

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := backend.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]string{"status": "unhealthy", "error": "storage unavailable"})
			return
		}

		json.NewEncoder(w).Encode(map[string]string{
			"status":    "healthy",
			"backend":   cfg.DataBackend,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}).Methods("GET")

	return &Server{
		router:  router,
		backend: backend,
		ledger:  ledger,
		logger:  logger,
	}, nil
}

// loggingMiddleware adds request logging
func loggingMiddleware(logger *slog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(ww, r)

			logger.Info("request completed",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.statusCode,
				"duration", time.Since(start),
				"user_agent", r.UserAgent(),
			)
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Start listens on port and serves in the background. It returns the port
// actually bound, which differs from port when port is "0".
func (s *Server) Start(port string) (string, error) {
	listener, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return "", err
	}

	addr := listener.Addr().(*net.TCPAddr)
	s.port = strconv.Itoa(addr.Port)
	s.logger.Info("Starting server", "port", s.port)

	s.serve(listener)
	return s.port, nil
}

// serve runs the HTTP server on listener in the background. A failure other
// than a requested shutdown is delivered on serveErr, which is closed once
// Serve returns.
func (s *Server) serve(listener net.Listener) {
	s.server = &http.Server{
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	s.serveErr = make(chan error, 1)

	go func() {
		defer close(s.serveErr)
		if err := s.server.Serve(listener); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Server failed", "error", err)
			s.serveErr <- err
		}
	}()
}

// Run blocks until ctx is cancelled or the serve loop fails, then stops the
// server, which saves the ledger. A serve failure is returned.
func (s *Server) Run(ctx context.Context, shutdownTimeout time.Duration) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		select {
		case err, ok := <-s.serveErr:
			if ok && err != nil {
				return fmt.Errorf("serve: %w", err)
			}
			return nil
		case <-gctx.Done():
			return nil
		}
	})

	g.Go(func() error {
		<-gctx.Done()

		// gctx is already cancelled here; shutdown gets its own deadline.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.Stop(shutdownCtx)
	})

	return g.Wait()
}

// Stop drains in-flight requests, saves the ledger and releases the backend.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down server")

	if s.server != nil {
		if err := s.server.Shutdown(ctx); err != nil {
			s.logger.Error("HTTP shutdown failed", "error", err)
		}
	}

	saveErr := s.ledger.Save(ctx)
	if saveErr == nil {
		s.logger.Info("Ledger saved")
	}

	if err := s.backend.Close(); err != nil && saveErr == nil {
		return fmt.Errorf("close backend: %w", err)
	}
	return saveErr
}

// GetPort returns the port the server is listening on
func (s *Server) GetPort() string {
	return s.port
}

// GetBaseURL returns the base URL for the server
func (s *Server) GetBaseURL() string {
	return "http://localhost:" + s.port
}

// GetRouter returns the router for testing purposes
func (s *Server) GetRouter() *mux.Router {
	return s.router
}

// StartServer builds and starts a server for cfg. Port "0" is the test
// setup and logs nowhere.
func StartServer(ctx context.Context, cfg *config.Config) (*Server, string, error) {
	var logger *slog.Logger
	if cfg.ServerPort == "0" {
		logger = logging.Discard()
	} else {
		logger = logging.New(cfg.LogFormat, cfg.LogLevel, os.Stdout)
	}

	server, err := NewServer(ctx, cfg, logger)
	if err != nil {
		return nil, "", err
	}

	port, err := server.Start(cfg.ServerPort)
	if err != nil {
		server.backend.Close()
		return nil, "", err
	}

	return server, port, nil
}

package repository

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"retail-ledger/internal/domain"
)

// JSONRepository keeps the ledger snapshot in a single JSON file.
type JSONRepository struct {
	path   string
	logger *slog.Logger
}

func NewJSONRepository(path string, logger *slog.Logger) *JSONRepository {
	return &JSONRepository{
		path:   path,
		logger: logger,
	}
}

func (r *JSONRepository) Path() string {
	return r.path
}

// Load reads the snapshot file. A missing file is an empty ledger.
func (r *JSONRepository) Load(ctx context.Context) (*domain.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(r.path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			r.logger.Info("No snapshot file, starting empty", "path", r.path)
			return domain.EmptySnapshot(), nil
		}
		return nil, fmt.Errorf("open snapshot %s: %w", r.path, err)
	}
	defer f.Close()

	snap := domain.EmptySnapshot()
	if err := json.NewDecoder(f).Decode(snap); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", r.path, err)
	}
	normalize(snap)

	r.logger.Info("Snapshot loaded",
		"path", r.path,
		"clients", len(snap.Clients),
		"accounts", len(snap.Accounts))
	return snap, nil
}

// Save writes the snapshot to a temporary file and renames it over the
// previous one.
func (r *JSONRepository) Save(ctx context.Context, snap *domain.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if snap == nil {
		snap = domain.EmptySnapshot()
	}
	normalize(snap)

	tmp := r.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create %s: %w", tmp, err)
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(snap); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close %s: %w", tmp, err)
	}

	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("replace snapshot %s: %w", r.path, err)
	}

	r.logger.Info("Snapshot saved",
		"path", r.path,
		"clients", len(snap.Clients),
		"accounts", len(snap.Accounts))
	return nil
}

// normalize replaces null lists with empty ones so the file always carries [].
func normalize(snap *domain.Snapshot) {
	if snap.Clients == nil {
		snap.Clients = []domain.ClientRecord{}
	}
	if snap.Accounts == nil {
		snap.Accounts = []domain.AccountRecord{}
	}
	for i := range snap.Clients {
		if snap.Clients[i].Accounts == nil {
			snap.Clients[i].Accounts = []int{}
		}
	}
	for i := range snap.Accounts {
		if snap.Accounts[i].Transactions == nil {
			snap.Accounts[i].Transactions = []domain.Entry{}
		}
	}
}

// Ping always succeeds; there is no connection to check.
func (r *JSONRepository) Ping(ctx context.Context) error {
	return nil
}

// Close is a no-op; the file is only open during Load and Save.
func (r *JSONRepository) Close() error {
	return nil
}

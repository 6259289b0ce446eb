package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retail-ledger/internal/config"
	"retail-ledger/internal/logging"
)

func TestOpenJSONBackend(t *testing.T) {
	cfg := &config.Config{DataBackend: config.BackendJSON, DataFile: filepath.Join(t.TempDir(), "ledger.json")}

	backend, err := Open(context.Background(), cfg, logging.Discard())
	require.NoError(t, err)
	defer backend.Close()

	repo, ok := backend.(*JSONRepository)
	require.True(t, ok)
	assert.Equal(t, cfg.DataFile, repo.Path())
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), &config.Config{DataBackend: "sqlite"}, logging.Discard())

	assert.ErrorContains(t, err, "unsupported data backend: sqlite")
}

package server

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lucasreb/healthflow/internal/config"
)

func TestNew(t *testing.T) {
	cfg := config.Default()
	cfg.Store.Path = filepath.Join(t.TempDir(), "runs.db")

	s, cleanup, err := New(cfg, zap.NewNop())
	require.NoError(t, err)
	defer cleanup()

	assert.NotNil(t, s)
}

func TestNewBadStorePath(t *testing.T) {
	cfg := config.Default()
	// A directory path cannot be opened as a database file.
	cfg.Store.Path = t.TempDir()

	_, cleanup, err := New(cfg, zap.NewNop())
	require.Error(t, err)
	assert.NotNil(t, cleanup)
}

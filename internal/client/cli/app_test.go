package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/budgetkeeper/internal/client/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewApp_OpensSessionDatabase(t *testing.T) {
	cfg := &config.Config{
		ServerURL:      "http://127.0.0.1:1",
		SessionDBPath:  filepath.Join(t.TempDir(), "state", "session.db"),
		RequestTimeout: time.Second,
		GatePath:       "/api/travel",
	}

	app, err := NewApp(context.Background(), cfg, strings.NewReader(""), &bytes.Buffer{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	tok, err := app.tokens.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, tok.Empty())
	assert.Len(t, app.Commands(), 11)
}

func TestNewApp_BadPath(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))
	cfg := &config.Config{SessionDBPath: filepath.Join(blocker, "session.db")}

	_, err := NewApp(context.Background(), cfg, strings.NewReader(""), &bytes.Buffer{})
	assert.Error(t, err)
}

func TestClose_WithoutDatabase(t *testing.T) {
	app := newApp(nil, nil, strings.NewReader(""), &bytes.Buffer{})
	assert.NoError(t, app.Close())
}

package httpapi

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/budgetkeeper/internal/cryptox"
	"github.com/dmitrijs2005/budgetkeeper/internal/logging"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/config"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/ledger"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/services"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/stealth"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	server  *Server
	handler http.Handler
	store   *services.SQLStore
	source  *ledger.MemorySource
}

func newTestEnv(t *testing.T, logger logging.Logger) *testEnv {
	t.Helper()

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SecretKey = "test-secret"
	cfg.NotFoundFloor = 0
	cfg.NotFoundJitter = 0
	cfg.Argon2 = cryptox.Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLen: 16, KeyLen: 32}

	m := repomanager.NewSQLiteRepositoryManager()
	db, err := sql.Open(m.SQLDriver(), "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, m.RunMigrations(context.Background(), db))

	if logger == nil {
		logger = logging.NewNopLogger()
	}

	store := services.NewSQLStore(db, m, time.Second, logger)
	hasher := cryptox.NewHasher(cfg.Argon2)
	source := ledger.NewMemorySource()

	srv := NewServer(cfg, logger, Deps{
		Sessions: services.NewSessionService(store, store, hasher, cfg),
		Access:   services.NewAccessService(store, []byte(cfg.SecretKey)),
		Accounts: services.NewAccountService(store, store, hasher, source, logger),
		Ledger:   ledger.NewService(source, cfg.Currency),
		Gate:     stealth.NewGate(cfg.TriggerPhrase, []byte(cfg.SecretKey), cfg.GateTicketValidityDuration),
	})

	return &testEnv{server: srv, handler: srv.Handler(), store: store, source: source}
}

// rawBody is sent as is instead of being JSON encoded.
type rawBody string

type request struct {
	method string
	path   string
	body   any
	token  string
	header map[string]string
}

func (e *testEnv) do(t *testing.T, req request) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if raw, ok := req.body.(rawBody); ok {
		body = strings.NewReader(string(raw))
	} else if req.body != nil {
		b, err := json.Marshal(req.body)
		require.NoError(t, err)
		body = bytes.NewReader(b)
	}
	r := httptest.NewRequest(req.method, req.path, body)
	if req.token != "" {
		r.Header.Set("Authorization", "Bearer "+req.token)
	}
	for k, v := range req.header {
		r.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, r)
	return w
}

func (e *testEnv) register(t *testing.T, username, password string) accountResponse {
	t.Helper()
	w := e.do(t, request{method: http.MethodPost, path: "/api/register", body: registerRequest{
		Username: username, Password: password, ConfirmPassword: password,
	}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var acc accountResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &acc))
	return acc
}

func (e *testEnv) login(t *testing.T, username, password, ticket string) tokenResponse {
	t.Helper()
	req := request{method: http.MethodPost, path: "/api/login", body: credentialsRequest{Username: username, Password: password}}
	if ticket != "" {
		req.header = map[string]string{gateTicketHeader: ticket}
	}
	w := e.do(t, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var tok tokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tok))
	return tok
}

func (e *testEnv) gateTicket(t *testing.T, phrase string) string {
	t.Helper()
	w := e.do(t, request{method: http.MethodPost, path: config.DefaultGatePath, body: gateRequest{Phrase: phrase}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var g gateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &g))
	return g.Ticket
}

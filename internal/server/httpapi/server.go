// Package httpapi is the public HTTP surface. Every protected route goes
// through an access decision first, and every masked outcome is rendered by
// the same not-found responder as a genuinely unknown route.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/budgetkeeper/internal/logging"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/config"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/ledger"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/services"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/stealth"
	"github.com/gorilla/mux"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	address  string
	gatePath string
	logger   logging.Logger
	sessions *services.SessionService
	access   *services.AccessService
	accounts *services.AccountService
	ledger   *ledger.Service
	gate     *stealth.Gate
	notFound *notFoundResponder
}

// Deps are the services the HTTP surface delegates to.
type Deps struct {
	Sessions *services.SessionService
	Access   *services.AccessService
	Accounts *services.AccountService
	Ledger   *ledger.Service
	Gate     *stealth.Gate
}

func NewServer(cfg *config.Config, l logging.Logger, d Deps) *Server {
	gatePath := cfg.GatePath
	if gatePath == "" {
		gatePath = config.DefaultGatePath
	}
	return &Server{
		address:  cfg.EndpointAddrHTTP,
		gatePath: gatePath,
		logger:   l.With("module", "http_server"),
		sessions: d.Sessions,
		access:   d.Access,
		accounts: d.Accounts,
		ledger:   d.Ledger,
		gate:     d.Gate,
		notFound: newNotFoundResponder(cfg.NotFoundFloor, cfg.NotFoundJitter),
	}
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(s.writeNotFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(s.writeNotFound)

	// registered first: the gate path may sit under /api
	r.HandleFunc(s.gatePath, s.handleGate).Methods(http.MethodPost)

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/", s.withPublicSurface(s.handleBanner)).Methods(http.MethodGet)
	api.HandleFunc("/health", s.withPublicSurface(s.handleHealth)).Methods(http.MethodGet)
	api.HandleFunc("/register", s.withPublicSurface(s.handleRegister)).Methods(http.MethodPost)
	api.HandleFunc("/login", s.withLoginSurface(s.handleLogin)).Methods(http.MethodPost)
	api.HandleFunc("/token/refresh", s.handleRefresh).Methods(http.MethodPost)
	api.HandleFunc("/logout", s.withAccess(s.handleLogout)).Methods(http.MethodPost)
	api.HandleFunc("/me", s.withAccess(s.handleMe)).Methods(http.MethodGet)
	api.HandleFunc("/summary", s.withAccess(s.handleSummary)).Methods(http.MethodGet)

	settings := api.PathPrefix("/settings").Subrouter()
	settings.HandleFunc("/travel-mode", s.withStandard(s.handleTravelMode)).Methods(http.MethodPut)
	settings.HandleFunc("/duress", s.withStandard(s.handleSetDuress)).Methods(http.MethodPut)
	settings.HandleFunc("/duress", s.withStandard(s.handleClearDuress)).Methods(http.MethodDelete)
	settings.HandleFunc("/password", s.withStandard(s.handleChangePassword)).Methods(http.MethodPut)

	api.HandleFunc("/account", s.withStandard(s.handleDeleteAccount)).Methods(http.MethodDelete)

	return r
}

// Handler wraps the router in the middleware chain. The chain sits outside
// the router so unmatched routes get the same headers and latency as
// matched ones.
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.routes()
	h = s.withRequestLog(h)
	h = withTracing(h)
	h = withSecurityHeaders(h)
	h = withRequestStart(h)
	h = s.withRecover(h)
	return h
}

func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Package server wires configuration, storage, and handlers into the
// dashboard HTTP service.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rumor-ml/commons.systems/findash/internal/config"
	"github.com/rumor-ml/commons.systems/findash/internal/handlers"
	"github.com/rumor-ml/commons.systems/findash/internal/importer"
	"github.com/rumor-ml/commons.systems/findash/internal/middleware"
	"github.com/rumor-ml/commons.systems/findash/internal/rules"
	"github.com/rumor-ml/commons.systems/findash/internal/statement"
	"github.com/rumor-ml/commons.systems/findash/internal/store"
	"github.com/rumor-ml/commons.systems/findash/internal/validate"
)

// Server represents the dashboard API server
type Server struct {
	cfg   *config.Config
	store *store.Store
	mux   *http.ServeMux
}

// New creates a server: opens the store, loads the working state, builds
// the import pipeline, and registers routes.
func New(ctx context.Context, cfg *config.Config) (*Server, error) {
	st, err := store.Open(cfg.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	ledger, err := st.LoadLedger(ctx)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	categories, err := st.LoadCategories(ctx)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("load categories: %w", err)
	}
	accounts, err := st.LoadAccounts(ctx)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("load accounts: %w", err)
	}

	engine, err := loadRules(cfg.RulesFile)
	if err != nil {
		st.Close()
		return nil, err
	}
	parser, err := statement.NewParser(engine, cfg.DefaultAccount)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("build statement parser: %w", err)
	}
	imp, err := importer.New(parser)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("build importer: %w", err)
	}

	opts := validate.Options{AllowFourDigitYears: cfg.AllowFourDigitYears}

	s := &Server{
		cfg:   cfg,
		store: st,
		mux:   http.NewServeMux(),
	}
	s.setupRoutes(handlers.NewAPIHandler(st, ledger, categories, accounts, imp, opts))

	return s, nil
}

// loadRules picks the configured rules file or falls back to the embedded
// default rule set.
func loadRules(path string) (*rules.Engine, error) {
	if path == "" {
		return rules.LoadEmbedded()
	}
	return rules.LoadFromFile(path)
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(api *handlers.APIHandler) {
	s.mux.HandleFunc("GET /health", handlers.HealthCheck)

	s.mux.HandleFunc("GET /api/transactions", api.GetTransactions)
	s.mux.HandleFunc("POST /api/transactions", api.CreateTransaction)
	s.mux.HandleFunc("PUT /api/transactions/{id}", api.UpdateTransaction)
	s.mux.HandleFunc("DELETE /api/transactions/{id}", api.DeleteTransaction)

	s.mux.HandleFunc("GET /api/dashboard", api.GetDashboard)

	s.mux.HandleFunc("GET /api/accounts", api.GetAccounts)
	s.mux.HandleFunc("PUT /api/accounts", api.PutAccounts)
	s.mux.HandleFunc("GET /api/categories", api.GetCategories)
	s.mux.HandleFunc("PUT /api/categories", api.PutCategories)

	s.mux.HandleFunc("POST /api/statements/import", api.ImportStatement)
	s.mux.HandleFunc("GET /api/statements/imports", api.ListImports)
}

// Handler returns the HTTP handler with middleware applied
func (s *Server) Handler() http.Handler {
	return middleware.CORS(s.cfg.CORSOrigins)(s.mux)
}

// Close closes the server resources
func (s *Server) Close() error {
	return s.store.Close()
}

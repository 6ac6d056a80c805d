package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/rumor-ml/commons.systems/findash/internal/domain"
	"github.com/rumor-ml/commons.systems/findash/internal/importer"
	"github.com/rumor-ml/commons.systems/findash/internal/report"
	"github.com/rumor-ml/commons.systems/findash/internal/validate"
)

// Persister is the storage surface the handlers need, for dependency
// injection in tests.
type Persister interface {
	SaveLedger(ctx context.Context, ledger *domain.Ledger) error
	SaveCategories(ctx context.Context, categories []domain.Category) error
	SaveAccounts(ctx context.Context, accounts []domain.Account) error
	SaveSession(ctx context.Context, session importer.Session) error
	ListSessions(ctx context.Context) ([]importer.Session, error)
}

// APIHandler handles API requests. It owns the in-memory working state and
// serializes every mutation; persistence happens inside the same critical
// section so the stored snapshot never runs ahead of memory.
type APIHandler struct {
	mu           sync.Mutex
	ledger       *domain.Ledger
	categories   []domain.Category
	accounts     []domain.Account
	store        Persister
	importer     *importer.Importer
	validateOpts validate.Options
}

// NewAPIHandler creates a new API handler around loaded state.
func NewAPIHandler(store Persister, ledger *domain.Ledger, categories []domain.Category, accounts []domain.Account, imp *importer.Importer, opts validate.Options) *APIHandler {
	return &APIHandler{
		ledger:       ledger,
		categories:   categories,
		accounts:     accounts,
		store:        store,
		importer:     imp,
		validateOpts: opts,
	}
}

// HealthCheck handles GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// GetTransactions handles GET /api/transactions
func (h *APIHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	transactions := h.ledger.Transactions()
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, transactions)
}

// CreateTransaction handles POST /api/transactions
func (h *APIHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var txn domain.Transaction
	if err := json.NewDecoder(r.Body).Decode(&txn); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if result := validate.Transaction(txn, h.validateOpts); !result.Valid {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": result.Errors})
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	stored := h.ledger.Add(txn)
	if err := h.store.SaveLedger(r.Context(), h.ledger); err != nil {
		log.Printf("ERROR: Failed to persist ledger after create: %v", err)
		http.Error(w, "Failed to save transaction", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, stored)
}

// UpdateTransaction handles PUT /api/transactions/{id}
func (h *APIHandler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invalid transaction id", http.StatusBadRequest)
		return
	}

	var txn domain.Transaction
	if err := json.NewDecoder(r.Body).Decode(&txn); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if result := validate.Transaction(txn, h.validateOpts); !result.Valid {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": result.Errors})
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.ledger.Replace(id, txn); err != nil {
		http.Error(w, "Transaction not found", http.StatusNotFound)
		return
	}
	if err := h.store.SaveLedger(r.Context(), h.ledger); err != nil {
		log.Printf("ERROR: Failed to persist ledger after update: %v", err)
		http.Error(w, "Failed to save transaction", http.StatusInternalServerError)
		return
	}

	updated, _ := h.ledger.Get(id)
	writeJSON(w, http.StatusOK, updated)
}

// DeleteTransaction handles DELETE /api/transactions/{id}
func (h *APIHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invalid transaction id", http.StatusBadRequest)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.ledger.Remove(id); err != nil {
		http.Error(w, "Transaction not found", http.StatusNotFound)
		return
	}
	if err := h.store.SaveLedger(r.Context(), h.ledger); err != nil {
		log.Printf("ERROR: Failed to persist ledger after delete: %v", err)
		http.Error(w, "Failed to delete transaction", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// dashboardResponse bundles every aggregate the dashboard view renders, so
// the frontend loads with a single request.
type dashboardResponse struct {
	Summary            report.Summary          `json:"summary"`
	Totals             report.Totals           `json:"totals"`
	CashFlow           []report.CashFlowPoint  `json:"cashFlow"`
	ExpensesByCategory []report.CategoryTotal  `json:"expensesByCategory"`
	IncomesByCategory  []report.CategoryTotal  `json:"incomesByCategory"`
	MonthlyFlow        []report.MonthPoint     `json:"monthlyFlow"`
	AccountBalances    []report.AccountBalance `json:"accountBalances"`
}

// GetDashboard handles GET /api/dashboard. The optional ?months=N query
// windows the monthly chart; everything else spans the full ledger.
func (h *APIHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	months := 0
	if raw := r.URL.Query().Get("months"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			http.Error(w, "Invalid months parameter", http.StatusBadRequest)
			return
		}
		months = parsed
	}

	h.mu.Lock()
	transactions := h.ledger.Transactions()
	categories := append([]domain.Category(nil), h.categories...)
	accounts := append([]domain.Account(nil), h.accounts...)
	h.mu.Unlock()

	resp := dashboardResponse{
		Summary:            report.Dashboard(transactions),
		Totals:             report.ComputeTotals(transactions),
		CashFlow:           report.CashFlow(transactions),
		ExpensesByCategory: report.CategorySummary(transactions, domain.KindExpense, categories, time.Time{}),
		IncomesByCategory:  report.CategorySummary(transactions, domain.KindIncome, categories, time.Time{}),
		MonthlyFlow:        report.MonthlyFlow(transactions, months, time.Now()),
		AccountBalances:    report.AccountBalances(transactions, accounts),
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetAccounts handles GET /api/accounts
func (h *APIHandler) GetAccounts(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	accounts := append([]domain.Account(nil), h.accounts...)
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, accounts)
}

// PutAccounts handles PUT /api/accounts, replacing the account list.
func (h *APIHandler) PutAccounts(w http.ResponseWriter, r *http.Request) {
	var accounts []domain.Account
	if err := json.NewDecoder(r.Body).Decode(&accounts); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	for _, a := range accounts {
		if _, err := domain.NewAccount(a.ID, a.Name, a.Type, a.Currency, a.OpeningBalance, a.OpeningBalanceDate, a.Polarity); err != nil {
			http.Error(w, "Invalid account: "+err.Error(), http.StatusUnprocessableEntity)
			return
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.store.SaveAccounts(r.Context(), accounts); err != nil {
		log.Printf("ERROR: Failed to persist accounts: %v", err)
		http.Error(w, "Failed to save accounts", http.StatusInternalServerError)
		return
	}
	h.accounts = accounts

	writeJSON(w, http.StatusOK, accounts)
}

// GetCategories handles GET /api/categories
func (h *APIHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	categories := append([]domain.Category(nil), h.categories...)
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, categories)
}

// PutCategories handles PUT /api/categories, replacing the category plan.
func (h *APIHandler) PutCategories(w http.ResponseWriter, r *http.Request) {
	var categories []domain.Category
	if err := json.NewDecoder(r.Body).Decode(&categories); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.store.SaveCategories(r.Context(), categories); err != nil {
		log.Printf("ERROR: Failed to persist categories: %v", err)
		http.Error(w, "Failed to save categories", http.StatusInternalServerError)
		return
	}
	h.categories = categories

	writeJSON(w, http.StatusOK, categories)
}

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("ERROR: Failed to encode response: %v", err)
	}
}

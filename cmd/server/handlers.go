package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"cryvia/internal/coingecko"
	"cryvia/internal/models"
	"cryvia/internal/portfolio"
	"go.uber.org/zap"
)

// APIHandler holds dependencies for the API endpoints.
type APIHandler struct {
	log *zap.Logger
	svc *portfolio.Service
}

// NewAPIHandler creates a new APIHandler.
func NewAPIHandler(log *zap.Logger, svc *portfolio.Service) *APIHandler {
	return &APIHandler{log: log, svc: svc}
}

// LoginHandler finds or creates an account by username.
func (h *APIHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Username string `json:"username"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	account, err := h.svc.FindOrCreateAccount(r.Context(), req.Username)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, account)
}

// PortfolioHandler returns the valued holdings and total for an account.
func (h *APIHandler) PortfolioHandler(w http.ResponseWriter, r *http.Request) {
	accountID := r.URL.Query().Get("account_id")
	if accountID == "" {
		http.Error(w, "account_id is required", http.StatusBadRequest)
		return
	}

	valuation, err := h.svc.Valuate(r.Context(), accountID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, valuation)
}

// TradeHandler executes a buy or sell.
func (h *APIHandler) TradeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		AccountID string  `json:"account_id"`
		Symbol    string  `json:"symbol"`
		Side      string  `json:"side"`
		Quantity  float64 `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	var result *portfolio.TradeResult
	var err error
	switch req.Side {
	case models.SideBuy:
		result, err = h.svc.Buy(r.Context(), req.AccountID, req.Symbol, req.Quantity)
	case models.SideSell:
		result, err = h.svc.Sell(r.Context(), req.AccountID, req.Symbol, req.Quantity)
	default:
		http.Error(w, fmt.Sprintf("side must be %q or %q", models.SideBuy, models.SideSell), http.StatusBadRequest)
		return
	}
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, result)
}

// HistoryHandler returns an account's transactions, newest first.
func (h *APIHandler) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	accountID := r.URL.Query().Get("account_id")
	if accountID == "" {
		http.Error(w, "account_id is required", http.StatusBadRequest)
		return
	}

	transactions, err := h.svc.History(r.Context(), accountID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, transactions)
}

// LeaderboardHandler returns all accounts ranked by total portfolio value.
func (h *APIHandler) LeaderboardHandler(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.Rank(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, entries)
}

// HealthHandler reports liveness.
func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

func (h *APIHandler) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error("Failed to write response", zap.Error(err))
	}
}

// writeError maps the service error taxonomy onto HTTP statuses. Every
// rejection is user-visible; nothing here is retried.
func (h *APIHandler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, portfolio.ErrInvalidQuantity),
		errors.Is(err, portfolio.ErrInvalidUsername),
		errors.Is(err, portfolio.ErrInsufficientFunds),
		errors.Is(err, portfolio.ErrInsufficientAsset),
		errors.Is(err, portfolio.ErrPriceUnavailable):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, portfolio.ErrAccountNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, coingecko.ErrOracleUnavailable):
		http.Error(w, err.Error(), http.StatusBadGateway)
	default:
		h.log.Error("Request failed", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

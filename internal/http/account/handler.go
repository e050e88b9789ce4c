package account

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ebartels/banksync/internal/bank"
)

// Store is the read side the handler serves from.
type Store interface {
	ListAccounts(ctx context.Context) ([]bank.Account, error)
	GetBalanceHistory(ctx context.Context, year int, accountID uuid.UUID) (*bank.BalanceHistory, error)
}

type Handler struct {
	store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{id}/history", h.history)
}

type accountResponse struct {
	ID          uuid.UUID        `json:"id"`
	Institution string           `json:"institution"`
	Label       string           `json:"label"`
	Type        bank.AccountType `json:"type"`
	Balance     float64          `json:"balance"`
	Number      string           `json:"number"`
	VendorID    string           `json:"vendor_id"`
	Currency    string           `json:"currency"`
}

func toResponse(acct bank.Account) accountResponse {
	return accountResponse{
		ID:          acct.ID,
		Institution: acct.InstitutionLabel,
		Label:       acct.Label,
		Type:        acct.Type,
		Balance:     acct.Balance,
		Number:      acct.Number,
		VendorID:    acct.VendorID,
		Currency:    acct.Currency,
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.store.ListAccounts(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := make([]accountResponse, 0, len(accounts))
	for _, acct := range accounts {
		resp = append(resp, toResponse(acct))
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type historyResponse struct {
	Year      int                `json:"year"`
	AccountID uuid.UUID          `json:"account_id"`
	Balances  map[string]float64 `json:"balances"`
}

func (h *Handler) history(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid account id", http.StatusBadRequest)
		return
	}

	year := time.Now().UTC().Year()

	if s := r.URL.Query().Get("year"); s != "" {
		year, err = strconv.Atoi(s)
		if err != nil {
			http.Error(w, "invalid year", http.StatusBadRequest)
			return
		}
	}

	doc, err := h.store.GetBalanceHistory(r.Context(), year, id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if doc == nil {
		http.Error(w, "no history for this year", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(historyResponse{
		Year:      doc.Year,
		AccountID: doc.AccountID,
		Balances:  doc.Balances,
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

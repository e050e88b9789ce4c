package syncrun

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/go-chi/chi/v5"

	"github.com/ebartels/banksync/internal/pipeline"
)

// Runner runs one full sync against the upstream source.
type Runner interface {
	Run(ctx context.Context) (*pipeline.Result, error)
}

type Handler struct {
	runner  Runner
	running atomic.Bool
}

func NewHandler(runner Runner) *Handler {
	return &Handler{runner: runner}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.trigger)
}

type syncResponse struct {
	Accounts     int `json:"accounts"`
	Transactions int `json:"transactions"`
	Histories    int `json:"histories"`
}

// trigger runs the pipeline synchronously. Only one run at a time: the
// pipeline is idempotent but there is no point in racing two runs against
// the same upstream session.
func (h *Handler) trigger(w http.ResponseWriter, r *http.Request) {
	if !h.running.CompareAndSwap(false, true) {
		http.Error(w, "a sync is already running", http.StatusConflict)
		return
	}
	defer h.running.Store(false)

	result, err := h.runner.Run(r.Context())
	if err != nil {
		slog.Error("sync run failed", "error", err)
		http.Error(w, err.Error(), http.StatusBadGateway)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(syncResponse{
		Accounts:     result.Accounts,
		Transactions: result.Transactions,
		Histories:    result.Histories,
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

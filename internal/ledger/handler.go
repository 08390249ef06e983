package ledger

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/madhav-mp2006/crewx-official/internal/middleware"
	"github.com/madhav-mp2006/crewx-official/internal/models"
	"github.com/madhav-mp2006/crewx-official/internal/repository"
	"github.com/madhav-mp2006/crewx-official/internal/services"
)

type RequestPayoutRequest struct {
	AmountCents int64 `json:"amount_cents"`
}

type PayoutResponse struct {
	ID          string `json:"id"`
	WorkerID    string `json:"worker_id"`
	AmountCents int64  `json:"amount_cents"`
	Status      string `json:"status"`
}

type Handler struct {
	svc        Service
	validator  *services.Validator
	payoutRepo *repository.PayoutRepo
	ledgerRepo *repository.LedgerRepo
	log        *slog.Logger
}

func NewHandler(svc Service, validator *services.Validator, payoutRepo *repository.PayoutRepo, ledgerRepo *repository.LedgerRepo, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{svc: svc, validator: validator, payoutRepo: payoutRepo, ledgerRepo: ledgerRepo, log: log}
}

// RequestPayout opens a PENDING payout for the authenticated worker. The
// body is schema-validated before decoding.
func (h *Handler) RequestPayout(w http.ResponseWriter, r *http.Request) {
	acc := middleware.AccountFromCtx(r.Context())
	if acc == nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}
	if h.validator != nil {
		if err := h.validator.Validate(services.SchemaPayoutRequest, body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	// The amount middleware already parsed the body when mounted.
	amount := middleware.AmountFromCtx(r.Context())
	if amount == 0 {
		var req RequestPayoutRequest
		if err := json.Unmarshal(body, &req); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		amount = req.AmountCents
	}
	p, err := h.svc.RequestPayout(r.Context(), acc.ID, amount)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidAmount):
			http.Error(w, "amount must be positive", http.StatusBadRequest)
		case errors.Is(err, ErrInsufficientFunds):
			http.Error(w, "insufficient balance", http.StatusUnprocessableEntity)
		default:
			h.log.Error("request payout failed", "error", err)
			http.Error(w, "payout request failed", http.StatusInternalServerError)
		}
		return
	}
	writeJSON(w, http.StatusCreated, payoutToResponse(p))
}

// ListMyPayouts returns the authenticated worker's payout history.
func (h *Handler) ListMyPayouts(w http.ResponseWriter, r *http.Request) {
	acc := middleware.AccountFromCtx(r.Context())
	if acc == nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	list, err := h.payoutRepo.ListByWorker(r.Context(), acc.ID)
	if err != nil {
		h.log.Error("list payouts failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	resp := make([]PayoutResponse, 0, len(list))
	for _, p := range list {
		resp = append(resp, payoutToResponse(p))
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListMyBalanceEntries returns the worker's audit trail of balance changes.
func (h *Handler) ListMyBalanceEntries(w http.ResponseWriter, r *http.Request) {
	acc := middleware.AccountFromCtx(r.Context())
	if acc == nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	entries, err := h.ledgerRepo.ListByAccount(r.Context(), acc.ID)
	if err != nil {
		h.log.Error("list balance entries failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []*models.BalanceEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// ListPendingPayouts is the admin queue of unresolved requests.
func (h *Handler) ListPendingPayouts(w http.ResponseWriter, r *http.Request) {
	list, err := h.payoutRepo.ListByStatus(r.Context(), models.PayoutStatusPending)
	if err != nil {
		h.log.Error("list pending payouts failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	resp := make([]PayoutResponse, 0, len(list))
	for _, p := range list {
		resp = append(resp, payoutToResponse(p))
	}
	writeJSON(w, http.StatusOK, resp)
}

// ResolvePayout approves or rejects a pending request (admin only).
// PATCH /api/v1/admin/payouts/{id} with {"approve": true|false}.
func (h *Handler) ResolvePayout(w http.ResponseWriter, r *http.Request) {
	payoutID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid payout id", http.StatusBadRequest)
		return
	}
	var body struct {
		Approve bool `json:"approve"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := h.svc.ResolvePayout(r.Context(), payoutID, body.Approve); err != nil {
		if errors.Is(err, ErrNotPending) {
			http.Error(w, "payout request is not pending", http.StatusConflict)
			return
		}
		h.log.Error("resolve payout failed", "error", err)
		http.Error(w, "resolve failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func payoutToResponse(p *models.PayoutRequest) PayoutResponse {
	return PayoutResponse{
		ID:          p.ID.String(),
		WorkerID:    p.WorkerID.String(),
		AmountCents: p.AmountCents,
		Status:      p.Status,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

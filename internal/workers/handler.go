package workers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/madhav-mp2006/crewx-official/internal/ledger"
	"github.com/madhav-mp2006/crewx-official/internal/middleware"
	"github.com/madhav-mp2006/crewx-official/internal/models"
)

type ProfileResponse struct {
	ID              string  `json:"id"`
	Email           string  `json:"email"`
	DisplayName     string  `json:"display_name"`
	Role            string  `json:"role"`
	BalanceCents    int64   `json:"balance_cents"`
	PaymentQR       *string `json:"payment_qr,omitempty"`
	Age             *int    `json:"age,omitempty"`
	ExperienceYears *int    `json:"experience_years,omitempty"`
}

type Handler struct {
	svc       Service
	ledgerSvc ledger.Service
	log       *slog.Logger
}

func NewHandler(svc Service, ledgerSvc ledger.Service, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{svc: svc, ledgerSvc: ledgerSvc, log: log}
}

// GetMe returns the authenticated account's profile.
func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	acc := middleware.AccountFromCtx(r.Context())
	if acc == nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	profile, err := h.svc.GetProfile(r.Context(), acc.ID)
	if err != nil {
		h.log.Error("get profile failed", "error", err)
		http.Error(w, "account not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, profileToResponse(profile))
}

// UpdateMe applies self-service profile edits.
func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	acc := middleware.AccountFromCtx(r.Context())
	if acc == nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	var body struct {
		DisplayName     *string `json:"display_name"`
		Age             *int    `json:"age"`
		ExperienceYears *int    `json:"experience_years"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	updated, err := h.svc.UpdateProfile(r.Context(), acc.ID, ProfileUpdate{
		DisplayName:     body.DisplayName,
		Age:             body.Age,
		ExperienceYears: body.ExperienceYears,
	})
	if err != nil {
		h.log.Error("update profile failed", "error", err)
		http.Error(w, "update failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, profileToResponse(updated))
}

// UploadPaymentQR stores the worker's payment-QR image if the external
// classifier confirms it. Rejection is final for this attempt.
func (h *Handler) UploadPaymentQR(w http.ResponseWriter, r *http.Request) {
	acc := middleware.AccountFromCtx(r.Context())
	if acc == nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	var body struct {
		ImageBase64 string `json:"image_base64"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if body.ImageBase64 == "" {
		http.Error(w, "image_base64 is required", http.StatusBadRequest)
		return
	}
	if err := h.svc.SetPaymentQR(r.Context(), acc.ID, body.ImageBase64); err != nil {
		if errors.Is(err, ErrImageRejected) {
			http.Error(w, "image was not recognized as a payment QR code, try again", http.StatusUnprocessableEntity)
			return
		}
		h.log.Error("payment qr upload failed", "error", err)
		http.Error(w, "upload failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListWorkers returns all worker accounts (admin only).
func (h *Handler) ListWorkers(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListWorkers(r.Context())
	if err != nil {
		h.log.Error("list workers failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	resp := make([]ProfileResponse, 0, len(list))
	for _, a := range list {
		resp = append(resp, profileToResponse(a))
	}
	writeJSON(w, http.StatusOK, resp)
}

// DeleteWorker removes a worker account and everything attached to it
// (admin only).
func (h *Handler) DeleteWorker(w http.ResponseWriter, r *http.Request) {
	workerID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid worker id", http.StatusBadRequest)
		return
	}
	if err := h.svc.DeleteWorker(r.Context(), workerID); err != nil {
		h.log.Error("delete worker failed", "error", err)
		http.Error(w, "delete failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// RecordPayment credits a worker's balance for an off-platform payment
// (admin only). An optional job_id marks that enrollment paid.
func (h *Handler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	workerID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid worker id", http.StatusBadRequest)
		return
	}
	var body struct {
		AmountCents int64   `json:"amount_cents"`
		JobID       *string `json:"job_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	// The amount middleware already parsed the body when mounted.
	if a := middleware.AmountFromCtx(r.Context()); a > 0 {
		body.AmountCents = a
	}
	var jobID *uuid.UUID
	if body.JobID != nil {
		id, err := uuid.Parse(*body.JobID)
		if err != nil {
			http.Error(w, "invalid job id", http.StatusBadRequest)
			return
		}
		jobID = &id
	}
	if err := h.ledgerSvc.RecordManualPayment(r.Context(), workerID, body.AmountCents, jobID); err != nil {
		if errors.Is(err, ledger.ErrInvalidAmount) {
			http.Error(w, "amount must be positive", http.StatusBadRequest)
			return
		}
		h.log.Error("record payment failed", "error", err)
		http.Error(w, "record payment failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func profileToResponse(a *models.Account) ProfileResponse {
	return ProfileResponse{
		ID:              a.ID.String(),
		Email:           a.Email,
		DisplayName:     a.DisplayName,
		Role:            a.Role,
		BalanceCents:    a.BalanceCents,
		PaymentQR:       a.PaymentQR,
		Age:             a.Age,
		ExperienceYears: a.ExperienceYears,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

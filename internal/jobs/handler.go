package jobs

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/madhav-mp2006/crewx-official/internal/middleware"
	"github.com/madhav-mp2006/crewx-official/internal/models"
	"github.com/madhav-mp2006/crewx-official/internal/services"
)

// Request/response structs use snake_case JSON.

type CreateJobRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	EventDate   string `json:"event_date"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	PayCents    int64  `json:"pay_cents"`
	Capacity    int    `json:"capacity"`
}

type JobResponse struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Location      string `json:"location"`
	EventDate     string `json:"event_date"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	PayCents      int64  `json:"pay_cents"`
	Capacity      int    `json:"capacity"`
	EnrolledCount int    `json:"enrolled_count"`
	Status        string `json:"status"`
}

type Handler struct {
	svc       Service
	validator *services.Validator
	log       *slog.Logger
}

func NewHandler(svc Service, validator *services.Validator, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{svc: svc, validator: validator, log: log}
}

// CreateJob posts a new listing (admin only; the router applies the role
// guard). The body is schema-validated before decoding.
func (h *Handler) CreateJob(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}
	if h.validator != nil {
		if err := h.validator.Validate(services.SchemaJobCreate, body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	var req CreateJobRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	eventDate, err := time.Parse("2006-01-02", req.EventDate)
	if err != nil {
		http.Error(w, "event_date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	j := &models.Job{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		EventDate:   eventDate,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		PayCents:    req.PayCents,
		Capacity:    req.Capacity,
	}
	if err := h.svc.CreateJob(r.Context(), j); err != nil {
		h.log.Error("create job failed", "error", err)
		http.Error(w, "create job failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, jobToResponse(j))
}

// ListJobs returns all jobs, or only open ones with ?status=OPEN.
func (h *Handler) ListJobs(w http.ResponseWriter, r *http.Request) {
	var (
		list []*models.Job
		err  error
	)
	if r.URL.Query().Get("status") == models.JobStatusOpen {
		list, err = h.svc.ListOpenJobs(r.Context())
	} else {
		list, err = h.svc.ListJobs(r.Context())
	}
	if err != nil {
		h.log.Error("list jobs failed", "error", err)
		http.Error(w, "list jobs failed", http.StatusInternalServerError)
		return
	}
	resp := make([]JobResponse, 0, len(list))
	for _, j := range list {
		resp = append(resp, jobToResponse(j))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetJob(w http.ResponseWriter, r *http.Request) {
	jobID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid job id", http.StatusBadRequest)
		return
	}
	j, err := h.svc.GetJob(r.Context(), jobID)
	if err != nil {
		http.Error(w, "job not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, jobToResponse(j))
}

// UpdateJob edits listing fields (admin only). Status changes go through
// SetStatus.
func (h *Handler) UpdateJob(w http.ResponseWriter, r *http.Request) {
	jobID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid job id", http.StatusBadRequest)
		return
	}
	j, err := h.svc.GetJob(r.Context(), jobID)
	if err != nil {
		http.Error(w, "job not found", http.StatusNotFound)
		return
	}
	var req CreateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if req.Title != "" {
		j.Title = req.Title
	}
	if req.Description != "" {
		j.Description = req.Description
	}
	if req.Location != "" {
		j.Location = req.Location
	}
	if req.EventDate != "" {
		eventDate, err := time.Parse("2006-01-02", req.EventDate)
		if err != nil {
			http.Error(w, "event_date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		j.EventDate = eventDate
	}
	if req.StartTime != "" {
		j.StartTime = req.StartTime
	}
	if req.EndTime != "" {
		j.EndTime = req.EndTime
	}
	if req.PayCents > 0 {
		j.PayCents = req.PayCents
	}
	if req.Capacity > 0 {
		if req.Capacity < j.EnrolledCount {
			http.Error(w, "capacity cannot be lower than the enrolled count", http.StatusConflict)
			return
		}
		j.Capacity = req.Capacity
	}
	if err := h.svc.UpdateJob(r.Context(), j); err != nil {
		h.log.Error("update job failed", "error", err)
		http.Error(w, "update failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, jobToResponse(j))
}

// SetStatus is the admin's manual status toggle.
func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	jobID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid job id", http.StatusBadRequest)
		return
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	switch body.Status {
	case models.JobStatusOpen, models.JobStatusClosed, models.JobStatusCompleted:
	default:
		http.Error(w, "invalid status", http.StatusBadRequest)
		return
	}
	if err := h.svc.SetJobStatus(r.Context(), jobID, body.Status); err != nil {
		h.log.Error("set job status failed", "error", err)
		http.Error(w, "status change failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// DeleteJob removes the listing and cascades its enrollments.
func (h *Handler) DeleteJob(w http.ResponseWriter, r *http.Request) {
	jobID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid job id", http.StatusBadRequest)
		return
	}
	if err := h.svc.DeleteJob(r.Context(), jobID); err != nil {
		h.log.Error("delete job failed", "error", err)
		http.Error(w, "delete failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Enroll registers the authenticated worker for the job.
func (h *Handler) Enroll(w http.ResponseWriter, r *http.Request) {
	acc := middleware.AccountFromCtx(r.Context())
	if acc == nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	jobID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid job id", http.StatusBadRequest)
		return
	}
	if err := h.svc.Enroll(r.Context(), acc.ID, jobID); err != nil {
		switch {
		case errors.Is(err, ErrJobNotFound):
			http.Error(w, "job not found", http.StatusNotFound)
		case errors.Is(err, ErrAlreadyEnrolled):
			http.Error(w, "already enrolled", http.StatusConflict)
		case errors.Is(err, ErrJobFull):
			http.Error(w, "job is at capacity", http.StatusConflict)
		case errors.Is(err, ErrJobNotOpen):
			http.Error(w, "job is not open", http.StatusConflict)
		default:
			h.log.Error("enroll failed", "error", err, "job_id", jobID, "worker_id", acc.ID)
			http.Error(w, "enroll failed", http.StatusInternalServerError)
		}
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "enrolled"})
}

// CancelEnrollment is idempotent: cancelling a non-existent enrollment
// succeeds without touching the count.
func (h *Handler) CancelEnrollment(w http.ResponseWriter, r *http.Request) {
	acc := middleware.AccountFromCtx(r.Context())
	if acc == nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	jobID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid job id", http.StatusBadRequest)
		return
	}
	if err := h.svc.Cancel(r.Context(), acc.ID, jobID); err != nil {
		h.log.Error("cancel enrollment failed", "error", err, "job_id", jobID, "worker_id", acc.ID)
		http.Error(w, "cancel failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

// ListEnrollments returns the job's roster (admin only).
func (h *Handler) ListEnrollments(w http.ResponseWriter, r *http.Request) {
	jobID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid job id", http.StatusBadRequest)
		return
	}
	list, err := h.svc.ListEnrollmentsByJob(r.Context(), jobID)
	if err != nil {
		h.log.Error("list enrollments failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []*models.Enrollment{}
	}
	writeJSON(w, http.StatusOK, list)
}

// ListMyEnrollments returns the authenticated worker's enrollments.
func (h *Handler) ListMyEnrollments(w http.ResponseWriter, r *http.Request) {
	acc := middleware.AccountFromCtx(r.Context())
	if acc == nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	list, err := h.svc.ListEnrollmentsByWorker(r.Context(), acc.ID)
	if err != nil {
		h.log.Error("list my enrollments failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []*models.Enrollment{}
	}
	writeJSON(w, http.StatusOK, list)
}

func jobToResponse(j *models.Job) JobResponse {
	return JobResponse{
		ID:            j.ID.String(),
		Title:         j.Title,
		Description:   j.Description,
		Location:      j.Location,
		EventDate:     j.EventDate.Format("2006-01-02"),
		StartTime:     j.StartTime,
		EndTime:       j.EndTime,
		PayCents:      j.PayCents,
		Capacity:      j.Capacity,
		EnrolledCount: j.EnrolledCount,
		Status:        j.Status,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

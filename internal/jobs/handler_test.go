package jobs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/madhav-mp2006/crewx-official/internal/middleware"
	"github.com/madhav-mp2006/crewx-official/internal/models"
)

type stubService struct {
	job       *models.Job
	enrollErr error
	updated   *models.Job
}

func (s *stubService) CreateJob(context.Context, *models.Job) error { return nil }

func (s *stubService) GetJob(_ context.Context, jobID uuid.UUID) (*models.Job, error) {
	if s.job == nil || s.job.ID != jobID {
		return nil, ErrJobNotFound
	}
	cp := *s.job
	return &cp, nil
}

func (s *stubService) ListJobs(context.Context) ([]*models.Job, error)     { return nil, nil }
func (s *stubService) ListOpenJobs(context.Context) ([]*models.Job, error) { return nil, nil }

func (s *stubService) UpdateJob(_ context.Context, j *models.Job) error {
	s.updated = j
	return nil
}

func (s *stubService) SetJobStatus(context.Context, uuid.UUID, string) error { return nil }
func (s *stubService) DeleteJob(context.Context, uuid.UUID) error            { return nil }

func (s *stubService) Enroll(context.Context, uuid.UUID, uuid.UUID) error { return s.enrollErr }
func (s *stubService) Cancel(context.Context, uuid.UUID, uuid.UUID) error { return nil }
func (s *stubService) ListEnrollmentsByJob(context.Context, uuid.UUID) ([]*models.Enrollment, error) {
	return nil, nil
}
func (s *stubService) ListEnrollmentsByWorker(context.Context, uuid.UUID) ([]*models.Enrollment, error) {
	return nil, nil
}

func enrollRequest(jobID string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs/"+jobID+"/enroll", nil)
	acc := &models.Account{ID: uuid.New(), Role: models.RoleWorker}
	return req.WithContext(middleware.WithAccount(req.Context(), acc))
}

func TestEnrollHandler_StatusCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"unknown job", ErrJobNotFound, http.StatusNotFound},
		{"duplicate", ErrAlreadyEnrolled, http.StatusConflict},
		{"full", ErrJobFull, http.StatusConflict},
		{"closed", ErrJobNotOpen, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&stubService{enrollErr: tt.err}, nil, nil)
			mux := http.NewServeMux()
			mux.HandleFunc("POST /api/v1/jobs/{id}/enroll", h.Enroll)

			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, enrollRequest(uuid.NewString()))
			if rec.Code != tt.want {
				t.Errorf("status: got %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestUpdateJobHandler_CapacityBelowEnrolled(t *testing.T) {
	job := openJob(5)
	job.EnrolledCount = 3
	svc := &stubService{job: job}
	h := NewHandler(svc, nil, nil)

	mux := http.NewServeMux()
	mux.HandleFunc("PUT /api/v1/jobs/{id}", h.UpdateJob)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/jobs/"+job.ID.String(), strings.NewReader(`{"capacity": 2}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status: got %d, want 409, body %s", rec.Code, rec.Body)
	}
	if svc.updated != nil {
		t.Error("job must not be updated when the capacity check fails")
	}
}

func TestUpdateJobHandler_CapacityAtEnrolled(t *testing.T) {
	job := openJob(5)
	job.EnrolledCount = 3
	svc := &stubService{job: job}
	h := NewHandler(svc, nil, nil)

	mux := http.NewServeMux()
	mux.HandleFunc("PUT /api/v1/jobs/{id}", h.UpdateJob)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/jobs/"+job.ID.String(), strings.NewReader(`{"capacity": 3}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200, body %s", rec.Code, rec.Body)
	}
	if svc.updated == nil || svc.updated.Capacity != 3 {
		t.Error("shrinking capacity down to the enrolled count should succeed")
	}
}

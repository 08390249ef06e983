package router

import (
	"net/http"

	"github.com/madhav-mp2006/crewx-official/internal/auth"
	"github.com/madhav-mp2006/crewx-official/internal/jobs"
	"github.com/madhav-mp2006/crewx-official/internal/ledger"
	"github.com/madhav-mp2006/crewx-official/internal/middleware"
	"github.com/madhav-mp2006/crewx-official/internal/models"
	"github.com/madhav-mp2006/crewx-official/internal/notify"
	"github.com/madhav-mp2006/crewx-official/internal/workers"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Auth    *auth.Handler
	Jobs    *jobs.Handler
	Ledger  *ledger.Handler
	Workers *workers.Handler
	Notify  *notify.Handler
}

// New returns an http.Handler serving the API under /api/v1.
// sessionAuth must be the middleware.SessionAuth chain.
func New(h Handlers, sessionAuth func(http.Handler) http.Handler) http.Handler {
	mux := http.NewServeMux()
	const base = "/api/v1"

	admin := middleware.RequireRole(models.RoleAdmin)
	worker := middleware.RequireRole(models.RoleWorker)
	amount := middleware.AmountCheck()

	handle := func(pattern string, fn http.HandlerFunc, wrap ...func(http.Handler) http.Handler) {
		var handler http.Handler = fn
		for i := len(wrap) - 1; i >= 0; i-- {
			handler = wrap[i](handler)
		}
		mux.Handle(pattern, handler)
	}

	// Auth: register/login are public; logout needs a token to revoke.
	handle("POST "+base+"/auth/register", h.Auth.Register)
	handle("POST "+base+"/auth/login", h.Auth.Login)
	handle("POST "+base+"/auth/admin/login", h.Auth.AdminLogin)
	handle("POST "+base+"/auth/external", h.Auth.ExternalSignIn)
	handle("POST "+base+"/auth/logout", h.Auth.Logout)

	// Jobs.
	handle("GET "+base+"/jobs", h.Jobs.ListJobs, sessionAuth)
	handle("POST "+base+"/jobs", h.Jobs.CreateJob, sessionAuth, admin)
	handle("GET "+base+"/jobs/{id}", h.Jobs.GetJob, sessionAuth)
	handle("PUT "+base+"/jobs/{id}", h.Jobs.UpdateJob, sessionAuth, admin)
	handle("PATCH "+base+"/jobs/{id}/status", h.Jobs.SetStatus, sessionAuth, admin)
	handle("DELETE "+base+"/jobs/{id}", h.Jobs.DeleteJob, sessionAuth, admin)
	handle("GET "+base+"/jobs/{id}/enrollments", h.Jobs.ListEnrollments, sessionAuth, admin)

	// Enrollment bookkeeping.
	handle("POST "+base+"/jobs/{id}/enroll", h.Jobs.Enroll, sessionAuth, worker)
	handle("DELETE "+base+"/jobs/{id}/enroll", h.Jobs.CancelEnrollment, sessionAuth, worker)

	// Self-service profile.
	handle("GET "+base+"/me", h.Workers.GetMe, sessionAuth)
	handle("PATCH "+base+"/me", h.Workers.UpdateMe, sessionAuth)
	handle("POST "+base+"/me/payment-qr", h.Workers.UploadPaymentQR, sessionAuth, worker)
	handle("GET "+base+"/me/enrollments", h.Jobs.ListMyEnrollments, sessionAuth, worker)
	handle("GET "+base+"/me/payouts", h.Ledger.ListMyPayouts, sessionAuth, worker)
	handle("GET "+base+"/me/balance-entries", h.Ledger.ListMyBalanceEntries, sessionAuth, worker)
	handle("GET "+base+"/me/notifications", h.Notify.List, sessionAuth)
	handle("PATCH "+base+"/me/notifications/{id}", h.Notify.MarkRead, sessionAuth)
	handle("DELETE "+base+"/me/notifications/{id}", h.Notify.Delete, sessionAuth)

	// Payout bookkeeping.
	handle("POST "+base+"/payouts", h.Ledger.RequestPayout, sessionAuth, worker, amount)

	// Admin surface.
	handle("GET "+base+"/admin/workers", h.Workers.ListWorkers, sessionAuth, admin)
	handle("DELETE "+base+"/admin/workers/{id}", h.Workers.DeleteWorker, sessionAuth, admin)
	handle("POST "+base+"/admin/workers/{id}/payments", h.Workers.RecordPayment, sessionAuth, admin, amount)
	handle("GET "+base+"/admin/payouts", h.Ledger.ListPendingPayouts, sessionAuth, admin)
	handle("PATCH "+base+"/admin/payouts/{id}", h.Ledger.ResolvePayout, sessionAuth, admin)

	return mux
}

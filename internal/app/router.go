package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/carrierdesk/carrierdesk/internal/assignments"
	"github.com/carrierdesk/carrierdesk/internal/auth"
	"github.com/carrierdesk/carrierdesk/internal/customers"
	"github.com/carrierdesk/carrierdesk/internal/driverpay"
	"github.com/carrierdesk/carrierdesk/internal/drivers"
	"github.com/carrierdesk/carrierdesk/internal/expenses"
	"github.com/carrierdesk/carrierdesk/internal/invoices"
	"github.com/carrierdesk/carrierdesk/internal/loads"
	"github.com/carrierdesk/carrierdesk/internal/stats"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger *slog.Logger
	Config *Config

	Auth *auth.Middleware

	CustomersHandler   *customers.Handler
	LoadsHandler       *loads.Handler
	DriversHandler     *drivers.Handler
	AssignmentsHandler *assignments.Handler
	InvoicesHandler    *invoices.Handler
	DriverPayHandler   *driverpay.Handler
	ExpensesHandler    *expenses.Handler
	StatsHandler       *stats.Handler
}

// NewRouter constructs the chi.Router with CarrierDesk defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(params.Auth.RequireCarrier)

		r.Route("/customers", params.CustomersHandler.MountRoutes)
		r.Route("/loads", params.LoadsHandler.MountRoutes)
		r.Route("/drivers", params.DriversHandler.MountRoutes)
		r.Route("/assignments", params.AssignmentsHandler.MountRoutes)
		r.Route("/invoices", params.InvoicesHandler.MountRoutes)
		r.Route("/driverinvoices", params.DriverPayHandler.MountRoutes)
		r.Route("/expenses", params.ExpensesHandler.MountRoutes)
		r.Route("/stats", params.StatsHandler.MountRoutes)
	})

	return r
}

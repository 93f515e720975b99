package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/storetrack/storetrack/internal/masterdata"
	"github.com/storetrack/storetrack/internal/platform/httpx"
	"github.com/storetrack/storetrack/internal/removal"
	"github.com/storetrack/storetrack/internal/reports"
	"github.com/storetrack/storetrack/internal/transactions"
	"github.com/storetrack/storetrack/jobs"
)

// RouterParams carries everything NewRouter needs to assemble the HTTP surface.
type RouterParams struct {
	Logger *slog.Logger
	Config *Config

	Masterdata   masterdata.Handlers
	Transactions *transactions.Handler
	Removal      *removal.Handler
	Reports      *reports.Handler
	Jobs         *jobs.Handler
}

// NewRouter wires the middleware stack and every module's routes.
func NewRouter(p RouterParams) chi.Router {
	r := chi.NewRouter()
	for _, mw := range MiddlewareStack(MiddlewareConfig{Logger: p.Logger, Config: p.Config}) {
		r.Use(mw)
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	p.Masterdata.MountRoutes(r)

	r.Route("/product-in-transactions", p.Transactions.MountInboundRoutes)
	r.Route("/transactions", p.Transactions.MountPendingRoutes)
	r.Route("/product-out-transactions", p.Transactions.MountOutboundRoutes)

	p.Removal.MountRoutes(r)
	p.Reports.MountRoutes(r)

	if p.Jobs != nil {
		r.Route("/jobs", p.Jobs.MountRoutes)
	}

	return r
}

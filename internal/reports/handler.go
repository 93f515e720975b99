package reports

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/storetrack/storetrack/internal/platform/httpx"
	"github.com/storetrack/storetrack/internal/shared"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers the reporting surface on the root router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/reports/export", h.export)
	r.Get("/reports/{type}", h.report)
	r.Get("/dashboard", h.dashboard)
	r.Get("/inventory", h.inventory)
}

func (h *Handler) report(w http.ResponseWriter, r *http.Request) {
	reportType := chi.URLParam(r, "type")
	switch reportType {
	case TypeSales:
		report, err := h.service.SalesReport(r.Context(), r.URL.Query().Get("start_date"), r.URL.Query().Get("end_date"))
		if err != nil {
			h.respondErr(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, report)
	case TypeDaily:
		report, err := h.service.DailyReport(r.Context())
		if err != nil {
			h.respondErr(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, report)
	default:
		rows, err := h.service.TransactionReport(r.Context(), reportType)
		if err != nil {
			h.respondErr(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]any{"report_type": reportType, "rows": rows})
	}
}

func (h *Handler) export(w http.ResponseWriter, r *http.Request) {
	in, out, err := h.service.ExportRows(r.Context())
	if err != nil {
		h.respondErr(w, err)
		return
	}
	workbook, err := Workbook(in, out)
	if err != nil {
		h.respondErr(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="stock-report.xlsx"`)
	if err := workbook.Write(w); err != nil {
		h.logger.Error("workbook write failed", "error", err)
	}
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.service.Dashboard(r.Context())
	if err != nil {
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, dashboard)
}

func (h *Handler) inventory(w http.ResponseWriter, r *http.Request) {
	exceeded := r.URL.Query().Get("exceeded_delivery") == "true"
	rows, err := h.service.Inventory(r.Context(), exceeded)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"inventory": rows, "exceeded_delivery": exceeded})
}

func (h *Handler) respondErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUnknownReportType), errors.Is(err, shared.ErrInvalidArgument):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	default:
		h.logger.Error("report request failed", "error", err)
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

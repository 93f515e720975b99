package removal

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/storetrack/storetrack/internal/platform/httpx"
	"github.com/storetrack/storetrack/internal/shared"
	"github.com/storetrack/storetrack/internal/stock"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers the removal surface on the root router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/remove-expired-product", h.removeFor(ReasonExpired))
	r.Post("/remove-defective-product", h.removeFor(ReasonDefective))
	r.Get("/tracked-expired-products", h.trackedFor(ReasonExpired))
	r.Get("/tracked-defective-products", h.trackedFor(ReasonDefective))
	r.Get("/expired-products", h.expiredInStock)
}

func (h *Handler) removeFor(reason Reason) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input Input
		if err := httpx.DecodeJSON(r, &input); err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
			return
		}
		result, err := h.service.Remove(r.Context(), reason, input)
		if err != nil {
			h.respondErr(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, result)
	}
}

func (h *Handler) trackedFor(reason Reason) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := h.service.ListTracked(r.Context(), reason)
		if err != nil {
			h.respondErr(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]any{"records": records})
	}
}

func (h *Handler) expiredInStock(w http.ResponseWriter, r *http.Request) {
	lots, err := h.service.ListExpiredInStock(r.Context())
	if err != nil {
		h.logger.Error("list expired lots failed", "error", err)
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"expired_products": lots})
}

func (h *Handler) respondErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidQuantity), errors.Is(err, ErrInvalidReason), errors.Is(err, shared.ErrInvalidArgument):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, ErrProductNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, stock.ErrLedgerNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrInsufficientStock):
		httpx.Problem(w, http.StatusConflict, "Insufficient Stock", err.Error())
	default:
		h.logger.Error("removal request failed", "error", err)
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

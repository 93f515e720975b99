package transactions

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

// MountInboundRoutes serves the supplier delivery surface.
func (h *Handler) MountInboundRoutes(r chi.Router) {
	r.Get("/", h.listInbound)
	r.Post("/", h.createInbound)
	r.Delete("/{invoice}", h.deleteInbound)
	r.Patch("/update-delivery/{invoice}", h.markDelivered)
}

// MountPendingRoutes serves the pending (undelivered) transaction lookups.
func (h *Handler) MountPendingRoutes(r chi.Router) {
	r.Get("/", h.listPendingInvoices)
	r.Get("/{invoice}", h.showPending)
}

// MountOutboundRoutes serves the branch transfer surface.
func (h *Handler) MountOutboundRoutes(r chi.Router) {
	r.Get("/", h.listOutbound)
	r.Post("/", h.createOutbound)
}

func (h *Handler) createInbound(w http.ResponseWriter, r *http.Request) {
	var req CreateInboundRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	created, err := h.service.CreateInbound(r.Context(), req)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) listInbound(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListInbound(r.Context())
	if err != nil {
		h.logger.Error("list inbound failed", "error", err)
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"transactions": list})
}

func (h *Handler) deleteInbound(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteInbound(r.Context(), chi.URLParam(r, "invoice")); err != nil {
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "transaction deleted"})
}

func (h *Handler) markDelivered(w http.ResponseWriter, r *http.Request) {
	invoice := chi.URLParam(r, "invoice")
	if err := h.service.MarkDelivered(r.Context(), invoice); err != nil {
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "delivery updated", "invoice_number": invoice})
}

func (h *Handler) listPendingInvoices(w http.ResponseWriter, r *http.Request) {
	invoices, err := h.service.ListPendingInvoices(r.Context())
	if err != nil {
		h.logger.Error("list pending invoices failed", "error", err)
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"invoice_numbers": invoices})
}

func (h *Handler) showPending(w http.ResponseWriter, r *http.Request) {
	txn, err := h.service.GetPendingByInvoice(r.Context(), chi.URLParam(r, "invoice"))
	if err != nil {
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, txn)
}

func (h *Handler) createOutbound(w http.ResponseWriter, r *http.Request) {
	var req CreateOutboundRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	created, err := h.service.CreateOutbound(r.Context(), req)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) listOutbound(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListOutbound(r.Context())
	if err != nil {
		h.logger.Error("list outbound failed", "error", err)
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"transactions": list})
}

func (h *Handler) respondErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", "transaction not found")
	case errors.Is(err, ErrDuplicateInvoice):
		httpx.Problem(w, http.StatusConflict, "Duplicate", "invoice number already exists")
	case errors.Is(err, ErrNoLines):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, shared.ErrInvalidArgument):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	default:
		h.logger.Error("transaction request failed", "error", err)
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

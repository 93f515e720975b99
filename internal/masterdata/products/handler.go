package products

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/storetrack/storetrack/internal/masterdata/shared"
	"github.com/storetrack/storetrack/internal/platform/httpx"
)

// StockTotaler reports the ledger total for a product.
type StockTotaler interface {
	TotalStock(ctx context.Context, productCode string) (int64, error)
}

type Handler struct {
	logger  *slog.Logger
	service *Service
	stock   StockTotaler
}

func NewHandler(logger *slog.Logger, service *Service, stock StockTotaler) *Handler {
	return &Handler{logger: logger, service: service, stock: stock}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/search_codes", h.searchCodes)
	r.Get("/{code}", h.show)
	r.Put("/{code}", h.update)
	r.Delete("/{code}", h.delete)
	r.Get("/{code}/total_stock", h.totalStock)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	list, total, err := h.service.List(r.Context(), shared.ParseListFilters(r))
	if err != nil {
		h.logger.Error("list products failed", "error", err)
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"products": list, "total": total})
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.GetByCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, product)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	created, err := h.service.Create(r.Context(), req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req UpdateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	updated, err := h.service.UpdateByCode(r.Context(), chi.URLParam(r, "code"), req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteByCode(r.Context(), chi.URLParam(r, "code")); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "product deleted"})
}

func (h *Handler) searchCodes(w http.ResponseWriter, r *http.Request) {
	codes, err := h.service.SearchCodes(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"codes": codes})
}

func (h *Handler) totalStock(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if _, err := h.service.GetByCode(r.Context(), code); err != nil {
		httpx.RespondError(w, err)
		return
	}
	total, err := h.stock.TotalStock(r.Context(), code)
	if err != nil {
		h.logger.Error("total stock lookup failed", "product_code", code, "error", err)
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"product_code": code, "total_stock": total})
}

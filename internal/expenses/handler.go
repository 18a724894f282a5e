package expenses

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carrierdesk/carrierdesk/internal/platform/httpx"
	"github.com/carrierdesk/carrierdesk/internal/shared"
)

// Handler exposes the expenses API.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler builds a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes attaches expense routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/categories", h.Categories)
	r.Post("/bulk-status", h.BulkStatus)
	r.Post("/bulk-delete", h.BulkDelete)
	r.Get("/{id}", h.Show)
	r.Patch("/{id}/status", h.UpdateStatus)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	carrier := shared.CarrierFromContext(r.Context())
	query := r.URL.Query()

	limit, _ := strconv.Atoi(query.Get("limit"))
	offset, _ := strconv.Atoi(query.Get("offset"))

	list, total, err := h.service.List(r.Context(), ListExpensesRequest{
		CarrierID: carrier.ID,
		Status:    Status(query.Get("status")),
		Category:  query.Get("category"),
		FromDate:  query.Get("from"),
		ToDate:    query.Get("to"),
		Page:      shared.PageRequest{Limit: limit, Offset: offset},
	})
	if err != nil {
		h.logger.Error("list expenses", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"expenses": list,
		"metadata": shared.NewPagination(shared.PageRequest{Limit: limit, Offset: offset}, total),
	})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	carrier := shared.CarrierFromContext(r.Context())

	expense, err := h.service.Get(r.Context(), carrier.ID, chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"expense": expense})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	carrier := shared.CarrierFromContext(r.Context())

	var req CreateExpenseRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	expense, err := h.service.Create(r.Context(), carrier.ID, req)
	if err != nil {
		h.logger.Error("create expense", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"expense": expense})
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	carrier := shared.CarrierFromContext(r.Context())

	var req UpdateStatusRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	expense, err := h.service.UpdateStatus(r.Context(), carrier.ID, chi.URLParam(r, "id"), req.Status)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"expense": expense})
}

func (h *Handler) BulkStatus(w http.ResponseWriter, r *http.Request) {
	carrier := shared.CarrierFromContext(r.Context())

	var req BulkStatusRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.service.BulkUpdateStatus(r.Context(), carrier.ID, req)
	if err != nil {
		h.logger.Error("bulk expense status", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"updated": updated})
}

func (h *Handler) BulkDelete(w http.ResponseWriter, r *http.Request) {
	carrier := shared.CarrierFromContext(r.Context())

	var req BulkDeleteRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	deleted, err := h.service.BulkDelete(r.Context(), carrier.ID, req)
	if err != nil {
		h.logger.Error("bulk expense delete", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": deleted})
}

func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	carrier := shared.CarrierFromContext(r.Context())

	categories, err := h.service.Categories(r.Context(), carrier.ID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"categories": categories})
}

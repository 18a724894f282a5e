package customers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carrierdesk/carrierdesk/internal/platform/httpx"
	"github.com/carrierdesk/carrierdesk/internal/shared"
)

// Handler exposes the customers API.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler builds a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes attaches customer routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Show)
	r.Patch("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	carrier := shared.CarrierFromContext(r.Context())
	query := r.URL.Query()

	limit, _ := strconv.Atoi(query.Get("limit"))
	offset, _ := strconv.Atoi(query.Get("offset"))

	list, total, err := h.service.List(r.Context(), ListCustomersRequest{
		CarrierID: carrier.ID,
		Search:    query.Get("search"),
		Page:      shared.PageRequest{Limit: limit, Offset: offset},
	})
	if err != nil {
		h.logger.Error("list customers", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"customers": list,
		"metadata":  shared.NewPagination(shared.PageRequest{Limit: limit, Offset: offset}, total),
	})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	carrier := shared.CarrierFromContext(r.Context())

	customer, err := h.service.Get(r.Context(), carrier.ID, chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"customer": customer})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	carrier := shared.CarrierFromContext(r.Context())

	var req CreateCustomerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	customer, err := h.service.Create(r.Context(), carrier.ID, req)
	if err != nil {
		h.logger.Error("create customer", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"customer": customer})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	carrier := shared.CarrierFromContext(r.Context())

	var req UpdateCustomerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	customer, err := h.service.Update(r.Context(), carrier.ID, chi.URLParam(r, "id"), req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"customer": customer})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	carrier := shared.CarrierFromContext(r.Context())

	if err := h.service.Delete(r.Context(), carrier.ID, chi.URLParam(r, "id")); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"result": "customer deleted"})
}

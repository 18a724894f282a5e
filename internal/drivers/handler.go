package drivers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carrierdesk/carrierdesk/internal/platform/httpx"
	"github.com/carrierdesk/carrierdesk/internal/shared"
)

// Handler exposes the drivers API.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler builds a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes attaches driver routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Show)
	r.Patch("/{id}", h.Update)
	r.Get("/{id}/payments", h.ListPayments)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	carrier := shared.CarrierFromContext(r.Context())
	query := r.URL.Query()

	limit, _ := strconv.Atoi(query.Get("limit"))
	offset, _ := strconv.Atoi(query.Get("offset"))

	list, total, err := h.service.List(r.Context(), ListDriversRequest{
		CarrierID:  carrier.ID,
		ActiveOnly: query.Get("active") == "true",
		Page:       shared.PageRequest{Limit: limit, Offset: offset},
	})
	if err != nil {
		h.logger.Error("list drivers", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"drivers":  list,
		"metadata": shared.NewPagination(shared.PageRequest{Limit: limit, Offset: offset}, total),
	})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	carrier := shared.CarrierFromContext(r.Context())

	driver, err := h.service.Get(r.Context(), carrier.ID, chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"driver": driver})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	carrier := shared.CarrierFromContext(r.Context())

	var req CreateDriverRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	driver, err := h.service.Create(r.Context(), carrier.ID, req)
	if err != nil {
		h.logger.Error("create driver", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"driver": driver})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	carrier := shared.CarrierFromContext(r.Context())

	var req UpdateDriverRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	driver, err := h.service.Update(r.Context(), carrier.ID, chi.URLParam(r, "id"), req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"driver": driver})
}

func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	carrier := shared.CarrierFromContext(r.Context())

	payments, err := h.service.ListPayments(r.Context(), carrier.ID, chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"payments": payments})
}

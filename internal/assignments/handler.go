package assignments

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carrierdesk/carrierdesk/internal/platform/httpx"
	"github.com/carrierdesk/carrierdesk/internal/shared"
)

// Handler exposes the assignments API.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler builds a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes attaches assignment routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Show)
	r.Patch("/{id}/status", h.UpdateStatus)
	r.Patch("/{id}/billing", h.UpdateBilling)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	carrier := shared.CarrierFromContext(r.Context())
	query := r.URL.Query()

	limit, _ := strconv.Atoi(query.Get("limit"))
	offset, _ := strconv.Atoi(query.Get("offset"))

	list, total, err := h.service.List(r.Context(), ListAssignmentsRequest{
		CarrierID: carrier.ID,
		DriverID:  query.Get("driverId"),
		LoadID:    query.Get("loadId"),
		Status:    Status(query.Get("status")),
		Page:      shared.PageRequest{Limit: limit, Offset: offset},
	})
	if err != nil {
		h.logger.Error("list assignments", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"assignments": list,
		"metadata":    shared.NewPagination(shared.PageRequest{Limit: limit, Offset: offset}, total),
	})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	carrier := shared.CarrierFromContext(r.Context())

	assignment, err := h.service.Get(r.Context(), carrier.ID, chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"assignment": assignment})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	carrier := shared.CarrierFromContext(r.Context())

	var req CreateAssignmentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	assignment, err := h.service.Create(r.Context(), carrier.ID, req)
	if err != nil {
		h.logger.Error("create assignment", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"assignment": assignment})
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

	assignment, err := h.service.UpdateStatus(r.Context(), carrier.ID, chi.URLParam(r, "id"), req.Status)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"assignment": assignment})
}

func (h *Handler) UpdateBilling(w http.ResponseWriter, r *http.Request) {
	carrier := shared.CarrierFromContext(r.Context())

	var req UpdateBillingRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	assignment, err := h.service.UpdateBilling(r.Context(), carrier.ID, chi.URLParam(r, "id"), req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"assignment": assignment})
}

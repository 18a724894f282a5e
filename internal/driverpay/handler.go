package driverpay

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carrierdesk/carrierdesk/internal/platform/httpx"
	"github.com/carrierdesk/carrierdesk/internal/shared"
)

// Handler exposes the driver-invoices API.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler builds a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes attaches driver-invoice routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Post("/preview", h.Preview)
	r.Get("/stats", h.Stats)
	r.Get("/{id}", h.Show)
	r.Patch("/{id}/status", h.UpdateStatus)
	r.Post("/{id}/payments", h.AddPayment)
	r.Delete("/{id}/payments/{pid}", h.DeletePayment)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	carrier := shared.CarrierFromContext(r.Context())
	query := r.URL.Query()

	limit, _ := strconv.Atoi(query.Get("limit"))
	offset, _ := strconv.Atoi(query.Get("offset"))

	list, total, err := h.service.List(r.Context(), ListDriverInvoicesRequest{
		CarrierID: carrier.ID,
		DriverID:  query.Get("driverId"),
		Status:    Status(query.Get("status")),
		Page:      shared.PageRequest{Limit: limit, Offset: offset},
	})
	if err != nil {
		h.logger.Error("list driver invoices", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"driverInvoices": list,
		"metadata":       shared.NewPagination(shared.PageRequest{Limit: limit, Offset: offset}, total),
	})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	carrier := shared.CarrierFromContext(r.Context())

	invoice, err := h.service.Get(r.Context(), carrier.ID, chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"driverInvoice": invoice})
}

func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	carrier := shared.CarrierFromContext(r.Context())

	var req PreviewRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	preview, err := h.service.Preview(r.Context(), carrier.ID, req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"preview": preview})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	carrier := shared.CarrierFromContext(r.Context())

	var req CreateDriverInvoiceRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	invoice, err := h.service.Create(r.Context(), carrier.ID, req)
	if err != nil {
		h.logger.Error("create driver invoice", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"driverInvoice": invoice})
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

	invoice, err := h.service.UpdateStatus(r.Context(), carrier.ID, chi.URLParam(r, "id"), req.Status)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"driverInvoice": invoice})
}

func (h *Handler) AddPayment(w http.ResponseWriter, r *http.Request) {
	carrier := shared.CarrierFromContext(r.Context())

	var req AddPaymentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	invoice, err := h.service.AddPayment(r.Context(), carrier.ID, chi.URLParam(r, "id"), req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"driverInvoice": invoice})
}

func (h *Handler) DeletePayment(w http.ResponseWriter, r *http.Request) {
	carrier := shared.CarrierFromContext(r.Context())

	invoice, err := h.service.DeletePayment(r.Context(), carrier.ID,
		chi.URLParam(r, "id"), chi.URLParam(r, "pid"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"driverInvoice": invoice})
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	carrier := shared.CarrierFromContext(r.Context())

	stats, err := h.service.GetStats(r.Context(), carrier.ID)
	if err != nil {
		h.logger.Error("driver invoice stats", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"stats": stats})
}

package stats

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carrierdesk/carrierdesk/internal/platform/httpx"
	"github.com/carrierdesk/carrierdesk/internal/shared"
)

// Handler exposes the dashboard digest.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes attaches stats routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/dashboard", h.Dashboard)
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	carrier := shared.CarrierFromContext(r.Context())

	digest, err := h.service.Dashboard(r.Context(), carrier.ID)
	if err != nil {
		h.logger.Error("dashboard digest", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"dashboard": digest})
}

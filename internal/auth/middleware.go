package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/carrierdesk/carrierdesk/internal/platform/httpx"
	"github.com/carrierdesk/carrierdesk/internal/shared"
)

// Middleware resolves the carrier for API requests.
type Middleware struct {
	service *Service
	logger  *slog.Logger
}

// NewMiddleware builds the auth middleware.
func NewMiddleware(service *Service, logger *slog.Logger) *Middleware {
	return &Middleware{service: service, logger: logger}
}

// RequireCarrier rejects requests without a valid bearer token and stores the
// resolved carrier in the request context.
func (m *Middleware) RequireCarrier(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			httpx.Error(w, http.StatusUnauthorized, "not authenticated")
			return
		}

		carrier, err := m.service.Verify(r.Context(), token)
		if err != nil {
			m.logger.Warn("token verification failed", slog.String("path", r.URL.Path))
			httpx.Error(w, http.StatusUnauthorized, "not authenticated")
			return
		}

		next.ServeHTTP(w, r.WithContext(shared.ContextWithCarrier(r.Context(), carrier)))
	})
}

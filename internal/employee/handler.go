package employee

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/timekeeping/internal"
	"github.com/frahmantamala/timekeeping/internal/transport"
)

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI, lg *slog.Logger) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

// GetCurrentEmployee handles GET /employees/me
func (h *Handler) GetCurrentEmployee(w http.ResponseWriter, r *http.Request) {
	principal, ok := internal.PrincipalFromContext(r.Context())
	if !ok {
		h.WriteAppError(w, internal.NewUnauthorizedError("unauthorized", internal.ErrCodeInvalidToken))
		return
	}

	e, err := h.Service.GetByID(r.Context(), principal.EmployeeID)
	if errors.Is(err, ErrNotFound) {
		h.WriteAppError(w, internal.NewNotFoundError("employee not found", internal.ErrCodeEmployeeNotFound))
		return
	}
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, e)
}

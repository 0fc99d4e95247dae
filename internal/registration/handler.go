package registration

import (
	"log/slog"
	"net/http"

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

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var in RegistrationInput
	if appErr := h.DecodeJSON(r, &in); appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}
	if appErr := in.Validate(); appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	out, err := h.Service.Register(r.Context(), in)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusCreated, out)
}

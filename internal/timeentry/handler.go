package timeentry

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/frahmantamala/timekeeping/internal"
	"github.com/frahmantamala/timekeeping/internal/transport"
	"github.com/go-chi/chi"
)

// Handler serves time entry routes. Access checks run in middleware before
// these methods are reached.
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

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	principal, ok := internal.PrincipalFromContext(r.Context())
	if !ok {
		h.WriteAppError(w, internal.NewUnauthorizedError("unauthorized", internal.ErrCodeInvalidToken))
		return
	}

	var req CreateTimeEntryRequest
	if appErr := h.DecodeJSON(r, &req); appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}
	if appErr := req.Validate(); appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	created, err := h.Service.Create(r.Context(), req.ToTimeEntry(principal.EmployeeID))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusCreated, created.ToResponse())
}

func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, appErr := transport.ParseIDParam("id", chi.URLParam(r, "id"))
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	entry, err := h.Service.GetByID(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	if entry == nil {
		h.WriteAppError(w, internal.NewNotFoundError("time entry not found", internal.ErrCodeTimeEntryNotFound))
		return
	}

	h.WriteData(w, http.StatusOK, entry.ToResponse())
}

func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	id, appErr := transport.ParseIDParam("id", chi.URLParam(r, "id"))
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	if err := h.Service.Remove(r.Context(), id); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListPage(w http.ResponseWriter, r *http.Request) {
	employeeID, appErr := transport.ParseIDParam("employeeID", chi.URLParam(r, "employeeID"))
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	page, appErr := queryInt(r, "page", 0)
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}
	size, appErr := queryInt(r, "size", DefaultPageSize)
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	result, err := h.Service.ListPage(r.Context(), employeeID, page, size)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, result.ToResponse())
}

func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	employeeID, appErr := transport.ParseIDParam("employeeID", chi.URLParam(r, "employeeID"))
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	entries, err := h.Service.ListAll(r.Context(), employeeID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, toResponses(entries))
}

func (h *Handler) MostRecent(w http.ResponseWriter, r *http.Request) {
	employeeID, appErr := transport.ParseIDParam("employeeID", chi.URLParam(r, "employeeID"))
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	entry, err := h.Service.MostRecent(r.Context(), employeeID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	if entry == nil {
		h.WriteAppError(w, internal.NewNotFoundError("no time entries for employee", internal.ErrCodeTimeEntryNotFound))
		return
	}

	h.WriteData(w, http.StatusOK, entry.ToResponse())
}

func queryInt(r *http.Request, name string, fallback int) (int, *internal.AppError) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, internal.NewValidationFieldError(name, name+" must be an integer", internal.ErrCodeInvalidRequest)
	}
	return v, nil
}

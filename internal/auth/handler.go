package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/timekeeping/internal"
	"github.com/frahmantamala/timekeeping/internal/transport"
	"github.com/frahmantamala/timekeeping/pkg/logger"
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

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	tokens, err := h.Service.Authenticate(r.Context(), dto)
	if err != nil {
		h.writeAuthError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, tokens)
}

func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var dto RefreshTokenDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}
	if appErr := dto.Validate(); appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	tokens, err := h.Service.RefreshTokens(r.Context(), dto.RefreshToken)
	if err != nil {
		h.writeAuthError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, tokens)
}

func (h *Handler) writeAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		h.WriteAppError(w, internal.NewUnauthorizedError("invalid credentials", internal.ErrCodeInvalidCredentials))
	case errors.Is(err, ErrTokenExpired):
		h.WriteAppError(w, internal.NewUnauthorizedError("token expired", internal.ErrCodeTokenExpired))
	case errors.Is(err, ErrInvalidToken):
		h.WriteAppError(w, internal.NewUnauthorizedError("invalid token", internal.ErrCodeInvalidToken))
	default:
		h.HandleServiceError(w, err)
	}
}

// AuthMiddleware puts the token's principal into the request context.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.WriteAppError(w, internal.NewUnauthorizedError("missing authorization token", internal.ErrCodeInvalidToken))
			return
		}

		claims, err := h.Service.ValidateAccessToken(token)
		if err != nil {
			h.writeAuthError(w, err)
			return
		}

		principal := &internal.Principal{
			EmployeeID: claims.EmployeeID,
			CompanyID:  claims.CompanyID,
			Email:      claims.Email,
			Role:       claims.Role,
		}
		ctx := internal.ContextWithPrincipal(r.Context(), principal)
		ctx = logger.With(ctx, "employeeID", principal.EmployeeID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

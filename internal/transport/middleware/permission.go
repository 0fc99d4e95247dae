package middleware

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/timekeeping/internal"
	"github.com/frahmantamala/timekeeping/internal/transport"
)

// RequireRole rejects principals that do not hold one of roles.
func RequireRole(logger *slog.Logger, roles ...string) func(http.Handler) http.Handler {
	h := transport.NewBaseHandler(logger)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := internal.PrincipalFromContext(r.Context())
			if !ok {
				h.WriteAppError(w, internal.NewUnauthorizedError("unauthorized", internal.ErrCodeInvalidToken))
				return
			}

			for _, role := range roles {
				if principal.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			h.Logger.Warn("access denied: principal lacks required role",
				"employee_id", principal.EmployeeID,
				"role", principal.Role,
				"required_roles", roles)
			h.WriteAppError(w, internal.NewForbiddenError("access denied", internal.ErrCodeAccessDenied))
		})
	}
}

package auth

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/frahmantamala/timekeeping/internal"
	"github.com/frahmantamala/timekeeping/internal/transport"
	"github.com/go-chi/chi"
	"github.com/jmoiron/sqlx"
)

var ErrForbidden = errors.New("forbidden")

// AccessPolicy decides who may read or change an employee's time entries:
// the employee, or an admin of the same company.
type AccessPolicy struct {
	db *sqlx.DB
	*transport.BaseHandler
}

func NewAccessPolicy(db *sqlx.DB, lg *slog.Logger) *AccessPolicy {
	return &AccessPolicy{db: db, BaseHandler: transport.NewBaseHandler(lg)}
}

// Allow checks the principal against the owner of a resource.
func (p *AccessPolicy) Allow(principal *internal.Principal, ownerID, ownerCompanyID int64) error {
	if principal == nil {
		return ErrForbidden
	}
	if principal.EmployeeID == ownerID {
		return nil
	}
	if principal.IsAdmin() && principal.CompanyID == ownerCompanyID {
		return nil
	}
	return ErrForbidden
}

func (p *AccessPolicy) employeeCompany(ctx context.Context, employeeID int64) (int64, error) {
	var companyID int64
	err := p.db.GetContext(ctx, &companyID, p.db.Rebind("SELECT company_id FROM employees WHERE id = ?"), employeeID)
	return companyID, err
}

type entryOwner struct {
	EmployeeID int64 `db:"employee_id"`
	CompanyID  int64 `db:"company_id"`
}

func (p *AccessPolicy) entryOwner(ctx context.Context, entryID int64) (*entryOwner, error) {
	var owner entryOwner
	query := p.db.Rebind(`SELECT t.employee_id, e.company_id
		FROM time_entries t JOIN employees e ON e.id = t.employee_id
		WHERE t.id = ?`)
	if err := p.db.GetContext(ctx, &owner, query, entryID); err != nil {
		return nil, err
	}
	return &owner, nil
}

// RequireEmployeeAccess guards routes carrying an {employeeID} URL param.
func (p *AccessPolicy) RequireEmployeeAccess(next http.Handler) http.Handler {
	return p.require(func(r *http.Request, principal *internal.Principal) error {
		employeeID, err := strconv.ParseInt(chi.URLParam(r, "employeeID"), 10, 64)
		if err != nil {
			return ErrForbidden
		}
		if employeeID == principal.EmployeeID {
			return nil
		}
		companyID, err := p.employeeCompany(r.Context(), employeeID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrForbidden
			}
			return err
		}
		return p.Allow(principal, employeeID, companyID)
	})(next)
}

// RequireEntryAccess guards routes carrying an {id} time entry param. Unknown
// entries pass through so the handler decides between 404 and a no-op.
func (p *AccessPolicy) RequireEntryAccess(next http.Handler) http.Handler {
	return p.require(func(r *http.Request, principal *internal.Principal) error {
		entryID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			return nil
		}
		owner, err := p.entryOwner(r.Context(), entryID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil
			}
			return err
		}
		return p.Allow(principal, owner.EmployeeID, owner.CompanyID)
	})(next)
}

func (p *AccessPolicy) require(check func(r *http.Request, principal *internal.Principal) error) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := internal.PrincipalFromContext(r.Context())
			if !ok {
				p.WriteAppError(w, internal.NewUnauthorizedError("unauthorized", internal.ErrCodeInvalidToken))
				return
			}
			if err := check(r, principal); err != nil {
				if errors.Is(err, ErrForbidden) {
					p.WriteAppError(w, internal.NewForbiddenError("access denied", internal.ErrCodeAccessDenied))
					return
				}
				p.HandleServiceError(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

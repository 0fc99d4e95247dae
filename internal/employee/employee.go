package employee

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	employeeDatamodel "github.com/frahmantamala/timekeeping/internal/core/datamodel/employee"
)

type Role string

const (
	RoleAdmin Role = "ROLE_ADMIN"
	RoleUser  Role = "ROLE_USUARIO"
)

func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleUser
}

var (
	ErrNotFound           = errors.New("employee not found")
	ErrPersonalIDExists   = errors.New("employee personal id already exists")
	ErrEmailExists        = errors.New("employee email already exists")
	ErrCompanyNotAssigned = errors.New("employee company id must be positive")

	nonDigitPattern = regexp.MustCompile(`\D`)
)

type Repository interface {
	FindByPersonalID(ctx context.Context, personalID string) (*employeeDatamodel.Employee, error)
	FindByEmail(ctx context.Context, email string) (*employeeDatamodel.Employee, error)
	FindByID(ctx context.Context, id int64) (*employeeDatamodel.Employee, error)
	Create(ctx context.Context, e *employeeDatamodel.Employee) error
}

func NormalizePersonalID(personalID string) string {
	return nonDigitPattern.ReplaceAllString(personalID, "")
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Candidate is an employee that does not belong to a company yet.
// It becomes an Employee only through LinkTo.
type Candidate struct {
	Name         string
	Email        string
	PersonalID   string
	Role         Role
	PasswordHash string
}

func NewCandidate(name, email, personalID string, role Role, passwordHash string) Candidate {
	return Candidate{
		Name:         strings.TrimSpace(name),
		Email:        NormalizeEmail(email),
		PersonalID:   NormalizePersonalID(personalID),
		Role:         role,
		PasswordHash: passwordHash,
	}
}

// LinkTo binds the candidate to a persisted company.
func (c Candidate) LinkTo(companyID int64) (*Employee, error) {
	if companyID <= 0 {
		return nil, ErrCompanyNotAssigned
	}
	return &Employee{
		CompanyID:    companyID,
		Name:         c.Name,
		Email:        c.Email,
		PersonalID:   c.PersonalID,
		Role:         c.Role,
		PasswordHash: c.PasswordHash,
	}, nil
}

type Employee struct {
	ID             int64     `json:"id"`
	CompanyID      int64     `json:"empresa_id"`
	Name           string    `json:"nome"`
	Email          string    `json:"email"`
	PersonalID     string    `json:"cpf"`
	Role           Role      `json:"perfil"`
	PasswordHash   string    `json:"-"`
	HourlyRate     *float64  `json:"valor_hora,omitempty"`
	DailyWorkHours *float64  `json:"qtd_horas_trabalho_dia,omitempty"`
	LunchHours     *float64  `json:"qtd_horas_almoco,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (e *Employee) IsAdmin() bool {
	return e.Role == RoleAdmin
}

func ToDataModel(e *Employee) *employeeDatamodel.Employee {
	return &employeeDatamodel.Employee{
		ID:             e.ID,
		CompanyID:      e.CompanyID,
		Name:           e.Name,
		Email:          e.Email,
		PersonalID:     e.PersonalID,
		Role:           string(e.Role),
		PasswordHash:   e.PasswordHash,
		HourlyRate:     e.HourlyRate,
		DailyWorkHours: e.DailyWorkHours,
		LunchHours:     e.LunchHours,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

func FromDataModel(e *employeeDatamodel.Employee) *Employee {
	return &Employee{
		ID:             e.ID,
		CompanyID:      e.CompanyID,
		Name:           e.Name,
		Email:          e.Email,
		PersonalID:     e.PersonalID,
		Role:           Role(e.Role),
		PasswordHash:   e.PasswordHash,
		HourlyRate:     e.HourlyRate,
		DailyWorkHours: e.DailyWorkHours,
		LunchHours:     e.LunchHours,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

package registration

import (
	"regexp"

	errors "github.com/frahmantamala/timekeeping/internal"
	"github.com/frahmantamala/timekeeping/internal/core/common/validation"
)

var (
	taxIDPattern      = regexp.MustCompile(`^\d{2}\.?\d{3}\.?\d{3}/?\d{4}-?\d{2}$`)
	personalIDPattern = regexp.MustCompile(`^\d{3}\.?\d{3}\.?\d{3}-?\d{2}$`)
	emailPattern      = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// RegistrationInput registers a company together with its first admin.
type RegistrationInput struct {
	TaxID      string `json:"cnpj"`
	LegalName  string `json:"razao_social"`
	Name       string `json:"nome"`
	Email      string `json:"email"`
	PersonalID string `json:"cpf"`
	Password   string `json:"senha"`
}

// Validate checks shape only; uniqueness is decided by Service.Register.
func (in RegistrationInput) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("cnpj", in.TaxID).Required().Matches(taxIDPattern, "CNPJ inválido.")
	v.Field("razao_social", in.LegalName).Required().MaxLength(200)
	v.Field("nome", in.Name).Required().MaxLength(200)
	v.Field("email", in.Email).Required().MaxLength(200).Matches(emailPattern, "Email inválido.")
	v.Field("cpf", in.PersonalID).Required().Matches(personalIDPattern, "CPF inválido.")
	v.Field("senha", in.Password).Required().MaxLength(72)
	return v.Validate()
}

type RegistrationOutput struct {
	EmployeeID int64  `json:"id"`
	Name       string `json:"nome"`
	Email      string `json:"email"`
	PersonalID string `json:"cpf"`
	Role       string `json:"perfil"`
	CompanyID  int64  `json:"empresa_id"`
	LegalName  string `json:"razao_social"`
	TaxID      string `json:"cnpj"`
}

package registration

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"

	errors "github.com/frahmantamala/timekeeping/internal"
	"github.com/frahmantamala/timekeeping/internal/company"
	"github.com/frahmantamala/timekeeping/internal/core/common/validation"
	"github.com/frahmantamala/timekeeping/internal/core/events"
	"github.com/frahmantamala/timekeeping/internal/employee"
)

const (
	MsgCompanyExists    = "Empresa já existente."
	MsgPersonalIDExists = "CPF já existente."
	MsgEmailExists      = "Email já existente."
)

var ErrCredentialHashing = stderrors.New("credential hashing failed")

type Hasher interface {
	Hash(secret string) (string, error)
}

type TransactionManager interface {
	WithinReadWrite(ctx context.Context, fn func(ctx context.Context) error) error
}

type ServiceAPI interface {
	Register(ctx context.Context, in RegistrationInput) (*RegistrationOutput, error)
}

type Service struct {
	companies company.Repository
	employees employee.Repository
	hasher    Hasher
	tx        TransactionManager
	publisher events.Publisher
	logger    *slog.Logger
}

func NewService(
	companies company.Repository,
	employees employee.Repository,
	hasher Hasher,
	tx TransactionManager,
	publisher events.Publisher,
	logger *slog.Logger,
) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		companies: companies,
		employees: employees,
		hasher:    hasher,
		tx:        tx,
		publisher: publisher,
		logger:    logger,
	}
}

// Register creates a company and its admin employee, or nothing at all.
// Every uniqueness conflict is reported together in one validation error.
func (s *Service) Register(ctx context.Context, in RegistrationInput) (*RegistrationOutput, error) {
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		s.logger.Error("failed to hash credential", "error", err)
		return nil, errors.NewInternalError("failed to register company", fmt.Errorf("%w: %w", ErrCredentialHashing, err))
	}

	newCompany := company.New(in.TaxID, in.LegalName)
	candidate := employee.NewCandidate(in.Name, in.Email, in.PersonalID, employee.RoleAdmin, hash)

	var (
		persistedCompany  *company.Company
		persistedEmployee *employee.Employee
	)
	err = s.tx.WithinReadWrite(ctx, func(ctx context.Context) error {
		if appErr := s.checkUniqueness(ctx, newCompany, candidate); appErr != nil {
			return appErr
		}

		companyRecord := company.ToDataModel(newCompany)
		if err := s.companies.Create(ctx, companyRecord); err != nil {
			return s.mapStoreError(err)
		}
		persistedCompany = company.FromDataModel(companyRecord)

		linked, err := candidate.LinkTo(persistedCompany.ID)
		if err != nil {
			return err
		}
		employeeRecord := employee.ToDataModel(linked)
		if err := s.employees.Create(ctx, employeeRecord); err != nil {
			return s.mapStoreError(err)
		}
		persistedEmployee = employee.FromDataModel(employeeRecord)
		return nil
	})
	if err != nil {
		if appErr, ok := errors.IsAppError(err); ok {
			return nil, appErr
		}
		s.logger.Error("failed to register company", "tax_id", newCompany.TaxID, "error", err)
		return nil, errors.NewInternalError("failed to register company", err)
	}

	s.logger.Info("company registered",
		"company_id", persistedCompany.ID,
		"employee_id", persistedEmployee.ID)

	if err := s.publisher.Publish(ctx, events.NewCompanyRegisteredEvent(persistedCompany.ID, persistedEmployee.ID)); err != nil {
		s.logger.Warn("failed to publish company registered event", "error", err)
	}

	return &RegistrationOutput{
		EmployeeID: persistedEmployee.ID,
		Name:       persistedEmployee.Name,
		Email:      persistedEmployee.Email,
		PersonalID: persistedEmployee.PersonalID,
		Role:       string(persistedEmployee.Role),
		CompanyID:  persistedCompany.ID,
		LegalName:  persistedCompany.LegalName,
		TaxID:      persistedCompany.TaxID,
	}, nil
}

func (s *Service) checkUniqueness(ctx context.Context, c *company.Company, candidate employee.Candidate) error {
	v := validation.NewValidator()

	existingCompany, err := s.companies.FindByTaxID(ctx, c.TaxID)
	if err != nil {
		return err
	}
	if existingCompany != nil {
		v.AddError("cnpj", MsgCompanyExists, errors.ErrCodeCompanyExists)
	}

	byPersonalID, err := s.employees.FindByPersonalID(ctx, candidate.PersonalID)
	if err != nil {
		return err
	}
	if byPersonalID != nil {
		v.AddError("cpf", MsgPersonalIDExists, errors.ErrCodePersonalIDExists)
	}

	byEmail, err := s.employees.FindByEmail(ctx, candidate.Email)
	if err != nil {
		return err
	}
	if byEmail != nil {
		v.AddError("email", MsgEmailExists, errors.ErrCodeEmailExists)
	}

	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

// mapStoreError turns a unique index violation raised by a concurrent
// registration into the same message the lookups would have produced.
func (s *Service) mapStoreError(err error) error {
	v := validation.NewValidator()
	switch {
	case stderrors.Is(err, company.ErrTaxIDExists):
		v.AddError("cnpj", MsgCompanyExists, errors.ErrCodeCompanyExists)
	case stderrors.Is(err, employee.ErrPersonalIDExists):
		v.AddError("cpf", MsgPersonalIDExists, errors.ErrCodePersonalIDExists)
	case stderrors.Is(err, employee.ErrEmailExists):
		v.AddError("email", MsgEmailExists, errors.ErrCodeEmailExists)
	default:
		return err
	}
	return v.Validate()
}

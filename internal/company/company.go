package company

import (
	"context"
	"errors"
	"regexp"
	"time"

	companyDatamodel "github.com/frahmantamala/timekeeping/internal/core/datamodel/company"
)

// Company is an employer account, identified nationally by its CNPJ.
type Company struct {
	ID        int64     `json:"id"`
	TaxID     string    `json:"cnpj"`
	LegalName string    `json:"razao_social"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Repository interface {
	FindByTaxID(ctx context.Context, taxID string) (*companyDatamodel.Company, error)
	FindByID(ctx context.Context, id int64) (*companyDatamodel.Company, error)
	Create(ctx context.Context, c *companyDatamodel.Company) error
}

var (
	ErrTaxIDExists  = errors.New("company tax id already exists")
	nonDigitPattern = regexp.MustCompile(`\D`)
)

// NormalizeTaxID strips punctuation so "12.345.678/0001-99" and
// "12345678000199" identify the same company.
func NormalizeTaxID(taxID string) string {
	return nonDigitPattern.ReplaceAllString(taxID, "")
}

func New(taxID, legalName string) *Company {
	return &Company{
		TaxID:     NormalizeTaxID(taxID),
		LegalName: legalName,
	}
}

func ToDataModel(c *Company) *companyDatamodel.Company {
	return &companyDatamodel.Company{
		ID:        c.ID,
		TaxID:     c.TaxID,
		LegalName: c.LegalName,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func FromDataModel(c *companyDatamodel.Company) *Company {
	return &Company{
		ID:        c.ID,
		TaxID:     c.TaxID,
		LegalName: c.LegalName,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

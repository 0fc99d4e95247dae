package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/timekeeping/internal/company"
	"github.com/frahmantamala/timekeeping/internal/core/database"
	companyDatamodel "github.com/frahmantamala/timekeeping/internal/core/datamodel/company"
	"gorm.io/gorm"
)

type CompanyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) company.Repository {
	return &CompanyRepository{db: db}
}

// FindByTaxID returns nil, nil when no company holds the tax id.
func (r *CompanyRepository) FindByTaxID(ctx context.Context, taxID string) (*companyDatamodel.Company, error) {
	var c companyDatamodel.Company
	err := database.Conn(ctx, r.db).Where("tax_id = ?", taxID).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// FindByID returns nil, nil for an unknown id, like the other lookups.
func (r *CompanyRepository) FindByID(ctx context.Context, id int64) (*companyDatamodel.Company, error) {
	var c companyDatamodel.Company
	err := database.Conn(ctx, r.db).Where("id = ?", id).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *CompanyRepository) Create(ctx context.Context, c *companyDatamodel.Company) error {
	err := database.Conn(ctx, r.db).Create(c).Error
	switch constraint, _ := database.UniqueViolation(err); constraint {
	case "companies_tax_id_key", "companies.tax_id":
		return company.ErrTaxIDExists
	}
	return err
}

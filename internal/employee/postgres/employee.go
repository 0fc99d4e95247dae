package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/timekeeping/internal/core/database"
	employeeDatamodel "github.com/frahmantamala/timekeeping/internal/core/datamodel/employee"
	"github.com/frahmantamala/timekeeping/internal/employee"
	"gorm.io/gorm"
)

type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) employee.Repository {
	return &EmployeeRepository{db: db}
}

func (r *EmployeeRepository) FindByPersonalID(ctx context.Context, personalID string) (*employeeDatamodel.Employee, error) {
	return r.findOne(ctx, "personal_id = ?", personalID)
}

func (r *EmployeeRepository) FindByEmail(ctx context.Context, email string) (*employeeDatamodel.Employee, error) {
	return r.findOne(ctx, "email = ?", email)
}

func (r *EmployeeRepository) FindByID(ctx context.Context, id int64) (*employeeDatamodel.Employee, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *EmployeeRepository) findOne(ctx context.Context, query string, arg interface{}) (*employeeDatamodel.Employee, error) {
	var e employeeDatamodel.Employee
	err := database.Conn(ctx, r.db).Where(query, arg).First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

// Create maps unique index violations back to the field that clashed.
func (r *EmployeeRepository) Create(ctx context.Context, e *employeeDatamodel.Employee) error {
	err := database.Conn(ctx, r.db).Create(e).Error
	switch constraint, _ := database.UniqueViolation(err); constraint {
	case "employees_personal_id_key", "employees.personal_id":
		return employee.ErrPersonalIDExists
	case "employees_email_key", "employees.email":
		return employee.ErrEmailExists
	}
	return err
}

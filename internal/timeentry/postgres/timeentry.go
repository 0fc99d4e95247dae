package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/timekeeping/internal/core/database"
	timeentryDatamodel "github.com/frahmantamala/timekeeping/internal/core/datamodel/timeentry"
	"github.com/frahmantamala/timekeeping/internal/timeentry"
	"gorm.io/gorm"
)

const (
	orderAscending  = "punched_at ASC, id ASC"
	orderDescending = "punched_at DESC, id DESC"
)

type TimeEntryRepository struct {
	db *gorm.DB
}

func NewTimeEntryRepository(db *gorm.DB) timeentry.Repository {
	return &TimeEntryRepository{db: db}
}

func (r *TimeEntryRepository) Create(ctx context.Context, entry *timeentryDatamodel.TimeEntry) error {
	return database.Conn(ctx, r.db).Create(entry).Error
}

func (r *TimeEntryRepository) FindByID(ctx context.Context, id int64) (*timeentryDatamodel.TimeEntry, error) {
	var entry timeentryDatamodel.TimeEntry
	err := database.Conn(ctx, r.db).Where("id = ?", id).Take(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func (r *TimeEntryRepository) Delete(ctx context.Context, id int64) error {
	return database.Conn(ctx, r.db).Where("id = ?", id).Delete(&timeentryDatamodel.TimeEntry{}).Error
}

// FindByEmployee returns the requested window and the employee's total count.
func (r *TimeEntryRepository) FindByEmployee(ctx context.Context, q timeentry.Query) ([]*timeentryDatamodel.TimeEntry, int64, error) {
	var total int64
	err := database.Conn(ctx, r.db).Model(&timeentryDatamodel.TimeEntry{}).
		Where("employee_id = ?", q.EmployeeID).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	order := orderAscending
	if q.Order == timeentry.OrderDescending {
		order = orderDescending
	}

	query := database.Conn(ctx, r.db).Where("employee_id = ?", q.EmployeeID).Order(order)
	if q.Limit > 0 {
		query = query.Limit(q.Limit).Offset(q.Offset)
	}

	var entries []*timeentryDatamodel.TimeEntry
	if err := query.Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func (r *TimeEntryRepository) FindLatestByEmployee(ctx context.Context, employeeID int64) (*timeentryDatamodel.TimeEntry, error) {
	var entry timeentryDatamodel.TimeEntry
	err := database.Conn(ctx, r.db).
		Where("employee_id = ?", employeeID).
		Order(orderDescending).
		Take(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

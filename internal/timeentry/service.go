package timeentry

import (
	"context"
	"log/slog"

	errors "github.com/frahmantamala/timekeeping/internal"
	"github.com/frahmantamala/timekeeping/internal/core/common/validation"
	"github.com/frahmantamala/timekeeping/internal/core/events"
)

type ServiceAPI interface {
	Create(ctx context.Context, entry *TimeEntry) (*TimeEntry, error)
	GetByID(ctx context.Context, id int64) (*TimeEntry, error)
	Remove(ctx context.Context, id int64) error
	ListAll(ctx context.Context, employeeID int64) ([]*TimeEntry, error)
	ListPage(ctx context.Context, employeeID int64, page, pageSize int) (*Page, error)
	MostRecent(ctx context.Context, employeeID int64) (*TimeEntry, error)
}

type Service struct {
	repo      Repository
	cache     LatestCache
	publisher events.Publisher
	logger    *slog.Logger
}

func NewService(repo Repository, cache LatestCache, publisher events.Publisher, logger *slog.Logger) *Service {
	if cache == nil {
		cache = NopCache{}
	}
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		logger:    logger,
	}
}

// Create stores a new punch. No ordering rule between punches is enforced.
func (s *Service) Create(ctx context.Context, entry *TimeEntry) (*TimeEntry, error) {
	if entry == nil {
		return nil, errors.NewValidationError("time entry is required", errors.ErrCodeInvalidRequest)
	}

	v := validation.NewValidator()
	v.Field("funcionario_id", entry.EmployeeID).MinInt(1, errors.ErrCodeInvalidEmployee)
	v.Field("data", entry.PunchedAt).Required()
	if appErr := v.Validate(); appErr != nil {
		return nil, appErr
	}

	record := ToDataModel(entry)
	record.ID = 0
	if err := s.repo.Create(ctx, record); err != nil {
		s.logger.Error("failed to create time entry", "employee_id", entry.EmployeeID, "error", err)
		return nil, errors.NewInternalError("failed to create time entry", err)
	}
	created := FromDataModel(record)

	s.invalidate(ctx, created.EmployeeID)
	s.publish(ctx, events.NewTimeEntryRecordedEvent(created.ID, created.EmployeeID, created.PunchedAt))

	s.logger.Info("time entry created", "entry_id", created.ID, "employee_id", created.EmployeeID)
	return created, nil
}

// GetByID returns nil without error when the entry does not exist.
func (s *Service) GetByID(ctx context.Context, id int64) (*TimeEntry, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get time entry", "entry_id", id, "error", err)
		return nil, errors.NewInternalError("failed to get time entry", err)
	}
	return FromDataModel(record), nil
}

// Remove deletes the entry; removing an unknown id does nothing.
func (s *Service) Remove(ctx context.Context, id int64) error {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get time entry", "entry_id", id, "error", err)
		return errors.NewInternalError("failed to remove time entry", err)
	}
	if record == nil {
		return nil
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete time entry", "entry_id", id, "error", err)
		return errors.NewInternalError("failed to remove time entry", err)
	}

	s.invalidate(ctx, record.EmployeeID)
	s.publish(ctx, events.NewTimeEntryRemovedEvent(record.ID, record.EmployeeID, record.PunchedAt))

	s.logger.Info("time entry removed", "entry_id", id, "employee_id", record.EmployeeID)
	return nil
}

// ListAll returns every entry of the employee, oldest first.
func (s *Service) ListAll(ctx context.Context, employeeID int64) ([]*TimeEntry, error) {
	rows, _, err := s.repo.FindByEmployee(ctx, Query{EmployeeID: employeeID, Order: OrderAscending})
	if err != nil {
		s.logger.Error("failed to list time entries", "employee_id", employeeID, "error", err)
		return nil, errors.NewInternalError("failed to list time entries", err)
	}
	return fromDataModels(rows), nil
}

// ListPage returns one zero-indexed page, most recent first.
func (s *Service) ListPage(ctx context.Context, employeeID int64, page, pageSize int) (*Page, error) {
	page, pageSize = NormalizePage(page, pageSize)

	rows, total, err := s.repo.FindByEmployee(ctx, Query{
		EmployeeID: employeeID,
		Order:      OrderDescending,
		Limit:      pageSize,
		Offset:     page * pageSize,
	})
	if err != nil {
		s.logger.Error("failed to page time entries", "employee_id", employeeID, "page", page, "error", err)
		return nil, errors.NewInternalError("failed to list time entries", err)
	}

	return &Page{
		Items:      fromDataModels(rows),
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: totalPages(total, pageSize),
	}, nil
}

// MostRecent returns the entry with the latest punch, the highest id
// winning ties, or nil when the employee has none.
func (s *Service) MostRecent(ctx context.Context, employeeID int64) (*TimeEntry, error) {
	cached, version, ok, err := s.cache.Get(ctx, employeeID)
	cacheable := err == nil
	if err != nil {
		s.logger.Warn("latest entry cache read failed", "employee_id", employeeID, "error", err)
	} else if ok {
		return cached, nil
	}

	record, err := s.repo.FindLatestByEmployee(ctx, employeeID)
	if err != nil {
		s.logger.Error("failed to get latest time entry", "employee_id", employeeID, "error", err)
		return nil, errors.NewInternalError("failed to get latest time entry", err)
	}
	if record == nil {
		return nil, nil
	}

	latest := FromDataModel(record)
	if cacheable {
		if err := s.cache.Set(ctx, employeeID, version, latest); err != nil {
			s.logger.Warn("latest entry cache write failed", "employee_id", employeeID, "error", err)
		}
	}
	return latest, nil
}

func (s *Service) invalidate(ctx context.Context, employeeID int64) {
	if err := s.cache.Invalidate(ctx, employeeID); err != nil {
		s.logger.Warn("latest entry cache invalidation failed", "employee_id", employeeID, "error", err)
	}
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish event", "event_type", event.EventType(), "error", err)
	}
}

package timeentry

import (
	"context"
	"math"
	"time"

	timeentryDatamodel "github.com/frahmantamala/timekeeping/internal/core/datamodel/timeentry"
)

const (
	DefaultPageSize = 25
	MaxPageSize     = 100
)

// Known entry types. The service stores the type as given.
const (
	TypeWorkStart  = "INICIO_TRABALHO"
	TypeWorkEnd    = "TERMINO_TRABALHO"
	TypeLunchStart = "INICIO_ALMOCO"
	TypeLunchEnd   = "TERMINO_ALMOCO"
	TypeBreakStart = "INICIO_PAUSA"
	TypeBreakEnd   = "TERMINO_PAUSA"
)

var Types = []string{TypeWorkStart, TypeWorkEnd, TypeLunchStart, TypeLunchEnd, TypeBreakStart, TypeBreakEnd}

// TimeEntry is a single punch. It never changes after creation.
type TimeEntry struct {
	ID          int64
	EmployeeID  int64
	PunchedAt   time.Time
	Type        string
	Description *string
	Location    *string
	CreatedAt   time.Time
}

type Order int

const (
	OrderAscending Order = iota
	OrderDescending
)

// Query selects an employee's entries. A zero Limit returns every row.
type Query struct {
	EmployeeID int64
	Order      Order
	Limit      int
	Offset     int
}

type Page struct {
	Items      []*TimeEntry
	Page       int
	PageSize   int
	TotalItems int64
	TotalPages int
}

// NormalizePage clamps paging input: negative pages start at zero, and the
// size falls back to DefaultPageSize and never exceeds MaxPageSize. The page
// is capped so that its offset plus one page still fits in an int.
func NormalizePage(page, size int) (int, int) {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	if maxPage := math.MaxInt/size - 1; page > maxPage {
		page = maxPage
	}
	return page, size
}

func totalPages(total int64, size int) int {
	if total == 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}

type Repository interface {
	Create(ctx context.Context, entry *timeentryDatamodel.TimeEntry) error
	FindByID(ctx context.Context, id int64) (*timeentryDatamodel.TimeEntry, error)
	Delete(ctx context.Context, id int64) error
	FindByEmployee(ctx context.Context, q Query) ([]*timeentryDatamodel.TimeEntry, int64, error)
	FindLatestByEmployee(ctx context.Context, employeeID int64) (*timeentryDatamodel.TimeEntry, error)
}

// LatestCache fronts MostRecent. Implementations may fail; the service then
// reads the store.
//
// Every Invalidate bumps the employee's version. Get reports the version it
// observed and Set only stores the entry while that version is still current,
// so a store read that raced a write never lands in the cache.
type LatestCache interface {
	Get(ctx context.Context, employeeID int64) (entry *TimeEntry, version int64, ok bool, err error)
	Set(ctx context.Context, employeeID int64, version int64, entry *TimeEntry) error
	Invalidate(ctx context.Context, employeeID int64) error
}

type NopCache struct{}

func (NopCache) Get(context.Context, int64) (*TimeEntry, int64, bool, error) {
	return nil, 0, false, nil
}
func (NopCache) Set(context.Context, int64, int64, *TimeEntry) error { return nil }
func (NopCache) Invalidate(context.Context, int64) error             { return nil }

func ToDataModel(e *TimeEntry) *timeentryDatamodel.TimeEntry {
	return &timeentryDatamodel.TimeEntry{
		ID:          e.ID,
		EmployeeID:  e.EmployeeID,
		PunchedAt:   e.PunchedAt,
		Type:        e.Type,
		Description: e.Description,
		Location:    e.Location,
		CreatedAt:   e.CreatedAt,
	}
}

func FromDataModel(e *timeentryDatamodel.TimeEntry) *TimeEntry {
	if e == nil {
		return nil
	}
	return &TimeEntry{
		ID:          e.ID,
		EmployeeID:  e.EmployeeID,
		PunchedAt:   e.PunchedAt,
		Type:        e.Type,
		Description: e.Description,
		Location:    e.Location,
		CreatedAt:   e.CreatedAt,
	}
}

func fromDataModels(rows []*timeentryDatamodel.TimeEntry) []*TimeEntry {
	entries := make([]*TimeEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, FromDataModel(row))
	}
	return entries
}

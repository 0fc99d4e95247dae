package timeentry

import (
	"time"

	errors "github.com/frahmantamala/timekeeping/internal"
	"github.com/frahmantamala/timekeeping/internal/core/common/validation"
)

type CreateTimeEntryRequest struct {
	PunchedAt   time.Time `json:"data"`
	Type        string    `json:"tipo"`
	Description *string   `json:"descricao,omitempty"`
	Location    *string   `json:"localizacao,omitempty"`
}

func (r CreateTimeEntryRequest) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("data", r.PunchedAt).Required()
	v.Field("tipo", r.Type).Required().OneOf(Types...)
	if r.Description != nil {
		v.Field("descricao", *r.Description).MaxLength(500)
	}
	if r.Location != nil {
		v.Field("localizacao", *r.Location).MaxLength(200)
	}
	return v.Validate()
}

// ToTimeEntry builds the entry for employeeID, who is taken from the caller's
// identity rather than the request body.
func (r CreateTimeEntryRequest) ToTimeEntry(employeeID int64) *TimeEntry {
	return &TimeEntry{
		EmployeeID:  employeeID,
		PunchedAt:   r.PunchedAt,
		Type:        r.Type,
		Description: r.Description,
		Location:    r.Location,
	}
}

type TimeEntryResponse struct {
	ID          int64     `json:"id"`
	EmployeeID  int64     `json:"funcionario_id"`
	PunchedAt   time.Time `json:"data"`
	Type        string    `json:"tipo"`
	Description *string   `json:"descricao,omitempty"`
	Location    *string   `json:"localizacao,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type PageResponse struct {
	Content       []TimeEntryResponse `json:"content"`
	Page          int                 `json:"page"`
	Size          int                 `json:"size"`
	TotalElements int64               `json:"total_elements"`
	TotalPages    int                 `json:"total_pages"`
}

func (e *TimeEntry) ToResponse() TimeEntryResponse {
	return TimeEntryResponse{
		ID:          e.ID,
		EmployeeID:  e.EmployeeID,
		PunchedAt:   e.PunchedAt,
		Type:        e.Type,
		Description: e.Description,
		Location:    e.Location,
		CreatedAt:   e.CreatedAt,
	}
}

func toResponses(entries []*TimeEntry) []TimeEntryResponse {
	out := make([]TimeEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.ToResponse())
	}
	return out
}

func (p *Page) ToResponse() PageResponse {
	return PageResponse{
		Content:       toResponses(p.Items),
		Page:          p.Page,
		Size:          p.PageSize,
		TotalElements: p.TotalItems,
		TotalPages:    p.TotalPages,
	}
}

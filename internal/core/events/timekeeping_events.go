package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeCompanyRegistered = "company.registered"
	EventTypeTimeEntryRecorded = "timeentry.recorded"
	EventTypeTimeEntryRemoved  = "timeentry.removed"
)

type CompanyRegisteredEvent struct {
	BaseEvent
	CompanyID  int64 `json:"company_id"`
	EmployeeID int64 `json:"employee_id"`
}

func NewCompanyRegisteredEvent(companyID, employeeID int64) *CompanyRegisteredEvent {
	return &CompanyRegisteredEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeCompanyRegistered,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"company_id":  companyID,
				"employee_id": employeeID,
			},
		},
		CompanyID:  companyID,
		EmployeeID: employeeID,
	}
}

type TimeEntryEvent struct {
	BaseEvent
	EntryID    int64     `json:"entry_id"`
	EmployeeID int64     `json:"employee_id"`
	PunchedAt  time.Time `json:"punched_at"`
}

func newTimeEntryEvent(eventType string, entryID, employeeID int64, punchedAt time.Time) *TimeEntryEvent {
	return &TimeEntryEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"entry_id":    entryID,
				"employee_id": employeeID,
				"punched_at":  punchedAt,
			},
		},
		EntryID:    entryID,
		EmployeeID: employeeID,
		PunchedAt:  punchedAt,
	}
}

func NewTimeEntryRecordedEvent(entryID, employeeID int64, punchedAt time.Time) *TimeEntryEvent {
	return newTimeEntryEvent(EventTypeTimeEntryRecorded, entryID, employeeID, punchedAt)
}

func NewTimeEntryRemovedEvent(entryID, employeeID int64, punchedAt time.Time) *TimeEntryEvent {
	return newTimeEntryEvent(EventTypeTimeEntryRemoved, entryID, employeeID, punchedAt)
}

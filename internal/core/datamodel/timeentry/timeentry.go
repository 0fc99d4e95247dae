package timeentry

import "time"

type TimeEntry struct {
	ID          int64     `gorm:"primaryKey"`
	EmployeeID  int64     `gorm:"column:employee_id;not null;index:idx_time_entries_employee_punched"`
	PunchedAt   time.Time `gorm:"column:punched_at;not null;index:idx_time_entries_employee_punched"`
	Type        string    `gorm:"column:type"`
	Description *string   `gorm:"column:description"`
	Location    *string   `gorm:"column:location"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (TimeEntry) TableName() string {
	return "time_entries"
}

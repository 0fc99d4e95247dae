package employee

import "time"

type Employee struct {
	ID             int64     `gorm:"primaryKey"`
	CompanyID      int64     `gorm:"column:company_id;not null;index"`
	Name           string    `gorm:"column:name;not null"`
	Email          string    `gorm:"column:email;uniqueIndex;not null"`
	PersonalID     string    `gorm:"column:personal_id;uniqueIndex;not null"`
	Role           string    `gorm:"column:role;not null"`
	PasswordHash   string    `gorm:"column:password_hash;not null"`
	HourlyRate     *float64  `gorm:"column:hourly_rate"`
	DailyWorkHours *float64  `gorm:"column:daily_work_hours"`
	LunchHours     *float64  `gorm:"column:lunch_hours"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Employee) TableName() string {
	return "employees"
}

package company

import "time"

type Company struct {
	ID        int64     `gorm:"primaryKey"`
	TaxID     string    `gorm:"column:tax_id;uniqueIndex;not null"`
	LegalName string    `gorm:"column:legal_name;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Company) TableName() string {
	return "companies"
}

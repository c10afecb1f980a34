package domain

import "time"

type OrganizationalUnit struct {
	ID        int64     `gorm:"primaryKey;autoIncrement:false" json:"organizational_unit_id" validate:"gt=0"`
	Name      string    `gorm:"not null;default:''" json:"organizational_unit_name"`
	CompanyID int64     `gorm:"not null;index" json:"company_id" validate:"gt=0"`
	IsDeleted bool      `gorm:"not null;default:false" json:"is_deleted"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (OrganizationalUnit) TableName() string { return "organizational_units" }

package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// APIKey stores a hashed API credential and the role it acts as.
type APIKey struct {
	ID               snowflake.ID `gorm:"primaryKey;autoIncrement:false"`
	KeyID            string       `gorm:"column:key_id;type:varchar(64);not null;uniqueIndex"`
	Name             string       `gorm:"type:text;not null"`
	Role             Role         `gorm:"type:text;not null"`
	KeyHash          string       `gorm:"column:key_hash;type:varchar(128);not null;uniqueIndex"`
	IsActive         bool         `gorm:"column:is_active;not null;default:true"`
	CreatedAt        time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt        time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	LastUsedAt       *time.Time   `gorm:"column:last_used_at"`
	ExpiresAt        *time.Time   `gorm:"column:expires_at"`
	RotatedFromKeyID *string      `gorm:"column:rotated_from_key_id;type:text"`
}

// TableName sets the database table name.
func (APIKey) TableName() string { return "api_keys" }

// Usable reports whether the key may authenticate at now.
func (k *APIKey) Usable(now time.Time) bool {
	if k == nil || !k.IsActive {
		return false
	}
	return k.ExpiresAt == nil || now.Before(*k.ExpiresAt)
}

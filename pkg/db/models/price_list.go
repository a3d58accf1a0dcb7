package models

import (
	"time"

	"github.com/google/uuid"
)

// PriceList groups derived sell prices for a store's catalog.
type PriceList struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID    uuid.UUID       `gorm:"column:store_id;type:uuid;not null;index"`
	Name       string          `gorm:"column:name;not null"`
	AutoUpdate bool            `gorm:"column:auto_update;not null;default:true"`
	IsActive   bool            `gorm:"column:is_active;not null;default:true"`
	Items      []PriceListItem `gorm:"foreignKey:PriceListID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

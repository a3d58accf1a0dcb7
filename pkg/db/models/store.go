package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/vitrina-app/vitrina-backend/pkg/types"
)

// Store is a tenant storefront. Every other resource is scoped to one.
type Store struct {
	ID        uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string         `gorm:"column:name;not null"`
	Slug      string         `gorm:"column:slug;not null;uniqueIndex"`
	IsActive  bool           `gorm:"column:is_active;not null;default:true"`
	Address   *types.Address `gorm:"column:address;type:jsonb;serializer:json"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

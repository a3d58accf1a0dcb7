package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vitrina-app/vitrina-backend/pkg/enums"
)

// CartRecord is a storefront customer's in-progress order, one active per session.
type CartRecord struct {
	ID          uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID     uuid.UUID        `gorm:"column:store_id;type:uuid;not null;index"`
	SessionID   string           `gorm:"column:session_id;not null;index"`
	Status      enums.CartStatus `gorm:"column:status;type:cart_status;not null;default:'active'"`
	TotalAmount decimal.Decimal  `gorm:"column:total_amount;type:numeric(14,2);not null;default:0"`
	ItemsCount  int              `gorm:"column:items_count;not null;default:0"`
	ConvertedAt *time.Time       `gorm:"column:converted_at"`
	Items       []CartItem       `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

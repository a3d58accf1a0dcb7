package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vitrina-app/vitrina-backend/pkg/enums"
)

// PriceListItem carries a product's price derivation inside one price list.
// Invariant: FinalPrice equals CalculatedPrice unless IsManualOverride is set.
type PriceListItem struct {
	ID               uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	PriceListID      uuid.UUID        `gorm:"column:price_list_id;type:uuid;not null;uniqueIndex:uq_price_list_product"`
	ProductID        uuid.UUID        `gorm:"column:product_id;type:uuid;not null;uniqueIndex:uq_price_list_product"`
	CurrentCost      decimal.Decimal  `gorm:"column:current_cost;type:numeric(14,2);not null;default:0"`
	MarkupType       enums.MarkupType `gorm:"column:markup_type;type:markup_type;not null;default:'percentage'"`
	MarkupValue      decimal.Decimal  `gorm:"column:markup_value;type:numeric(8,2);not null;default:0"`
	CalculatedPrice  decimal.Decimal  `gorm:"column:calculated_price;type:numeric(14,2);not null;default:0"`
	FinalPrice       decimal.Decimal  `gorm:"column:final_price;type:numeric(14,2);not null;default:0"`
	IsManualOverride bool             `gorm:"column:is_manual_override;not null;default:false"`
	CreatedAt        time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

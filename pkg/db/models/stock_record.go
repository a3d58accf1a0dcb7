package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockRecord tracks on-hand quantity for one product in one warehouse.
// Records are never deleted, only zeroed, so cost history stays traceable.
type StockRecord struct {
	ID                uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	WarehouseID       uuid.UUID        `gorm:"column:warehouse_id;type:uuid;not null;uniqueIndex:uq_stock_warehouse_product"`
	ProductID         uuid.UUID        `gorm:"column:product_id;type:uuid;not null;uniqueIndex:uq_stock_warehouse_product"`
	Quantity          decimal.Decimal  `gorm:"column:quantity;type:numeric(14,3);not null;default:0"`
	AvailableQuantity decimal.Decimal  `gorm:"column:available_quantity;type:numeric(14,3);not null;default:0"`
	MinStock          decimal.Decimal  `gorm:"column:min_stock;type:numeric(14,3);not null;default:0"`
	MaxStock          *decimal.Decimal `gorm:"column:max_stock;type:numeric(14,3)"`
	CostPrice         *decimal.Decimal `gorm:"column:cost_price;type:numeric(14,2)"`
	CreatedAt         time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

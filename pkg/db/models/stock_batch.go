package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockBatch is one discrete receipt lot, kept after depletion for FIFO costing.
type StockBatch struct {
	ID                uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StockRecordID     uuid.UUID       `gorm:"column:stock_record_id;type:uuid;not null;index"`
	BatchNumber       string          `gorm:"column:batch_number;not null"`
	InitialQuantity   decimal.Decimal `gorm:"column:initial_quantity;type:numeric(14,3);not null"`
	RemainingQuantity decimal.Decimal `gorm:"column:remaining_quantity;type:numeric(14,3);not null"`
	UnitCost          decimal.Decimal `gorm:"column:unit_cost;type:numeric(14,2);not null;default:0"`
	ReceivedDate      time.Time       `gorm:"column:received_date;not null"`
	ExpiryDate        *time.Time      `gorm:"column:expiry_date"`
	CreatedAt         time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

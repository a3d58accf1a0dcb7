package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vitrina-app/vitrina-backend/pkg/enums"
)

// Order is created only through checkout submission.
type Order struct {
	ID              uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID         uuid.UUID            `gorm:"column:store_id;type:uuid;not null;index"`
	CartID          uuid.UUID            `gorm:"column:cart_id;type:uuid;not null"`
	Status          enums.OrderStatus    `gorm:"column:status;type:order_status;not null;default:'pending'"`
	CustomerName    string               `gorm:"column:customer_name;not null"`
	CustomerPhone   string               `gorm:"column:customer_phone;not null"`
	CustomerEmail   *string              `gorm:"column:customer_email"`
	DeliveryMethod  enums.DeliveryMethod `gorm:"column:delivery_method;type:delivery_method;not null"`
	ShippingAddress *string              `gorm:"column:shipping_address"`
	PaymentMethodID uuid.UUID            `gorm:"column:payment_method_id;type:uuid;not null"`
	Notes           *string              `gorm:"column:notes"`
	TotalAmount     decimal.Decimal      `gorm:"column:total_amount;type:numeric(14,2);not null"`
	ItemsCount      int                  `gorm:"column:items_count;not null"`
	Items           []OrderItem          `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

package checkout

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vitrina-app/vitrina-backend/pkg/db/models"
	"github.com/vitrina-app/vitrina-backend/pkg/enums"
)

// OrderPayload is the normalized order-submission body assembled from a
// validated form and the cart snapshot.
type OrderPayload struct {
	CartID          uuid.UUID            `json:"cartId"`
	StoreID         uuid.UUID            `json:"storeId"`
	CustomerName    string               `json:"customerName"`
	CustomerPhone   string               `json:"customerPhone"`
	CustomerEmail   *string              `json:"customerEmail"`
	DeliveryMethod  enums.DeliveryMethod `json:"deliveryMethod"`
	ShippingAddress *string              `json:"shippingAddress"`
	PaymentMethodID uuid.UUID            `json:"paymentMethodId"`
	Notes           *string              `json:"notes"`
	TotalAmount     decimal.Decimal      `json:"totalAmount"`
	ItemsCount      int                  `json:"itemsCount"`
}

// BuildOrderPayload maps the form onto a submission body. A pickup order
// drops any stale shipping address, and blank optional strings become nil
// rather than empty strings.
func BuildOrderPayload(form Form, cart models.CartRecord) OrderPayload {
	payload := OrderPayload{
		CartID:          cart.ID,
		StoreID:         cart.StoreID,
		CustomerName:    strings.TrimSpace(form.CustomerName),
		CustomerPhone:   strings.TrimSpace(form.CustomerPhone),
		CustomerEmail:   optionalString(form.CustomerEmail),
		DeliveryMethod:  form.DeliveryMethod,
		PaymentMethodID: form.PaymentMethodID,
		Notes:           optionalString(form.Notes),
		TotalAmount:     cart.TotalAmount,
		ItemsCount:      cart.ItemsCount,
	}
	if form.DeliveryMethod == enums.DeliveryMethodDelivery {
		payload.ShippingAddress = optionalString(form.ShippingAddress)
	}
	return payload
}

func optionalString(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

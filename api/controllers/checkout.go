package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vitrina-app/vitrina-backend/api/responses"
	"github.com/vitrina-app/vitrina-backend/api/validators"
	checkoutsvc "github.com/vitrina-app/vitrina-backend/internal/checkout"
	"github.com/vitrina-app/vitrina-backend/pkg/db/models"
	"github.com/vitrina-app/vitrina-backend/pkg/enums"
	pkgerrors "github.com/vitrina-app/vitrina-backend/pkg/errors"
	"github.com/vitrina-app/vitrina-backend/pkg/logger"
)

const idempotencyKeyHeader = "Idempotency-Key"

// CheckoutValidateStep validates a single form step without submitting,
// so the storefront can gate its wizard navigation server-side.
func CheckoutValidateStep(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload validateStepRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		form, err := payload.Form.toForm()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		errs := checkoutsvc.ValidateStep(checkoutsvc.Step(payload.Step), form)
		responses.WriteSuccess(w, validateStepResponse{
			Valid:  errs.Valid(),
			Errors: errs,
		})
	}
}

// CheckoutSubmit converts the session's active cart into an order.
func CheckoutSubmit(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, sessionID, err := storefrontScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		form, err := payload.toForm()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Submit(r.Context(), checkoutsvc.SubmitInput{
			StoreID:        storeID,
			SessionID:      sessionID,
			Form:           form,
			IdempotencyKey: strings.TrimSpace(r.Header.Get(idempotencyKeyHeader)),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newOrderResponse(order))
	}
}

// checkoutRequest carries no validate tags on purpose. Field-level
// validation is the checkout form's job, so the wizard's partial state can
// round-trip through the validate endpoint without tripping the decoder.
type checkoutRequest struct {
	CustomerName    string    `json:"customerName"`
	CustomerPhone   string    `json:"customerPhone"`
	CustomerEmail   string    `json:"customerEmail,omitempty"`
	DeliveryMethod  string    `json:"deliveryMethod"`
	ShippingAddress string    `json:"shippingAddress,omitempty"`
	PaymentMethodID uuid.UUID `json:"paymentMethodId"`
	Notes           string    `json:"notes,omitempty"`
}

func (c checkoutRequest) toForm() (checkoutsvc.Form, error) {
	var method enums.DeliveryMethod
	if c.DeliveryMethod != "" {
		parsed, err := enums.ParseDeliveryMethod(c.DeliveryMethod)
		if err != nil {
			return checkoutsvc.Form{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid delivery method")
		}
		method = parsed
	}
	return checkoutsvc.Form{
		CustomerName:    c.CustomerName,
		CustomerPhone:   c.CustomerPhone,
		CustomerEmail:   c.CustomerEmail,
		DeliveryMethod:  method,
		ShippingAddress: c.ShippingAddress,
		PaymentMethodID: c.PaymentMethodID,
		Notes:           c.Notes,
	}, nil
}

type validateStepRequest struct {
	Step int             `json:"step" validate:"required,min=1,max=3"`
	Form checkoutRequest `json:"form"`
}

type validateStepResponse struct {
	Valid  bool                         `json:"valid"`
	Errors checkoutsvc.ValidationErrors `json:"errors,omitempty"`
}

type orderResponse struct {
	ID              uuid.UUID           `json:"id"`
	StoreID         uuid.UUID           `json:"storeId"`
	CartID          uuid.UUID           `json:"cartId"`
	Status          string              `json:"status"`
	CustomerName    string              `json:"customerName"`
	CustomerPhone   string              `json:"customerPhone"`
	CustomerEmail   *string             `json:"customerEmail,omitempty"`
	DeliveryMethod  string              `json:"deliveryMethod"`
	ShippingAddress *string             `json:"shippingAddress,omitempty"`
	PaymentMethodID uuid.UUID           `json:"paymentMethodId"`
	Notes           *string             `json:"notes,omitempty"`
	TotalAmount     decimal.Decimal     `json:"totalAmount"`
	ItemsCount      int                 `json:"itemsCount"`
	Items           []orderItemResponse `json:"items,omitempty"`
	CreatedAt       time.Time           `json:"createdAt"`
}

type orderItemResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"productId"`
	VariantID *uuid.UUID      `json:"variantId,omitempty"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

func newOrderResponse(order *models.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, orderItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			LineTotal: item.LineTotal,
		})
	}
	return orderResponse{
		ID:              order.ID,
		StoreID:         order.StoreID,
		CartID:          order.CartID,
		Status:          string(order.Status),
		CustomerName:    order.CustomerName,
		CustomerPhone:   order.CustomerPhone,
		CustomerEmail:   order.CustomerEmail,
		DeliveryMethod:  string(order.DeliveryMethod),
		ShippingAddress: order.ShippingAddress,
		PaymentMethodID: order.PaymentMethodID,
		Notes:           order.Notes,
		TotalAmount:     order.TotalAmount,
		ItemsCount:      order.ItemsCount,
		Items:           items,
		CreatedAt:       order.CreatedAt,
	}
}

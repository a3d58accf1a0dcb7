package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vitrina-app/vitrina-backend/api/middleware"
	"github.com/vitrina-app/vitrina-backend/api/responses"
	"github.com/vitrina-app/vitrina-backend/api/validators"
	cartsvc "github.com/vitrina-app/vitrina-backend/internal/cart"
	"github.com/vitrina-app/vitrina-backend/pkg/db/models"
	pkgerrors "github.com/vitrina-app/vitrina-backend/pkg/errors"
	"github.com/vitrina-app/vitrina-backend/pkg/logger"
)

// CartFetch returns the session's active cart, creating one on first use.
func CartFetch(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, sessionID, err := storefrontScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.Get(r.Context(), storeID, sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(record))
	}
}

// CartAddItem adds a product line to the session's cart, merging with an
// existing line for the same product and variant.
func CartAddItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, sessionID, err := storefrontScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.AddItem(r.Context(), cartsvc.AddItemInput{
			StoreID:   storeID,
			SessionID: sessionID,
			ProductID: payload.ProductID,
			VariantID: payload.VariantID,
			UnitPrice: payload.UnitPrice,
			Quantity:  payload.Quantity,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(record))
	}
}

// CartUpdateItem changes a line's quantity.
func CartUpdateItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cartID, itemID, err := cartItemScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.UpdateItemQuantity(r.Context(), cartID, itemID, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(record))
	}
}

// CartRemoveItem drops a line from the cart.
func CartRemoveItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cartID, itemID, err := cartItemScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.RemoveItem(r.Context(), cartID, itemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(record))
	}
}

// CartClear empties the cart in one call.
func CartClear(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cartID, err := validators.ParsePathUUID(chi.URLParam(r, "cartId"), "cartId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Clear(r.Context(), cartID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "cleared"})
	}
}

func storefrontScope(r *http.Request) (uuid.UUID, string, error) {
	storeID, err := storeIDFromContext(r)
	if err != nil {
		return uuid.Nil, "", err
	}
	sessionID := middleware.SessionIDFromContext(r.Context())
	if sessionID == "" {
		return uuid.Nil, "", pkgerrors.New(pkgerrors.CodeValidation, "session id required")
	}
	return storeID, sessionID, nil
}

func cartItemScope(r *http.Request) (uuid.UUID, uuid.UUID, error) {
	cartID, err := validators.ParsePathUUID(chi.URLParam(r, "cartId"), "cartId")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	itemID, err := validators.ParsePathUUID(chi.URLParam(r, "itemId"), "itemId")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return cartID, itemID, nil
}

type addCartItemRequest struct {
	ProductID uuid.UUID       `json:"productId" validate:"required"`
	VariantID *uuid.UUID      `json:"variantId,omitempty"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity" validate:"required,min=1"`
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

type cartResponse struct {
	ID          uuid.UUID          `json:"id"`
	StoreID     uuid.UUID          `json:"storeId"`
	SessionID   string             `json:"sessionId"`
	Status      string             `json:"status"`
	TotalAmount decimal.Decimal    `json:"totalAmount"`
	ItemsCount  int                `json:"itemsCount"`
	Items       []cartItemResponse `json:"items"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

type cartItemResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"productId"`
	VariantID *uuid.UUID      `json:"variantId,omitempty"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
}

func newCartResponse(record *models.CartRecord) cartResponse {
	items := make([]cartItemResponse, 0, len(record.Items))
	for _, item := range record.Items {
		items = append(items, cartItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		})
	}
	return cartResponse{
		ID:          record.ID,
		StoreID:     record.StoreID,
		SessionID:   record.SessionID,
		Status:      string(record.Status),
		TotalAmount: record.TotalAmount,
		ItemsCount:  record.ItemsCount,
		Items:       items,
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}
}

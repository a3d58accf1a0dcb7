package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vitrina-app/vitrina-backend/api/responses"
	"github.com/vitrina-app/vitrina-backend/api/validators"
	pricingsvc "github.com/vitrina-app/vitrina-backend/internal/pricing"
	"github.com/vitrina-app/vitrina-backend/pkg/db/models"
	"github.com/vitrina-app/vitrina-backend/pkg/enums"
	pkgerrors "github.com/vitrina-app/vitrina-backend/pkg/errors"
	"github.com/vitrina-app/vitrina-backend/pkg/logger"
)

// PriceListCreate starts a new price list for the caller's store.
func PriceListCreate(svc pricingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := storeIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createPriceListRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		autoUpdate := true
		if payload.AutoUpdate != nil {
			autoUpdate = *payload.AutoUpdate
		}

		list, err := svc.CreatePriceList(r.Context(), pricingsvc.CreatePriceListInput{
			StoreID:    storeID,
			Name:       payload.Name,
			AutoUpdate: autoUpdate,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newPriceListResponse(list))
	}
}

// PriceListList returns every price list owned by the caller's store.
func PriceListList(svc pricingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := storeIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lists, err := svc.ListPriceLists(r.Context(), storeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]priceListResponse, 0, len(lists))
		for i := range lists {
			items = append(items, newPriceListResponse(&lists[i]))
		}
		responses.WriteSuccess(w, items)
	}
}

// PriceListDetail returns one price list with its items.
func PriceListDetail(svc pricingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		listID, err := validators.ParsePathUUID(chi.URLParam(r, "priceListId"), "priceListId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.GetPriceList(r.Context(), listID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newPriceListResponse(list))
	}
}

// PriceListItemUpsert sets a product's markup inside a price list and
// rederives the sell price.
func PriceListItemUpsert(svc pricingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		listID, err := validators.ParsePathUUID(chi.URLParam(r, "priceListId"), "priceListId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload upsertPriceItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		markupType, err := enums.ParseMarkupType(payload.MarkupType)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid markup type"))
			return
		}

		item, err := svc.UpsertItem(r.Context(), pricingsvc.UpsertItemInput{
			PriceListID: listID,
			ProductID:   payload.ProductID,
			CurrentCost: payload.CurrentCost,
			MarkupType:  markupType,
			MarkupValue: payload.MarkupValue,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newPriceItemResponse(item))
	}
}

// ManualOverrideSet freezes an item's final price at the given value.
func ManualOverrideSet(svc pricingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, err := validators.ParsePathUUID(chi.URLParam(r, "itemId"), "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload manualOverrideRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.SetManualOverride(r.Context(), itemID, payload.Price)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newPriceItemResponse(item))
	}
}

// ManualOverrideClear restores an item to its calculated price.
func ManualOverrideClear(svc pricingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, err := validators.ParsePathUUID(chi.URLParam(r, "itemId"), "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.ClearManualOverride(r.Context(), itemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newPriceItemResponse(item))
	}
}

// CostPropagate pushes a new supply cost into every auto-updating price list.
func CostPropagate(svc pricingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParsePathUUID(chi.URLParam(r, "productId"), "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload propagateCostRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.PropagateCost(r.Context(), productID, payload.NewCost)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]int{"updatedItems": updated})
	}
}

// PriceListCopy duplicates a list with all its items under a new name.
func PriceListCopy(svc pricingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		listID, err := validators.ParsePathUUID(chi.URLParam(r, "priceListId"), "priceListId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload copyPriceListRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.CopyPriceList(r.Context(), listID, payload.Name)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newPriceListResponse(list))
	}
}

// PriceListToggle flips a list's active flag.
func PriceListToggle(svc pricingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		listID, err := validators.ParsePathUUID(chi.URLParam(r, "priceListId"), "priceListId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ToggleStatus(r.Context(), listID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newPriceListResponse(list))
	}
}

// PriceListSummary returns aggregate profitability stats for a list.
func PriceListSummary(svc pricingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		listID, err := validators.ParsePathUUID(chi.URLParam(r, "priceListId"), "priceListId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summary, err := svc.Summary(r.Context(), listID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, summary)
	}
}

type createPriceListRequest struct {
	Name       string `json:"name" validate:"required,min=1,max=128"`
	AutoUpdate *bool  `json:"autoUpdate,omitempty"`
}

type upsertPriceItemRequest struct {
	ProductID   uuid.UUID       `json:"productId" validate:"required"`
	CurrentCost decimal.Decimal `json:"currentCost"`
	MarkupType  string          `json:"markupType" validate:"required"`
	MarkupValue decimal.Decimal `json:"markupValue"`
}

type manualOverrideRequest struct {
	Price decimal.Decimal `json:"price"`
}

type propagateCostRequest struct {
	NewCost decimal.Decimal `json:"newCost"`
}

type copyPriceListRequest struct {
	Name string `json:"name" validate:"required,min=1,max=128"`
}

type priceListResponse struct {
	ID         uuid.UUID           `json:"id"`
	StoreID    uuid.UUID           `json:"storeId"`
	Name       string              `json:"name"`
	AutoUpdate bool                `json:"autoUpdate"`
	IsActive   bool                `json:"isActive"`
	Items      []priceItemResponse `json:"items,omitempty"`
	CreatedAt  time.Time           `json:"createdAt"`
	UpdatedAt  time.Time           `json:"updatedAt"`
}

type priceItemResponse struct {
	ID               uuid.UUID       `json:"id"`
	PriceListID      uuid.UUID       `json:"priceListId"`
	ProductID        uuid.UUID       `json:"productId"`
	CurrentCost      decimal.Decimal `json:"currentCost"`
	MarkupType       string          `json:"markupType"`
	MarkupValue      decimal.Decimal `json:"markupValue"`
	CalculatedPrice  decimal.Decimal `json:"calculatedPrice"`
	FinalPrice       decimal.Decimal `json:"finalPrice"`
	IsManualOverride bool            `json:"isManualOverride"`
}

func newPriceListResponse(list *models.PriceList) priceListResponse {
	items := make([]priceItemResponse, 0, len(list.Items))
	for i := range list.Items {
		items = append(items, newPriceItemResponse(&list.Items[i]))
	}
	return priceListResponse{
		ID:         list.ID,
		StoreID:    list.StoreID,
		Name:       list.Name,
		AutoUpdate: list.AutoUpdate,
		IsActive:   list.IsActive,
		Items:      items,
		CreatedAt:  list.CreatedAt,
		UpdatedAt:  list.UpdatedAt,
	}
}

func newPriceItemResponse(item *models.PriceListItem) priceItemResponse {
	return priceItemResponse{
		ID:               item.ID,
		PriceListID:      item.PriceListID,
		ProductID:        item.ProductID,
		CurrentCost:      item.CurrentCost,
		MarkupType:       string(item.MarkupType),
		MarkupValue:      item.MarkupValue,
		CalculatedPrice:  item.CalculatedPrice,
		FinalPrice:       item.FinalPrice,
		IsManualOverride: item.IsManualOverride,
	}
}

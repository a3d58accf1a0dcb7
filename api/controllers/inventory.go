package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vitrina-app/vitrina-backend/api/responses"
	"github.com/vitrina-app/vitrina-backend/api/validators"
	inventorysvc "github.com/vitrina-app/vitrina-backend/internal/inventory"
	"github.com/vitrina-app/vitrina-backend/pkg/enums"
	"github.com/vitrina-app/vitrina-backend/pkg/logger"
)

// StockList returns stock records for one warehouse with derived statuses.
func StockList(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		warehouseID, err := validators.ParsePathUUID(chi.URLParam(r, "warehouseId"), "warehouseId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		views, err := svc.ListStock(r.Context(), warehouseID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]stockResponse, 0, len(views))
		for _, view := range views {
			items = append(items, newStockResponse(view))
		}
		responses.WriteSuccess(w, items)
	}
}

// StockDetail returns one stock record with its derived status.
func StockDetail(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stockID, err := validators.ParsePathUUID(chi.URLParam(r, "stockId"), "stockId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.GetStock(r.Context(), stockID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newStockResponse(*view))
	}
}

// BatchList returns the supply batches under one stock record.
func BatchList(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stockID, err := validators.ParsePathUUID(chi.URLParam(r, "stockId"), "stockId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		views, err := svc.ListBatches(r.Context(), stockID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]batchResponse, 0, len(views))
		for _, view := range views {
			items = append(items, newBatchResponse(view))
		}
		responses.WriteSuccess(w, items)
	}
}

// ReceiveSupply books an incoming supply lot into a warehouse.
func ReceiveSupply(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload receiveSupplyRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		receivedDate := time.Now()
		if payload.ReceivedDate != nil {
			receivedDate = *payload.ReceivedDate
		}

		batch, err := svc.ReceiveSupply(r.Context(), inventorysvc.ReceiveSupplyInput{
			WarehouseID:  payload.WarehouseID,
			ProductID:    payload.ProductID,
			BatchNumber:  payload.BatchNumber,
			Quantity:     payload.Quantity,
			UnitCost:     payload.UnitCost,
			ReceivedDate: receivedDate,
			ExpiryDate:   payload.ExpiryDate,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, batch)
	}
}

// AdjustStock applies a manual quantity correction to a stock record.
func AdjustStock(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stockID, err := validators.ParsePathUUID(chi.URLParam(r, "stockId"), "stockId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload adjustStockRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.AdjustStock(r.Context(), inventorysvc.AdjustStockInput{
			StockRecordID: stockID,
			Quantity:      payload.Quantity,
			MinStock:      payload.MinStock,
			MaxStock:      payload.MaxStock,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, record)
	}
}

type receiveSupplyRequest struct {
	WarehouseID  uuid.UUID       `json:"warehouseId" validate:"required"`
	ProductID    uuid.UUID       `json:"productId" validate:"required"`
	BatchNumber  string          `json:"batchNumber" validate:"required,max=64"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitCost     decimal.Decimal `json:"unitCost"`
	ReceivedDate *time.Time      `json:"receivedDate,omitempty"`
	ExpiryDate   *time.Time      `json:"expiryDate,omitempty"`
}

type adjustStockRequest struct {
	Quantity decimal.Decimal  `json:"quantity"`
	MinStock *decimal.Decimal `json:"minStock,omitempty"`
	MaxStock *decimal.Decimal `json:"maxStock,omitempty"`
}

type stockResponse struct {
	ID                uuid.UUID         `json:"id"`
	WarehouseID       uuid.UUID         `json:"warehouseId"`
	ProductID         uuid.UUID         `json:"productId"`
	Quantity          decimal.Decimal   `json:"quantity"`
	AvailableQuantity decimal.Decimal   `json:"availableQuantity"`
	MinStock          decimal.Decimal   `json:"minStock"`
	MaxStock          *decimal.Decimal  `json:"maxStock,omitempty"`
	CostPrice         *decimal.Decimal  `json:"costPrice,omitempty"`
	Status            enums.StockStatus `json:"status"`
}

func newStockResponse(view inventorysvc.StockView) stockResponse {
	return stockResponse{
		ID:                view.Record.ID,
		WarehouseID:       view.Record.WarehouseID,
		ProductID:         view.Record.ProductID,
		Quantity:          view.Record.Quantity,
		AvailableQuantity: view.Record.AvailableQuantity,
		MinStock:          view.Record.MinStock,
		MaxStock:          view.Record.MaxStock,
		CostPrice:         view.Record.CostPrice,
		Status:            view.Status,
	}
}

type batchResponse struct {
	ID                uuid.UUID         `json:"id"`
	StockRecordID     uuid.UUID         `json:"stockRecordId"`
	BatchNumber       string            `json:"batchNumber"`
	InitialQuantity   decimal.Decimal   `json:"initialQuantity"`
	RemainingQuantity decimal.Decimal   `json:"remainingQuantity"`
	UnitCost          decimal.Decimal   `json:"unitCost"`
	ReceivedDate      time.Time         `json:"receivedDate"`
	ExpiryDate        *time.Time        `json:"expiryDate,omitempty"`
	Status            enums.BatchStatus `json:"status"`
	DepletionPercent  decimal.Decimal   `json:"depletionPercent"`
}

func newBatchResponse(view inventorysvc.BatchView) batchResponse {
	return batchResponse{
		ID:                view.Batch.ID,
		StockRecordID:     view.Batch.StockRecordID,
		BatchNumber:       view.Batch.BatchNumber,
		InitialQuantity:   view.Batch.InitialQuantity,
		RemainingQuantity: view.Batch.RemainingQuantity,
		UnitCost:          view.Batch.UnitCost,
		ReceivedDate:      view.Batch.ReceivedDate,
		ExpiryDate:        view.Batch.ExpiryDate,
		Status:            view.Status,
		DepletionPercent:  view.DepletionPercent,
	}
}

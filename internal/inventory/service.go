package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/vitrina-app/vitrina-backend/pkg/db/models"
	"github.com/vitrina-app/vitrina-backend/pkg/enums"
	pkgerrors "github.com/vitrina-app/vitrina-backend/pkg/errors"
	"github.com/vitrina-app/vitrina-backend/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// StockView pairs a stock record with its derived status.
type StockView struct {
	Record models.StockRecord `json:"record"`
	Status enums.StockStatus  `json:"status"`
}

// BatchView pairs a batch with its derived lifecycle state and depletion.
type BatchView struct {
	Batch            models.StockBatch `json:"batch"`
	Status           enums.BatchStatus `json:"status"`
	DepletionPercent decimal.Decimal   `json:"depletionPercent"`
}

// ReceiveSupplyInput captures one incoming supply lot.
type ReceiveSupplyInput struct {
	WarehouseID  uuid.UUID
	ProductID    uuid.UUID
	BatchNumber  string
	Quantity     decimal.Decimal
	UnitCost     decimal.Decimal
	ReceivedDate time.Time
	ExpiryDate   *time.Time
}

// AdjustStockInput captures a manual stock correction.
type AdjustStockInput struct {
	StockRecordID uuid.UUID
	Quantity      decimal.Decimal
	MinStock      *decimal.Decimal
	MaxStock      *decimal.Decimal
}

// Service exposes warehouse inventory operations.
type Service interface {
	ListStock(ctx context.Context, warehouseID uuid.UUID) ([]StockView, error)
	GetStock(ctx context.Context, id uuid.UUID) (*StockView, error)
	ListBatches(ctx context.Context, stockRecordID uuid.UUID) ([]BatchView, error)
	ReceiveSupply(ctx context.Context, input ReceiveSupplyInput) (*models.StockBatch, error)
	AdjustStock(ctx context.Context, input AdjustStockInput) (*models.StockRecord, error)
	ConsumeProduct(ctx context.Context, tx *gorm.DB, productID uuid.UUID, quantity decimal.Decimal) error
}

type service struct {
	repo Repository
	tx   txRunner
	logg *logger.Logger
	now  func() time.Time
}

// NewService builds an inventory service with the required dependencies.
func NewService(repo Repository, tx txRunner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, tx: tx, logg: logg, now: time.Now}, nil
}

func (s *service) ListStock(ctx context.Context, warehouseID uuid.UUID) ([]StockView, error) {
	if warehouseID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "warehouse id required")
	}
	records, err := s.repo.ListStockRecords(ctx, warehouseID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list stock records")
	}
	views := make([]StockView, 0, len(records))
	for _, record := range records {
		views = append(views, StockView{Record: record, Status: ClassifyStock(record)})
	}
	return views, nil
}

func (s *service) GetStock(ctx context.Context, id uuid.UUID) (*StockView, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock record id required")
	}
	record, err := s.repo.FindStockRecord(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "stock record not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load stock record")
	}
	return &StockView{Record: *record, Status: ClassifyStock(*record)}, nil
}

func (s *service) ListBatches(ctx context.Context, stockRecordID uuid.UUID) ([]BatchView, error) {
	if stockRecordID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock record id required")
	}
	batches, err := s.repo.ListBatches(ctx, stockRecordID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list batches")
	}
	now := s.now()
	views := make([]BatchView, 0, len(batches))
	for _, batch := range batches {
		views = append(views, BatchView{
			Batch:            batch,
			Status:           ClassifyBatch(batch, now),
			DepletionPercent: DepletionPercent(batch),
		})
	}
	return views, nil
}

func (s *service) ReceiveSupply(ctx context.Context, input ReceiveSupplyInput) (*models.StockBatch, error) {
	if input.WarehouseID == uuid.Nil || input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "warehouse and product ids required")
	}
	if input.BatchNumber == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "batch number required")
	}
	if input.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if input.UnitCost.LessThan(decimal.Zero) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit cost cannot be negative")
	}
	if input.ReceivedDate.IsZero() {
		input.ReceivedDate = s.now()
	}

	var created *models.StockBatch
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		record, err := repo.FindStockRecordByWarehouseProduct(ctx, input.WarehouseID, input.ProductID)
		if err == gorm.ErrRecordNotFound {
			record, err = repo.CreateStockRecord(ctx, &models.StockRecord{
				WarehouseID: input.WarehouseID,
				ProductID:   input.ProductID,
			})
		}
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load stock record")
		}

		batch := &models.StockBatch{
			StockRecordID:     record.ID,
			BatchNumber:       input.BatchNumber,
			InitialQuantity:   input.Quantity,
			RemainingQuantity: input.Quantity,
			UnitCost:          input.UnitCost,
			ReceivedDate:      input.ReceivedDate,
			ExpiryDate:        input.ExpiryDate,
		}
		if _, err := repo.CreateBatch(ctx, batch); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create batch")
		}

		updates := map[string]any{
			"quantity":           record.Quantity.Add(input.Quantity),
			"available_quantity": record.AvailableQuantity.Add(input.Quantity),
			"cost_price":         input.UnitCost,
		}
		if err := repo.UpdateStockRecord(ctx, record.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update stock record")
		}

		created = batch
		return nil
	})
	if err != nil {
		return nil, err
	}

	fields := map[string]any{
		"batch_id":     created.ID.String(),
		"product_id":   input.ProductID.String(),
		"warehouse_id": input.WarehouseID.String(),
	}
	s.logg.Info(s.logg.WithFields(ctx, fields), "supply received")
	return created, nil
}

func (s *service) AdjustStock(ctx context.Context, input AdjustStockInput) (*models.StockRecord, error) {
	if input.StockRecordID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock record id required")
	}
	if input.Quantity.LessThan(decimal.Zero) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}

	var adjusted *models.StockRecord
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		record, err := repo.FindStockRecord(ctx, input.StockRecordID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "stock record not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load stock record")
		}

		// Reserved quantity (on-hand minus available) is preserved across adjustments.
		reserved := record.Quantity.Sub(record.AvailableQuantity)
		available := input.Quantity.Sub(reserved)
		if available.LessThan(decimal.Zero) {
			available = decimal.Zero
		}

		updates := map[string]any{
			"quantity":           input.Quantity,
			"available_quantity": available,
		}
		if input.MinStock != nil {
			updates["min_stock"] = *input.MinStock
		}
		if input.MaxStock != nil {
			updates["max_stock"] = *input.MaxStock
		}
		if err := repo.UpdateStockRecord(ctx, record.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update stock record")
		}

		record.Quantity = input.Quantity
		record.AvailableQuantity = available
		if input.MinStock != nil {
			record.MinStock = *input.MinStock
		}
		if input.MaxStock != nil {
			record.MaxStock = input.MaxStock
		}
		adjusted = record
		return nil
	})
	if err != nil {
		return nil, err
	}
	return adjusted, nil
}

// ConsumeProduct walks the product's stock FIFO (oldest received batch first)
// and decrements batch and record quantities inside the caller's transaction.
func (s *service) ConsumeProduct(ctx context.Context, tx *gorm.DB, productID uuid.UUID, quantity decimal.Decimal) error {
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeInternal, "transaction required")
	}
	if productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	repo := s.repo.WithTx(tx)
	records, err := repo.FindStockRecordsByProduct(ctx, productID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load stock records")
	}

	remaining := quantity
	for _, record := range records {
		if remaining.IsZero() {
			break
		}
		take := decimal.Min(remaining, record.AvailableQuantity)
		if take.LessThanOrEqual(decimal.Zero) {
			continue
		}

		if err := s.consumeFromRecord(ctx, repo, record, take); err != nil {
			return err
		}
		remaining = remaining.Sub(take)
	}

	if remaining.GreaterThan(decimal.Zero) {
		details := map[string]any{"product_id": productID.String(), "short_by": remaining.String()}
		return pkgerrors.New(pkgerrors.CodeStateConflict, "insufficient stock").WithDetails(details)
	}
	return nil
}

func (s *service) consumeFromRecord(ctx context.Context, repo Repository, record models.StockRecord, quantity decimal.Decimal) error {
	batches, err := repo.ListOpenBatchesFIFO(ctx, record.ID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load open batches")
	}

	remaining := quantity
	for _, batch := range batches {
		if remaining.IsZero() {
			break
		}
		take := decimal.Min(remaining, batch.RemainingQuantity)
		updates := map[string]any{"remaining_quantity": batch.RemainingQuantity.Sub(take)}
		if err := repo.UpdateBatch(ctx, batch.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update batch")
		}
		remaining = remaining.Sub(take)
	}
	if remaining.GreaterThan(decimal.Zero) {
		details := map[string]any{"stock_record_id": record.ID.String(), "short_by": remaining.String()}
		return pkgerrors.New(pkgerrors.CodeStateConflict, "stock record has fewer batched units than available").WithDetails(details)
	}

	updates := map[string]any{
		"quantity":           record.Quantity.Sub(quantity),
		"available_quantity": record.AvailableQuantity.Sub(quantity),
	}
	if err := repo.UpdateStockRecord(ctx, record.ID, updates); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update stock record")
	}
	return nil
}

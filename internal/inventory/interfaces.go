package inventory

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vitrina-app/vitrina-backend/pkg/db/models"
)

// Repository defines persistence operations for warehouse stock tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindStockRecord(ctx context.Context, id uuid.UUID) (*models.StockRecord, error)
	FindStockRecordByWarehouseProduct(ctx context.Context, warehouseID, productID uuid.UUID) (*models.StockRecord, error)
	FindStockRecordsByProduct(ctx context.Context, productID uuid.UUID) ([]models.StockRecord, error)
	ListStockRecords(ctx context.Context, warehouseID uuid.UUID) ([]models.StockRecord, error)
	CreateStockRecord(ctx context.Context, record *models.StockRecord) (*models.StockRecord, error)
	UpdateStockRecord(ctx context.Context, id uuid.UUID, updates map[string]any) error
	CreateBatch(ctx context.Context, batch *models.StockBatch) (*models.StockBatch, error)
	ListBatches(ctx context.Context, stockRecordID uuid.UUID) ([]models.StockBatch, error)
	ListOpenBatchesFIFO(ctx context.Context, stockRecordID uuid.UUID) ([]models.StockBatch, error)
	UpdateBatch(ctx context.Context, id uuid.UUID, updates map[string]any) error
}

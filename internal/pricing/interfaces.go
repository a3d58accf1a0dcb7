package pricing

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vitrina-app/vitrina-backend/pkg/db/models"
)

// Repository defines persistence operations for price lists and their items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreatePriceList(ctx context.Context, list *models.PriceList) (*models.PriceList, error)
	FindPriceList(ctx context.Context, id uuid.UUID) (*models.PriceList, error)
	ListPriceLists(ctx context.Context, storeID uuid.UUID) ([]models.PriceList, error)
	UpdatePriceList(ctx context.Context, id uuid.UUID, updates map[string]any) error
	UpsertItem(ctx context.Context, item *models.PriceListItem) (*models.PriceListItem, error)
	FindItem(ctx context.Context, id uuid.UUID) (*models.PriceListItem, error)
	ListItems(ctx context.Context, priceListID uuid.UUID) ([]models.PriceListItem, error)
	ListAutoUpdateItemsByProduct(ctx context.Context, productID uuid.UUID) ([]models.PriceListItem, error)
	UpdateItem(ctx context.Context, id uuid.UUID, updates map[string]any) error
	CreateItems(ctx context.Context, items []models.PriceListItem) error
}

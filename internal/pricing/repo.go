package pricing

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vitrina-app/vitrina-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a pricing repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreatePriceList(ctx context.Context, list *models.PriceList) (*models.PriceList, error) {
	if err := r.db.WithContext(ctx).Create(list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *repository) FindPriceList(ctx context.Context, id uuid.UUID) (*models.PriceList, error) {
	var list models.PriceList
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", id).
		First(&list).Error
	if err != nil {
		return nil, err
	}
	return &list, nil
}

func (r *repository) ListPriceLists(ctx context.Context, storeID uuid.UUID) ([]models.PriceList, error) {
	var lists []models.PriceList
	err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("created_at ASC").
		Find(&lists).Error
	if err != nil {
		return nil, err
	}
	return lists, nil
}

func (r *repository) UpdatePriceList(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.PriceList{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) UpsertItem(ctx context.Context, item *models.PriceListItem) (*models.PriceListItem, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "price_list_id"}, {Name: "product_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"current_cost", "markup_type", "markup_value",
				"calculated_price", "final_price", "is_manual_override", "updated_at",
			}),
		}).
		Create(item).Error
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *repository) FindItem(ctx context.Context, id uuid.UUID) (*models.PriceListItem, error) {
	var item models.PriceListItem
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) ListItems(ctx context.Context, priceListID uuid.UUID) ([]models.PriceListItem, error) {
	var items []models.PriceListItem
	err := r.db.WithContext(ctx).
		Where("price_list_id = ?", priceListID).
		Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) ListAutoUpdateItemsByProduct(ctx context.Context, productID uuid.UUID) ([]models.PriceListItem, error) {
	var items []models.PriceListItem
	err := r.db.WithContext(ctx).
		Joins("JOIN price_lists ON price_lists.id = price_list_items.price_list_id").
		Where("price_list_items.product_id = ? AND price_lists.auto_update = true", productID).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) UpdateItem(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.PriceListItem{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) CreateItems(ctx context.Context, items []models.PriceListItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

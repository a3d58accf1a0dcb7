package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/vitrina-app/vitrina-backend/pkg/db/models"
	"github.com/vitrina-app/vitrina-backend/pkg/enums"
	pkgerrors "github.com/vitrina-app/vitrina-backend/pkg/errors"
	"github.com/vitrina-app/vitrina-backend/pkg/logger"
	"github.com/vitrina-app/vitrina-backend/pkg/redis"
)

const cacheResource = "price_list"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// CreatePriceListInput captures the fields for a new price list.
type CreatePriceListInput struct {
	StoreID    uuid.UUID
	Name       string
	AutoUpdate bool
}

// UpsertItemInput carries one item's markup settings.
type UpsertItemInput struct {
	PriceListID uuid.UUID
	ProductID   uuid.UUID
	CurrentCost decimal.Decimal
	MarkupType  enums.MarkupType
	MarkupValue decimal.Decimal
}

// Service exposes price list management and derivation operations.
type Service interface {
	CreatePriceList(ctx context.Context, input CreatePriceListInput) (*models.PriceList, error)
	GetPriceList(ctx context.Context, id uuid.UUID) (*models.PriceList, error)
	ListPriceLists(ctx context.Context, storeID uuid.UUID) ([]models.PriceList, error)
	UpsertItem(ctx context.Context, input UpsertItemInput) (*models.PriceListItem, error)
	SetManualOverride(ctx context.Context, itemID uuid.UUID, price decimal.Decimal) (*models.PriceListItem, error)
	ClearManualOverride(ctx context.Context, itemID uuid.UUID) (*models.PriceListItem, error)
	PropagateCost(ctx context.Context, productID uuid.UUID, newCost decimal.Decimal) (int, error)
	CopyPriceList(ctx context.Context, id uuid.UUID, newName string) (*models.PriceList, error)
	ToggleStatus(ctx context.Context, id uuid.UUID) (*models.PriceList, error)
	Summary(ctx context.Context, id uuid.UUID) (*Summary, error)
}

type service struct {
	repo     Repository
	tx       txRunner
	cache    redis.Cache
	cacheTTL time.Duration
	logg     *logger.Logger
}

// NewService builds a pricing service with the required dependencies.
// The cache is optional; passing nil disables price list caching.
func NewService(repo Repository, tx txRunner, cache redis.Cache, cacheTTL time.Duration, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("pricing repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, tx: tx, cache: cache, cacheTTL: cacheTTL, logg: logg}, nil
}

func (s *service) CreatePriceList(ctx context.Context, input CreatePriceListInput) (*models.PriceList, error) {
	if input.StoreID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id required")
	}
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name required")
	}
	list := &models.PriceList{
		StoreID:    input.StoreID,
		Name:       input.Name,
		AutoUpdate: input.AutoUpdate,
		IsActive:   true,
	}
	if _, err := s.repo.CreatePriceList(ctx, list); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create price list")
	}
	return list, nil
}

func (s *service) GetPriceList(ctx context.Context, id uuid.UUID) (*models.PriceList, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price list id required")
	}

	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, s.cache.CacheKey(cacheResource, id.String())); err == nil {
			var cached models.PriceList
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return &cached, nil
			}
		}
	}

	list, err := s.repo.FindPriceList(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "price list not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load price list")
	}

	if s.cache != nil {
		if raw, err := json.Marshal(list); err == nil {
			// Cache write failures are non-fatal; the DB remains authoritative.
			if err := s.cache.Set(ctx, s.cache.CacheKey(cacheResource, id.String()), raw, s.cacheTTL); err != nil {
				s.logg.Warn(ctx, "price list cache write failed")
			}
		}
	}
	return list, nil
}

func (s *service) ListPriceLists(ctx context.Context, storeID uuid.UUID) ([]models.PriceList, error) {
	if storeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id required")
	}
	lists, err := s.repo.ListPriceLists(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list price lists")
	}
	return lists, nil
}

func (s *service) UpsertItem(ctx context.Context, input UpsertItemInput) (*models.PriceListItem, error) {
	if input.PriceListID == uuid.Nil || input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price list and product ids required")
	}
	if !input.MarkupType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid markup type")
	}
	if input.CurrentCost.LessThan(decimal.Zero) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cost cannot be negative")
	}

	quote := Compute(input.CurrentCost, input.MarkupType, input.MarkupValue, nil)
	item := &models.PriceListItem{
		PriceListID:     input.PriceListID,
		ProductID:       input.ProductID,
		CurrentCost:     input.CurrentCost,
		MarkupType:      input.MarkupType,
		MarkupValue:     input.MarkupValue,
		CalculatedPrice: quote.CalculatedPrice,
		FinalPrice:      quote.FinalPrice,
	}
	if _, err := s.repo.UpsertItem(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert price list item")
	}
	s.invalidate(ctx, input.PriceListID)
	return item, nil
}

func (s *service) SetManualOverride(ctx context.Context, itemID uuid.UUID, price decimal.Decimal) (*models.PriceListItem, error) {
	if price.LessThan(decimal.Zero) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "override price cannot be negative")
	}
	return s.mutateItem(ctx, itemID, func(item *models.PriceListItem) map[string]any {
		quote := Compute(item.CurrentCost, item.MarkupType, item.MarkupValue, &price)
		item.FinalPrice = quote.FinalPrice
		item.IsManualOverride = true
		return map[string]any{
			"final_price":        quote.FinalPrice,
			"is_manual_override": true,
		}
	})
}

func (s *service) ClearManualOverride(ctx context.Context, itemID uuid.UUID) (*models.PriceListItem, error) {
	return s.mutateItem(ctx, itemID, func(item *models.PriceListItem) map[string]any {
		quote := Compute(item.CurrentCost, item.MarkupType, item.MarkupValue, nil)
		item.CalculatedPrice = quote.CalculatedPrice
		item.FinalPrice = quote.FinalPrice
		item.IsManualOverride = false
		return map[string]any{
			"calculated_price":   quote.CalculatedPrice,
			"final_price":        quote.FinalPrice,
			"is_manual_override": false,
		}
	})
}

func (s *service) mutateItem(ctx context.Context, itemID uuid.UUID, apply func(*models.PriceListItem) map[string]any) (*models.PriceListItem, error) {
	if itemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}
	item, err := s.repo.FindItem(ctx, itemID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "price list item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load price list item")
	}
	updates := apply(item)
	if err := s.repo.UpdateItem(ctx, itemID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update price list item")
	}
	s.invalidate(ctx, item.PriceListID)
	return item, nil
}

// PropagateCost pushes a new product cost into every auto-update price
// list. Manual overrides keep their frozen final price; the calculated
// price is still refreshed so clearing the override lands on fresh data.
func (s *service) PropagateCost(ctx context.Context, productID uuid.UUID, newCost decimal.Decimal) (int, error) {
	if productID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if newCost.LessThan(decimal.Zero) {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "cost cannot be negative")
	}

	updated := 0
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		items, err := repo.ListAutoUpdateItemsByProduct(ctx, productID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list auto-update items")
		}
		for _, item := range items {
			quote := Compute(newCost, item.MarkupType, item.MarkupValue, nil)
			updates := map[string]any{
				"current_cost":     newCost,
				"calculated_price": quote.CalculatedPrice,
			}
			if !item.IsManualOverride {
				updates["final_price"] = quote.FinalPrice
			}
			if err := repo.UpdateItem(ctx, item.ID, updates); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update price list item")
			}
			s.invalidate(ctx, item.PriceListID)
			updated++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	fields := map[string]any{"product_id": productID.String(), "items_updated": updated}
	s.logg.Info(s.logg.WithFields(ctx, fields), "cost propagated to price lists")
	return updated, nil
}

func (s *service) CopyPriceList(ctx context.Context, id uuid.UUID, newName string) (*models.PriceList, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price list id required")
	}
	if newName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "new name required")
	}

	var copied *models.PriceList
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		source, err := repo.FindPriceList(ctx, id)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "price list not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load price list")
		}

		target := &models.PriceList{
			StoreID:    source.StoreID,
			Name:       newName,
			AutoUpdate: source.AutoUpdate,
			IsActive:   true,
		}
		if _, err := repo.CreatePriceList(ctx, target); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create price list copy")
		}

		items := make([]models.PriceListItem, 0, len(source.Items))
		for _, item := range source.Items {
			items = append(items, models.PriceListItem{
				PriceListID:      target.ID,
				ProductID:        item.ProductID,
				CurrentCost:      item.CurrentCost,
				MarkupType:       item.MarkupType,
				MarkupValue:      item.MarkupValue,
				CalculatedPrice:  item.CalculatedPrice,
				FinalPrice:       item.FinalPrice,
				IsManualOverride: item.IsManualOverride,
			})
		}
		if err := repo.CreateItems(ctx, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "copy price list items")
		}
		copied = target
		return nil
	})
	if err != nil {
		return nil, err
	}
	return copied, nil
}

func (s *service) ToggleStatus(ctx context.Context, id uuid.UUID) (*models.PriceList, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price list id required")
	}
	list, err := s.repo.FindPriceList(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "price list not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load price list")
	}
	list.IsActive = !list.IsActive
	if err := s.repo.UpdatePriceList(ctx, id, map[string]any{"is_active": list.IsActive}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update price list")
	}
	s.invalidate(ctx, id)
	return list, nil
}

func (s *service) Summary(ctx context.Context, id uuid.UUID) (*Summary, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price list id required")
	}
	items, err := s.repo.ListItems(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list price list items")
	}
	summary := Summarize(items)
	return &summary, nil
}

func (s *service) invalidate(ctx context.Context, priceListID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, s.cache.CacheKey(cacheResource, priceListID.String())); err != nil {
		s.logg.Warn(ctx, "price list cache invalidation failed")
	}
}

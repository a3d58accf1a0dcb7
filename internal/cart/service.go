package cart

import (
	"context"
	"fmt"

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

// AddItemInput captures a new cart line or an increment of an existing one.
type AddItemInput struct {
	StoreID   uuid.UUID
	SessionID string
	ProductID uuid.UUID
	VariantID *uuid.UUID
	UnitPrice decimal.Decimal
	Quantity  int
}

// Service exposes storefront cart operations. Totals are recomputed and
// persisted after every mutation so the stored aggregates never drift
// from the line items.
type Service interface {
	Get(ctx context.Context, storeID uuid.UUID, sessionID string) (*models.CartRecord, error)
	AddItem(ctx context.Context, input AddItemInput) (*models.CartRecord, error)
	UpdateItemQuantity(ctx context.Context, cartID, itemID uuid.UUID, quantity int) (*models.CartRecord, error)
	RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) (*models.CartRecord, error)
	Clear(ctx context.Context, cartID uuid.UUID) error
}

type service struct {
	repo Repository
	tx   txRunner
	logg *logger.Logger
}

// NewService builds a cart service with the required dependencies.
func NewService(repo Repository, tx txRunner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, tx: tx, logg: logg}, nil
}

// Get returns the session's active cart, creating an empty one on first use.
func (s *service) Get(ctx context.Context, storeID uuid.UUID, sessionID string) (*models.CartRecord, error) {
	if storeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id required")
	}
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id required")
	}

	cart, err := s.repo.FindActiveCart(ctx, storeID, sessionID)
	if err == gorm.ErrRecordNotFound {
		cart, err = s.repo.CreateCart(ctx, &models.CartRecord{
			StoreID:     storeID,
			SessionID:   sessionID,
			Status:      enums.CartStatusActive,
			TotalAmount: decimal.Zero,
		})
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return cart, nil
}

func (s *service) AddItem(ctx context.Context, input AddItemInput) (*models.CartRecord, error) {
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	if input.UnitPrice.LessThan(decimal.Zero) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit price cannot be negative")
	}

	cart, err := s.Get(ctx, input.StoreID, input.SessionID)
	if err != nil {
		return nil, err
	}

	var updated *models.CartRecord
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		existing, err := repo.FindItemByProduct(ctx, cart.ID, input.ProductID, input.VariantID)
		switch {
		case err == nil:
			updates := map[string]any{
				"quantity":   existing.Quantity + input.Quantity,
				"unit_price": input.UnitPrice,
			}
			if err := repo.UpdateItem(ctx, existing.ID, updates); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart item")
			}
		case err == gorm.ErrRecordNotFound:
			item := &models.CartItem{
				CartID:    cart.ID,
				ProductID: input.ProductID,
				VariantID: input.VariantID,
				UnitPrice: input.UnitPrice,
				Quantity:  input.Quantity,
			}
			if _, err := repo.CreateItem(ctx, item); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart item")
			}
		default:
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart item")
		}

		updated, err = s.refreshTotals(ctx, repo, cart.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) UpdateItemQuantity(ctx context.Context, cartID, itemID uuid.UUID, quantity int) (*models.CartRecord, error) {
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	var updated *models.CartRecord
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		item, err := s.loadCartItem(ctx, repo, cartID, itemID)
		if err != nil {
			return err
		}
		if err := repo.UpdateItem(ctx, item.ID, map[string]any{"quantity": quantity}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart item")
		}

		updated, err = s.refreshTotals(ctx, repo, cartID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) (*models.CartRecord, error) {
	var updated *models.CartRecord
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		item, err := s.loadCartItem(ctx, repo, cartID, itemID)
		if err != nil {
			return err
		}
		if err := repo.DeleteItem(ctx, item.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart item")
		}

		updated, err = s.refreshTotals(ctx, repo, cartID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) Clear(ctx context.Context, cartID uuid.UUID) error {
	if cartID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart id required")
	}
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.DeleteItems(ctx, cartID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart items")
		}
		updates := map[string]any{
			"total_amount": decimal.Zero,
			"items_count":  0,
		}
		if err := repo.UpdateCart(ctx, cartID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reset cart totals")
		}
		return nil
	})
}

func (s *service) loadCartItem(ctx context.Context, repo Repository, cartID, itemID uuid.UUID) (*models.CartItem, error) {
	if cartID == uuid.Nil || itemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart and item ids required")
	}
	item, err := repo.FindItem(ctx, itemID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart item")
	}
	if item.CartID != cartID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "item does not belong to cart")
	}
	return item, nil
}

func (s *service) refreshTotals(ctx context.Context, repo Repository, cartID uuid.UUID) (*models.CartRecord, error) {
	items, err := repo.ListItems(ctx, cartID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart items")
	}
	totals := ComputeTotals(items)
	updates := map[string]any{
		"total_amount": totals.TotalAmount,
		"items_count":  totals.ItemsCount,
	}
	if err := repo.UpdateCart(ctx, cartID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart totals")
	}

	cart, err := repo.FindCart(ctx, cartID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload cart")
	}
	return cart, nil
}

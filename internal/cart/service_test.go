package cart

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/vitrina-app/vitrina-backend/pkg/db/models"
	"github.com/vitrina-app/vitrina-backend/pkg/enums"
	pkgerrors "github.com/vitrina-app/vitrina-backend/pkg/errors"
	"github.com/vitrina-app/vitrina-backend/pkg/logger"
)

func dec(value string) decimal.Decimal {
	d, err := decimal.NewFromString(value)
	if err != nil {
		panic(err)
	}
	return d
}

type stubCartRepo struct {
	carts map[uuid.UUID]*models.CartRecord
	items map[uuid.UUID]*models.CartItem
}

func newStubCartRepo() *stubCartRepo {
	return &stubCartRepo{
		carts: make(map[uuid.UUID]*models.CartRecord),
		items: make(map[uuid.UUID]*models.CartItem),
	}
}

func (s *stubCartRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubCartRepo) CreateCart(ctx context.Context, cart *models.CartRecord) (*models.CartRecord, error) {
	if cart.ID == uuid.Nil {
		cart.ID = uuid.New()
	}
	copied := *cart
	s.carts[cart.ID] = &copied
	return cart, nil
}

func (s *stubCartRepo) FindCart(ctx context.Context, id uuid.UUID) (*models.CartRecord, error) {
	cart, ok := s.carts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *cart
	copied.Items = nil
	for _, item := range s.items {
		if item.CartID == id {
			copied.Items = append(copied.Items, *item)
		}
	}
	return &copied, nil
}

func (s *stubCartRepo) FindActiveCart(ctx context.Context, storeID uuid.UUID, sessionID string) (*models.CartRecord, error) {
	for id, cart := range s.carts {
		if cart.StoreID == storeID && cart.SessionID == sessionID && cart.Status == enums.CartStatusActive {
			return s.FindCart(ctx, id)
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCartRepo) UpdateCart(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	cart, ok := s.carts[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := updates["total_amount"].(decimal.Decimal); ok {
		cart.TotalAmount = v
	}
	if v, ok := updates["items_count"].(int); ok {
		cart.ItemsCount = v
	}
	return nil
}

func (s *stubCartRepo) CreateItem(ctx context.Context, item *models.CartItem) (*models.CartItem, error) {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	copied := *item
	s.items[item.ID] = &copied
	return item, nil
}

func (s *stubCartRepo) FindItem(ctx context.Context, id uuid.UUID) (*models.CartItem, error) {
	item, ok := s.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *item
	return &copied, nil
}

func (s *stubCartRepo) FindItemByProduct(ctx context.Context, cartID, productID uuid.UUID, variantID *uuid.UUID) (*models.CartItem, error) {
	for _, item := range s.items {
		if item.CartID != cartID || item.ProductID != productID {
			continue
		}
		if (item.VariantID == nil) != (variantID == nil) {
			continue
		}
		if variantID != nil && *item.VariantID != *variantID {
			continue
		}
		copied := *item
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCartRepo) ListItems(ctx context.Context, cartID uuid.UUID) ([]models.CartItem, error) {
	var out []models.CartItem
	for _, item := range s.items {
		if item.CartID == cartID {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (s *stubCartRepo) UpdateItem(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	item, ok := s.items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := updates["quantity"].(int); ok {
		item.Quantity = v
	}
	if v, ok := updates["unit_price"].(decimal.Decimal); ok {
		item.UnitPrice = v
	}
	return nil
}

func (s *stubCartRepo) DeleteItem(ctx context.Context, id uuid.UUID) error {
	delete(s.items, id)
	return nil
}

func (s *stubCartRepo) DeleteItems(ctx context.Context, cartID uuid.UUID) error {
	for id, item := range s.items {
		if item.CartID == cartID {
			delete(s.items, id)
		}
	}
	return nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(&gorm.DB{})
}

func newTestService(t *testing.T, repo Repository) Service {
	t.Helper()
	logg := logger.New(logger.Options{Level: zerolog.Disabled, Output: io.Discard})
	svc, err := NewService(repo, stubTxRunner{}, logg)
	if err != nil {
		t.Fatalf("building service: %v", err)
	}
	return svc
}

func TestComputeTotalsSumsLinesAndQuantities(t *testing.T) {
	items := []models.CartItem{
		{UnitPrice: dec("12.50"), Quantity: 2},
		{UnitPrice: dec("3.25"), Quantity: 3},
	}
	totals := ComputeTotals(items)

	if !totals.TotalAmount.Equal(dec("34.75")) {
		t.Fatalf("expected 34.75, got %s", totals.TotalAmount)
	}
	if totals.ItemsCount != 5 {
		t.Fatalf("expected items count 5, got %d", totals.ItemsCount)
	}
}

func TestComputeTotalsIsIdempotent(t *testing.T) {
	items := []models.CartItem{
		{UnitPrice: dec("9.99"), Quantity: 4},
		{UnitPrice: dec("0.01"), Quantity: 1},
	}
	first := ComputeTotals(items)
	second := ComputeTotals(items)

	if !first.TotalAmount.Equal(second.TotalAmount) || first.ItemsCount != second.ItemsCount {
		t.Fatalf("expected identical totals, got %+v then %+v", first, second)
	}
}

func TestComputeTotalsEmptyCart(t *testing.T) {
	totals := ComputeTotals(nil)
	if !totals.TotalAmount.IsZero() || totals.ItemsCount != 0 {
		t.Fatalf("expected empty totals, got %+v", totals)
	}
}

func TestGetCreatesCartOnFirstUse(t *testing.T) {
	repo := newStubCartRepo()
	svc := newTestService(t, repo)

	storeID := uuid.New()
	cart, err := svc.Get(context.Background(), storeID, "session-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if cart.Status != enums.CartStatusActive {
		t.Fatalf("expected active cart, got %s", cart.Status)
	}

	again, err := svc.Get(context.Background(), storeID, "session-1")
	if err != nil {
		t.Fatalf("second get: %v", err)
	}
	if again.ID != cart.ID {
		t.Fatalf("expected same cart reused, got %s and %s", cart.ID, again.ID)
	}
}

func TestAddItemMergesExistingLine(t *testing.T) {
	repo := newStubCartRepo()
	svc := newTestService(t, repo)

	storeID := uuid.New()
	productID := uuid.New()

	input := AddItemInput{
		StoreID:   storeID,
		SessionID: "session-1",
		ProductID: productID,
		UnitPrice: dec("10"),
		Quantity:  2,
	}
	if _, err := svc.AddItem(context.Background(), input); err != nil {
		t.Fatalf("first add: %v", err)
	}

	input.Quantity = 3
	cart, err := svc.AddItem(context.Background(), input)
	if err != nil {
		t.Fatalf("second add: %v", err)
	}

	if len(cart.Items) != 1 {
		t.Fatalf("expected one merged line, got %d", len(cart.Items))
	}
	if cart.Items[0].Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", cart.Items[0].Quantity)
	}
	if !cart.TotalAmount.Equal(dec("50")) || cart.ItemsCount != 5 {
		t.Fatalf("expected totals 50/5, got %s/%d", cart.TotalAmount, cart.ItemsCount)
	}
}

func TestRemoveItemRecomputesTotals(t *testing.T) {
	repo := newStubCartRepo()
	svc := newTestService(t, repo)

	storeID := uuid.New()
	cart, err := svc.AddItem(context.Background(), AddItemInput{
		StoreID:   storeID,
		SessionID: "session-1",
		ProductID: uuid.New(),
		UnitPrice: dec("10"),
		Quantity:  1,
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	cart, err = svc.AddItem(context.Background(), AddItemInput{
		StoreID:   storeID,
		SessionID: "session-1",
		ProductID: uuid.New(),
		UnitPrice: dec("4"),
		Quantity:  2,
	})
	if err != nil {
		t.Fatalf("seed second: %v", err)
	}

	var removeID uuid.UUID
	for _, item := range cart.Items {
		if item.UnitPrice.Equal(dec("10")) {
			removeID = item.ID
		}
	}

	updated, err := svc.RemoveItem(context.Background(), cart.ID, removeID)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if !updated.TotalAmount.Equal(dec("8")) || updated.ItemsCount != 2 {
		t.Fatalf("expected totals 8/2, got %s/%d", updated.TotalAmount, updated.ItemsCount)
	}
}

func TestRemoveItemFromAnotherCartIsForbidden(t *testing.T) {
	repo := newStubCartRepo()
	svc := newTestService(t, repo)

	storeID := uuid.New()
	first, err := svc.AddItem(context.Background(), AddItemInput{
		StoreID:   storeID,
		SessionID: "session-1",
		ProductID: uuid.New(),
		UnitPrice: dec("10"),
		Quantity:  1,
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	second, err := svc.Get(context.Background(), storeID, "session-2")
	if err != nil {
		t.Fatalf("second cart: %v", err)
	}

	_, err = svc.RemoveItem(context.Background(), second.ID, first.Items[0].ID)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestUpdateItemQuantityRejectsZero(t *testing.T) {
	svc := newTestService(t, newStubCartRepo())

	_, err := svc.UpdateItemQuantity(context.Background(), uuid.New(), uuid.New(), 0)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestClearEmptiesCart(t *testing.T) {
	repo := newStubCartRepo()
	svc := newTestService(t, repo)

	cart, err := svc.AddItem(context.Background(), AddItemInput{
		StoreID:   uuid.New(),
		SessionID: "session-1",
		ProductID: uuid.New(),
		UnitPrice: dec("10"),
		Quantity:  3,
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := svc.Clear(context.Background(), cart.ID); err != nil {
		t.Fatalf("clear: %v", err)
	}

	reloaded, err := repo.FindCart(context.Background(), cart.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(reloaded.Items) != 0 || !reloaded.TotalAmount.IsZero() || reloaded.ItemsCount != 0 {
		t.Fatalf("expected empty cart, got %+v", reloaded)
	}
}

package checkout

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/vitrina-app/vitrina-backend/internal/cart"
	"github.com/vitrina-app/vitrina-backend/internal/orders"
	"github.com/vitrina-app/vitrina-backend/pkg/db/models"
	"github.com/vitrina-app/vitrina-backend/pkg/enums"
	pkgerrors "github.com/vitrina-app/vitrina-backend/pkg/errors"
	"github.com/vitrina-app/vitrina-backend/pkg/logger"
	"github.com/vitrina-app/vitrina-backend/pkg/outbox"
	"github.com/vitrina-app/vitrina-backend/pkg/pagination"
)

type stubCartRepo struct {
	cart        *models.CartRecord
	cartUpdates map[string]any
}

func (s *stubCartRepo) WithTx(tx *gorm.DB) cart.Repository { return s }

func (s *stubCartRepo) CreateCart(ctx context.Context, record *models.CartRecord) (*models.CartRecord, error) {
	panic("not implemented")
}

func (s *stubCartRepo) FindCart(ctx context.Context, id uuid.UUID) (*models.CartRecord, error) {
	panic("not implemented")
}

func (s *stubCartRepo) FindActiveCart(ctx context.Context, storeID uuid.UUID, sessionID string) (*models.CartRecord, error) {
	if s.cart == nil || s.cart.StoreID != storeID || s.cart.SessionID != sessionID {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *s.cart
	return &copied, nil
}

func (s *stubCartRepo) UpdateCart(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	s.cartUpdates = updates
	return nil
}

func (s *stubCartRepo) CreateItem(ctx context.Context, item *models.CartItem) (*models.CartItem, error) {
	panic("not implemented")
}

func (s *stubCartRepo) FindItem(ctx context.Context, id uuid.UUID) (*models.CartItem, error) {
	panic("not implemented")
}

func (s *stubCartRepo) FindItemByProduct(ctx context.Context, cartID, productID uuid.UUID, variantID *uuid.UUID) (*models.CartItem, error) {
	panic("not implemented")
}

func (s *stubCartRepo) ListItems(ctx context.Context, cartID uuid.UUID) ([]models.CartItem, error) {
	panic("not implemented")
}

func (s *stubCartRepo) UpdateItem(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	panic("not implemented")
}

func (s *stubCartRepo) DeleteItem(ctx context.Context, id uuid.UUID) error {
	panic("not implemented")
}

func (s *stubCartRepo) DeleteItems(ctx context.Context, cartID uuid.UUID) error {
	panic("not implemented")
}

type stubOrderRepo struct {
	order *models.Order
	items []models.OrderItem
}

func (s *stubOrderRepo) WithTx(tx *gorm.DB) orders.Repository { return s }

func (s *stubOrderRepo) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	copied := *order
	s.order = &copied
	return order, nil
}

func (s *stubOrderRepo) CreateOrderItems(ctx context.Context, items []models.OrderItem) error {
	s.items = append(s.items, items...)
	return nil
}

func (s *stubOrderRepo) FindOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	panic("not implemented")
}

func (s *stubOrderRepo) FindOrderByCart(ctx context.Context, cartID uuid.UUID) (*models.Order, error) {
	panic("not implemented")
}

func (s *stubOrderRepo) ListOrders(ctx context.Context, storeID uuid.UUID, params pagination.Params) (*orders.OrderList, error) {
	panic("not implemented")
}

func (s *stubOrderRepo) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error {
	panic("not implemented")
}

type stubPayments struct {
	activeID uuid.UUID
}

func (s *stubPayments) FindActive(ctx context.Context, id uuid.UUID) (*models.PaymentMethod, error) {
	if id != s.activeID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "active payment method not found")
	}
	return &models.PaymentMethod{ID: id, IsActive: true}, nil
}

type stubInventory struct {
	consumed map[uuid.UUID]decimal.Decimal
	fail     error
}

func (s *stubInventory) ConsumeProduct(ctx context.Context, tx *gorm.DB, productID uuid.UUID, quantity decimal.Decimal) error {
	if s.fail != nil {
		return s.fail
	}
	if s.consumed == nil {
		s.consumed = make(map[uuid.UUID]decimal.Decimal)
	}
	s.consumed[productID] = s.consumed[productID].Add(quantity)
	return nil
}

type stubOutbox struct {
	events []outbox.DomainEvent
}

func (s *stubOutbox) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	s.events = append(s.events, event)
	return nil
}

type stubIdemStore struct {
	held map[string]bool
}

func (s *stubIdemStore) Get(ctx context.Context, key string) (string, error) {
	panic("not implemented")
}

func (s *stubIdemStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if s.held == nil {
		s.held = make(map[string]bool)
	}
	if s.held[key] {
		return false, nil
	}
	s.held[key] = true
	return true, nil
}

func (s *stubIdemStore) IdempotencyKey(scope, id string) string {
	return "test:idem:" + scope + ":" + id
}

func (s *stubIdemStore) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(s.held, key)
	}
	return nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(&gorm.DB{})
}

type fixture struct {
	svc       Service
	cartRepo  *stubCartRepo
	orderRepo *stubOrderRepo
	inventory *stubInventory
	outbox    *stubOutbox
	idem      *stubIdemStore
	payments  *stubPayments
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		cartRepo:  &stubCartRepo{},
		orderRepo: &stubOrderRepo{},
		inventory: &stubInventory{},
		outbox:    &stubOutbox{},
		idem:      &stubIdemStore{},
		payments:  &stubPayments{activeID: uuid.New()},
	}
	logg := logger.New(logger.Options{Level: zerolog.Disabled, Output: io.Discard})
	svc, err := NewService(
		stubTxRunner{}, f.cartRepo, f.orderRepo, f.payments,
		f.inventory, f.outbox, f.idem, time.Minute, logg,
	)
	if err != nil {
		t.Fatalf("building service: %v", err)
	}
	f.svc = svc
	return f
}

func (f *fixture) seedCart(storeID uuid.UUID) *models.CartRecord {
	record := &models.CartRecord{
		ID:        uuid.New(),
		StoreID:   storeID,
		SessionID: "session-1",
		Status:    enums.CartStatusActive,
		Items: []models.CartItem{
			{ID: uuid.New(), ProductID: uuid.New(), UnitPrice: decimal.RequireFromString("10"), Quantity: 2},
			{ID: uuid.New(), ProductID: uuid.New(), UnitPrice: decimal.RequireFromString("4.50"), Quantity: 1},
		},
		TotalAmount: decimal.RequireFromString("24.50"),
		ItemsCount:  3,
	}
	f.cartRepo.cart = record
	return record
}

func (f *fixture) submitInput(storeID uuid.UUID) SubmitInput {
	form := validForm()
	form.PaymentMethodID = f.payments.activeID
	return SubmitInput{
		StoreID:        storeID,
		SessionID:      "session-1",
		Form:           form,
		IdempotencyKey: "key-1",
	}
}

func TestSubmitCreatesOrderAndConvertsCart(t *testing.T) {
	f := newFixture(t)
	storeID := uuid.New()
	record := f.seedCart(storeID)

	order, err := f.svc.Submit(context.Background(), f.submitInput(storeID))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if order.Status != enums.OrderStatusPending {
		t.Fatalf("expected pending order, got %s", order.Status)
	}
	if !order.TotalAmount.Equal(record.TotalAmount) || order.ItemsCount != record.ItemsCount {
		t.Fatalf("expected cart aggregates on order, got %+v", order)
	}
	if len(f.orderRepo.items) != 2 {
		t.Fatalf("expected 2 order items, got %d", len(f.orderRepo.items))
	}

	for _, line := range record.Items {
		got, ok := f.inventory.consumed[line.ProductID]
		if !ok || !got.Equal(decimal.NewFromInt(int64(line.Quantity))) {
			t.Fatalf("expected %d units consumed for %s, got %s", line.Quantity, line.ProductID, got)
		}
	}

	if f.cartRepo.cartUpdates["status"] != enums.CartStatusConverted {
		t.Fatalf("expected cart converted, got %v", f.cartRepo.cartUpdates)
	}

	if len(f.outbox.events) != 2 {
		t.Fatalf("expected 2 outbox events, got %d", len(f.outbox.events))
	}
	if f.outbox.events[0].EventType != enums.OutboxEventOrderSubmitted {
		t.Fatalf("expected order.submitted first, got %s", f.outbox.events[0].EventType)
	}
	if f.outbox.events[1].EventType != enums.OutboxEventCartConverted {
		t.Fatalf("expected cart.converted second, got %s", f.outbox.events[1].EventType)
	}
}

func TestSubmitRejectsEmptyCart(t *testing.T) {
	f := newFixture(t)
	storeID := uuid.New()
	record := f.seedCart(storeID)
	record.Items = nil

	_, err := f.svc.Submit(context.Background(), f.submitInput(storeID))
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}

	// a failed submit releases the idempotency key so the client can retry
	if len(f.idem.held) != 0 {
		t.Fatalf("expected idempotency key released, got %v", f.idem.held)
	}
}

func TestSubmitDuplicateKeyIsRejected(t *testing.T) {
	f := newFixture(t)
	storeID := uuid.New()
	f.seedCart(storeID)

	input := f.submitInput(storeID)
	if _, err := f.svc.Submit(context.Background(), input); err != nil {
		t.Fatalf("first submit: %v", err)
	}

	_, err := f.svc.Submit(context.Background(), input)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeIdempotency {
		t.Fatalf("expected idempotency conflict, got %v", err)
	}
}

func TestSubmitRejectsInactivePaymentMethod(t *testing.T) {
	f := newFixture(t)
	storeID := uuid.New()
	f.seedCart(storeID)

	input := f.submitInput(storeID)
	input.Form.PaymentMethodID = uuid.New()

	_, err := f.svc.Submit(context.Background(), input)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSubmitRejectsInvalidForm(t *testing.T) {
	f := newFixture(t)
	storeID := uuid.New()
	f.seedCart(storeID)

	input := f.submitInput(storeID)
	input.Form.CustomerName = ""

	_, err := f.svc.Submit(context.Background(), input)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSubmitInventoryFailureAborts(t *testing.T) {
	f := newFixture(t)
	storeID := uuid.New()
	f.seedCart(storeID)
	f.inventory.fail = pkgerrors.New(pkgerrors.CodeStateConflict, "insufficient stock")

	_, err := f.svc.Submit(context.Background(), f.submitInput(storeID))
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
	if len(f.idem.held) != 0 {
		t.Fatalf("expected idempotency key released, got %v", f.idem.held)
	}
}

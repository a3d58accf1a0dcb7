package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	cartsvc "github.com/vitrina-app/vitrina-backend/internal/cart"
	checkoutsvc "github.com/vitrina-app/vitrina-backend/internal/checkout"
	inventorysvc "github.com/vitrina-app/vitrina-backend/internal/inventory"
	ordersvc "github.com/vitrina-app/vitrina-backend/internal/orders"
	pricingsvc "github.com/vitrina-app/vitrina-backend/internal/pricing"
	productsvc "github.com/vitrina-app/vitrina-backend/internal/products"
	storesvc "github.com/vitrina-app/vitrina-backend/internal/stores"
	pkgauth "github.com/vitrina-app/vitrina-backend/pkg/auth"
	"github.com/vitrina-app/vitrina-backend/pkg/config"
	"github.com/vitrina-app/vitrina-backend/pkg/db/models"
	"github.com/vitrina-app/vitrina-backend/pkg/enums"
	pkgerrors "github.com/vitrina-app/vitrina-backend/pkg/errors"
	"github.com/vitrina-app/vitrina-backend/pkg/logger"
	"github.com/vitrina-app/vitrina-backend/pkg/pagination"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubStoreService struct {
	store *models.Store
}

func (s stubStoreService) Create(ctx context.Context, input storesvc.CreateStoreInput) (*models.Store, error) {
	panic("unimplemented")
}

func (s stubStoreService) Get(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	if s.store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
	}
	return s.store, nil
}

func (s stubStoreService) GetBySlug(ctx context.Context, slug string) (*models.Store, error) {
	if s.store == nil || s.store.Slug != slug {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
	}
	return s.store, nil
}

func (s stubStoreService) Toggle(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	panic("unimplemented")
}

type stubProductService struct{}

func (stubProductService) Create(ctx context.Context, input productsvc.CreateProductInput) (*models.Product, error) {
	panic("unimplemented")
}

func (stubProductService) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	panic("unimplemented")
}

func (stubProductService) ListByStore(ctx context.Context, storeID uuid.UUID) ([]models.Product, error) {
	return []models.Product{}, nil
}

func (stubProductService) Update(ctx context.Context, id uuid.UUID, input productsvc.UpdateProductInput) (*models.Product, error) {
	panic("unimplemented")
}

type stubInventoryService struct{}

func (stubInventoryService) ListStock(ctx context.Context, warehouseID uuid.UUID) ([]inventorysvc.StockView, error) {
	return []inventorysvc.StockView{}, nil
}

func (stubInventoryService) GetStock(ctx context.Context, id uuid.UUID) (*inventorysvc.StockView, error) {
	panic("unimplemented")
}

func (stubInventoryService) ListBatches(ctx context.Context, stockRecordID uuid.UUID) ([]inventorysvc.BatchView, error) {
	panic("unimplemented")
}

func (stubInventoryService) ReceiveSupply(ctx context.Context, input inventorysvc.ReceiveSupplyInput) (*models.StockBatch, error) {
	panic("unimplemented")
}

func (stubInventoryService) AdjustStock(ctx context.Context, input inventorysvc.AdjustStockInput) (*models.StockRecord, error) {
	panic("unimplemented")
}

func (stubInventoryService) ConsumeProduct(ctx context.Context, tx *gorm.DB, productID uuid.UUID, quantity decimal.Decimal) error {
	panic("unimplemented")
}

type stubPricingService struct{}

func (stubPricingService) CreatePriceList(ctx context.Context, input pricingsvc.CreatePriceListInput) (*models.PriceList, error) {
	panic("unimplemented")
}

func (stubPricingService) GetPriceList(ctx context.Context, id uuid.UUID) (*models.PriceList, error) {
	panic("unimplemented")
}

func (stubPricingService) ListPriceLists(ctx context.Context, storeID uuid.UUID) ([]models.PriceList, error) {
	return []models.PriceList{}, nil
}

func (stubPricingService) UpsertItem(ctx context.Context, input pricingsvc.UpsertItemInput) (*models.PriceListItem, error) {
	panic("unimplemented")
}

func (stubPricingService) SetManualOverride(ctx context.Context, itemID uuid.UUID, price decimal.Decimal) (*models.PriceListItem, error) {
	panic("unimplemented")
}

func (stubPricingService) ClearManualOverride(ctx context.Context, itemID uuid.UUID) (*models.PriceListItem, error) {
	panic("unimplemented")
}

func (stubPricingService) PropagateCost(ctx context.Context, productID uuid.UUID, newCost decimal.Decimal) (int, error) {
	panic("unimplemented")
}

func (stubPricingService) CopyPriceList(ctx context.Context, id uuid.UUID, newName string) (*models.PriceList, error) {
	panic("unimplemented")
}

func (stubPricingService) ToggleStatus(ctx context.Context, id uuid.UUID) (*models.PriceList, error) {
	panic("unimplemented")
}

func (stubPricingService) Summary(ctx context.Context, id uuid.UUID) (*pricingsvc.Summary, error) {
	panic("unimplemented")
}

type stubCartService struct{}

func (stubCartService) Get(ctx context.Context, storeID uuid.UUID, sessionID string) (*models.CartRecord, error) {
	return &models.CartRecord{
		ID:        uuid.New(),
		StoreID:   storeID,
		SessionID: sessionID,
		Status:    enums.CartStatusActive,
	}, nil
}

func (stubCartService) AddItem(ctx context.Context, input cartsvc.AddItemInput) (*models.CartRecord, error) {
	panic("unimplemented")
}

func (stubCartService) UpdateItemQuantity(ctx context.Context, cartID, itemID uuid.UUID, quantity int) (*models.CartRecord, error) {
	panic("unimplemented")
}

func (stubCartService) RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) (*models.CartRecord, error) {
	panic("unimplemented")
}

func (stubCartService) Clear(ctx context.Context, cartID uuid.UUID) error {
	panic("unimplemented")
}

type stubCheckoutService struct{}

func (stubCheckoutService) Submit(ctx context.Context, input checkoutsvc.SubmitInput) (*models.Order, error) {
	panic("unimplemented")
}

type stubOrdersService struct{}

func (stubOrdersService) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	panic("unimplemented")
}

func (stubOrdersService) List(ctx context.Context, storeID uuid.UUID, params pagination.Params) (*ordersvc.OrderList, error) {
	return &ordersvc.OrderList{}, nil
}

func (stubOrdersService) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*models.Order, error) {
	panic("unimplemented")
}

type stubPaymentsService struct{}

func (stubPaymentsService) List(ctx context.Context, storeID uuid.UUID, activeOnly bool) ([]models.PaymentMethod, error) {
	return []models.PaymentMethod{}, nil
}

func (stubPaymentsService) FindActive(ctx context.Context, id uuid.UUID) (*models.PaymentMethod, error) {
	panic("unimplemented")
}

func (stubPaymentsService) Create(ctx context.Context, storeID uuid.UUID, name string) (*models.PaymentMethod, error) {
	panic("unimplemented")
}

func (stubPaymentsService) Toggle(ctx context.Context, id uuid.UUID) (*models.PaymentMethod, error) {
	panic("unimplemented")
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "secret",
			Issuer:            "issuer",
			ExpirationMinutes: 60,
		},
	}
}

func newTestRouter(cfg *config.Config, store *models.Store) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: zerolog.Disabled, Output: io.Discard})
	return NewRouter(
		cfg,
		logg,
		Dependencies{DB: stubPinger{}, Redis: stubPinger{}},
		Services{
			Stores:    stubStoreService{store: store},
			Products:  stubProductService{},
			Inventory: stubInventoryService{},
			Pricing:   stubPricingService{},
			Cart:      stubCartService{},
			Checkout:  stubCheckoutService{},
			Orders:    stubOrdersService{},
			Payments:  stubPaymentsService{},
		},
	)
}

func buildToken(t *testing.T, cfg *config.Config, storeID uuid.UUID) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now(), pkgauth.AccessTokenPayload{
		Subject: "admin@example.com",
		StoreID: &storeID,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthLiveRoute(t *testing.T) {
	router := newTestRouter(testConfig(), nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestAdminGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig(), nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/admin/v1/products", nil))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestAdminGroupAcceptsValidJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/products", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, uuid.New()))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 with token got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestStorefrontResolvesSlug(t *testing.T) {
	store := &models.Store{ID: uuid.New(), Slug: "corner-shop", IsActive: true}
	router := newTestRouter(testConfig(), store)

	req := httptest.NewRequest(http.MethodGet, "/api/storefront/v1/stores/corner-shop/cart", nil)
	req.Header.Set("X-Session-Id", "session-1")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestStorefrontUnknownSlugIsNotFound(t *testing.T) {
	router := newTestRouter(testConfig(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/storefront/v1/stores/ghost/cart", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestStorefrontIssuesSessionWhenMissing(t *testing.T) {
	store := &models.Store{ID: uuid.New(), Slug: "corner-shop", IsActive: true}
	router := newTestRouter(testConfig(), store)

	req := httptest.NewRequest(http.MethodGet, "/api/storefront/v1/stores/corner-shop/cart", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if resp.Header().Get("X-Session-Id") == "" {
		t.Fatal("expected generated session id header")
	}
}

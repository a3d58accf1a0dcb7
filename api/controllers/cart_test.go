package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vitrina-app/vitrina-backend/api/middleware"
	cartsvc "github.com/vitrina-app/vitrina-backend/internal/cart"
	"github.com/vitrina-app/vitrina-backend/pkg/db/models"
	"github.com/vitrina-app/vitrina-backend/pkg/enums"
	pkgerrors "github.com/vitrina-app/vitrina-backend/pkg/errors"
)

type stubCartService struct {
	record *models.CartRecord
	err    error
	added  *cartsvc.AddItemInput
}

func (s *stubCartService) Get(ctx context.Context, storeID uuid.UUID, sessionID string) (*models.CartRecord, error) {
	return s.record, s.err
}

func (s *stubCartService) AddItem(ctx context.Context, input cartsvc.AddItemInput) (*models.CartRecord, error) {
	s.added = &input
	return s.record, s.err
}

func (s *stubCartService) UpdateItemQuantity(ctx context.Context, cartID, itemID uuid.UUID, quantity int) (*models.CartRecord, error) {
	return s.record, s.err
}

func (s *stubCartService) RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) (*models.CartRecord, error) {
	return s.record, s.err
}

func (s *stubCartService) Clear(ctx context.Context, cartID uuid.UUID) error {
	return s.err
}

func storefrontRequest(method, target string, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	ctx := middleware.WithStoreID(req.Context(), uuid.NewString())
	ctx = middleware.WithSessionID(ctx, "session-1")
	return req.WithContext(ctx)
}

func TestCartFetchSuccess(t *testing.T) {
	record := &models.CartRecord{
		ID:          uuid.New(),
		StoreID:     uuid.New(),
		SessionID:   "session-1",
		Status:      enums.CartStatusActive,
		TotalAmount: decimal.RequireFromString("12.50"),
		ItemsCount:  2,
	}
	handler := CartFetch(&stubCartService{record: record}, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, storefrontRequest(http.MethodGet, "/cart", ""))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data cartResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.ID != record.ID {
		t.Fatalf("unexpected cart id: %s", envelope.Data.ID)
	}
	if envelope.Data.ItemsCount != 2 {
		t.Fatalf("unexpected items count: %d", envelope.Data.ItemsCount)
	}
}

func TestCartFetchMissingStoreContext(t *testing.T) {
	handler := CartFetch(&stubCartService{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestCartAddItemForwardsScope(t *testing.T) {
	stub := &stubCartService{record: &models.CartRecord{ID: uuid.New()}}
	handler := CartAddItem(stub, nil)

	productID := uuid.New()
	body := `{"productId":"` + productID.String() + `","unitPrice":"9.99","quantity":3}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, storefrontRequest(http.MethodPost, "/cart/items", body))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if stub.added == nil || stub.added.ProductID != productID || stub.added.Quantity != 3 {
		t.Fatalf("unexpected add input: %+v", stub.added)
	}
	if stub.added.SessionID != "session-1" {
		t.Fatalf("session not forwarded: %q", stub.added.SessionID)
	}
}

func TestCartAddItemRejectsZeroQuantity(t *testing.T) {
	handler := CartAddItem(&stubCartService{}, nil)
	body := `{"productId":"` + uuid.NewString() + `","unitPrice":"9.99","quantity":0}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, storefrontRequest(http.MethodPost, "/cart/items", body))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCartFetchPropagatesServiceError(t *testing.T) {
	handler := CartFetch(&stubCartService{err: pkgerrors.New(pkgerrors.CodeNotFound, "missing")}, nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, storefrontRequest(http.MethodGet, "/cart", ""))

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vitrina-app/vitrina-backend/pkg/db/models"
	pkgerrors "github.com/vitrina-app/vitrina-backend/pkg/errors"
)

type stubStoreResolver struct {
	store *models.Store
}

func (s stubStoreResolver) GetBySlug(ctx context.Context, slug string) (*models.Store, error) {
	if s.store == nil || s.store.Slug != slug {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
	}
	return s.store, nil
}

func slugRequest(slug string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/stores/"+slug, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("storeSlug", slug)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestStorefrontResolvesSlugToStoreID(t *testing.T) {
	store := &models.Store{ID: uuid.New(), Slug: "corner-shop", IsActive: true}

	var seen string
	handler := Storefront(stubStoreResolver{store: store}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = StoreIDFromContext(r.Context())
	}))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, slugRequest("corner-shop"))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if seen != store.ID.String() {
		t.Fatalf("expected store id %s in context, got %q", store.ID, seen)
	}
}

func TestStorefrontUnknownSlug(t *testing.T) {
	handler := Storefront(stubStoreResolver{}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not run")
	}))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, slugRequest("ghost"))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestRequireSessionUsesHeader(t *testing.T) {
	var seen string
	handler := RequireSession(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SessionIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(sessionIDHeader, "session-9")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if seen != "session-9" {
		t.Fatalf("expected session-9, got %q", seen)
	}
	if resp.Header().Get(sessionIDHeader) != "" {
		t.Fatal("existing sessions should not be echoed back")
	}
}

func TestRequireSessionIssuesFreshID(t *testing.T) {
	var seen string
	handler := RequireSession(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SessionIDFromContext(r.Context())
	}))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))

	if seen == "" {
		t.Fatal("expected generated session id in context")
	}
	if got := resp.Header().Get(sessionIDHeader); got != seen {
		t.Fatalf("expected header %q to match context session %q", got, seen)
	}
}

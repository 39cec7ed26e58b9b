package catalog_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/hanbutik/backend-butik/internal/catalog"
	dbgen "github.com/hanbutik/backend-butik/internal/db/gen"
)

type stubQueries struct {
	products   []dbgen.Product
	categories []dbgen.Category
	listCalls  int
}

func (s *stubQueries) ListProducts(_ context.Context, arg dbgen.ListProductsParams) ([]dbgen.Product, error) {
	s.listCalls++
	start := int(arg.Offset)
	if start >= len(s.products) {
		return nil, nil
	}
	end := start + int(arg.Limit)
	if end > len(s.products) {
		end = len(s.products)
	}
	return s.products[start:end], nil
}

func (s *stubQueries) CountProducts(_ context.Context) (int64, error) {
	return int64(len(s.products)), nil
}

func (s *stubQueries) GetProductByID(_ context.Context, id pgtype.UUID) (dbgen.Product, error) {
	for _, p := range s.products {
		if p.ID == id {
			return p, nil
		}
	}
	return dbgen.Product{}, pgx.ErrNoRows
}

func (s *stubQueries) ListCategories(_ context.Context) ([]dbgen.Category, error) {
	return s.categories, nil
}

func pgUUID(u uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: u, Valid: true}
}

func seedProducts(n int) []dbgen.Product {
	products := make([]dbgen.Product, 0, n)
	for i := 0; i < n; i++ {
		products = append(products, dbgen.Product{
			ID:    pgUUID(uuid.New()),
			Title: "Product",
			Slug:  "product",
			Price: int64(1000 * (i + 1)),
			Stock: int32(i),
		})
	}
	return products
}

func newRouter(t *testing.T, queries *stubQueries, cache *catalog.Cache) chi.Router {
	t.Helper()
	svc, err := catalog.NewService(catalog.ServiceConfig{Queries: queries, Cache: cache})
	require.NoError(t, err)
	h := catalog.NewHandler(svc)
	r := chi.NewRouter()
	r.Get("/products", h.Products)
	r.Get("/products/{productId}", h.ProductDetail)
	r.Get("/categories", h.Categories)
	return r
}

func TestProductsPagination(t *testing.T) {
	queries := &stubQueries{products: seedProducts(25)}
	router := newRouter(t, queries, nil)

	req := httptest.NewRequest(http.MethodGet, "/products?page=2&limit=10", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "25", rr.Header().Get("X-Total-Count"))

	var body struct {
		Data       []catalog.ProductListItem `json:"data"`
		Pagination struct {
			Page       int `json:"page"`
			PerPage    int `json:"per_page"`
			TotalItems int `json:"total_items"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Len(t, body.Data, 10)
	require.Equal(t, 2, body.Pagination.Page)
	require.Equal(t, 25, body.Pagination.TotalItems)
}

func TestProductDetailNotFound(t *testing.T) {
	router := newRouter(t, &stubQueries{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/products/"+uuid.NewString(), nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Contains(t, rr.Body.String(), "NOT_FOUND")
}

func TestProductDetailStockFlag(t *testing.T) {
	queries := &stubQueries{products: seedProducts(2)}
	router := newRouter(t, queries, nil)

	req := httptest.NewRequest(http.MethodGet, "/products/"+uuid.UUID(queries.products[1].ID.Bytes).String(), nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var body struct {
		Data catalog.ProductDetail `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.True(t, body.Data.InStock)
}

func TestProductsServedFromCache(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	cache := catalog.NewCache(client, time.Minute)

	queries := &stubQueries{products: seedProducts(5)}
	router := newRouter(t, queries, cache)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/products", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		require.Equal(t, http.StatusOK, rr.Code)
	}
	require.Equal(t, 1, queries.listCalls)
}

func TestCategories(t *testing.T) {
	queries := &stubQueries{categories: []dbgen.Category{
		{ID: pgUUID(uuid.New()), Name: "Dresses"},
		{ID: pgUUID(uuid.New()), Name: "Scarves", Description: pgtype.Text{String: "Silk and wool", Valid: true}},
	}}
	router := newRouter(t, queries, nil)

	req := httptest.NewRequest(http.MethodGet, "/categories", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var body struct {
		Data []catalog.Category `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Len(t, body.Data, 2)
	require.Equal(t, "Silk and wool", body.Data[1].Description)
}

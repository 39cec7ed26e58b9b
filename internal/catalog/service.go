package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/hanbutik/backend-butik/internal/cart"
	dbgen "github.com/hanbutik/backend-butik/internal/db/gen"
)

// ErrNotFound indicates the requested catalog entity is missing.
var ErrNotFound = errors.New("catalog: not found")

type queryProvider interface {
	ListProducts(ctx context.Context, arg dbgen.ListProductsParams) ([]dbgen.Product, error)
	CountProducts(ctx context.Context) (int64, error)
	GetProductByID(ctx context.Context, id pgtype.UUID) (dbgen.Product, error)
	ListCategories(ctx context.Context) ([]dbgen.Category, error)
}

// Service orchestrates catalog queries, DTO assembly, and caching.
type Service struct {
	queries      queryProvider
	cache        *Cache
	defaultLimit int
	maxLimit     int
}

// ServiceConfig groups Service dependencies.
type ServiceConfig struct {
	Queries      queryProvider
	Cache        *Cache
	DefaultLimit int
	MaxLimit     int
}

// NewService constructs a Service instance.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Queries == nil {
		return nil, errors.New("catalog: queries provider is required")
	}
	defaultLimit := cfg.DefaultLimit
	if defaultLimit < 1 {
		defaultLimit = 20
	}
	maxLimit := cfg.MaxLimit
	if maxLimit < 1 {
		maxLimit = 100
	}
	if defaultLimit > maxLimit {
		defaultLimit = maxLimit
	}
	return &Service{
		queries:      cfg.Queries,
		cache:        cfg.Cache,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}, nil
}

// ProductListItem represents an entry in product list responses.
type ProductListItem struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Slug    string `json:"slug"`
	Price   int64  `json:"price"`
	Stock   int32  `json:"stock"`
	InStock bool   `json:"inStock"`
}

// ProductDetail aggregates the full product payload.
type ProductDetail struct {
	ID          string `json:"id"`
	CategoryID  string `json:"categoryId,omitempty"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
	Price       int64  `json:"price"`
	Stock       int32  `json:"stock"`
	InStock     bool   `json:"inStock"`
}

// Category represents the public category payload.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// ProductListResult contains list data and pagination metadata.
type ProductListResult struct {
	Items []ProductListItem
	Total int64
	Page  int
	Limit int
}

// ListProducts returns a page of products, served from cache when possible.
func (s *Service) ListProducts(ctx context.Context, page, limit int) (ProductListResult, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = s.defaultLimit
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}
	key := fmt.Sprintf("catalog:products:p%d:l%d", page, limit)
	var cached ProductListResult
	if ok, err := s.cache.GetJSON(ctx, key, &cached); err == nil && ok {
		return cached, nil
	}

	total, err := s.queries.CountProducts(ctx)
	if err != nil {
		return ProductListResult{}, fmt.Errorf("catalog: count products: %w", err)
	}
	rows, err := s.queries.ListProducts(ctx, dbgen.ListProductsParams{
		Limit:  int32(limit),
		Offset: int32((page - 1) * limit),
	})
	if err != nil {
		return ProductListResult{}, fmt.Errorf("catalog: list products: %w", err)
	}
	items := make([]ProductListItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, ProductListItem{
			ID:      cart.UUIDString(row.ID),
			Title:   row.Title,
			Slug:    row.Slug,
			Price:   row.Price,
			Stock:   row.Stock,
			InStock: row.Stock > 0,
		})
	}
	result := ProductListResult{Items: items, Total: total, Page: page, Limit: limit}
	_ = s.cache.SetJSON(ctx, key, result)
	return result, nil
}

// GetProduct loads one product by identifier.
func (s *Service) GetProduct(ctx context.Context, id string) (ProductDetail, error) {
	pID, err := cart.ToUUID(id)
	if err != nil {
		return ProductDetail{}, ErrNotFound
	}
	key := "catalog:product:" + id
	var cached ProductDetail
	if ok, err := s.cache.GetJSON(ctx, key, &cached); err == nil && ok {
		return cached, nil
	}
	row, err := s.queries.GetProductByID(ctx, pID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ProductDetail{}, ErrNotFound
		}
		return ProductDetail{}, fmt.Errorf("catalog: get product: %w", err)
	}
	detail := ProductDetail{
		ID:          cart.UUIDString(row.ID),
		CategoryID:  cart.UUIDString(row.CategoryID),
		Title:       row.Title,
		Slug:        row.Slug,
		Description: row.Description.String,
		Price:       row.Price,
		Stock:       row.Stock,
		InStock:     row.Stock > 0,
	}
	_ = s.cache.SetJSON(ctx, key, detail)
	return detail, nil
}

// ListCategories returns all categories.
func (s *Service) ListCategories(ctx context.Context) ([]Category, error) {
	key := "catalog:categories"
	var cached []Category
	if ok, err := s.cache.GetJSON(ctx, key, &cached); err == nil && ok {
		return cached, nil
	}
	rows, err := s.queries.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog: list categories: %w", err)
	}
	categories := make([]Category, 0, len(rows))
	for _, row := range rows {
		categories = append(categories, Category{
			ID:          cart.UUIDString(row.ID),
			Name:        row.Name,
			Description: row.Description.String,
		})
	}
	_ = s.cache.SetJSON(ctx, key, categories)
	return categories, nil
}

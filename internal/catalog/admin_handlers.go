package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/hanbutik/backend-butik/internal/cart"
	"github.com/hanbutik/backend-butik/internal/common"
	dbgen "github.com/hanbutik/backend-butik/internal/db/gen"
)

// adminProvider captures the write operations the admin surface needs.
type adminProvider interface {
	CreateProduct(ctx context.Context, arg dbgen.CreateProductParams) (dbgen.Product, error)
	UpdateProduct(ctx context.Context, arg dbgen.UpdateProductParams) (dbgen.Product, error)
	DeleteProduct(ctx context.Context, id pgtype.UUID) error
	GetProductByID(ctx context.Context, id pgtype.UUID) (dbgen.Product, error)
	CreateCategory(ctx context.Context, arg dbgen.CreateCategoryParams) (dbgen.Category, error)
	DeleteCategory(ctx context.Context, id pgtype.UUID) error
	ListLowStockProducts(ctx context.Context) ([]dbgen.Product, error)
}

// AdminHandler exposes catalog management endpoints.
type AdminHandler struct {
	Q        adminProvider
	Cache    *Cache
	Validate *validator.Validate
}

type productPayload struct {
	CategoryID        string `json:"categoryId"`
	Title             string `json:"title" validate:"required,min=2,max=200"`
	Slug              string `json:"slug" validate:"required,min=2,max=200"`
	Description       string `json:"description" validate:"max=4000"`
	Price             int64  `json:"price" validate:"gte=0"`
	Stock             int32  `json:"stock" validate:"gte=0"`
	LowStockThreshold int32  `json:"lowStockThreshold" validate:"gte=0"`
}

func (h *AdminHandler) validate(payload any) error {
	if h.Validate == nil {
		return nil
	}
	return h.Validate.Struct(payload)
}

// CreateProduct handles POST /api/v1/admin/products.
func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var payload productPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if err := h.validate(payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeValidation, err.Error(), nil)
		return
	}
	categoryID, err := optionalUUID(payload.CategoryID)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeValidation, "invalid categoryId", nil)
		return
	}
	product, err := h.Q.CreateProduct(r.Context(), dbgen.CreateProductParams{
		CategoryID:        categoryID,
		Title:             payload.Title,
		Slug:              payload.Slug,
		Description:       optionalText(payload.Description),
		Price:             payload.Price,
		Stock:             payload.Stock,
		LowStockThreshold: payload.LowStockThreshold,
	})
	if err != nil {
		if isUniqueViolation(err) {
			common.JSONError(w, http.StatusConflict, "CONFLICT", "product slug already exists", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "failed to create product", nil)
		return
	}
	h.invalidateProduct(r.Context(), product.ID)
	common.JSON(w, http.StatusCreated, map[string]any{"data": productView(product)})
}

// UpdateProduct handles PUT /api/v1/admin/products/{productId}.
func (h *AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	pID, err := cart.ToUUID(chi.URLParam(r, "productId"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid product id", nil)
		return
	}
	var payload productPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if err := h.validate(payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeValidation, err.Error(), nil)
		return
	}
	categoryID, err := optionalUUID(payload.CategoryID)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeValidation, "invalid categoryId", nil)
		return
	}
	product, err := h.Q.UpdateProduct(r.Context(), dbgen.UpdateProductParams{
		ID:                pID,
		CategoryID:        categoryID,
		Title:             payload.Title,
		Slug:              payload.Slug,
		Description:       optionalText(payload.Description),
		Price:             payload.Price,
		Stock:             payload.Stock,
		LowStockThreshold: payload.LowStockThreshold,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			common.JSONError(w, http.StatusNotFound, common.CodeNotFound, "product not found", nil)
			return
		}
		if isUniqueViolation(err) {
			common.JSONError(w, http.StatusConflict, "CONFLICT", "product slug already exists", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "failed to update product", nil)
		return
	}
	h.invalidateProduct(r.Context(), product.ID)
	common.JSON(w, http.StatusOK, map[string]any{"data": productView(product)})
}

// DeleteProduct handles DELETE /api/v1/admin/products/{productId}.
func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	pID, err := cart.ToUUID(chi.URLParam(r, "productId"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid product id", nil)
		return
	}
	if _, err := h.Q.GetProductByID(r.Context(), pID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			common.JSONError(w, http.StatusNotFound, common.CodeNotFound, "product not found", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "failed to load product", nil)
		return
	}
	if err := h.Q.DeleteProduct(r.Context(), pID); err != nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "failed to delete product", nil)
		return
	}
	h.invalidateProduct(r.Context(), pID)
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]any{"deleted": true}})
}

// CreateCategory handles POST /api/v1/admin/categories.
func (h *AdminHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name        string `json:"name" validate:"required,min=2,max=120"`
		Description string `json:"description" validate:"max=2000"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if err := h.validate(payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeValidation, err.Error(), nil)
		return
	}
	category, err := h.Q.CreateCategory(r.Context(), dbgen.CreateCategoryParams{
		Name:        payload.Name,
		Description: optionalText(payload.Description),
	})
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "failed to create category", nil)
		return
	}
	h.Cache.Invalidate(r.Context(), "catalog:categories")
	common.JSON(w, http.StatusCreated, map[string]any{"data": Category{
		ID:          cart.UUIDString(category.ID),
		Name:        category.Name,
		Description: category.Description.String,
	}})
}

// DeleteCategory handles DELETE /api/v1/admin/categories/{categoryId}.
func (h *AdminHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	cID, err := cart.ToUUID(chi.URLParam(r, "categoryId"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid category id", nil)
		return
	}
	if err := h.Q.DeleteCategory(r.Context(), cID); err != nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "failed to delete category", nil)
		return
	}
	h.Cache.Invalidate(r.Context(), "catalog:categories")
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]any{"deleted": true}})
}

// LowStock handles GET /api/v1/admin/products/low-stock.
func (h *AdminHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Q.ListLowStockProducts(r.Context())
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "failed to list low stock products", nil)
		return
	}
	items := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		items = append(items, map[string]any{
			"id":                cart.UUIDString(row.ID),
			"title":             row.Title,
			"stock":             row.Stock,
			"lowStockThreshold": row.LowStockThreshold,
		})
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": items})
}

func (h *AdminHandler) invalidateProduct(ctx context.Context, id pgtype.UUID) {
	h.Cache.Invalidate(ctx, "catalog:product:"+cart.UUIDString(id))
	// Listing pages are short lived; let them expire via TTL.
}

func productView(p dbgen.Product) ProductDetail {
	return ProductDetail{
		ID:          cart.UUIDString(p.ID),
		CategoryID:  cart.UUIDString(p.CategoryID),
		Title:       p.Title,
		Slug:        p.Slug,
		Description: p.Description.String,
		Price:       p.Price,
		Stock:       p.Stock,
		InStock:     p.Stock > 0,
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func optionalText(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}

func optionalUUID(s string) (pgtype.UUID, error) {
	if s == "" {
		return pgtype.UUID{}, nil
	}
	return cart.ToUUID(s)
}

package pricing

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	dbgen "github.com/hanbutik/backend-butik/internal/db/gen"
	"github.com/hanbutik/backend-butik/internal/loyalty"
)

// ErrProductNotFound indicates a quoted line references a product that no
// longer exists in the catalog.
var ErrProductNotFound = errors.New("pricing: product not found")

// Querier captures the catalog lookups the quoting service needs.
type Querier interface {
	GetProductByID(ctx context.Context, id pgtype.UUID) (dbgen.Product, error)
}

// Line is a repriced cart line with the current catalog unit price.
type Line struct {
	ProductID pgtype.UUID
	Title     string
	Qty       int32
	UnitPrice Money
	Subtotal  Money
}

// Service quotes cart contents against current catalog prices.
type Service struct {
	Q                Querier
	StandardShipping Money
}

// Quote reprices the given cart items from the catalog and computes order
// totals for the tier benefits. Any line whose product is missing aborts
// the whole quote with ErrProductNotFound.
func (s Service) Quote(ctx context.Context, items []dbgen.CartItem, b loyalty.Benefits, extraBps int32) (Summary, []Line, error) {
	lines := make([]Line, 0, len(items))
	priced := make([]Item, 0, len(items))
	for _, it := range items {
		if it.Qty <= 0 {
			continue
		}
		product, err := s.Q.GetProductByID(ctx, it.ProductID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return Summary{}, nil, ErrProductNotFound
			}
			return Summary{}, nil, err
		}
		line := Line{
			ProductID: product.ID,
			Title:     product.Title,
			Qty:       it.Qty,
			UnitPrice: product.Price,
			Subtotal:  Money(it.Qty) * product.Price,
		}
		lines = append(lines, line)
		priced = append(priced, Item{Qty: line.Qty, UnitPrice: line.UnitPrice})
	}
	return Compute(priced, b, extraBps, s.StandardShipping), lines, nil
}

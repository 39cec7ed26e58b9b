package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	dbgen "github.com/hanbutik/backend-butik/internal/db/gen"
)

// ErrNotFound indicates the requested cart or line could not be located.
var ErrNotFound = errors.New("cart not found")

// ErrInvalidInput is returned when the provided payload is invalid.
var ErrInvalidInput = errors.New("invalid input")

// ErrOutOfStock is returned when the product cannot be added to a cart.
var ErrOutOfStock = errors.New("product out of stock")

// Querier captures the persistence operations cart management needs.
type Querier interface {
	GetActiveCartByUser(ctx context.Context, userID pgtype.UUID) (dbgen.Cart, error)
	CreateCart(ctx context.Context, userID pgtype.UUID) (dbgen.Cart, error)
	TouchCart(ctx context.Context, id pgtype.UUID) error
	ListCartItems(ctx context.Context, cartID pgtype.UUID) ([]dbgen.CartItem, error)
	FindCartItemByProduct(ctx context.Context, arg dbgen.FindCartItemByProductParams) (dbgen.CartItem, error)
	CreateCartItem(ctx context.Context, arg dbgen.CreateCartItemParams) (dbgen.CartItem, error)
	UpdateCartItemQty(ctx context.Context, arg dbgen.UpdateCartItemQtyParams) (dbgen.CartItem, error)
	DeleteCartItemByProduct(ctx context.Context, arg dbgen.DeleteCartItemByProductParams) error
	DeleteCartItemsByCart(ctx context.Context, cartID pgtype.UUID) error
	GetProductByID(ctx context.Context, id pgtype.UUID) (dbgen.Product, error)
}

// Service encapsulates cart domain operations.
type Service struct {
	Q   Querier
	Now func() time.Time
}

func (s *Service) now() time.Time {
	if s != nil && s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// EnsureCart loads the customer's active cart, creating one when absent.
func (s *Service) EnsureCart(ctx context.Context, userID string) (dbgen.Cart, error) {
	if s == nil || s.Q == nil {
		return dbgen.Cart{}, errors.New("cart service not configured")
	}
	uid, err := toUUID(userID)
	if err != nil {
		return dbgen.Cart{}, fmt.Errorf("parse user id: %w", err)
	}
	cart, err := s.Q.GetActiveCartByUser(ctx, uid)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return s.Q.CreateCart(ctx, uid)
		}
		return dbgen.Cart{}, err
	}
	return cart, nil
}

// AddItem inserts or increments a cart line, snapshotting the current
// catalog price. A non-positive quantity removes the line instead.
func (s *Service) AddItem(ctx context.Context, userID, productID string, qty int) error {
	if s == nil || s.Q == nil {
		return errors.New("cart service not configured")
	}
	pID, err := toUUID(productID)
	if err != nil {
		return fmt.Errorf("parse product id: %w", err)
	}
	cart, err := s.EnsureCart(ctx, userID)
	if err != nil {
		return err
	}
	if qty <= 0 {
		if err := s.Q.DeleteCartItemByProduct(ctx, dbgen.DeleteCartItemByProductParams{CartID: cart.ID, ProductID: pID}); err != nil {
			return err
		}
		_ = s.Q.TouchCart(ctx, cart.ID)
		return nil
	}

	item, err := s.Q.FindCartItemByProduct(ctx, dbgen.FindCartItemByProductParams{
		CartID:    cart.ID,
		ProductID: pID,
	})
	if err == nil {
		newQty := item.Qty + int32(qty)
		newSubtotal := int64(newQty) * item.UnitPrice
		if _, err := s.Q.UpdateCartItemQty(ctx, dbgen.UpdateCartItemQtyParams{ID: item.ID, Qty: newQty, Subtotal: newSubtotal}); err != nil {
			return err
		}
		_ = s.Q.TouchCart(ctx, cart.ID)
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	product, err := s.Q.GetProductByID(ctx, pID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if product.Stock <= 0 {
		return ErrOutOfStock
	}
	unitPrice := product.Price
	if unitPrice < 0 {
		unitPrice = 0
	}
	if _, err := s.Q.CreateCartItem(ctx, dbgen.CreateCartItemParams{
		CartID:    cart.ID,
		ProductID: pID,
		Title:     product.Title,
		Qty:       int32(qty),
		UnitPrice: unitPrice,
		Subtotal:  int64(qty) * unitPrice,
	}); err != nil {
		return err
	}
	_ = s.Q.TouchCart(ctx, cart.ID)
	return nil
}

// SetQty replaces the quantity of an existing line. A non-positive
// quantity removes the line.
func (s *Service) SetQty(ctx context.Context, userID, productID string, qty int) error {
	if s == nil || s.Q == nil {
		return errors.New("cart service not configured")
	}
	pID, err := toUUID(productID)
	if err != nil {
		return fmt.Errorf("parse product id: %w", err)
	}
	cart, err := s.EnsureCart(ctx, userID)
	if err != nil {
		return err
	}
	if qty <= 0 {
		if err := s.Q.DeleteCartItemByProduct(ctx, dbgen.DeleteCartItemByProductParams{CartID: cart.ID, ProductID: pID}); err != nil {
			return err
		}
		_ = s.Q.TouchCart(ctx, cart.ID)
		return nil
	}
	item, err := s.Q.FindCartItemByProduct(ctx, dbgen.FindCartItemByProductParams{
		CartID:    cart.ID,
		ProductID: pID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if _, err := s.Q.UpdateCartItemQty(ctx, dbgen.UpdateCartItemQtyParams{
		ID:       item.ID,
		Qty:      int32(qty),
		Subtotal: int64(qty) * item.UnitPrice,
	}); err != nil {
		return err
	}
	_ = s.Q.TouchCart(ctx, cart.ID)
	return nil
}

// RemoveItem deletes a line from the customer's active cart.
func (s *Service) RemoveItem(ctx context.Context, userID, productID string) error {
	return s.SetQty(ctx, userID, productID, 0)
}

// Clear removes every line from the customer's active cart.
func (s *Service) Clear(ctx context.Context, userID string) error {
	if s == nil || s.Q == nil {
		return errors.New("cart service not configured")
	}
	cart, err := s.EnsureCart(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.Q.DeleteCartItemsByCart(ctx, cart.ID); err != nil {
		return err
	}
	_ = s.Q.TouchCart(ctx, cart.ID)
	return nil
}

// Items returns the customer's active cart and its lines.
func (s *Service) Items(ctx context.Context, userID string) (dbgen.Cart, []dbgen.CartItem, error) {
	if s == nil || s.Q == nil {
		return dbgen.Cart{}, nil, errors.New("cart service not configured")
	}
	cart, err := s.EnsureCart(ctx, userID)
	if err != nil {
		return dbgen.Cart{}, nil, err
	}
	items, err := s.Q.ListCartItems(ctx, cart.ID)
	if err != nil {
		return dbgen.Cart{}, nil, err
	}
	return cart, items, nil
}

func toUUID(value string) (pgtype.UUID, error) {
	parsed, err := uuid.Parse(value)
	if err != nil {
		return pgtype.UUID{}, err
	}
	return pgtype.UUID{Bytes: parsed, Valid: true}, nil
}

func uuidString(id pgtype.UUID) string {
	if !id.Valid {
		return ""
	}
	return uuid.UUID(id.Bytes).String()
}

// ToUUID converts a canonical UUID string into a pgtype.UUID.
func ToUUID(value string) (pgtype.UUID, error) {
	return toUUID(value)
}

// UUIDString converts a pgtype.UUID into a canonical string.
func UUIDString(id pgtype.UUID) string {
	return uuidString(id)
}

// UUIDEqual reports whether two UUID values are both valid and identical.
func UUIDEqual(a, b pgtype.UUID) bool {
	return a.Valid && b.Valid && a.Bytes == b.Bytes
}

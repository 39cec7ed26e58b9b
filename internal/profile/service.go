package profile

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/hanbutik/backend-butik/internal/cart"
	dbgen "github.com/hanbutik/backend-butik/internal/db/gen"
	"github.com/hanbutik/backend-butik/internal/loyalty"
	"github.com/hanbutik/backend-butik/internal/tier"
)

// ErrNotFound indicates the user does not exist.
var ErrNotFound = errors.New("profile: user not found")

// Querier captures the persistence operations profile management needs.
type Querier interface {
	GetUserByID(ctx context.Context, id pgtype.UUID) (dbgen.User, error)
	SetUserSpend(ctx context.Context, arg dbgen.SetUserSpendParams) (dbgen.User, error)
	UpdateUserTier(ctx context.Context, arg dbgen.UpdateUserTierParams) error
}

// Benefits mirrors the loyalty policy for API responses.
type Benefits struct {
	BaseDiscountBps int32 `json:"baseDiscountBps"`
	ExtraCapBps     int32 `json:"extraCapBps"`
	FreeShipping    bool  `json:"freeShipping"`
	CanNegotiate    bool  `json:"canNegotiate"`
}

// Progress describes how far the customer is from the next tier.
type Progress struct {
	NextTier  string `json:"nextTier,omitempty"`
	Remaining int64  `json:"remaining,omitempty"`
	AtTop     bool   `json:"atTop"`
}

// View is the customer profile payload.
type View struct {
	ID         string   `json:"id"`
	Email      string   `json:"email"`
	Name       string   `json:"name"`
	Role       string   `json:"role"`
	Tier       string   `json:"tier"`
	TotalSpent int64    `json:"totalSpent"`
	Benefits   Benefits `json:"benefits"`
	Progress   Progress `json:"progress"`
}

// Service assembles customer profiles with loyalty state.
type Service struct {
	Q Querier
}

// Profile loads the customer's profile with tier benefits and progress.
func (s Service) Profile(ctx context.Context, userID string) (View, error) {
	uid, err := cart.ToUUID(userID)
	if err != nil {
		return View{}, ErrNotFound
	}
	user, err := s.Q.GetUserByID(ctx, uid)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return View{}, ErrNotFound
		}
		return View{}, fmt.Errorf("profile: fetch user: %w", err)
	}
	return viewOf(user), nil
}

// OverrideSpend replaces a customer's lifetime spend and recomputes their
// tier from the new amount.
func (s Service) OverrideSpend(ctx context.Context, userID string, totalSpent int64) (View, error) {
	if totalSpent < 0 {
		totalSpent = 0
	}
	uid, err := cart.ToUUID(userID)
	if err != nil {
		return View{}, ErrNotFound
	}
	user, err := s.Q.SetUserSpend(ctx, dbgen.SetUserSpendParams{ID: uid, TotalSpent: totalSpent})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return View{}, ErrNotFound
		}
		return View{}, fmt.Errorf("profile: set spend: %w", err)
	}
	if next := tier.Compute(user.TotalSpent); next != tier.Parse(user.Tier) {
		if err := s.Q.UpdateUserTier(ctx, dbgen.UpdateUserTierParams{ID: user.ID, Tier: string(next)}); err != nil {
			return View{}, fmt.Errorf("profile: update tier: %w", err)
		}
		user.Tier = string(next)
	}
	return viewOf(user), nil
}

func viewOf(user dbgen.User) View {
	t := tier.Parse(user.Tier)
	benefits := loyalty.For(t)
	next, remaining, ok := tier.Progress(user.TotalSpent)
	progress := Progress{AtTop: !ok}
	if ok {
		progress.NextTier = string(next)
		progress.Remaining = remaining
	}
	return View{
		ID:         cart.UUIDString(user.ID),
		Email:      user.Email,
		Name:       user.Name,
		Role:       user.Role,
		Tier:       string(t),
		TotalSpent: user.TotalSpent,
		Benefits: Benefits{
			BaseDiscountBps: benefits.BaseDiscountBps,
			ExtraCapBps:     benefits.ExtraCapBps,
			FreeShipping:    benefits.FreeShipping,
			CanNegotiate:    benefits.CanNegotiate,
		},
		Progress: progress,
	}
}

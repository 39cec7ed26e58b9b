package profile_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/require"

	dbgen "github.com/hanbutik/backend-butik/internal/db/gen"
	"github.com/hanbutik/backend-butik/internal/profile"
	"github.com/hanbutik/backend-butik/internal/tier"
)

type stubUsers struct {
	user dbgen.User
}

func (s *stubUsers) GetUserByID(_ context.Context, id pgtype.UUID) (dbgen.User, error) {
	if s.user.ID != id {
		return dbgen.User{}, pgx.ErrNoRows
	}
	return s.user, nil
}

func (s *stubUsers) SetUserSpend(_ context.Context, arg dbgen.SetUserSpendParams) (dbgen.User, error) {
	if s.user.ID != arg.ID {
		return dbgen.User{}, pgx.ErrNoRows
	}
	s.user.TotalSpent = arg.TotalSpent
	return s.user, nil
}

func (s *stubUsers) UpdateUserTier(_ context.Context, arg dbgen.UpdateUserTierParams) error {
	s.user.Tier = arg.Tier
	return nil
}

func newUser(spend int64, t tier.Tier) *stubUsers {
	return &stubUsers{user: dbgen.User{
		ID:         pgtype.UUID{Bytes: uuid.New(), Valid: true},
		Email:      "ayse@example.com",
		Name:       "Ayse",
		Role:       "customer",
		TotalSpent: spend,
		Tier:       string(t),
	}}
}

func TestProfileIncludesProgress(t *testing.T) {
	store := newUser(250_000, tier.Bronze)
	svc := profile.Service{Q: store}

	view, err := svc.Profile(context.Background(), uuid.UUID(store.user.ID.Bytes).String())
	require.NoError(t, err)
	require.Equal(t, string(tier.Bronze), view.Tier)
	require.Equal(t, int32(500), view.Benefits.BaseDiscountBps)
	require.False(t, view.Benefits.CanNegotiate)
	require.Equal(t, string(tier.Silver), view.Progress.NextTier)
	require.Equal(t, int64(350_000), view.Progress.Remaining)
}

func TestProfileGoldAtTop(t *testing.T) {
	store := newUser(2_000_000, tier.Gold)
	svc := profile.Service{Q: store}

	view, err := svc.Profile(context.Background(), uuid.UUID(store.user.ID.Bytes).String())
	require.NoError(t, err)
	require.True(t, view.Progress.AtTop)
	require.True(t, view.Benefits.CanNegotiate)
	require.Equal(t, int32(1000), view.Benefits.ExtraCapBps)
}

func TestOverrideSpendRecomputesTier(t *testing.T) {
	store := newUser(0, tier.Standard)
	svc := profile.Service{Q: store}

	view, err := svc.OverrideSpend(context.Background(), uuid.UUID(store.user.ID.Bytes).String(), 700_000)
	require.NoError(t, err)
	require.Equal(t, string(tier.Silver), view.Tier)
	require.Equal(t, int64(700_000), view.TotalSpent)
	require.Equal(t, string(tier.Silver), store.user.Tier)
}

func TestOverrideSpendClampsNegative(t *testing.T) {
	store := newUser(500_000, tier.Silver)
	svc := profile.Service{Q: store}

	view, err := svc.OverrideSpend(context.Background(), uuid.UUID(store.user.ID.Bytes).String(), -10)
	require.NoError(t, err)
	require.Equal(t, int64(0), view.TotalSpent)
	require.Equal(t, string(tier.Standard), view.Tier)
}

func TestProfileUnknownUser(t *testing.T) {
	svc := profile.Service{Q: newUser(0, tier.Standard)}

	_, err := svc.Profile(context.Background(), uuid.NewString())
	require.ErrorIs(t, err, profile.ErrNotFound)
}

package negotiation_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	dbgen "github.com/hanbutik/backend-butik/internal/db/gen"
	"github.com/hanbutik/backend-butik/internal/negotiation"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to dbgen.OrderStatus
		ok       bool
	}{
		{dbgen.OrderStatusREQUESTED, dbgen.OrderStatusCOUNTEROFFERED, true},
		{dbgen.OrderStatusREQUESTED, dbgen.OrderStatusADMINAPPROVED, true},
		{dbgen.OrderStatusREQUESTED, dbgen.OrderStatusADMINREJECTED, true},
		{dbgen.OrderStatusREQUESTED, dbgen.OrderStatusACCEPTED, false},
		{dbgen.OrderStatusCOUNTEROFFERED, dbgen.OrderStatusACCEPTED, true},
		{dbgen.OrderStatusCOUNTEROFFERED, dbgen.OrderStatusCUSTOMERREJECTED, true},
		{dbgen.OrderStatusCOUNTEROFFERED, dbgen.OrderStatusADMINAPPROVED, false},
		{dbgen.OrderStatusACCEPTED, dbgen.OrderStatusADMINAPPROVED, false},
		{dbgen.OrderStatusADMINREJECTED, dbgen.OrderStatusREQUESTED, false},
	}
	for _, tc := range cases {
		require.Equal(t, tc.ok, negotiation.CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestTerminalStates(t *testing.T) {
	terminal := []dbgen.OrderStatus{
		dbgen.OrderStatusACCEPTED,
		dbgen.OrderStatusCUSTOMERREJECTED,
		dbgen.OrderStatusADMINAPPROVED,
		dbgen.OrderStatusADMINREJECTED,
	}
	for _, s := range terminal {
		require.True(t, negotiation.IsTerminal(s), s)
		require.False(t, negotiation.IsPending(s), s)
	}
	for _, s := range []dbgen.OrderStatus{dbgen.OrderStatusREQUESTED, dbgen.OrderStatusCOUNTEROFFERED} {
		require.False(t, negotiation.IsTerminal(s), s)
		require.True(t, negotiation.IsPending(s), s)
	}
}

func TestIsAccepted(t *testing.T) {
	require.True(t, negotiation.IsAccepted(dbgen.OrderStatusACCEPTED))
	require.True(t, negotiation.IsAccepted(dbgen.OrderStatusADMINAPPROVED))
	require.False(t, negotiation.IsAccepted(dbgen.OrderStatusCUSTOMERREJECTED))
	require.False(t, negotiation.IsAccepted(dbgen.OrderStatusREQUESTED))
}

package negotiation

import (
	dbgen "github.com/hanbutik/backend-butik/internal/db/gen"
)

var transitions = map[dbgen.OrderStatus][]dbgen.OrderStatus{
	dbgen.OrderStatusREQUESTED: {
		dbgen.OrderStatusCOUNTEROFFERED,
		dbgen.OrderStatusADMINAPPROVED,
		dbgen.OrderStatusADMINREJECTED,
	},
	dbgen.OrderStatusCOUNTEROFFERED: {
		dbgen.OrderStatusACCEPTED,
		dbgen.OrderStatusCUSTOMERREJECTED,
	},
}

// CanTransition reports whether the negotiation state machine allows the
// order to move from one status to another.
func CanTransition(from, to dbgen.OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether a status permits no further transitions.
func IsTerminal(s dbgen.OrderStatus) bool {
	switch s {
	case dbgen.OrderStatusACCEPTED,
		dbgen.OrderStatusCUSTOMERREJECTED,
		dbgen.OrderStatusADMINAPPROVED,
		dbgen.OrderStatusADMINREJECTED:
		return true
	}
	return false
}

// IsAccepted reports whether a terminal status results in a payable order.
func IsAccepted(s dbgen.OrderStatus) bool {
	return s == dbgen.OrderStatusACCEPTED || s == dbgen.OrderStatusADMINAPPROVED
}

// IsPending reports whether the order still awaits a decision from either side.
func IsPending(s dbgen.OrderStatus) bool {
	return s == dbgen.OrderStatusREQUESTED || s == dbgen.OrderStatusCOUNTEROFFERED
}

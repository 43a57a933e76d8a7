package booking

import (
	bookingModel "localserve/models/booking"
	userModel "localserve/models/user"
)

// roleSet is the set of actor roles permitted to drive one edge.
type roleSet map[userModel.Role]bool

func roles(rs ...userModel.Role) roleSet {
	set := make(roleSet, len(rs))
	for _, r := range rs {
		set[r] = true
	}
	return set
}

var (
	vendorOrAdmin = roles(userModel.RoleVendor, userModel.RoleAdmin)
	anyActor      = roles(userModel.RoleCustomer, userModel.RoleVendor, userModel.RoleAdmin)
)

// transitionTable maps (current status, target status) to the roles allowed
// to perform that edge. Absence of an edge means the target is unreachable
// from the current status; in_progress is reachable only through job-OTP
// verification, never through the generic transition path.
var transitionTable = map[bookingModel.Status]map[bookingModel.Status]roleSet{
	bookingModel.StatusRequested: {
		bookingModel.StatusAccepted:  vendorOrAdmin,
		bookingModel.StatusRejected:  vendorOrAdmin,
		bookingModel.StatusCancelled: anyActor,
	},
	bookingModel.StatusAccepted: {
		bookingModel.StatusOnTheWay:  vendorOrAdmin,
		bookingModel.StatusCancelled: anyActor,
	},
	bookingModel.StatusOnTheWay: {
		bookingModel.StatusArrived:   vendorOrAdmin,
		bookingModel.StatusCancelled: anyActor,
	},
	bookingModel.StatusArrived: {
		bookingModel.StatusCancelled: anyActor,
	},
	bookingModel.StatusInProgress: {
		bookingModel.StatusCompleted: vendorOrAdmin,
		bookingModel.StatusCancelled: anyActor,
	},
}

// CanTransition reports whether the edge exists and whether the role may
// drive it.
func CanTransition(from, to bookingModel.Status, role userModel.Role) (reachable, allowed bool) {
	edges, ok := transitionTable[from]
	if !ok {
		return false, false
	}
	rs, ok := edges[to]
	if !ok {
		return false, false
	}
	return true, rs[role]
}

package reconcile

import (
	"sort"

	"github.com/Flarenzy/netreconciler/internal/domain"
)

// SubnetPlan is the set of driver operations that converge the actual subnets
// of a network to the desired ones.
type SubnetPlan struct {
	Create []domain.Subnet
	Delete []domain.Subnet
	// Update holds desired subnets whose CIDR or boot server diverge.
	Update []domain.Subnet
	// Common holds the desired side of subnets present on both sides.
	Common []domain.Subnet
}

// PortChange pairs a desired port with its diverging actual counterpart.
type PortChange struct {
	Desired domain.Port
	Actual  domain.Port
}

type PortPlan struct {
	Create []domain.Port
	Delete []domain.Port
	Update []PortChange
}

func (p PortPlan) Empty() bool {
	return len(p.Create) == 0 && len(p.Delete) == 0 && len(p.Update) == 0
}

// PlanSubnets diffs subnets by identifier.
func PlanSubnets(desired, actual []domain.Subnet) SubnetPlan {
	actualByID := make(map[int64]domain.Subnet, len(actual))
	for _, s := range actual {
		actualByID[s.ID] = s
	}
	desiredIDs := make(map[int64]struct{}, len(desired))

	var plan SubnetPlan
	for _, want := range desired {
		desiredIDs[want.ID] = struct{}{}
		got, ok := actualByID[want.ID]
		if !ok {
			plan.Create = append(plan.Create, want)
			continue
		}
		plan.Common = append(plan.Common, want)
		if subnetDiverges(want, got) {
			plan.Update = append(plan.Update, want)
		}
	}
	for _, got := range actual {
		if _, ok := desiredIDs[got.ID]; !ok {
			plan.Delete = append(plan.Delete, got)
		}
	}

	sortSubnets(plan.Create)
	sortSubnets(plan.Delete)
	sortSubnets(plan.Update)
	sortSubnets(plan.Common)
	return plan
}

// PlanPorts diffs the ports of one subnet by identifier.
func PlanPorts(desired, actual []domain.Port) PortPlan {
	actualByID := make(map[domain.PortID]domain.Port, len(actual))
	for _, p := range actual {
		actualByID[p.ID] = p
	}
	desiredIDs := make(map[domain.PortID]struct{}, len(desired))

	var plan PortPlan
	for _, want := range desired {
		desiredIDs[want.ID] = struct{}{}
		got, ok := actualByID[want.ID]
		if !ok {
			plan.Create = append(plan.Create, want)
			continue
		}
		if portDiverges(want, got) {
			plan.Update = append(plan.Update, PortChange{Desired: want, Actual: got})
		}
	}
	for _, got := range actual {
		if _, ok := desiredIDs[got.ID]; !ok {
			plan.Delete = append(plan.Delete, got)
		}
	}

	sortPorts(plan.Create)
	sortPorts(plan.Delete)
	sort.Slice(plan.Update, func(i, j int) bool { return plan.Update[i].Desired.ID < plan.Update[j].Desired.ID })
	return plan
}

func subnetDiverges(desired, actual domain.Subnet) bool {
	return desired.CIDR != actual.CIDR || desired.BootServer != actual.BootServer
}

func portDiverges(desired, actual domain.Port) bool {
	return desired.Status != actual.Status || desired.IPv4 != actual.IPv4 || desired.Mask != actual.Mask
}

func sortSubnets(s []domain.Subnet) {
	sort.Slice(s, func(i, j int) bool { return s[i].ID < s[j].ID })
}

func sortPorts(p []domain.Port) {
	sort.Slice(p, func(i, j int) bool { return p[i].ID < p[j].ID })
}

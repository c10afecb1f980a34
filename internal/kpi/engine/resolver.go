package engine

import (
	"sort"

	workforcedomain "github.com/smallbiznis/workforcekpi/internal/workforce/domain"
)

// Resolver answers which organizational units a fact row may join to: units
// of the filtered company that are not deleted and, when a unit filter is
// set, are members of it.
type Resolver struct {
	names map[int64]string
}

func NewResolver(units []workforcedomain.OrganizationalUnit, companyID int64, unitIDs []int64) *Resolver {
	var allowed map[int64]struct{}
	if len(unitIDs) > 0 {
		allowed = make(map[int64]struct{}, len(unitIDs))
		for _, id := range unitIDs {
			allowed[id] = struct{}{}
		}
	}

	names := make(map[int64]string, len(units))
	for _, unit := range units {
		if unit.IsDeleted || unit.CompanyID != companyID {
			continue
		}
		if allowed != nil {
			if _, ok := allowed[unit.ID]; !ok {
				continue
			}
		}
		names[unit.ID] = unit.Name
	}
	return &Resolver{names: names}
}

// Resolve reports whether the unit id is visible through the filter.
func (r *Resolver) Resolve(unitID int64) bool {
	_, ok := r.names[unitID]
	return ok
}

func (r *Resolver) Name(unitID int64) string {
	return r.names[unitID]
}

// UnitIDs returns the visible unit ids in ascending order.
func (r *Resolver) UnitIDs() []int64 {
	ids := make([]int64, 0, len(r.names))
	for id := range r.names {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
